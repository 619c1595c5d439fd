package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

func TestReversalKind(t *testing.T) {
	assert.Equal(t, entity.MovementPurchaseReversal, ledger.ReversalKind(entity.MovementPurchaseReceive))
	assert.Equal(t, entity.MovementSaleReversal, ledger.ReversalKind(entity.MovementSaleFulfill))
	assert.Equal(t, entity.MovementAdjustmentReversal, ledger.ReversalKind(entity.MovementAdjustment))
	assert.Equal(t, entity.MovementTransferIn, ledger.ReversalKind(entity.MovementTransferOut))
	assert.Equal(t, entity.MovementTransferOut, ledger.ReversalKind(entity.MovementTransferIn))
}

func TestOrderReversals_Compra(t *testing.T) {
	o := &entity.Order{
		Kind:        entity.OrderKindPurchase,
		WarehouseID: "w1",
		Lines: []*entity.OrderLine{
			{ID: "l1", ItemID: "x", QtyOrdered: d(100), QtyProgress: d(100)},
			{ID: "l2", ItemID: "y", QtyOrdered: d(10)},
		},
	}
	out := ledger.OrderReversals(o)
	require.Len(t, out, 1, "solo las líneas con avance se reversan")
	assert.Equal(t, "l1", out[0].LineRef)
	assert.Equal(t, entity.MovementPurchaseReversal, out[0].Kind)
	assert.True(t, out[0].Change.Equal(d(-100)), "el reverso de una compra resta")
}

func TestOrderReversals_Venta(t *testing.T) {
	o := &entity.Order{
		Kind:        entity.OrderKindSale,
		WarehouseID: "w1",
		Lines:       []*entity.OrderLine{{ID: "l1", ItemID: "x", QtyOrdered: d(50), QtyProgress: d(20)}},
	}
	out := ledger.OrderReversals(o)
	require.Len(t, out, 1)
	assert.Equal(t, entity.MovementSaleReversal, out[0].Kind)
	assert.True(t, out[0].Change.Equal(d(20)), "el reverso de una venta devuelve stock")
}

func TestTransferReversals(t *testing.T) {
	tr := &entity.Transfer{
		SourceWarehouseID: "a",
		DestWarehouseID:   "b",
		Rows: []*entity.TransferRow{
			{ID: "r1", ItemID: "x", QtyRequested: d(20), QtySent: d(20), QtyReceived: d(20)},
			{ID: "r2", ItemID: "y", QtyRequested: d(5)},
		},
	}
	out := ledger.TransferReversals(tr)
	require.Len(t, out, 2)

	assert.Equal(t, "b", out[0].WarehouseID)
	assert.Equal(t, entity.MovementTransferOut, out[0].Kind)
	assert.True(t, out[0].Change.Equal(d(-20)))

	assert.Equal(t, "a", out[1].WarehouseID)
	assert.Equal(t, entity.MovementTransferIn, out[1].Kind)
	assert.True(t, out[1].Change.Equal(d(20)))
}

func TestAdjustmentChange(t *testing.T) {
	assert.True(t, ledger.AdjustmentChange(entity.AdjustmentAdd, d(7)).Equal(d(7)))
	assert.True(t, ledger.AdjustmentChange(entity.AdjustmentSubtract, d(7)).Equal(d(-7)))
}
