package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProgressKind tipo de movimiento que genera el avance de una línea de la orden.
func ProgressKind(kind entity.OrderKind) entity.MovementKind {
	if kind == entity.OrderKindSale {
		return entity.MovementSaleFulfill
	}
	return entity.MovementPurchaseReceive
}

// ProgressChange cambio con signo que produce avanzar qty en una línea:
// entrada para compras, salida para ventas.
func ProgressChange(kind entity.OrderKind, qty decimal.Decimal) decimal.Decimal {
	if kind == entity.OrderKindSale {
		return qty.Neg()
	}
	return qty
}

// ReversalKind tipo del movimiento inverso. Los traslados no tienen tipo de reverso
// propio: el inverso de una salida es una entrada y viceversa.
func ReversalKind(kind entity.MovementKind) entity.MovementKind {
	switch kind {
	case entity.MovementPurchaseReceive:
		return entity.MovementPurchaseReversal
	case entity.MovementSaleFulfill:
		return entity.MovementSaleReversal
	case entity.MovementAdjustment:
		return entity.MovementAdjustmentReversal
	case entity.MovementTransferOut:
		return entity.MovementTransferIn
	case entity.MovementTransferIn:
		return entity.MovementTransferOut
	}
	return kind
}

// Posting es un cambio de saldo pendiente de aplicar (movimiento + saldo).
type Posting struct {
	ItemID      string
	WarehouseID string
	Kind        entity.MovementKind
	Change      decimal.Decimal
	LineRef     string
}

// OrderReversals calcula los movimientos inversos del avance ya aplicado en la orden.
// Líneas sin avance no generan nada.
func OrderReversals(o *entity.Order) []Posting {
	var out []Posting
	progressKind := ProgressKind(o.Kind)
	for _, l := range o.Lines {
		if !l.QtyProgress.IsPositive() {
			continue
		}
		out = append(out, Posting{
			ItemID:      l.ItemID,
			WarehouseID: o.WarehouseID,
			Kind:        ReversalKind(progressKind),
			Change:      ProgressChange(o.Kind, l.QtyProgress).Neg(),
			LineRef:     l.ID,
		})
	}
	return out
}

// TransferReversals calcula los inversos de lo ya enviado: primero retira de la bodega
// destino y luego devuelve a la bodega origen.
func TransferReversals(t *entity.Transfer) []Posting {
	var out []Posting
	for _, r := range t.Rows {
		if !r.QtySent.IsPositive() {
			continue
		}
		out = append(out,
			Posting{
				ItemID:      r.ItemID,
				WarehouseID: t.DestWarehouseID,
				Kind:        ReversalKind(entity.MovementTransferIn),
				Change:      r.QtyReceived.Neg(),
				LineRef:     r.ID,
			},
			Posting{
				ItemID:      r.ItemID,
				WarehouseID: t.SourceWarehouseID,
				Kind:        ReversalKind(entity.MovementTransferOut),
				Change:      r.QtySent,
				LineRef:     r.ID,
			},
		)
	}
	return out
}

// AdjustmentChange cambio con signo de una fila de ajuste.
func AdjustmentChange(dir entity.AdjustmentDirection, qty decimal.Decimal) decimal.Decimal {
	if dir == entity.AdjustmentSubtract {
		return qty.Neg()
	}
	return qty
}
