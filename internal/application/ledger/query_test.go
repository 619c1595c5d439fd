package ledger_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

func TestCurrentBalance(t *testing.T) {
	f := newFixture(t)
	x, w := f.item(t, "X", 0), f.warehouse(t, "W")
	assert.True(t, f.balance(t, x, w).IsZero(), "sin movimientos el saldo es cero")

	_, err := f.engine.CurrentBalance(f.ctx, "no-existe", w)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.engine.CurrentBalance(f.ctx, x, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMovementHistory_PaginaYSePuedeRepetir(t *testing.T) {
	f := newFixture(t, ledger.WithPageSize(2))
	x, w := f.item(t, "X", 0), f.warehouse(t, "W")
	for i := 0; i < 5; i++ {
		f.stock(t, x, w, int64(i+1))
	}

	first := f.history(t, repository.MovementFilter{ItemID: x})
	require.Len(t, first, 5)
	for i := 1; i < len(first); i++ {
		assert.Greater(t, first[i].Seq, first[i-1].Seq)
		assert.True(t, first[i].QtyBefore.Equal(first[i-1].QtyAfter), "cada movimiento encadena con el anterior")
	}
	second := f.history(t, repository.MovementFilter{ItemID: x})
	assert.Equal(t, first, second)

	// cortar el recorrido no consume más páginas
	n := 0
	for _, err := range f.engine.MovementHistory(f.ctx, repository.MovementFilter{}) {
		require.NoError(t, err)
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)

	assert.Empty(t, f.history(t, repository.MovementFilter{Kind: entity.MovementSaleFulfill}))
}

func TestMovementHistory_TipoInvalido(t *testing.T) {
	f := newFixture(t)
	for m, err := range f.engine.MovementHistory(f.ctx, repository.MovementFilter{Kind: "robo"}) {
		assert.Nil(t, m)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestLowStock_OrdenPorDeficit(t *testing.T) {
	f := newFixture(t)
	x, y, z, w := f.item(t, "X", 10), f.item(t, "Y", 5), f.item(t, "Z", 20), f.warehouse(t, "W")
	f.stock(t, x, w, 3)
	f.stock(t, y, w, 8)
	f.stock(t, z, w, 1)

	alerts, err := f.engine.LowStock(f.ctx, w)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	assert.Equal(t, "Z", alerts[0].ItemCode)
	assert.True(t, alerts[0].Deficit.Equal(d(19)))
	assert.Equal(t, "X", alerts[1].ItemCode)
	assert.True(t, alerts[1].Deficit.Equal(d(7)))

	alerts, err = f.engine.LowStock(f.ctx, "otra")
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestReconcile(t *testing.T) {
	f := newFixture(t)
	x, a, b := f.item(t, "X", 0), f.warehouse(t, "A"), f.warehouse(t, "B")
	f.stock(t, x, a, 50)
	tr := newTransfer(t, f, a, b, ledger.NewTransferRow{ItemID: x, QtyRequested: d(20)})
	_, err := f.engine.ProcessTransferRows(f.ctx, actor, tr.TransferNo, []ledger.RowProgress{{RowID: tr.Rows[0].ID, Qty: d(20)}})
	require.NoError(t, err)
	require.NoError(t, f.engine.ReverseAndRemoveTransfer(f.ctx, actor, tr.TransferNo))

	drifts, err := f.engine.Reconcile(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)

	// corrupción directa del saldo, por fuera del motor
	bal, err := f.store.Repos().Balances.Get(f.ctx, x, a)
	require.NoError(t, err)
	bal.Quantity = d(49)
	require.NoError(t, f.store.Repos().Balances.Upsert(f.ctx, bal))

	drifts, err = f.engine.Reconcile(f.ctx)
	assert.ErrorIs(t, err, domain.ErrInvariantViolation)
	require.Len(t, drifts, 1)
	assert.True(t, drifts[0].LedgerSum.Equal(d(50)))
	assert.True(t, drifts[0].Balance.Equal(d(49)))
}

func TestFulfillSaleLines_ConcurrenciaNoSobrevende(t *testing.T) {
	f := newFixture(t)
	x, w := f.item(t, "X", 0), f.warehouse(t, "W")
	f.stock(t, x, w, 10)
	o := f.order(t, entity.OrderKindSale, w, line(x, 20))
	lineID := o.Lines[0].ID

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok, denied int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.engine.FulfillSaleLines(f.ctx, actor, o.ID, []ledger.LineProgress{{LineID: lineID, Qty: d(1)}})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				denied++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 10, denied)
	assert.True(t, f.balance(t, x, w).IsZero())
	got, err := f.engine.GetOrder(f.ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, got.Lines[0].QtyProgress.Equal(d(10)))
	assert.Equal(t, entity.OrderStatusPartial, got.Status)

	drifts, err := f.engine.Reconcile(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}
