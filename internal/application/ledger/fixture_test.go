package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

const actor = "user-test"

type fixture struct {
	ctx    context.Context
	store  *memory.Store
	engine *ledger.Engine
}

func newFixture(t *testing.T, opts ...ledger.Option) *fixture {
	t.Helper()
	store := memory.NewStore()
	return &fixture{
		ctx:    context.Background(),
		store:  store,
		engine: ledger.NewEngine(store, store.Repos(), lock.NewLocal(0), zerolog.Nop(), opts...),
	}
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func (f *fixture) item(t *testing.T, code string, minStock int64) string {
	t.Helper()
	now := time.Now().UTC()
	it := &entity.Item{
		ID: uuid.New().String(), Code: code, Name: "Artículo " + code, UnitMeasure: "UND",
		MinStock: d(minStock), Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.store.Repos().Items.Create(f.ctx, it))
	return it.ID
}

func (f *fixture) warehouse(t *testing.T, code string) string {
	t.Helper()
	now := time.Now().UTC()
	w := &entity.Warehouse{ID: uuid.New().String(), Code: code, Name: "Bodega " + code, Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, f.store.Repos().Warehouses.Create(f.ctx, w))
	return w.ID
}

func (f *fixture) deactivateWarehouse(t *testing.T, id string) {
	t.Helper()
	w, err := f.store.Repos().Warehouses.GetByID(f.ctx, id)
	require.NoError(t, err)
	w.Active = false
	require.NoError(t, f.store.Repos().Warehouses.Update(f.ctx, w))
}

func (f *fixture) deactivateItem(t *testing.T, id string) {
	t.Helper()
	it, err := f.store.Repos().Items.GetByID(f.ctx, id)
	require.NoError(t, err)
	it.Active = false
	require.NoError(t, f.store.Repos().Items.Update(f.ctx, it, it.Version))
}

func (f *fixture) balance(t *testing.T, itemID, whID string) decimal.Decimal {
	t.Helper()
	q, err := f.engine.CurrentBalance(f.ctx, itemID, whID)
	require.NoError(t, err)
	return q
}

func (f *fixture) stock(t *testing.T, itemID, whID string, qty int64) {
	t.Helper()
	_, err := f.engine.ApplyAdjustment(f.ctx, actor, whID, entity.AdjustmentAdd,
		[]ledger.AdjustmentLine{{ItemID: itemID, Qty: d(qty)}}, "saldo inicial")
	require.NoError(t, err)
}

func (f *fixture) history(t *testing.T, filter repository.MovementFilter) []*entity.Movement {
	t.Helper()
	var out []*entity.Movement
	for m, err := range f.engine.MovementHistory(f.ctx, filter) {
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

func (f *fixture) order(t *testing.T, kind entity.OrderKind, whID string, lines ...ledger.NewLine) *entity.Order {
	t.Helper()
	o, err := f.engine.CreateOrder(f.ctx, actor, ledger.NewOrder{
		Kind: kind, CounterpartyID: "tercero-1", WarehouseID: whID, Lines: lines,
	})
	require.NoError(t, err)
	return o
}

func line(itemID string, qty int64) ledger.NewLine {
	return ledger.NewLine{ItemID: itemID, QtyOrdered: d(qty), UnitPrice: d(1000)}
}
