package ledger

import (
	"context"
	"fmt"
	"iter"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// CurrentBalance devuelve el saldo del artículo en la bodega (0 si nunca tuvo movimientos).
func (e *Engine) CurrentBalance(ctx context.Context, itemID, warehouseID string) (decimal.Decimal, error) {
	item, err := e.read.Items.GetByID(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	wh, err := e.read.Warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil || wh == nil {
		return decimal.Zero, domain.ErrNotFound
	}
	bal, err := e.read.Balances.Get(ctx, itemID, warehouseID)
	if err != nil {
		return decimal.Zero, err
	}
	return bal.Quantity, nil
}

// MovementHistory recorre el kardex filtrado en orden de creación. La secuencia es perezosa
// (lee por páginas), finita y puede recorrerse de nuevo: cada recorrido vuelve a consultar.
func (e *Engine) MovementHistory(ctx context.Context, filter repository.MovementFilter) iter.Seq2[*entity.Movement, error] {
	return func(yield func(*entity.Movement, error) bool) {
		if filter.Kind != "" && !filter.Kind.Valid() {
			yield(nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, filter.Kind))
			return
		}
		var after *repository.MovementCursor
		for {
			page, err := e.read.Movements.Page(ctx, filter, after, e.pageSize)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, m := range page {
				if !yield(m, nil) {
					return
				}
			}
			if len(page) < e.pageSize {
				return
			}
			last := page[len(page)-1]
			after = &repository.MovementCursor{CreatedAt: last.CreatedAt, Seq: last.Seq}
		}
	}
}

// MovementPage devuelve una página del kardex posterior a after (nil = desde el inicio).
// limit se acota al tamaño de página del motor.
func (e *Engine) MovementPage(ctx context.Context, filter repository.MovementFilter, after *repository.MovementCursor, limit int) ([]*entity.Movement, error) {
	if filter.Kind != "" && !filter.Kind.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, filter.Kind)
	}
	if limit <= 0 || limit > e.pageSize {
		limit = e.pageSize
	}
	return e.read.Movements.Page(ctx, filter, after, limit)
}

// LowStockAlert saldo por debajo del mínimo del artículo.
type LowStockAlert struct {
	ItemID      string
	ItemCode    string
	ItemName    string
	WarehouseID string
	Quantity    decimal.Decimal
	MinStock    decimal.Decimal
	Deficit     decimal.Decimal
}

// LowStock lista los saldos por debajo de Item.MinStock (warehouseID vacío = todas las bodegas),
// mayor déficit primero. Sólo considera artículos activos con mínimo definido.
func (e *Engine) LowStock(ctx context.Context, warehouseID string) ([]LowStockAlert, error) {
	balances, err := e.read.Balances.List(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	items := make(map[string]*entity.Item)
	alerts := make([]LowStockAlert, 0)
	for _, b := range balances {
		item, ok := items[b.ItemID]
		if !ok {
			item, err = e.read.Items.GetByID(ctx, b.ItemID)
			if err != nil {
				return nil, err
			}
			items[b.ItemID] = item
		}
		if item == nil || !item.Active || !item.MinStock.IsPositive() {
			continue
		}
		if b.Quantity.LessThan(item.MinStock) {
			alerts = append(alerts, LowStockAlert{
				ItemID:      item.ID,
				ItemCode:    item.Code,
				ItemName:    item.Name,
				WarehouseID: b.WarehouseID,
				Quantity:    b.Quantity,
				MinStock:    item.MinStock,
				Deficit:     item.MinStock.Sub(b.Quantity),
			})
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Deficit.GreaterThan(alerts[j].Deficit)
	})
	return alerts, nil
}

// Drift descuadre entre el saldo cacheado y la suma del kardex de un par.
type Drift struct {
	ItemID      string
	WarehouseID string
	Balance     decimal.Decimal
	LedgerSum   decimal.Decimal
}

// Reconcile verifica que cada saldo sea igual a la suma de sus movimientos. Un descuadre indica
// corrupción del kardex: se registra en log como error y se devuelve ErrInvariantViolation.
func (e *Engine) Reconcile(ctx context.Context) ([]Drift, error) {
	balances, err := e.read.Balances.List(ctx, "")
	if err != nil {
		return nil, err
	}
	sums, err := e.read.Movements.SumByPair(ctx)
	if err != nil {
		return nil, err
	}
	var drifts []Drift
	seen := make(map[entity.BalanceKey]struct{}, len(balances))
	for _, b := range balances {
		key := b.Key()
		seen[key] = struct{}{}
		sum := sums[key]
		if !sum.Equal(b.Quantity) {
			drifts = append(drifts, Drift{ItemID: b.ItemID, WarehouseID: b.WarehouseID, Balance: b.Quantity, LedgerSum: sum})
		}
	}
	for key, sum := range sums {
		if _, ok := seen[key]; ok || sum.IsZero() {
			continue
		}
		drifts = append(drifts, Drift{ItemID: key.ItemID, WarehouseID: key.WarehouseID, Balance: decimal.Zero, LedgerSum: sum})
	}
	if len(drifts) == 0 {
		return nil, nil
	}
	for _, d := range drifts {
		e.log.Error().
			Str("item_id", d.ItemID).
			Str("warehouse_id", d.WarehouseID).
			Str("balance", d.Balance.String()).
			Str("ledger_sum", d.LedgerSum.String()).
			Msg("descuadre entre saldo y kardex")
	}
	return drifts, fmt.Errorf("%w: %d pares descuadrados", domain.ErrInvariantViolation, len(drifts))
}
