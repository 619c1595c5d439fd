package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo órdenes de compra/venta sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta la cabecera y sus líneas.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (id, order_no, kind, status, counterparty_id, warehouse_id, total, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.OrderNo, string(o.Kind), string(o.Status), nullable(o.CounterpartyID), o.WarehouseID,
		o.Total, o.CreatedBy, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return r.insertLines(ctx, o.Lines)
}

func (r *OrderRepo) insertLines(ctx context.Context, lines []*entity.OrderLine) error {
	query := `
		INSERT INTO order_lines (id, order_id, item_id, position, qty_ordered, qty_progress, unit_price, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, l := range lines {
		if _, err := r.q.Exec(ctx, query,
			l.ID, l.OrderID, l.ItemID, l.Position, l.QtyOrdered, l.QtyProgress, l.UnitPrice, string(l.Status),
		); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

func (r *OrderRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Order, error) {
	if !isUUID(id) {
		return nil, nil
	}
	query := `
		SELECT id, order_no, kind, status, counterparty_id, warehouse_id, total, created_by, created_at, updated_at
		FROM orders WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var (
		o            entity.Order
		kind, status string
		counterparty *string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.OrderNo, &kind, &status, &counterparty, &o.WarehouseID,
		&o.Total, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Kind = entity.OrderKind(kind)
	o.Status = entity.OrderStatus(status)
	o.CounterpartyID = deref(counterparty)

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, item_id, position, qty_ordered, qty_progress, unit_price, status
		FROM order_lines WHERE order_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		var ls string
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ItemID, &l.Position, &l.QtyOrdered, &l.QtyProgress, &l.UnitPrice, &ls); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		l.Status = entity.LineStatus(ls)
		o.Lines = append(o.Lines, &l)
	}
	return &o, rows.Err()
}

// GetByID obtiene la orden con sus líneas.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate igual que GetByID pero bloquea la cabecera.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, id, true)
}

func (r *OrderRepo) UpdateHeader(ctx context.Context, o *entity.Order) error {
	cmd, err := r.q.Exec(ctx, `UPDATE orders SET status = $2, total = $3, updated_at = $4 WHERE id = $1`,
		o.ID, string(o.Status), o.Total, o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) UpdateLine(ctx context.Context, l *entity.OrderLine) error {
	cmd, err := r.q.Exec(ctx, `UPDATE order_lines SET qty_progress = $2, status = $3 WHERE id = $1`,
		l.ID, l.QtyProgress, string(l.Status))
	if err != nil {
		if isCheckViolation(err) {
			return domain.LineErr(l.ID, domain.ErrExceedsOrderedQuantity)
		}
		return fmt.Errorf("update order line: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) ReplaceLines(ctx context.Context, orderID string, lines []*entity.OrderLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_lines WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete order lines: %w", err)
	}
	return r.insertLines(ctx, lines)
}

// Delete elimina la orden; las líneas caen por ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
