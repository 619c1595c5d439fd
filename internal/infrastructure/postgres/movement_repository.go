package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo kardex sobre PostgreSQL (usable con pool o tx). Sólo INSERT y SELECT.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `seq, id, item_id, warehouse_id, kind, reference_type, reference_id,
	qty_before, qty_change, qty_after, note, batch_id, actor, created_at`

// Create persiste un movimiento; la secuencia la asigna la base de datos.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO movements (id, item_id, warehouse_id, kind, reference_type, reference_id,
			qty_before, qty_change, qty_after, note, batch_id, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.ItemID, m.WarehouseID, string(m.Kind), m.ReferenceType, m.ReferenceID,
		m.QtyBefore, m.QtyChange, m.QtyAfter, m.Note, m.BatchID, m.Actor, m.CreatedAt,
	).Scan(&m.Seq)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%w: movimiento %s", domain.ErrInvalidInput, m.Kind)
		}
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// Page lectura por llave (created_at, seq): estable aunque se inserten movimientos entre páginas.
func (r *MovementRepo) Page(ctx context.Context, f repository.MovementFilter, after *repository.MovementCursor, limit int) ([]*entity.Movement, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ItemID != "" {
		add("item_id::text = $%d", f.ItemID)
	}
	if f.WarehouseID != "" {
		add("warehouse_id::text = $%d", f.WarehouseID)
	}
	if f.Kind != "" {
		add("kind = $%d", string(f.Kind))
	}
	if f.ReferenceType != "" {
		add("reference_type = $%d", f.ReferenceType)
	}
	if f.ReferenceID != "" {
		add("reference_id = $%d", f.ReferenceID)
	}
	if f.BatchID != "" {
		add("batch_id::text = $%d", f.BatchID)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at < $%d", *f.To)
	}
	if after != nil {
		args = append(args, after.CreatedAt, after.Seq)
		conds = append(conds, fmt.Sprintf("(created_at, seq) > ($%d, $%d)", len(args)-1, len(args)))
	}
	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	args = append(args, limit)
	query += fmt.Sprintf(` ORDER BY created_at, seq LIMIT $%d`, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("page movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		var kind string
		if err := rows.Scan(&m.Seq, &m.ID, &m.ItemID, &m.WarehouseID, &kind, &m.ReferenceType, &m.ReferenceID,
			&m.QtyBefore, &m.QtyChange, &m.QtyAfter, &m.Note, &m.BatchID, &m.Actor, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumByPair suma de qty_change agrupada por (artículo, bodega).
func (r *MovementRepo) SumByPair(ctx context.Context) (map[entity.BalanceKey]decimal.Decimal, error) {
	rows, err := r.q.Query(ctx, `
		SELECT item_id, warehouse_id, SUM(qty_change)
		FROM movements GROUP BY item_id, warehouse_id`)
	if err != nil {
		return nil, fmt.Errorf("sum movements: %w", err)
	}
	defer rows.Close()
	sums := make(map[entity.BalanceKey]decimal.Decimal)
	for rows.Next() {
		var k entity.BalanceKey
		var sum decimal.Decimal
		if err := rows.Scan(&k.ItemID, &k.WarehouseID, &sum); err != nil {
			return nil, fmt.Errorf("scan movement sum: %w", err)
		}
		sums[k] = sum
	}
	return sums, rows.Err()
}
