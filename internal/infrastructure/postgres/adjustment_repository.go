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

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo ajustes manuales sobre PostgreSQL.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

func (r *AdjustmentRepo) Create(ctx context.Context, adj *entity.Adjustment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO adjustments (adjustment_no, warehouse_id, direction, reason, batch_id, created_by, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		adj.AdjustmentNo, adj.WarehouseID, string(adj.Direction), adj.Reason, adj.BatchID, adj.CreatedBy, adj.ProcessedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert adjustment: %w", err)
	}
	for _, row := range adj.Rows {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO adjustment_rows (id, adjustment_no, item_id, position, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			row.ID, row.AdjustmentNo, row.ItemID, row.Position, row.Quantity,
		); err != nil {
			return fmt.Errorf("insert adjustment row: %w", err)
		}
	}
	return nil
}

func (r *AdjustmentRepo) GetByNo(ctx context.Context, no string) (*entity.Adjustment, error) {
	var adj entity.Adjustment
	var dir string
	err := r.q.QueryRow(ctx, `
		SELECT adjustment_no, warehouse_id, direction, reason, batch_id, created_by, processed_at
		FROM adjustments WHERE adjustment_no = $1`, no).Scan(
		&adj.AdjustmentNo, &adj.WarehouseID, &dir, &adj.Reason, &adj.BatchID, &adj.CreatedBy, &adj.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	adj.Direction = entity.AdjustmentDirection(dir)

	rows, err := r.q.Query(ctx, `
		SELECT id, adjustment_no, item_id, position, quantity
		FROM adjustment_rows WHERE adjustment_no = $1 ORDER BY position`, no)
	if err != nil {
		return nil, fmt.Errorf("get adjustment rows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row entity.AdjustmentRow
		if err := rows.Scan(&row.ID, &row.AdjustmentNo, &row.ItemID, &row.Position, &row.Quantity); err != nil {
			return nil, fmt.Errorf("scan adjustment row: %w", err)
		}
		adj.Rows = append(adj.Rows, &row)
	}
	return &adj, rows.Err()
}
