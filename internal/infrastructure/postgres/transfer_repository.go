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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados entre bodegas sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	query := `
		INSERT INTO transfers (transfer_no, source_warehouse_id, dest_warehouse_id, status, note, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		t.TransferNo, t.SourceWarehouseID, t.DestWarehouseID, string(t.Status), t.Note, t.CreatedBy, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	return r.insertRows(ctx, t.Rows)
}

func (r *TransferRepo) insertRows(ctx context.Context, rows []*entity.TransferRow) error {
	query := `
		INSERT INTO transfer_rows (id, transfer_no, item_id, position, qty_requested, qty_sent, qty_received, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, row := range rows {
		if _, err := r.q.Exec(ctx, query,
			row.ID, row.TransferNo, row.ItemID, row.Position, row.QtyRequested, row.QtySent, row.QtyReceived, string(row.Status),
		); err != nil {
			return fmt.Errorf("insert transfer row: %w", err)
		}
	}
	return nil
}

func (r *TransferRepo) get(ctx context.Context, no string, forUpdate bool) (*entity.Transfer, error) {
	query := `
		SELECT transfer_no, source_warehouse_id, dest_warehouse_id, status, note, created_by, created_at, updated_at
		FROM transfers WHERE transfer_no = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var t entity.Transfer
	var status string
	err := r.q.QueryRow(ctx, query, no).Scan(&t.TransferNo, &t.SourceWarehouseID, &t.DestWarehouseID, &status,
		&t.Note, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	t.Status = entity.TransferStatus(status)

	rows, err := r.q.Query(ctx, `
		SELECT id, transfer_no, item_id, position, qty_requested, qty_sent, qty_received, status
		FROM transfer_rows WHERE transfer_no = $1 ORDER BY position`, no)
	if err != nil {
		return nil, fmt.Errorf("get transfer rows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var row entity.TransferRow
		var rs string
		if err := rows.Scan(&row.ID, &row.TransferNo, &row.ItemID, &row.Position,
			&row.QtyRequested, &row.QtySent, &row.QtyReceived, &rs); err != nil {
			return nil, fmt.Errorf("scan transfer row: %w", err)
		}
		row.Status = entity.LineStatus(rs)
		t.Rows = append(t.Rows, &row)
	}
	return &t, rows.Err()
}

func (r *TransferRepo) GetByNo(ctx context.Context, no string) (*entity.Transfer, error) {
	return r.get(ctx, no, false)
}

func (r *TransferRepo) GetForUpdate(ctx context.Context, no string) (*entity.Transfer, error) {
	return r.get(ctx, no, true)
}

func (r *TransferRepo) UpdateHeader(ctx context.Context, t *entity.Transfer) error {
	cmd, err := r.q.Exec(ctx, `UPDATE transfers SET status = $2, note = $3, updated_at = $4 WHERE transfer_no = $1`,
		t.TransferNo, string(t.Status), t.Note, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TransferRepo) UpdateRow(ctx context.Context, row *entity.TransferRow) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE transfer_rows SET qty_sent = $2, qty_received = $3, status = $4 WHERE id = $1`,
		row.ID, row.QtySent, row.QtyReceived, string(row.Status))
	if err != nil {
		if isCheckViolation(err) {
			return domain.LineErr(row.ID, domain.ErrExceedsRequestedQuantity)
		}
		return fmt.Errorf("update transfer row: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TransferRepo) ReplaceRows(ctx context.Context, no string, rows []*entity.TransferRow) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM transfer_rows WHERE transfer_no = $1`, no); err != nil {
		return fmt.Errorf("delete transfer rows: %w", err)
	}
	return r.insertRows(ctx, rows)
}

func (r *TransferRepo) Delete(ctx context.Context, no string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM transfers WHERE transfer_no = $1`, no)
	if err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
