package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación de BalanceRepository sobre PostgreSQL (usable con pool o tx).
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de saldos. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get obtiene el saldo actual de un artículo en una bodega.
func (r *BalanceRepo) Get(ctx context.Context, itemID, warehouseID string) (*entity.Balance, error) {
	query := `
		SELECT item_id, warehouse_id, quantity, updated_at
		FROM balances WHERE item_id = $1 AND warehouse_id = $2`
	var b entity.Balance
	err := r.q.QueryRow(ctx, query, itemID, warehouseID).Scan(&b.ItemID, &b.WarehouseID, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Balance{ItemID: itemID, WarehouseID: warehouseID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate crea la fila en cero si no existe y la bloquea (SELECT FOR UPDATE).
// Sin la inserción previa, dos transacciones sobre un par nuevo no tendrían fila que bloquear.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, itemID, warehouseID string) (*entity.Balance, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO balances (item_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (item_id, warehouse_id) DO NOTHING`, itemID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("init balance: %w", err)
	}
	query := `
		SELECT item_id, warehouse_id, quantity, updated_at
		FROM balances WHERE item_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	var b entity.Balance
	err = r.q.QueryRow(ctx, query, itemID, warehouseID).Scan(&b.ItemID, &b.WarehouseID, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get balance for update: %w", err)
	}
	return &b, nil
}

// Upsert inserta o actualiza la cantidad del par.
func (r *BalanceRepo) Upsert(ctx context.Context, b *entity.Balance) error {
	query := `
		INSERT INTO balances (item_id, warehouse_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id, warehouse_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, b.ItemID, b.WarehouseID, b.Quantity, b.UpdatedAt); err != nil {
		return fmt.Errorf("upsert balance: %w", err)
	}
	return nil
}

// List saldos de una bodega, o de todas si warehouseID es vacío.
func (r *BalanceRepo) List(ctx context.Context, warehouseID string) ([]*entity.Balance, error) {
	query := `
		SELECT item_id, warehouse_id, quantity, updated_at
		FROM balances
		WHERE ($1 = '' OR warehouse_id::text = $1)
		ORDER BY warehouse_id, item_id`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.Balance
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.ItemID, &b.WarehouseID, &b.Quantity, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
