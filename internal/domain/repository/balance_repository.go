package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BalanceRepository define el puerto para consultar/actualizar saldos por (artículo, bodega).
// Los saldos se crean en forma perezosa con cantidad 0 y nunca se eliminan.
type BalanceRepository interface {
	// Get devuelve el saldo; si no existe devuelve un saldo en cero (sin persistirlo).
	Get(ctx context.Context, itemID, warehouseID string) (*entity.Balance, error)
	// GetForUpdate crea el saldo si no existe y bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, itemID, warehouseID string) (*entity.Balance, error)
	Upsert(ctx context.Context, balance *entity.Balance) error
	// List devuelve los saldos de la bodega (todas si warehouseID es vacío).
	List(ctx context.Context, warehouseID string) ([]*entity.Balance, error)
}
