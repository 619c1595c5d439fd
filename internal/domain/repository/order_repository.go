package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// OrderRepository persiste órdenes de compra/venta con sus líneas.
// GetByID y GetForUpdate devuelven (nil, nil) si la orden no existe.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la cabecera de la orden hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	// UpdateHeader persiste Status, Total y UpdatedAt.
	UpdateHeader(ctx context.Context, order *entity.Order) error
	UpdateLine(ctx context.Context, line *entity.OrderLine) error
	// ReplaceLines elimina las líneas existentes e inserta las nuevas.
	ReplaceLines(ctx context.Context, orderID string, lines []*entity.OrderLine) error
	Delete(ctx context.Context, id string) error
}
