package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementFilter filtros opcionales del kardex (campos vacíos no filtran).
type MovementFilter struct {
	ItemID        string
	WarehouseID   string
	Kind          entity.MovementKind
	ReferenceType string
	ReferenceID   string
	BatchID       string
	From          *time.Time
	To            *time.Time
}

// MovementCursor posición (exclusiva) desde la que continuar una lectura paginada.
type MovementCursor struct {
	CreatedAt time.Time
	Seq       int64
}

// MovementRepository puerto del kardex: sólo inserción y lectura.
type MovementRepository interface {
	// Create inserta el movimiento y completa ID, Seq y CreatedAt si están vacíos.
	Create(ctx context.Context, movement *entity.Movement) error
	// Page devuelve hasta limit movimientos posteriores a after, en orden (CreatedAt, Seq).
	Page(ctx context.Context, filter MovementFilter, after *MovementCursor, limit int) ([]*entity.Movement, error)
	// SumByPair suma QtyChange por (artículo, bodega) sobre todo el kardex.
	SumByPair(ctx context.Context) (map[entity.BalanceKey]decimal.Decimal, error)
}
