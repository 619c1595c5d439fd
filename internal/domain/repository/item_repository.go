package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	// Update persiste item sólo si la versión almacenada es expectedVersion; en ese caso
	// incrementa item.Version. Si la versión no coincide devuelve domain.ErrConcurrentModification.
	Update(ctx context.Context, item *entity.Item, expectedVersion int) error
}
