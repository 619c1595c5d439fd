package ledger

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Repos agrupa los repositorios del motor. Dentro de TxRunner.Run todos están atados a la
// misma transacción.
type Repos struct {
	Items       repository.ItemRepository
	Warehouses  repository.WarehouseRepository
	Balances    repository.BalanceRepository
	Movements   repository.MovementRepository
	Orders      repository.OrderRepository
	Transfers   repository.TransferRepository
	Adjustments repository.AdjustmentRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil, Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// Locker serializa el acceso a llaves (pares artículo-bodega). Acquire bloquea todas las
// llaves o ninguna; release libera las obtenidas.
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}
