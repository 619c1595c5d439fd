// Package memory implementa los repositorios del motor en memoria, con transacciones por copia:
// Run trabaja sobre un clon del estado y lo publica sólo si fn termina sin error.
// Se usa con STORE_DRIVER=memory y en los tests del motor.
package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var _ ledger.TxRunner = (*Store)(nil)

type state struct {
	items       map[string]*entity.Item
	warehouses  map[string]*entity.Warehouse
	balances    map[entity.BalanceKey]*entity.Balance
	movements   []*entity.Movement
	orders      map[string]*entity.Order
	transfers   map[string]*entity.Transfer
	adjustments map[string]*entity.Adjustment
	seq         int64
}

func newState() *state {
	return &state{
		items:       make(map[string]*entity.Item),
		warehouses:  make(map[string]*entity.Warehouse),
		balances:    make(map[entity.BalanceKey]*entity.Balance),
		orders:      make(map[string]*entity.Order),
		transfers:   make(map[string]*entity.Transfer),
		adjustments: make(map[string]*entity.Adjustment),
	}
}

// clone copia profunda. Los movimientos son inmutables una vez insertados: basta copiar el slice.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.items {
		c.items[k] = copyItem(v)
	}
	for k, v := range s.warehouses {
		w := *v
		c.warehouses[k] = &w
	}
	for k, v := range s.balances {
		b := *v
		c.balances[k] = &b
	}
	c.movements = append(make([]*entity.Movement, 0, len(s.movements)+16), s.movements...)
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.transfers {
		c.transfers[k] = copyTransfer(v)
	}
	for k, v := range s.adjustments {
		c.adjustments[k] = copyAdjustment(v)
	}
	c.seq = s.seq
	return c
}

// Store almacén en memoria. Las transacciones se serializan entre sí; las lecturas fuera de
// transacción ven siempre el último estado confirmado.
type Store struct {
	mu   sync.RWMutex // protege st
	txMu sync.Mutex   // una escritura a la vez
	st   *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre un clon del estado; si fn devuelve nil el clon pasa a ser el estado.
func (s *Store) Run(ctx context.Context, fn func(repos ledger.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.st.clone()
	s.mu.RUnlock()

	if err := fn(reposFor(&direct{st: work})); err != nil {
		return err
	}

	s.mu.Lock()
	s.st = work
	s.mu.Unlock()
	return nil
}

// Repos repositorios fuera de transacción: lecturas sobre el estado confirmado y escrituras
// sueltas (maestros) aplicadas de inmediato.
func (s *Store) Repos() ledger.Repos {
	return reposFor(&shared{store: s})
}

// access abstrae cómo un repositorio llega al estado: directo (dentro de Run) o compartido.
type access interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

type direct struct{ st *state }

func (d *direct) read(fn func(st *state) error) error  { return fn(d.st) }
func (d *direct) write(fn func(st *state) error) error { return fn(d.st) }

type shared struct{ store *Store }

func (a *shared) read(fn func(st *state) error) error {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()
	return fn(a.store.st)
}

// write aplica fn sobre un clon y lo publica sólo si no hubo error.
func (a *shared) write(fn func(st *state) error) error {
	a.store.txMu.Lock()
	defer a.store.txMu.Unlock()
	a.store.mu.RLock()
	work := a.store.st.clone()
	a.store.mu.RUnlock()
	if err := fn(work); err != nil {
		return err
	}
	a.store.mu.Lock()
	a.store.st = work
	a.store.mu.Unlock()
	return nil
}

func reposFor(a access) ledger.Repos {
	return ledger.Repos{
		Items:       &ItemRepo{a: a},
		Warehouses:  &WarehouseRepo{a: a},
		Balances:    &BalanceRepo{a: a},
		Movements:   &MovementRepo{a: a},
		Orders:      &OrderRepo{a: a},
		Transfers:   &TransferRepo{a: a},
		Adjustments: &AdjustmentRepo{a: a},
	}
}

func copyItem(v *entity.Item) *entity.Item {
	c := *v
	return &c
}

func copyOrder(v *entity.Order) *entity.Order {
	c := *v
	c.Lines = make([]*entity.OrderLine, len(v.Lines))
	for i, l := range v.Lines {
		lc := *l
		c.Lines[i] = &lc
	}
	return &c
}

func copyTransfer(v *entity.Transfer) *entity.Transfer {
	c := *v
	c.Rows = make([]*entity.TransferRow, len(v.Rows))
	for i, r := range v.Rows {
		rc := *r
		c.Rows[i] = &rc
	}
	return &c
}

func copyAdjustment(v *entity.Adjustment) *entity.Adjustment {
	c := *v
	c.Rows = make([]*entity.AdjustmentRow, len(v.Rows))
	for i, r := range v.Rows {
		rc := *r
		c.Rows[i] = &rc
	}
	return &c
}

func zeroBalance(itemID, warehouseID string) *entity.Balance {
	return &entity.Balance{ItemID: itemID, WarehouseID: warehouseID, Quantity: decimal.Zero}
}
