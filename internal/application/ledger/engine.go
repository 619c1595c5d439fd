// Package ledger implementa el motor de kardex y cumplimiento de órdenes: saldos por bodega,
// movimientos inmutables, recepción de compras, despacho de ventas, traslados, ajustes y
// reversos al editar o eliminar documentos en curso.
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

const defaultPageSize = 200

// qtyScale decimales que admite el almacenamiento para cantidades y precios (NUMERIC(18,4)).
const qtyScale = 4

// Engine es la única puerta de escritura sobre saldos y kardex. Cada operación pública es una
// unidad de trabajo atómica: bloqueo de pares, transacción, validación, movimientos, saldos y
// estados, todo o nada.
type Engine struct {
	tx       TxRunner
	read     Repos
	locker   Locker
	log      zerolog.Logger
	now      func() time.Time
	pageSize int
}

// Option configura el motor.
type Option func(*Engine)

// WithClock reemplaza el reloj (útil en tests).
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithPageSize tamaño de página usado al recorrer el kardex.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// NewEngine construye el motor. read son repositorios fuera de transacción (lecturas).
func NewEngine(tx TxRunner, read Repos, locker Locker, log zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		tx:       tx,
		read:     read,
		locker:   locker,
		log:      log.With().Str("component", "ledger").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// PageSize tamaño máximo de página de kardex.
func (e *Engine) PageSize() int { return e.pageSize }

// unitOfWork estado de una operación en curso dentro de la transacción.
type unitOfWork struct {
	Repos
	held      map[string]struct{}
	batchID   string
	actor     string
	now       time.Time
	movements []*entity.Movement
	negatives []*entity.Movement
}

// posting cambio a aplicar: un movimiento más su efecto en el saldo.
type posting struct {
	itemID       string
	warehouseID  string
	kind         entity.MovementKind
	refType      string
	refID        string
	change       decimal.Decimal
	note         string
	requireStock bool
}

// run bloquea las llaves, abre la transacción y ejecuta fn. Tras el commit registra en log
// los movimientos y cualquier saldo negativo resultante.
func (e *Engine) run(ctx context.Context, op, ref, actor string, keys []string, fn func(u *unitOfWork) error) (*unitOfWork, error) {
	release, err := e.locker.Acquire(ctx, keys...)
	if err != nil {
		return nil, err
	}
	defer release()

	var done *unitOfWork
	err = e.tx.Run(ctx, func(repos Repos) error {
		u := &unitOfWork{
			Repos:   repos,
			held:    make(map[string]struct{}, len(keys)),
			batchID: uuid.New().String(),
			actor:   actor,
			now:     e.now(),
		}
		for _, k := range keys {
			u.held[k] = struct{}{}
		}
		if err := fn(u); err != nil {
			return err
		}
		done = u
		return nil
	})
	if err != nil {
		e.log.Debug().Err(err).Str("op", op).Str("ref", ref).Str("actor", actor).Msg("operación abortada")
		return nil, err
	}

	e.log.Info().
		Str("op", op).
		Str("ref", ref).
		Str("actor", actor).
		Str("batch_id", done.batchID).
		Int("movements", len(done.movements)).
		Msg("operación confirmada")
	for _, m := range done.negatives {
		e.log.Warn().
			Str("anomaly", "negative_balance").
			Str("item_id", m.ItemID).
			Str("warehouse_id", m.WarehouseID).
			Str("qty_after", m.QtyAfter.String()).
			Str("movement_id", m.ID).
			Msg("saldo negativo tras el movimiento")
	}
	return done, nil
}

// apply registra el movimiento y actualiza el saldo del par en la misma transacción.
// Es el único camino que modifica saldos.
func (u *unitOfWork) apply(ctx context.Context, p posting) (*entity.Movement, error) {
	key := entity.BalanceKey{ItemID: p.itemID, WarehouseID: p.warehouseID}
	if _, ok := u.held[key.LockKey()]; !ok {
		// El documento cambió entre la lectura previa y el bloqueo.
		return nil, fmt.Errorf("%w: par %s sin bloqueo", domain.ErrConcurrentModification, key.LockKey())
	}
	bal, err := u.Balances.GetForUpdate(ctx, p.itemID, p.warehouseID)
	if err != nil {
		return nil, err
	}
	if p.requireStock && bal.Quantity.Add(p.change).IsNegative() {
		return nil, domain.ErrInsufficientStock
	}
	after := bal.Quantity.Add(p.change)
	mov := &entity.Movement{
		ID:            uuid.New().String(),
		ItemID:        p.itemID,
		WarehouseID:   p.warehouseID,
		Kind:          p.kind,
		ReferenceType: p.refType,
		ReferenceID:   p.refID,
		QtyBefore:     bal.Quantity,
		QtyChange:     p.change,
		QtyAfter:      after,
		Note:          p.note,
		BatchID:       u.batchID,
		Actor:         u.actor,
		CreatedAt:     u.now,
	}
	if err := u.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	bal.Quantity = after
	bal.UpdatedAt = u.now
	if err := u.Balances.Upsert(ctx, bal); err != nil {
		return nil, err
	}
	u.movements = append(u.movements, mov)
	if after.IsNegative() {
		u.negatives = append(u.negatives, mov)
	}
	return mov, nil
}

// fitsScale indica si q no tiene más decimales de los que se pueden guardar.
func fitsScale(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(qtyScale))
}

// pairKeys arma las llaves de bloqueo para los artículos en las bodegas dadas.
func pairKeys(itemIDs []string, warehouseIDs ...string) []string {
	keys := make([]string, 0, len(itemIDs)*len(warehouseIDs))
	for _, item := range itemIDs {
		for _, wh := range warehouseIDs {
			keys = append(keys, entity.BalanceKey{ItemID: item, WarehouseID: wh}.LockKey())
		}
	}
	return keys
}

// documentNo genera un número de documento legible: PREFIJO-AAAAMMDD-XXXXXXXX.
func documentNo(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}

// activeItem valida que el artículo exista y esté activo.
func activeItem(ctx context.Context, r Repos, id string) (*entity.Item, error) {
	item, err := r.Items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if !item.Active {
		return nil, fmt.Errorf("%w: artículo %s inactivo", domain.ErrInvalidInput, item.Code)
	}
	return item, nil
}

// activeWarehouse valida que la bodega exista y esté activa.
func activeWarehouse(ctx context.Context, r Repos, id string) (*entity.Warehouse, error) {
	wh, err := r.Warehouses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if !wh.Active {
		return nil, fmt.Errorf("%w: bodega %s inactiva", domain.ErrInvalidInput, wh.Code)
	}
	return wh, nil
}
