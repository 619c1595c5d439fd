package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.BalanceRepository  = (*BalanceRepo)(nil)
	_ repository.MovementRepository = (*MovementRepo)(nil)
)

// BalanceRepo saldos en memoria.
type BalanceRepo struct{ a access }

func (r *BalanceRepo) Get(ctx context.Context, itemID, warehouseID string) (*entity.Balance, error) {
	out := zeroBalance(itemID, warehouseID)
	err := r.a.read(func(st *state) error {
		if b, ok := st.balances[entity.BalanceKey{ItemID: itemID, WarehouseID: warehouseID}]; ok {
			c := *b
			out = &c
		}
		return nil
	})
	return out, err
}

// GetForUpdate crea el saldo si no existe. El bloqueo de fila lo da la serialización de Run.
func (r *BalanceRepo) GetForUpdate(ctx context.Context, itemID, warehouseID string) (*entity.Balance, error) {
	var out *entity.Balance
	err := r.a.write(func(st *state) error {
		key := entity.BalanceKey{ItemID: itemID, WarehouseID: warehouseID}
		b, ok := st.balances[key]
		if !ok {
			b = zeroBalance(itemID, warehouseID)
			st.balances[key] = b
		}
		c := *b
		out = &c
		return nil
	})
	return out, err
}

func (r *BalanceRepo) Upsert(ctx context.Context, b *entity.Balance) error {
	return r.a.write(func(st *state) error {
		c := *b
		st.balances[b.Key()] = &c
		return nil
	})
}

func (r *BalanceRepo) List(ctx context.Context, warehouseID string) ([]*entity.Balance, error) {
	var out []*entity.Balance
	err := r.a.read(func(st *state) error {
		for _, b := range st.balances {
			if warehouseID != "" && b.WarehouseID != warehouseID {
				continue
			}
			c := *b
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].WarehouseID != out[j].WarehouseID {
			return out[i].WarehouseID < out[j].WarehouseID
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out, err
}

// MovementRepo kardex en memoria: sólo se agrega.
type MovementRepo struct{ a access }

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	return r.a.write(func(st *state) error {
		if !m.Kind.Valid() {
			return domain.ErrInvalidInput
		}
		st.seq++
		m.Seq = st.seq
		if m.ID == "" {
			m.ID = uuid.New().String()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = time.Now().UTC()
		}
		c := *m
		st.movements = append(st.movements, &c)
		return nil
	})
}

func (r *MovementRepo) Page(ctx context.Context, f repository.MovementFilter, after *repository.MovementCursor, limit int) ([]*entity.Movement, error) {
	var matched []*entity.Movement
	err := r.a.read(func(st *state) error {
		for _, m := range st.movements {
			if matches(m, f) && isAfter(m, after) {
				c := *m
				matched = append(matched, &c)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].Seq < matched[j].Seq
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *MovementRepo) SumByPair(ctx context.Context) (map[entity.BalanceKey]decimal.Decimal, error) {
	sums := make(map[entity.BalanceKey]decimal.Decimal)
	err := r.a.read(func(st *state) error {
		for _, m := range st.movements {
			k := entity.BalanceKey{ItemID: m.ItemID, WarehouseID: m.WarehouseID}
			sums[k] = sums[k].Add(m.QtyChange)
		}
		return nil
	})
	return sums, err
}

func matches(m *entity.Movement, f repository.MovementFilter) bool {
	switch {
	case f.ItemID != "" && m.ItemID != f.ItemID:
		return false
	case f.WarehouseID != "" && m.WarehouseID != f.WarehouseID:
		return false
	case f.Kind != "" && m.Kind != f.Kind:
		return false
	case f.ReferenceType != "" && m.ReferenceType != f.ReferenceType:
		return false
	case f.ReferenceID != "" && m.ReferenceID != f.ReferenceID:
		return false
	case f.BatchID != "" && m.BatchID != f.BatchID:
		return false
	case f.From != nil && m.CreatedAt.Before(*f.From):
		return false
	case f.To != nil && !m.CreatedAt.Before(*f.To):
		return false
	}
	return true
}

func isAfter(m *entity.Movement, c *repository.MovementCursor) bool {
	if c == nil {
		return true
	}
	if m.CreatedAt.Equal(c.CreatedAt) {
		return m.Seq > c.Seq
	}
	return m.CreatedAt.After(c.CreatedAt)
}
