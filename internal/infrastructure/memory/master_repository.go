package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ItemRepository      = (*ItemRepo)(nil)
	_ repository.WarehouseRepository = (*WarehouseRepo)(nil)
)

// ItemRepo artículos en memoria.
type ItemRepo struct{ a access }

func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, it := range st.items {
			if it.Code == item.Code {
				return domain.ErrDuplicate
			}
		}
		if item.Version == 0 {
			item.Version = 1
		}
		st.items[item.ID] = copyItem(item)
		return nil
	})
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.a.read(func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = copyItem(it)
		}
		return nil
	})
	return out, err
}

func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	var out *entity.Item
	err := r.a.read(func(st *state) error {
		for _, it := range st.items {
			if it.Code == code {
				out = copyItem(it)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ItemRepo) Update(ctx context.Context, item *entity.Item, expectedVersion int) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.items[item.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if cur.Version != expectedVersion {
			return domain.ErrConcurrentModification
		}
		for _, it := range st.items {
			if it.ID != item.ID && it.Code == item.Code {
				return domain.ErrDuplicate
			}
		}
		item.Version = expectedVersion + 1
		st.items[item.ID] = copyItem(item)
		return nil
	})
}

// WarehouseRepo bodegas en memoria.
type WarehouseRepo struct{ a access }

func (r *WarehouseRepo) Create(ctx context.Context, w *entity.Warehouse) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, x := range st.warehouses {
			if x.Code == w.Code {
				return domain.ErrDuplicate
			}
		}
		c := *w
		st.warehouses[w.ID] = &c
		return nil
	})
}

func (r *WarehouseRepo) GetByID(ctx context.Context, id string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.a.read(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			c := *w
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) GetByCode(ctx context.Context, code string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.a.read(func(st *state) error {
		for _, w := range st.warehouses {
			if w.Code == code {
				c := *w
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *WarehouseRepo) Update(ctx context.Context, w *entity.Warehouse) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.warehouses[w.ID]; !ok {
			return domain.ErrNotFound
		}
		c := *w
		st.warehouses[w.ID] = &c
		return nil
	})
}
