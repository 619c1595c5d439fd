package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.OrderRepository      = (*OrderRepo)(nil)
	_ repository.TransferRepository   = (*TransferRepo)(nil)
	_ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)
)

// OrderRepo órdenes en memoria (por ID, OrderNo único).
type OrderRepo struct{ a access }

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.orders[o.ID]; ok {
			return domain.ErrDuplicate
		}
		for _, x := range st.orders {
			if x.OrderNo == o.OrderNo {
				return domain.ErrDuplicate
			}
		}
		st.orders[o.ID] = copyOrder(o)
		return nil
	})
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.a.read(func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = copyOrder(o)
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) UpdateHeader(ctx context.Context, o *entity.Order) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.orders[o.ID]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = o.Status
		cur.Total = o.Total
		cur.UpdatedAt = o.UpdatedAt
		return nil
	})
}

func (r *OrderRepo) UpdateLine(ctx context.Context, l *entity.OrderLine) error {
	return r.a.write(func(st *state) error {
		o, ok := st.orders[l.OrderID]
		if !ok {
			return domain.ErrNotFound
		}
		cur := o.Line(l.ID)
		if cur == nil {
			return domain.ErrNotFound
		}
		*cur = *l
		return nil
	})
}

func (r *OrderRepo) ReplaceLines(ctx context.Context, orderID string, lines []*entity.OrderLine) error {
	return r.a.write(func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok {
			return domain.ErrNotFound
		}
		o.Lines = make([]*entity.OrderLine, len(lines))
		for i, l := range lines {
			c := *l
			o.Lines[i] = &c
		}
		return nil
	})
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.orders[id]; !ok {
			return domain.ErrNotFound
		}
		delete(st.orders, id)
		return nil
	})
}

// TransferRepo traslados en memoria.
type TransferRepo struct{ a access }

func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.transfers[t.TransferNo]; ok {
			return domain.ErrDuplicate
		}
		st.transfers[t.TransferNo] = copyTransfer(t)
		return nil
	})
}

func (r *TransferRepo) GetByNo(ctx context.Context, no string) (*entity.Transfer, error) {
	var out *entity.Transfer
	err := r.a.read(func(st *state) error {
		if t, ok := st.transfers[no]; ok {
			out = copyTransfer(t)
		}
		return nil
	})
	return out, err
}

func (r *TransferRepo) GetForUpdate(ctx context.Context, no string) (*entity.Transfer, error) {
	return r.GetByNo(ctx, no)
}

func (r *TransferRepo) UpdateHeader(ctx context.Context, t *entity.Transfer) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.transfers[t.TransferNo]
		if !ok {
			return domain.ErrNotFound
		}
		cur.Status = t.Status
		cur.Note = t.Note
		cur.UpdatedAt = t.UpdatedAt
		return nil
	})
}

func (r *TransferRepo) UpdateRow(ctx context.Context, row *entity.TransferRow) error {
	return r.a.write(func(st *state) error {
		t, ok := st.transfers[row.TransferNo]
		if !ok {
			return domain.ErrNotFound
		}
		cur := t.Row(row.ID)
		if cur == nil {
			return domain.ErrNotFound
		}
		*cur = *row
		return nil
	})
}

func (r *TransferRepo) ReplaceRows(ctx context.Context, no string, rows []*entity.TransferRow) error {
	return r.a.write(func(st *state) error {
		t, ok := st.transfers[no]
		if !ok {
			return domain.ErrNotFound
		}
		t.Rows = make([]*entity.TransferRow, len(rows))
		for i, row := range rows {
			c := *row
			t.Rows[i] = &c
		}
		return nil
	})
}

func (r *TransferRepo) Delete(ctx context.Context, no string) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.transfers[no]; !ok {
			return domain.ErrNotFound
		}
		delete(st.transfers, no)
		return nil
	})
}

// AdjustmentRepo ajustes en memoria.
type AdjustmentRepo struct{ a access }

func (r *AdjustmentRepo) Create(ctx context.Context, adj *entity.Adjustment) error {
	return r.a.write(func(st *state) error {
		if _, ok := st.adjustments[adj.AdjustmentNo]; ok {
			return domain.ErrDuplicate
		}
		st.adjustments[adj.AdjustmentNo] = copyAdjustment(adj)
		return nil
	})
}

func (r *AdjustmentRepo) GetByNo(ctx context.Context, no string) (*entity.Adjustment, error) {
	var out *entity.Adjustment
	err := r.a.read(func(st *state) error {
		if adj, ok := st.adjustments[no]; ok {
			out = copyAdjustment(adj)
		}
		return nil
	})
	return out, err
}
