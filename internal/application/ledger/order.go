package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

// NewOrder datos para crear una orden de compra o venta.
// OrderNo es opcional; si viene vacío se genera (PO-/SO-).
type NewOrder struct {
	OrderNo        string
	Kind           entity.OrderKind
	CounterpartyID string
	WarehouseID    string
	Lines          []NewLine
}

// NewLine línea nueva (al crear o al editar una orden).
type NewLine struct {
	ItemID     string
	QtyOrdered decimal.Decimal
	UnitPrice  decimal.Decimal
}

// LineProgress cantidad a recibir/despachar de una línea existente.
// Cantidad cero se ignora (formularios que envían todas las líneas).
type LineProgress struct {
	LineID string
	Qty    decimal.Decimal
	Note   string
}

// CreateOrder crea la cabecera y sus líneas en avance cero.
func (e *Engine) CreateOrder(ctx context.Context, actor string, in NewOrder) (*entity.Order, error) {
	if in.Kind != entity.OrderKindPurchase && in.Kind != entity.OrderKindSale {
		return nil, fmt.Errorf("%w: tipo de orden %q", domain.ErrInvalidInput, in.Kind)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: la orden requiere al menos una línea", domain.ErrInvalidInput)
	}
	now := e.now()
	order := &entity.Order{
		ID:             uuid.New().String(),
		OrderNo:        in.OrderNo,
		Kind:           in.Kind,
		Status:         entity.OrderStatusPending,
		CounterpartyID: in.CounterpartyID,
		WarehouseID:    in.WarehouseID,
		CreatedBy:      actor,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if order.OrderNo == "" {
		prefix := "PO"
		if in.Kind == entity.OrderKindSale {
			prefix = "SO"
		}
		order.OrderNo = documentNo(prefix, now)
	}

	err := e.tx.Run(ctx, func(r Repos) error {
		if _, err := activeWarehouse(ctx, r, in.WarehouseID); err != nil {
			return err
		}
		lines, total, err := buildOrderLines(ctx, r, order.ID, in.Lines)
		if err != nil {
			return err
		}
		order.Lines = lines
		order.Total = total
		return r.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("op", "create_order").Str("ref", order.ID).Str("order_no", order.OrderNo).
		Str("kind", string(order.Kind)).Str("actor", actor).Msg("orden creada")
	return order, nil
}

// GetOrder devuelve la orden con sus líneas.
func (e *Engine) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	o, err := e.read.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// ReceivePurchaseLines registra la recepción parcial o total de líneas de una orden de compra.
func (e *Engine) ReceivePurchaseLines(ctx context.Context, actor, orderID string, lines []LineProgress) (entity.OrderStatus, error) {
	return e.progressOrder(ctx, "receive_purchase", entity.OrderKindPurchase, actor, orderID, lines)
}

// FulfillSaleLines registra el despacho parcial o total de líneas de una orden de venta.
// Falla con ErrInsufficientStock si alguna línea dejaría el saldo en negativo.
func (e *Engine) FulfillSaleLines(ctx context.Context, actor, orderID string, lines []LineProgress) (entity.OrderStatus, error) {
	return e.progressOrder(ctx, "fulfill_sale", entity.OrderKindSale, actor, orderID, lines)
}

func (e *Engine) progressOrder(ctx context.Context, op string, kind entity.OrderKind, actor, orderID string, req []LineProgress) (entity.OrderStatus, error) {
	order, err := e.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.Kind != kind {
		return "", fmt.Errorf("%w: la orden %s no es de tipo %s", domain.ErrInvalidInput, order.OrderNo, kind)
	}
	itemIDs := make([]string, 0, len(req))
	for _, lp := range req {
		if lp.Qty.IsNegative() || !fitsScale(lp.Qty) {
			return "", domain.LineErr(lp.LineID, domain.ErrInvalidInput)
		}
		if lp.Qty.IsZero() {
			continue
		}
		l := order.Line(lp.LineID)
		if l == nil {
			return "", domain.LineErr(lp.LineID, domain.ErrNotFound)
		}
		itemIDs = append(itemIDs, l.ItemID)
	}
	if len(itemIDs) == 0 {
		return "", fmt.Errorf("%w: no hay cantidades a aplicar", domain.ErrInvalidInput)
	}

	var status entity.OrderStatus
	_, err = e.run(ctx, op, orderID, actor, pairKeys(itemIDs, order.WarehouseID), func(u *unitOfWork) error {
		o, err := u.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if _, err := activeWarehouse(ctx, u.Repos, o.WarehouseID); err != nil {
			return err
		}
		for _, lp := range req {
			if lp.Qty.IsZero() {
				continue
			}
			line := o.Line(lp.LineID)
			if line == nil {
				return domain.LineErr(lp.LineID, domain.ErrNotFound)
			}
			if _, err := activeItem(ctx, u.Repos, line.ItemID); err != nil {
				return domain.LineErr(line.ID, err)
			}
			if line.QtyProgress.Add(lp.Qty).GreaterThan(line.QtyOrdered) {
				return domain.LineErr(line.ID, domain.ErrExceedsOrderedQuantity)
			}
			_, err := u.apply(ctx, posting{
				itemID:       line.ItemID,
				warehouseID:  o.WarehouseID,
				kind:         ledger.ProgressKind(o.Kind),
				refType:      o.Kind.ReferenceType(),
				refID:        o.ID,
				change:       ledger.ProgressChange(o.Kind, lp.Qty),
				note:         lp.Note,
				requireStock: o.Kind == entity.OrderKindSale,
			})
			if err != nil {
				return domain.LineErr(line.ID, err)
			}
			line.QtyProgress = line.QtyProgress.Add(lp.Qty)
			line.Status = ledger.LineStatus(line.QtyProgress, line.QtyOrdered)
			if err := u.Orders.UpdateLine(ctx, line); err != nil {
				return err
			}
		}
		o.Status = ledger.OrderStatus(o.Lines)
		o.UpdatedAt = u.now
		if err := u.Orders.UpdateHeader(ctx, o); err != nil {
			return err
		}
		status = o.Status
		return nil
	})
	if err != nil {
		return "", err
	}
	return status, nil
}

// ReverseAndReplaceOrderLines se usa al editar: reversa todo el avance aplicado y reemplaza las
// líneas por las nuevas, en avance cero. Los reversos quedan en el kardex de forma permanente.
func (e *Engine) ReverseAndReplaceOrderLines(ctx context.Context, actor, orderID string, lines []NewLine) (*entity.Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: la orden requiere al menos una línea", domain.ErrInvalidInput)
	}
	order, err := e.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var result *entity.Order
	_, err = e.run(ctx, "edit_order", orderID, actor, orderReversalKeys(order), func(u *unitOfWork) error {
		o, err := u.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if err := u.reverseOrder(ctx, o, "edición"); err != nil {
			return err
		}
		newLines, total, err := buildOrderLines(ctx, u.Repos, o.ID, lines)
		if err != nil {
			return err
		}
		if err := u.Orders.ReplaceLines(ctx, o.ID, newLines); err != nil {
			return err
		}
		o.Lines = newLines
		o.Total = total
		o.Status = ledger.OrderStatus(newLines)
		o.UpdatedAt = u.now
		if err := u.Orders.UpdateHeader(ctx, o); err != nil {
			return err
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReverseAndRemoveOrder se usa al eliminar: reversa el avance aplicado y borra cabecera y
// líneas. Los movimientos (originales y reversos) se conservan.
func (e *Engine) ReverseAndRemoveOrder(ctx context.Context, actor, orderID string) error {
	order, err := e.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	u, err := e.run(ctx, "delete_order", orderID, actor, orderReversalKeys(order), func(u *unitOfWork) error {
		o, err := u.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrNotFound
		}
		if err := u.reverseOrder(ctx, o, "eliminación"); err != nil {
			return err
		}
		return u.Orders.Delete(ctx, o.ID)
	})
	if err != nil {
		return err
	}
	if len(u.movements) == 0 {
		e.log.Info().Str("ref", orderID).Str("status", string(entity.OrderStatusCancelled)).Msg("orden cancelada sin avance")
	}
	return nil
}

func (u *unitOfWork) reverseOrder(ctx context.Context, o *entity.Order, reason string) error {
	for _, p := range ledger.OrderReversals(o) {
		_, err := u.apply(ctx, posting{
			itemID:      p.ItemID,
			warehouseID: p.WarehouseID,
			kind:        p.Kind,
			refType:     o.Kind.ReferenceType(),
			refID:       o.ID,
			change:      p.Change,
			note:        fmt.Sprintf("reverso por %s de la orden %s", reason, o.OrderNo),
		})
		if err != nil {
			return domain.LineErr(p.LineRef, err)
		}
	}
	return nil
}

func orderReversalKeys(o *entity.Order) []string {
	var itemIDs []string
	for _, l := range o.Lines {
		if l.QtyProgress.IsPositive() {
			itemIDs = append(itemIDs, l.ItemID)
		}
	}
	return pairKeys(itemIDs, o.WarehouseID)
}

func buildOrderLines(ctx context.Context, r Repos, orderID string, in []NewLine) ([]*entity.OrderLine, decimal.Decimal, error) {
	lines := make([]*entity.OrderLine, 0, len(in))
	total := decimal.Zero
	for i, nl := range in {
		ref := fmt.Sprintf("#%d", i+1)
		if !nl.QtyOrdered.IsPositive() || nl.UnitPrice.IsNegative() || !fitsScale(nl.QtyOrdered) || !fitsScale(nl.UnitPrice) {
			return nil, decimal.Zero, domain.LineErr(ref, domain.ErrInvalidInput)
		}
		if _, err := activeItem(ctx, r, nl.ItemID); err != nil {
			return nil, decimal.Zero, domain.LineErr(ref, err)
		}
		lines = append(lines, &entity.OrderLine{
			ID:          uuid.New().String(),
			OrderID:     orderID,
			ItemID:      nl.ItemID,
			Position:    i + 1,
			QtyOrdered:  nl.QtyOrdered,
			QtyProgress: decimal.Zero,
			UnitPrice:   nl.UnitPrice,
			Status:      entity.LineStatusPending,
		})
		total = total.Add(nl.QtyOrdered.Mul(nl.UnitPrice))
	}
	return lines, total, nil
}
