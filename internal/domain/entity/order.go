package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderKind distingue órdenes de compra y de venta (estructuralmente idénticas).
type OrderKind string

const (
	OrderKindPurchase OrderKind = "purchase"
	OrderKindSale     OrderKind = "sale"
)

// ReferenceType tipo de referencia que llevan los movimientos de la orden.
func (k OrderKind) ReferenceType() string {
	if k == OrderKindSale {
		return ReferenceSaleOrder
	}
	return ReferencePurchaseOrder
}

// OrderStatus estado agregado de la orden.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPartial   OrderStatus = "partial"
	OrderStatusComplete  OrderStatus = "complete"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// LineStatus estado de avance de una línea (orden o traslado).
type LineStatus string

const (
	LineStatusPending  LineStatus = "pending"
	LineStatusPartial  LineStatus = "partial"
	LineStatusComplete LineStatus = "complete"
)

// Order cabecera de una orden de compra o venta.
type Order struct {
	ID             string
	OrderNo        string
	Kind           OrderKind
	Status         OrderStatus
	CounterpartyID string // proveedor o cliente
	WarehouseID    string
	Total          decimal.Decimal
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Lines          []*OrderLine
}

// Line busca una línea por ID.
func (o *Order) Line(id string) *OrderLine {
	for _, l := range o.Lines {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// OrderLine avance de un artículo de la orden hacia su cantidad objetivo.
// QtyProgress es lo recibido (compra) o despachado (venta).
type OrderLine struct {
	ID          string
	OrderID     string
	ItemID      string
	Position    int
	QtyOrdered  decimal.Decimal
	QtyProgress decimal.Decimal
	UnitPrice   decimal.Decimal
	Status      LineStatus
}
