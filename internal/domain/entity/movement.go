package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de transacción del kardex.
type MovementKind string

const (
	MovementPurchaseReceive    MovementKind = "purchase_receive"
	MovementPurchaseReversal   MovementKind = "purchase_reversal"
	MovementSaleFulfill        MovementKind = "sale_fulfill"
	MovementSaleReversal       MovementKind = "sale_reversal"
	MovementTransferOut        MovementKind = "transfer_out"
	MovementTransferIn         MovementKind = "transfer_in"
	MovementAdjustment         MovementKind = "adjustment"
	MovementAdjustmentReversal MovementKind = "adjustment_reversal"
)

// Valid indica si el tipo es uno de los conocidos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementPurchaseReceive, MovementPurchaseReversal,
		MovementSaleFulfill, MovementSaleReversal,
		MovementTransferOut, MovementTransferIn,
		MovementAdjustment, MovementAdjustmentReversal:
		return true
	}
	return false
}

// Tipos de documento que originan movimientos.
const (
	ReferencePurchaseOrder = "purchase_order"
	ReferenceSaleOrder     = "sale_order"
	ReferenceTransfer      = "transfer"
	ReferenceAdjustment    = "adjustment"
)

// Movement es una entrada inmutable del kardex. Nunca se modifica ni se elimina,
// ni siquiera cuando el documento que la originó se borra.
type Movement struct {
	ID            string
	Seq           int64 // orden de inserción; desempata CreatedAt
	ItemID        string
	WarehouseID   string
	Kind          MovementKind
	ReferenceType string
	ReferenceID   string
	QtyBefore     decimal.Decimal
	QtyChange     decimal.Decimal // con signo
	QtyAfter      decimal.Decimal
	Note          string
	BatchID       string // agrupa los movimientos de una misma acción del usuario
	Actor         string
	CreatedAt     time.Time
}
