package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus estado agregado de un traslado.
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusInTransit TransferStatus = "in_transit"
	TransferStatusComplete  TransferStatus = "complete"
)

// Transfer cabecera de un traslado entre bodegas, identificada por TransferNo.
type Transfer struct {
	TransferNo        string
	SourceWarehouseID string
	DestWarehouseID   string
	Status            TransferStatus
	Note              string
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Rows              []*TransferRow
}

// Row busca una fila por ID.
func (t *Transfer) Row(id string) *TransferRow {
	for _, r := range t.Rows {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// TransferRow un artículo dentro del traslado.
// QtyReceived se mantiene igual a QtySent: el traslado es instantáneo.
type TransferRow struct {
	ID           string
	TransferNo   string
	ItemID       string
	Position     int
	QtyRequested decimal.Decimal
	QtySent      decimal.Decimal
	QtyReceived  decimal.Decimal
	Status       LineStatus
}
