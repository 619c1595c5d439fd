package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AdjustmentDirection sentido del ajuste manual.
type AdjustmentDirection string

const (
	AdjustmentAdd      AdjustmentDirection = "add"
	AdjustmentSubtract AdjustmentDirection = "subtract"
)

// Adjustment ajuste manual de stock. Se aplica completo al crearse y nunca se edita;
// la corrección es otro ajuste en sentido contrario.
type Adjustment struct {
	AdjustmentNo string
	WarehouseID  string
	Direction    AdjustmentDirection
	Reason       string
	BatchID      string
	CreatedBy    string
	ProcessedAt  time.Time
	Rows         []*AdjustmentRow
}

// AdjustmentRow cantidad ajustada de un artículo (siempre positiva; el signo lo da Direction).
type AdjustmentRow struct {
	ID           string
	AdjustmentNo string
	ItemID       string
	Position     int
	Quantity     decimal.Decimal
}
