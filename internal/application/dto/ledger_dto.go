package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Órdenes ──────────────────────────────────────────────────────────────────

// OrderLineRequest línea de una orden nueva o editada.
type OrderLineRequest struct {
	ItemID     string          `json:"item_id" validate:"required"`
	QtyOrdered decimal.Decimal `json:"qty_ordered"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest entrada para crear una orden de compra o venta.
type CreateOrderRequest struct {
	OrderNo        string             `json:"order_no" validate:"omitempty,max=50"`
	Kind           string             `json:"kind" validate:"required,oneof=purchase sale"`
	CounterpartyID string             `json:"counterparty_id"`
	WarehouseID    string             `json:"warehouse_id" validate:"required"`
	Lines          []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReplaceOrderLinesRequest edición de una orden: reemplaza todas las líneas.
type ReplaceOrderLinesRequest struct {
	Lines []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// LineProgressRequest cantidad a recibir/despachar por línea.
type LineProgressRequest struct {
	LineID string          `json:"line_id" validate:"required"`
	Qty    decimal.Decimal `json:"qty"`
	Note   string          `json:"note" validate:"max=500"`
}

// ProgressOrderRequest lote de recepción o despacho.
type ProgressOrderRequest struct {
	Lines []LineProgressRequest `json:"lines" validate:"required,min=1,dive"`
}

// OrderLineResponse salida de una línea.
type OrderLineResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	Position    int             `json:"position"`
	QtyOrdered  decimal.Decimal `json:"qty_ordered"`
	QtyProgress decimal.Decimal `json:"qty_progress"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Status      string          `json:"status"`
}

// OrderResponse salida de una orden con sus líneas.
type OrderResponse struct {
	ID             string              `json:"id"`
	OrderNo        string              `json:"order_no"`
	Kind           string              `json:"kind"`
	Status         string              `json:"status"`
	CounterpartyID string              `json:"counterparty_id,omitempty"`
	WarehouseID    string              `json:"warehouse_id"`
	Total          decimal.Decimal     `json:"total"`
	CreatedBy      string              `json:"created_by"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Lines          []OrderLineResponse `json:"lines"`
}

// StatusResponse estado resultante tras procesar un lote.
type StatusResponse struct {
	Status string `json:"status"`
}

// ── Traslados ────────────────────────────────────────────────────────────────

// TransferRowRequest fila de un traslado nuevo o editado.
type TransferRowRequest struct {
	ItemID       string          `json:"item_id" validate:"required"`
	QtyRequested decimal.Decimal `json:"qty_requested"`
}

// CreateTransferRequest entrada para crear un traslado.
type CreateTransferRequest struct {
	TransferNo        string               `json:"transfer_no" validate:"omitempty,max=50"`
	SourceWarehouseID string               `json:"source_warehouse_id" validate:"required"`
	DestWarehouseID   string               `json:"dest_warehouse_id" validate:"required,nefield=SourceWarehouseID"`
	Note              string               `json:"note" validate:"max=500"`
	Rows              []TransferRowRequest `json:"rows" validate:"required,min=1,dive"`
}

// ReplaceTransferRowsRequest edición de un traslado.
type ReplaceTransferRowsRequest struct {
	Rows []TransferRowRequest `json:"rows" validate:"required,min=1,dive"`
}

// RowProgressRequest cantidad a enviar por fila.
type RowProgressRequest struct {
	RowID string          `json:"row_id" validate:"required"`
	Qty   decimal.Decimal `json:"qty"`
	Note  string          `json:"note" validate:"max=500"`
}

// ProcessTransferRequest lote de envío.
type ProcessTransferRequest struct {
	Rows []RowProgressRequest `json:"rows" validate:"required,min=1,dive"`
}

// TransferRowResponse salida de una fila.
type TransferRowResponse struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"item_id"`
	Position     int             `json:"position"`
	QtyRequested decimal.Decimal `json:"qty_requested"`
	QtySent      decimal.Decimal `json:"qty_sent"`
	QtyReceived  decimal.Decimal `json:"qty_received"`
	Status       string          `json:"status"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	TransferNo        string                `json:"transfer_no"`
	SourceWarehouseID string                `json:"source_warehouse_id"`
	DestWarehouseID   string                `json:"dest_warehouse_id"`
	Status            string                `json:"status"`
	Note              string                `json:"note,omitempty"`
	CreatedBy         string                `json:"created_by"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	Rows              []TransferRowResponse `json:"rows"`
}

// ── Ajustes ──────────────────────────────────────────────────────────────────

// AdjustmentLineRequest artículo y cantidad positiva.
type AdjustmentLineRequest struct {
	ItemID string          `json:"item_id" validate:"required"`
	Qty    decimal.Decimal `json:"qty"`
}

// CreateAdjustmentRequest ajuste manual.
type CreateAdjustmentRequest struct {
	WarehouseID string                  `json:"warehouse_id" validate:"required"`
	Direction   string                  `json:"direction" validate:"required,oneof=add subtract"`
	Reason      string                  `json:"reason" validate:"required,max=500"`
	Lines       []AdjustmentLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// AdjustmentRowResponse fila de un ajuste.
type AdjustmentRowResponse struct {
	ItemID   string          `json:"item_id"`
	Position int             `json:"position"`
	Quantity decimal.Decimal `json:"quantity"`
}

// AdjustmentResponse salida de un ajuste.
type AdjustmentResponse struct {
	AdjustmentNo string                  `json:"adjustment_no"`
	WarehouseID  string                  `json:"warehouse_id"`
	Direction    string                  `json:"direction"`
	Reason       string                  `json:"reason"`
	BatchID      string                  `json:"batch_id"`
	CreatedBy    string                  `json:"created_by"`
	ProcessedAt  time.Time               `json:"processed_at"`
	Rows         []AdjustmentRowResponse `json:"rows,omitempty"`
}

// ── Consultas de stock ───────────────────────────────────────────────────────

// BalanceResponse saldo de un par (artículo, bodega).
type BalanceResponse struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// MovementResponse fila del kardex.
type MovementResponse struct {
	ID            string          `json:"id"`
	Seq           int64           `json:"seq"`
	ItemID        string          `json:"item_id"`
	WarehouseID   string          `json:"warehouse_id"`
	Kind          string          `json:"kind"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   string          `json:"reference_id"`
	QtyBefore     decimal.Decimal `json:"qty_before"`
	QtyChange     decimal.Decimal `json:"qty_change"`
	QtyAfter      decimal.Decimal `json:"qty_after"`
	Note          string          `json:"note,omitempty"`
	BatchID       string          `json:"batch_id"`
	Actor         string          `json:"actor"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementListResponse página de kardex. NextCursor vacío = no hay más.
type MovementListResponse struct {
	Items      []MovementResponse `json:"items"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

// LowStockResponse alerta de stock bajo.
type LowStockResponse struct {
	ItemID      string          `json:"item_id"`
	ItemCode    string          `json:"item_code"`
	ItemName    string          `json:"item_name"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinStock    decimal.Decimal `json:"min_stock"`
	Deficit     decimal.Decimal `json:"deficit"`
}

// DriftResponse descuadre entre saldo y kardex.
type DriftResponse struct {
	ItemID      string          `json:"item_id"`
	WarehouseID string          `json:"warehouse_id"`
	Balance     decimal.Decimal `json:"balance"`
	LedgerSum   decimal.Decimal `json:"ledger_sum"`
}

// ReconcileResponse resultado de la conciliación.
type ReconcileResponse struct {
	Consistent bool            `json:"consistent"`
	Drifts     []DriftResponse `json:"drifts"`
}
