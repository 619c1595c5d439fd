package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un artículo.
type CreateItemRequest struct {
	Code        string          `json:"code" validate:"required,min=1,max=50"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	UnitMeasure string          `json:"unit_measure" validate:"max=20"`
	Category    string          `json:"category" validate:"max=100"`
	MinStock    decimal.Decimal `json:"min_stock"`
}

// UpdateItemRequest entrada para actualizar un artículo. Version es la leída por el cliente.
type UpdateItemRequest struct {
	Version     int              `json:"version" validate:"required,min=1"`
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	UnitMeasure *string          `json:"unit_measure" validate:"omitempty,max=20"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	MinStock    *decimal.Decimal `json:"min_stock"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	UnitMeasure string          `json:"unit_measure"`
	Category    string          `json:"category"`
	MinStock    decimal.Decimal `json:"min_stock"`
	Active      bool            `json:"active"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
