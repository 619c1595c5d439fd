package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un artículo de inventario (multi-bodega).
// Version se incrementa en cada actualización (control optimista de concurrencia).
// Los artículos no se eliminan: se desactivan.
type Item struct {
	ID          string
	Code        string // clave humana única
	Name        string
	UnitMeasure string
	Category    string
	MinStock    decimal.Decimal // umbral de alerta de stock bajo
	Active      bool
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
