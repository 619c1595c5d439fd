package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario. Se desactiva, no se elimina.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
