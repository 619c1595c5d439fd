package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance es el saldo actual de un artículo en una bodega.
// Proyección cacheada del kardex: Quantity == suma de QtyChange de sus movimientos.
type Balance struct {
	ItemID      string
	WarehouseID string
	Quantity    decimal.Decimal
	UpdatedAt   time.Time
}

// Key devuelve la llave (artículo, bodega) del saldo.
func (b *Balance) Key() BalanceKey {
	return BalanceKey{ItemID: b.ItemID, WarehouseID: b.WarehouseID}
}

// BalanceKey identifica un par (artículo, bodega).
type BalanceKey struct {
	ItemID      string
	WarehouseID string
}

// LockKey es la llave usada para serializar escrituras sobre el par.
func (k BalanceKey) LockKey() string {
	return "balance:" + k.ItemID + ":" + k.WarehouseID
}
