package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo de una tienda.
// Stock solo cambia a través de InventoryAdjustment (ventas incluidas).
type Product struct {
	ID           string
	StoreID      string
	SKU          string // único por tienda
	Name         string
	Description  string
	Category     string
	Price        decimal.Decimal // precio de venta
	Cost         decimal.Decimal // costo unitario
	Stock        int64
	ReorderPoint int64 // 0 = usar el umbral de la tienda
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OwnerStoreID implementa tenancy.Owned.
func (p *Product) OwnerStoreID() string { return p.StoreID }

// IsLowStock informa si el stock está en o por debajo del punto de reorden.
func (p *Product) IsLowStock(storeThreshold int) bool {
	threshold := p.ReorderPoint
	if threshold <= 0 {
		threshold = int64(storeThreshold)
	}
	return p.Stock <= threshold
}
