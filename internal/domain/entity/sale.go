package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta registrada en una tienda.
type Sale struct {
	ID        string
	StoreID   string
	Currency  string
	Items     []SaleItem
	Total     decimal.Decimal // suma de Items[].Amount
	SoldAt    time.Time
	CreatedBy string
	CreatedAt time.Time
}

// SaleItem línea de una venta.
type SaleItem struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Amount    decimal.Decimal // Quantity * UnitPrice
}

// OwnerStoreID implementa tenancy.Owned.
func (s *Sale) OwnerStoreID() string { return s.StoreID }
