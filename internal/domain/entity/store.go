package entity

import "time"

// DefaultCurrency moneda por defecto de una tienda nueva.
const DefaultCurrency = "USD"

// DefaultLowStockThreshold umbral de stock bajo cuando el producto no define punto de reorden.
const DefaultLowStockThreshold = 5

// Store representa una tienda (tenant). Es dueña de usuarios, productos, ventas y ajustes.
type Store struct {
	ID                string
	Name              string
	Address           string
	Phone             string
	Email             string
	Currency          string // ISO 4217
	LogoURL           string
	PrimaryColor      string // hex, ej: "#00467F"
	PlanID            string
	LowStockThreshold int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OwnerStoreID implementa tenancy.Owned.
func (s *Store) OwnerStoreID() string { return s.ID }
