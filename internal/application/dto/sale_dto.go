package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta.
type SaleItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,min=1,max=1000000000000"`
}

// CreateSaleRequest body de POST /api/sales. SoldAt vacío = ahora.
type CreateSaleRequest struct {
	Items  []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	SoldAt *time.Time        `json:"sold_at"`
}

// SaleItemResponse línea de venta con precio aplicado.
type SaleItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID        string             `json:"id"`
	Currency  string             `json:"currency"`
	Items     []SaleItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	SoldAt    time.Time          `json:"sold_at"`
	CreatedBy string             `json:"created_by"`
}

// SaleListResponse ventas de un rango.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Range DateRange      `json:"range"`
}
