package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. InitialStock > 0 registra un ajuste "initial".
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description" validate:"omitempty,max=2000"`
	Category     string          `json:"category" validate:"omitempty,max=100"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	ReorderPoint int64           `json:"reorder_point" validate:"min=0"`
	InitialStock int64           `json:"initial_stock" validate:"min=0,max=1000000000000"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Cost ni Stock).
type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" validate:"omitempty,max=2000"`
	Category     *string          `json:"category" validate:"omitempty,max=100"`
	Price        *decimal.Decimal `json:"price"`
	ReorderPoint *int64           `json:"reorder_point" validate:"omitempty,min=0"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	StoreID      string          `json:"store_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Stock        int64           `json:"stock"`
	ReorderPoint int64           `json:"reorder_point"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductKPIs indicadores del detalle de producto.
type ProductKPIs struct {
	UnitsSold        int64             `json:"units_sold"`
	SalesCount       int               `json:"sales_count"`
	Revenue          map[string]string `json:"revenue"`           // moneda → importe exacto
	RevenueFormatted map[string]string `json:"revenue_formatted"` // moneda → importe localizado
	CurrentStock     int64             `json:"current_stock"`
	LowStock         bool              `json:"low_stock"`
}

// StockPointResponse un punto del historial de stock.
type StockPointResponse struct {
	At           time.Time `json:"at"`
	AdjustmentID string    `json:"adjustment_id"`
	Delta        int64     `json:"delta"`
	Reason       string    `json:"reason"`
	Balance      int64     `json:"balance"`
}

// ProductDetailResponse salida de GET /api/products/:id.
type ProductDetailResponse struct {
	Product      ProductResponse      `json:"product"`
	RecentSales  []SaleResponse       `json:"recent_sales"`
	StockHistory []StockPointResponse `json:"stock_history"`
	KPIs         ProductKPIs          `json:"kpis"`
}
