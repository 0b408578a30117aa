package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateAdjustmentRequest body de POST /api/inventory/adjustments.
// UnitCost solo aplica a restock (recalcula el costo promedio ponderado).
type CreateAdjustmentRequest struct {
	ProductID string           `json:"product_id" validate:"required"`
	Delta     int64            `json:"delta" validate:"required,min=-1000000000000,max=1000000000000"`
	Reason    string           `json:"reason" validate:"required,oneof=initial restock correction damage return"`
	Reference string           `json:"reference" validate:"omitempty,max=200"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// AdjustmentResponse salida de un ajuste.
type AdjustmentResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Delta     int64     `json:"delta"`
	Reason    string    `json:"reason"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by"`
}

// AdjustmentResultResponse ajuste registrado más el stock resultante.
type AdjustmentResultResponse struct {
	Adjustment AdjustmentResponse `json:"adjustment"`
	Stock      int64              `json:"stock"`
	Cost       decimal.Decimal    `json:"cost"`
}

// AdjustmentListResponse ajustes de la tienda (o de un producto).
type AdjustmentListResponse struct {
	Items []AdjustmentResponse `json:"items"`
	Page  PageResponse         `json:"page"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ProductID           string          `json:"product_id"`
	SKU                 string          `json:"sku"`
	ProductName         string          `json:"product_name"`
	CurrentStock        int64           `json:"current_stock"`
	ReorderPoint        int64           `json:"reorder_point"`
	IdealStock          int64           `json:"ideal_stock"`          // ReorderPoint * 1.5
	SuggestedOrderQty   int64           `json:"suggested_order_qty"`  // IdealStock - CurrentStock
	UnitCost            decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost  decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	GrossMarginPct      decimal.Decimal `json:"gross_margin_pct"`
	UnitsSoldLast90Days int64           `json:"units_sold_last_90d"`
	Priority            int             `json:"priority"` // 1 = más urgente
}
