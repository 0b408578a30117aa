package dto

// SalesTotalsResponse totales de ventas de un rango.
type SalesTotalsResponse struct {
	SalesCount       int               `json:"sales_count"`
	UnitsSold        int64             `json:"units_sold"`
	Revenue          map[string]string `json:"revenue"`
	RevenueFormatted map[string]string `json:"revenue_formatted"`
}

// DailyRevenueResponse totales de un día.
type DailyRevenueResponse struct {
	Date       string            `json:"date"` // YYYY-MM-DD
	SalesCount int               `json:"sales_count"`
	UnitsSold  int64             `json:"units_sold"`
	Revenue    map[string]string `json:"revenue"`
}

// TopProductResponse producto del ranking de ventas.
type TopProductResponse struct {
	ProductID string            `json:"product_id"`
	SKU       string            `json:"sku,omitempty"`
	Name      string            `json:"name,omitempty"`
	UnitsSold int64             `json:"units_sold"`
	Revenue   map[string]string `json:"revenue"`
}

// SalesReportResponse salida de GET /api/reports/sales.
type SalesReportResponse struct {
	Range       DateRange              `json:"range"`
	Totals      SalesTotalsResponse    `json:"totals"`
	Daily       []DailyRevenueResponse `json:"daily"`
	TopProducts []TopProductResponse   `json:"top_products"`
}

// InventoryReportResponse salida de GET /api/reports/inventory.
type InventoryReportResponse struct {
	Currency            string            `json:"currency"`
	ProductCount        int               `json:"product_count"`
	UnitsInStock        int64             `json:"units_in_stock"`
	StockValue          string            `json:"stock_value"`
	StockValueFormatted string            `json:"stock_value_formatted"`
	LowStock            []ProductResponse `json:"low_stock"`
}

// MobileSummaryResponse resumen de la app móvil: ventas de hoy y alertas de stock.
type MobileSummaryResponse struct {
	StoreName     string              `json:"store_name"`
	Today         SalesTotalsResponse `json:"today"`
	LowStockCount int                 `json:"low_stock_count"`
	ProductCount  int                 `json:"product_count"`
}

// MobileProductResponse versión reducida de producto para la app móvil.
type MobileProductResponse struct {
	ID             string `json:"id"`
	SKU            string `json:"sku"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	PriceFormatted string `json:"price_formatted"`
	Stock          int64  `json:"stock"`
	LowStock       bool   `json:"low_stock"`
}

// CronResponse salida de GET /api/cron. Los contadores se omiten si el trabajo falló.
type CronResponse struct {
	Success    bool              `json:"success"`
	SubsSent   *int              `json:"subsSent,omitempty"`
	BriefsSent *int              `json:"briefsSent,omitempty"`
	Failures   map[string]string `json:"failures,omitempty"`
}

// DebugDumpResponse volcado de la tienda del llamador (solo desarrollo).
type DebugDumpResponse struct {
	Store       StoreResponse        `json:"store"`
	Users       []UserResponse       `json:"users"`
	Products    []ProductResponse    `json:"products"`
	Sales       []SaleResponse       `json:"sales"`
	Adjustments []AdjustmentResponse `json:"adjustments"`
}
