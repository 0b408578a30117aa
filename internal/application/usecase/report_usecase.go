package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/domain/aggregate"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

const reportTopProducts = 5 // productos en el ranking del reporte

// ReportUseCase reportes de ventas e inventario de la tienda (consultas read-only).
type ReportUseCase struct {
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	now         func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(storeRepo repository.StoreRepository, productRepo repository.ProductRepository, saleRepo repository.SaleRepository) *ReportUseCase {
	return &ReportUseCase{storeRepo: storeRepo, productRepo: productRepo, saleRepo: saleRepo, now: time.Now}
}

// salesReport datos del reporte antes de mapear a DTO (también los usa el PDF).
type salesReport struct {
	store    *entity.Store
	from, to time.Time
	totals   aggregate.SalesTotals
	daily    []aggregate.DayTotals
	top      []aggregate.ProductRank
	products map[string]*entity.Product
}

func (uc *ReportUseCase) buildSalesReport(ctx context.Context, scope tenancy.Scope, from, to time.Time) (*salesReport, error) {
	from, to, err := resolveRange(from, to, uc.now())
	if err != nil {
		return nil, err
	}

	type salesResult struct {
		sales []entity.Sale
		err   error
	}
	type productsResult struct {
		products []*entity.Product
		err      error
	}
	salesCh := make(chan salesResult, 1)
	productsCh := make(chan productsResult, 1)

	go func() {
		s, err := uc.saleRepo.ListByRange(ctx, scope, from, to, 0)
		salesCh <- salesResult{s, err}
	}()
	go func() {
		p, err := uc.productRepo.ListAll(ctx, scope)
		productsCh <- productsResult{p, err}
	}()

	store, err := uc.storeRepo.Get(ctx, scope)
	sales := <-salesCh
	products := <-productsCh
	if err != nil {
		return nil, err
	}
	if sales.err != nil {
		return nil, sales.err
	}
	if products.err != nil {
		return nil, products.err
	}

	byID := make(map[string]*entity.Product, len(products.products))
	for _, p := range products.products {
		byID[p.ID] = p
	}
	return &salesReport{
		store:    store,
		from:     from,
		to:       to,
		totals:   aggregate.SaleTotals(sales.sales),
		daily:    aggregate.DailyRevenue(sales.sales, time.UTC),
		top:      aggregate.TopProducts(sales.sales, reportTopProducts),
		products: byID,
	}, nil
}

// SalesReport totales, ingresos diarios y ranking de productos del rango [from, to).
func (uc *ReportUseCase) SalesReport(ctx context.Context, scope tenancy.Scope, from, to time.Time) (*dto.SalesReportResponse, error) {
	r, err := uc.buildSalesReport(ctx, scope, from, to)
	if err != nil {
		return nil, err
	}
	daily := make([]dto.DailyRevenueResponse, 0, len(r.daily))
	for _, d := range r.daily {
		daily = append(daily, dto.DailyRevenueResponse{
			Date:       d.Date,
			SalesCount: d.SalesCount,
			UnitsSold:  d.UnitsSold,
			Revenue:    revenueStrings(d.Revenue),
		})
	}
	top := make([]dto.TopProductResponse, 0, len(r.top))
	for _, t := range r.top {
		item := dto.TopProductResponse{
			ProductID: t.ProductID,
			UnitsSold: t.UnitsSold,
			Revenue:   revenueStrings(t.Revenue),
		}
		// Un producto borrado sigue en el ranking, sin SKU ni nombre.
		if p, ok := r.products[t.ProductID]; ok {
			item.SKU, item.Name = p.SKU, p.Name
		}
		top = append(top, item)
	}
	return &dto.SalesReportResponse{
		Range:       dto.DateRange{From: r.from, To: r.to},
		Totals:      toSalesTotalsResponse(r.totals),
		Daily:       daily,
		TopProducts: top,
	}, nil
}

// InventoryReport valor del inventario (Σ stock × costo) y productos con stock bajo.
func (uc *ReportUseCase) InventoryReport(ctx context.Context, scope tenancy.Scope) (*dto.InventoryReportResponse, error) {
	store, err := uc.storeRepo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.ListAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	low, err := uc.productRepo.ListLowStock(ctx, scope, store.LowStockThreshold)
	if err != nil {
		return nil, err
	}

	value := decimal.Zero
	var units int64
	for _, p := range products {
		if p.Stock <= 0 {
			continue
		}
		units += p.Stock
		value = value.Add(p.Cost.Mul(decimal.NewFromInt(p.Stock)))
	}
	return &dto.InventoryReportResponse{
		Currency:            store.Currency,
		ProductCount:        len(products),
		UnitsInStock:        units,
		StockValue:          value.String(),
		StockValueFormatted: aggregate.FormatMoney(value, store.Currency, displayLocale),
		LowStock:            toProductResponses(low, store.LowStockThreshold),
	}, nil
}
