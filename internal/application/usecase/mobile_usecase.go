package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/domain/aggregate"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

const (
	mobileRecentSales    = 20
	mobileRecentSalesAge = 30 * 24 * time.Hour
)

// MobileUseCase vistas reducidas para la app móvil.
type MobileUseCase struct {
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	now         func() time.Time
}

// NewMobileUseCase construye el caso de uso.
func NewMobileUseCase(storeRepo repository.StoreRepository, productRepo repository.ProductRepository, saleRepo repository.SaleRepository) *MobileUseCase {
	return &MobileUseCase{storeRepo: storeRepo, productRepo: productRepo, saleRepo: saleRepo, now: time.Now}
}

// Summary ventas del día (UTC) y conteo de alertas de stock.
func (uc *MobileUseCase) Summary(ctx context.Context, scope tenancy.Scope) (*dto.MobileSummaryResponse, error) {
	store, err := uc.storeRepo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	sales, err := uc.saleRepo.ListByRange(ctx, scope, dayStart, dayStart.Add(24*time.Hour), 0)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.ListAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	lowCount := 0
	for _, p := range products {
		if p.IsLowStock(store.LowStockThreshold) {
			lowCount++
		}
	}
	return &dto.MobileSummaryResponse{
		StoreName:     store.Name,
		Today:         toSalesTotalsResponse(aggregate.SaleTotals(sales)),
		LowStockCount: lowCount,
		ProductCount:  len(products),
	}, nil
}

// Products catálogo paginado con precios formateados en la moneda de la tienda.
func (uc *MobileUseCase) Products(ctx context.Context, scope tenancy.Scope, query string, page dto.PageRequest) ([]dto.MobileProductResponse, error) {
	page.DefaultPage()
	store, err := uc.storeRepo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	list, err := uc.productRepo.List(ctx, scope, repository.ProductFilter{
		Query: query,
		Page:  repository.Page{Limit: page.Limit, Offset: page.Offset},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MobileProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.MobileProductResponse{
			ID:             p.ID,
			SKU:            p.SKU,
			Name:           p.Name,
			Price:          p.Price.String(),
			PriceFormatted: aggregate.FormatMoney(p.Price, store.Currency, displayLocale),
			Stock:          p.Stock,
			LowStock:       p.IsLowStock(store.LowStockThreshold),
		})
	}
	return out, nil
}

// RecentSales últimas ventas de los últimos 30 días.
func (uc *MobileUseCase) RecentSales(ctx context.Context, scope tenancy.Scope) ([]dto.SaleResponse, error) {
	now := uc.now().UTC()
	list, err := uc.saleRepo.ListByRange(ctx, scope, now.Add(-mobileRecentSalesAge), now.Add(time.Second), mobileRecentSales)
	if err != nil {
		return nil, err
	}
	return toSaleResponses(list), nil
}
