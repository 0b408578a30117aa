package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/domain/aggregate"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

const replenishmentLookbackDays = 90

// ReplenishmentUseCase genera la lista de reposición de la tienda.
// Combina los productos con stock bajo con el volumen de ventas reciente para priorizarlos.
type ReplenishmentUseCase struct {
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	saleRepo    repository.SaleRepository
	now         func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		storeRepo:   storeRepo,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		now:         time.Now,
	}
}

// GenerateReplenishmentList devuelve los productos en o bajo su punto de reorden con la cantidad
// sugerida de pedido y un ranking de prioridad basado en margen y volumen de ventas.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, scope tenancy.Scope) ([]dto.ReplenishmentSuggestionDTO, error) {
	store, err := uc.storeRepo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}

	// 1. Productos con stock bajo
	low, err := uc.productRepo.ListLowStock(ctx, scope, store.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Unidades vendidas por producto en los últimos 90 días
	end := uc.now()
	start := end.AddDate(0, 0, -replenishmentLookbackDays)
	sales, err := uc.saleRepo.ListByRange(ctx, scope, start, end, 0)
	if err != nil {
		return nil, err
	}
	unitsByID := make(map[string]int64)
	for _, r := range aggregate.TopProducts(sales, 0) {
		unitsByID[r.ProductID] = r.UnitsSold
	}

	// 3. Sugerencias: stock ideal = 1.5 × punto de reorden
	hundred := decimal.NewFromInt(100)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, p := range low {
		reorder := p.ReorderPoint
		if reorder <= 0 {
			reorder = int64(store.LowStockThreshold)
		}
		ideal := decimal.NewFromInt(reorder).Mul(decimal.NewFromFloat(1.5)).Ceil().IntPart()
		suggested := ideal - p.Stock
		if suggested < 0 {
			suggested = 0
		}

		var marginPct decimal.Decimal
		if p.Price.GreaterThan(decimal.Zero) {
			marginPct = p.Price.Sub(p.Cost).Div(p.Price).Mul(hundred).Round(2)
		}

		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:           p.ID,
			SKU:                 p.SKU,
			ProductName:         p.Name,
			CurrentStock:        p.Stock,
			ReorderPoint:        reorder,
			IdealStock:          ideal,
			SuggestedOrderQty:   suggested,
			UnitCost:            p.Cost,
			EstimatedOrderCost:  decimal.NewFromInt(suggested).Mul(p.Cost),
			GrossMarginPct:      marginPct,
			UnitsSoldLast90Days: unitsByID[p.ID],
		})
	}

	// 4. Ordenar: mayor margen, luego mayor volumen, luego mayor déficit; por último SKU
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if a.UnitsSoldLast90Days != b.UnitsSoldLast90Days {
			return a.UnitsSoldLast90Days > b.UnitsSoldLast90Days
		}
		defA, defB := a.ReorderPoint-a.CurrentStock, b.ReorderPoint-b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		return a.SKU < b.SKU
	})

	// 5. Prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
