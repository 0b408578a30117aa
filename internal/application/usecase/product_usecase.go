package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/application/inventory"
	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/internal/domain/aggregate"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

// recentSalesLimit ventas recientes en el detalle de producto.
const recentSalesLimit = 10

// ProductUseCase casos de uso del catálogo. Stock solo cambia vía ajustes; Cost vía restock.
type ProductUseCase struct {
	txRunner       repository.TxRunner
	repo           repository.ProductRepository
	storeRepo      repository.StoreRepository
	saleRepo       repository.SaleRepository
	adjustmentRepo repository.AdjustmentRepository
	now            func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	txRunner repository.TxRunner,
	repo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	saleRepo repository.SaleRepository,
	adjustmentRepo repository.AdjustmentRepository,
) *ProductUseCase {
	return &ProductUseCase{
		txRunner:       txRunner,
		repo:           repo,
		storeRepo:      storeRepo,
		saleRepo:       saleRepo,
		adjustmentRepo: adjustmentRepo,
		now:            time.Now,
	}
}

// Create crea un producto. Con InitialStock > 0 registra el ajuste "initial" en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, scope tenancy.Scope, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Price.IsNegative() || in.Cost.IsNegative() || in.ReorderPoint < 0 || in.InitialStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.repo.GetBySKU(ctx, scope, in.SKU)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	store, err := uc.storeRepo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	product := &entity.Product{
		ID:           uuid.New().String(),
		StoreID:      scope.StoreID(),
		SKU:          in.SKU,
		Name:         in.Name,
		Description:  in.Description,
		Category:     in.Category,
		Price:        in.Price,
		Cost:         in.Cost,
		ReorderPoint: in.ReorderPoint,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Products.Create(ctx, scope, product); err != nil {
			return err
		}
		if in.InitialStock == 0 {
			return nil
		}
		adj := &entity.InventoryAdjustment{
			ID:        uuid.New().String(),
			ProductID: product.ID,
			Delta:     in.InitialStock,
			Reason:    entity.AdjustmentInitial,
			CreatedAt: now,
			CreatedBy: userID,
		}
		return inventory.ApplyToLocked(ctx, repos, scope, product, adj, nil)
	})
	if err != nil {
		return nil, err
	}
	out := toProductResponse(product, store.LowStockThreshold)
	return &out, nil
}

// GetByID obtiene un producto de la tienda. Ajeno o ausente → domain.ErrNotFound.
func (uc *ProductUseCase) GetByID(ctx context.Context, scope tenancy.Scope, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	store, err := uc.storeRepo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	out := toProductResponse(product, store.LowStockThreshold)
	return &out, nil
}

// Update actualiza un producto. No permite modificar Cost ni Stock.
func (uc *ProductUseCase) Update(ctx context.Context, scope tenancy.Scope, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.ReorderPoint != nil {
		if *in.ReorderPoint < 0 {
			return nil, domain.ErrInvalidInput
		}
		product.ReorderPoint = *in.ReorderPoint
	}
	product.UpdatedAt = uc.now().UTC()
	if err := uc.repo.Update(ctx, scope, product); err != nil {
		return nil, err
	}
	store, err := uc.storeRepo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	out := toProductResponse(product, store.LowStockThreshold)
	return &out, nil
}

// Delete elimina un producto de la tienda.
func (uc *ProductUseCase) Delete(ctx context.Context, scope tenancy.Scope, id string) error {
	return uc.repo.Delete(ctx, scope, id)
}

// List lista productos de la tienda con búsqueda opcional y paginación.
func (uc *ProductUseCase) List(ctx context.Context, scope tenancy.Scope, query string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, scope, repository.ProductFilter{
		Query: query,
		Page:  repository.Page{Limit: page.Limit, Offset: page.Offset},
	})
	if err != nil {
		return nil, err
	}
	store, err := uc.storeRepo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &dto.ProductListResponse{
		Items: toProductResponses(list, store.LowStockThreshold),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	}, nil
}

// productDetail datos del detalle antes de mapear (también los usa la ficha PDF).
type productDetail struct {
	product *entity.Product
	store   *entity.Store
	sales   []entity.Sale
	totals  aggregate.SalesTotals
	history []aggregate.StockPoint
}

// loadDetail lee primero el producto: si es ajeno o no existe no se consulta nada más.
func (uc *ProductUseCase) loadDetail(ctx context.Context, scope tenancy.Scope, id string) (*productDetail, error) {
	product, err := uc.repo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}

	type salesResult struct {
		sales []entity.Sale
		err   error
	}
	type adjResult struct {
		adjustments []entity.InventoryAdjustment
		err         error
	}
	type storeResult struct {
		store *entity.Store
		err   error
	}

	salesCh := make(chan salesResult, 1)
	adjCh := make(chan adjResult, 1)
	storeCh := make(chan storeResult, 1)

	go func() {
		s, err := uc.saleRepo.ListByProduct(ctx, scope, product.ID, 0)
		salesCh <- salesResult{s, err}
	}()
	go func() {
		a, err := uc.adjustmentRepo.ListByProduct(ctx, scope, product.ID)
		adjCh <- adjResult{a, err}
	}()
	go func() {
		s, err := uc.storeRepo.Get(ctx, scope)
		storeCh <- storeResult{s, err}
	}()

	sales := <-salesCh
	adj := <-adjCh
	st := <-storeCh
	if sales.err != nil {
		return nil, sales.err
	}
	if adj.err != nil {
		return nil, adj.err
	}
	if st.err != nil {
		return nil, st.err
	}
	return &productDetail{
		product: product,
		store:   st.store,
		sales:   sales.sales,
		totals:  aggregate.ProductSaleTotals(sales.sales, product.ID),
		history: aggregate.StockHistory(adj.adjustments),
	}, nil
}

// Detail devuelve producto, ventas recientes, historial de stock y KPIs.
func (uc *ProductUseCase) Detail(ctx context.Context, scope tenancy.Scope, id string) (*dto.ProductDetailResponse, error) {
	d, err := uc.loadDetail(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	recent := d.sales
	if len(recent) > recentSalesLimit {
		recent = recent[:recentSalesLimit]
	}
	points := make([]dto.StockPointResponse, 0, len(d.history))
	for _, p := range d.history {
		points = append(points, dto.StockPointResponse{
			At:           p.At,
			AdjustmentID: p.AdjustmentID,
			Delta:        p.Delta,
			Reason:       p.Reason,
			Balance:      p.Balance,
		})
	}
	threshold := d.store.LowStockThreshold
	return &dto.ProductDetailResponse{
		Product:      toProductResponse(d.product, threshold),
		RecentSales:  toSaleResponses(recent),
		StockHistory: points,
		KPIs: dto.ProductKPIs{
			UnitsSold:        d.totals.UnitsSold,
			SalesCount:       d.totals.SalesCount,
			Revenue:          revenueStrings(d.totals.Revenue),
			RevenueFormatted: aggregate.FormatRevenue(d.totals.Revenue, displayLocale),
			CurrentStock:     d.product.Stock,
			LowStock:         d.product.IsLowStock(threshold),
		},
	}, nil
}
