package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/application/inventory"
	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	stock "github.com/jhoicas/tiendapp-api/internal/domain/inventory"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

// maxRangeDays rango máximo de consulta de ventas y reportes.
const maxRangeDays = 366

// SaleUseCase registro y consulta de ventas.
type SaleUseCase struct {
	txRunner  repository.TxRunner
	saleRepo  repository.SaleRepository
	storeRepo repository.StoreRepository
	now       func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner repository.TxRunner, saleRepo repository.SaleRepository, storeRepo repository.StoreRepository) *SaleUseCase {
	return &SaleUseCase{txRunner: txRunner, saleRepo: saleRepo, storeRepo: storeRepo, now: time.Now}
}

// Create registra una venta en una transacción: bloquea las filas de los productos
// (en orden de ID para no generar deadlocks), valida stock, guarda la venta y un ajuste
// "sale" por producto. Stock insuficiente → domain.ErrInsufficientStock, sin cambios.
func (uc *SaleUseCase) Create(ctx context.Context, scope tenancy.Scope, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	required := make(map[string]int64, len(in.Items))
	for _, it := range in.Items {
		if it.ProductID == "" || it.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if it.Quantity > stock.MaxStock-required[it.ProductID] {
			return nil, fmt.Errorf("%w: cantidad de %s fuera de rango", domain.ErrInvalidInput, it.ProductID)
		}
		required[it.ProductID] += it.Quantity
	}
	ids := make([]string, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	store, err := uc.storeRepo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	soldAt := now
	if in.SoldAt != nil {
		soldAt = in.SoldAt.UTC()
	}

	sale := &entity.Sale{
		ID:        uuid.New().String(),
		StoreID:   scope.StoreID(),
		Currency:  store.Currency,
		SoldAt:    soldAt,
		CreatedBy: userID,
		CreatedAt: now,
	}

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		locked := make(map[string]*entity.Product, len(ids))
		for _, id := range ids {
			p, err := repos.Products.GetForUpdate(ctx, scope, id)
			if err != nil {
				return err
			}
			if p.Stock < required[id] {
				return fmt.Errorf("%w: producto %s tiene %d, se requieren %d", domain.ErrInsufficientStock, p.SKU, p.Stock, required[id])
			}
			locked[id] = p
		}

		total := decimal.Zero
		sale.Items = make([]entity.SaleItem, 0, len(in.Items))
		for _, it := range in.Items {
			price := locked[it.ProductID].Price
			amount := price.Mul(decimal.NewFromInt(it.Quantity))
			sale.Items = append(sale.Items, entity.SaleItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: price,
				Amount:    amount,
			})
			total = total.Add(amount)
		}
		sale.Total = total
		if err := repos.Sales.Create(ctx, scope, sale); err != nil {
			return err
		}

		for _, id := range ids {
			adj := &entity.InventoryAdjustment{
				ID:        uuid.New().String(),
				ProductID: id,
				Delta:     -required[id],
				Reason:    entity.AdjustmentSale,
				Reference: sale.ID,
				CreatedAt: now,
				CreatedBy: userID,
			}
			if err := inventory.ApplyToLocked(ctx, repos, scope, locked[id], adj, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toSaleResponse(*sale)
	return &out, nil
}

// GetByID obtiene una venta de la tienda.
func (uc *SaleUseCase) GetByID(ctx context.Context, scope tenancy.Scope, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	out := toSaleResponse(*sale)
	return &out, nil
}

// List ventas del rango [from, to), más recientes primero.
func (uc *SaleUseCase) List(ctx context.Context, scope tenancy.Scope, from, to time.Time) (*dto.SaleListResponse, error) {
	from, to, err := resolveRange(from, to, uc.now())
	if err != nil {
		return nil, err
	}
	list, err := uc.saleRepo.ListByRange(ctx, scope, from, to, 0)
	if err != nil {
		return nil, err
	}
	return &dto.SaleListResponse{
		Items: toSaleResponses(list),
		Range: dto.DateRange{From: from, To: to},
	}, nil
}

// resolveRange aplica el rango por defecto (últimos 30 días hasta ahora) y valida límites.
func resolveRange(from, to, now time.Time) (time.Time, time.Time, error) {
	if to.IsZero() {
		to = now
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	from, to = from.UTC(), to.UTC()
	if !from.Before(to) || to.Sub(from) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: rango de fechas inválido", domain.ErrInvalidInput)
	}
	return from, to, nil
}
