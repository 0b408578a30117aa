package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/inventory"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

// AdjustStockUseCase registra ajustes de inventario de forma transaccional
// con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type AdjustStockUseCase struct {
	txRunner       repository.TxRunner
	adjustmentRepo repository.AdjustmentRepository
	now            func() time.Time
}

// NewAdjustStockUseCase construye el caso de uso.
func NewAdjustStockUseCase(txRunner repository.TxRunner, adjustmentRepo repository.AdjustmentRepository) *AdjustStockUseCase {
	return &AdjustStockUseCase{txRunner: txRunner, adjustmentRepo: adjustmentRepo, now: time.Now}
}

// Adjust aplica un ajuste manual. El motivo "sale" está reservado al registro de ventas.
func (uc *AdjustStockUseCase) Adjust(ctx context.Context, scope tenancy.Scope, userID string, in dto.CreateAdjustmentRequest) (*dto.AdjustmentResultResponse, error) {
	if in.ProductID == "" || in.Delta == 0 || !entity.IsValidAdjustmentReason(in.Reason) {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitCost != nil && (in.UnitCost.IsNegative() || in.Reason != entity.AdjustmentRestock) {
		return nil, fmt.Errorf("%w: unit_cost solo aplica a restock", domain.ErrInvalidInput)
	}

	adj := &entity.InventoryAdjustment{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Delta:     in.Delta,
		Reason:    in.Reason,
		Reference: in.Reference,
		CreatedAt: uc.now().UTC(),
		CreatedBy: userID,
	}

	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		// Bloquea la fila del producto (SELECT FOR UPDATE) para evitar condiciones de carrera
		product, err = repos.Products.GetForUpdate(ctx, scope, in.ProductID)
		if err != nil {
			return err
		}
		return ApplyToLocked(ctx, repos, scope, product, adj, in.UnitCost)
	})
	if err != nil {
		return nil, err
	}
	adj.StoreID = scope.StoreID()
	return &dto.AdjustmentResultResponse{
		Adjustment: ToAdjustmentResponse(*adj),
		Stock:      product.Stock,
		Cost:       product.Cost,
	}, nil
}

// ApplyToLocked aplica adj sobre un producto ya bloqueado dentro de la transacción de repos:
// valida que el stock no quede negativo, recalcula el costo promedio si hay unitCost,
// persiste el stock y guarda el ajuste. Actualiza product en memoria.
// Lo usan los ajustes manuales, el alta de productos con stock inicial y el registro de ventas.
func ApplyToLocked(
	ctx context.Context,
	repos repository.TxRepos,
	scope tenancy.Scope,
	product *entity.Product,
	adj *entity.InventoryAdjustment,
	unitCost *decimal.Decimal,
) error {
	next, err := inventory.ApplyDelta(product.Stock, adj.Delta)
	if errors.Is(err, domain.ErrInsufficientStock) {
		return fmt.Errorf("%w: producto %s tiene %d, se requieren %d", domain.ErrInsufficientStock, product.SKU, product.Stock, -adj.Delta)
	}
	if err != nil {
		return err
	}
	cost := product.Cost
	if unitCost != nil && adj.Delta > 0 {
		cost = inventory.WeightedAverageCost(product.Stock, product.Cost, adj.Delta, *unitCost)
	}
	if err := repos.Products.UpdateStock(ctx, scope, product.ID, next, cost); err != nil {
		return err
	}
	if err := repos.Adjustments.Create(ctx, scope, adj); err != nil {
		return err
	}
	product.Stock = next
	product.Cost = cost
	return nil
}

// List lista los ajustes de la tienda; con productID, solo los de ese producto (sin paginar).
func (uc *AdjustStockUseCase) List(ctx context.Context, scope tenancy.Scope, productID string, page dto.PageRequest) (*dto.AdjustmentListResponse, error) {
	page.DefaultPage()
	var (
		list []entity.InventoryAdjustment
		err  error
	)
	if productID != "" {
		list, err = uc.adjustmentRepo.ListByProduct(ctx, scope, productID)
	} else {
		list, err = uc.adjustmentRepo.List(ctx, scope, repository.Page{Limit: page.Limit, Offset: page.Offset})
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		items = append(items, ToAdjustmentResponse(a))
	}
	return &dto.AdjustmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	}, nil
}

// ToAdjustmentResponse mapea un ajuste a su DTO.
func ToAdjustmentResponse(a entity.InventoryAdjustment) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		ID:        a.ID,
		ProductID: a.ProductID,
		Delta:     a.Delta,
		Reason:    a.Reason,
		Reference: a.Reference,
		CreatedAt: a.CreatedAt,
		CreatedBy: a.CreatedBy,
	}
}
