package repository

import (
	"context"

	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

// AdjustmentRepository define el puerto de persistencia para ajustes de inventario.
type AdjustmentRepository interface {
	Create(ctx context.Context, scope tenancy.Scope, adj *entity.InventoryAdjustment) error
	ListByProduct(ctx context.Context, scope tenancy.Scope, productID string) ([]entity.InventoryAdjustment, error)
	List(ctx context.Context, scope tenancy.Scope, page Page) ([]entity.InventoryAdjustment, error)
}
