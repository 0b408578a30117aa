package repository

import (
	"context"

	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

// ProductFilter filtros de listado de productos (siempre dentro del scope).
type ProductFilter struct {
	Query string // busca en sku y name
	Page  Page
}

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, scope tenancy.Scope, product *entity.Product) error
	GetByID(ctx context.Context, scope tenancy.Scope, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, scope tenancy.Scope, sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE); solo dentro de una transacción.
	GetForUpdate(ctx context.Context, scope tenancy.Scope, id string) (*entity.Product, error)
	Update(ctx context.Context, scope tenancy.Scope, product *entity.Product) error
	// UpdateStock fija stock y costo; solo el motor de inventario lo usa.
	UpdateStock(ctx context.Context, scope tenancy.Scope, id string, stock int64, cost decimal.Decimal) error
	Delete(ctx context.Context, scope tenancy.Scope, id string) error
	List(ctx context.Context, scope tenancy.Scope, filter ProductFilter) ([]*entity.Product, error)
	// ListLowStock productos con stock <= punto de reorden (o el umbral de la tienda si no lo tienen).
	ListLowStock(ctx context.Context, scope tenancy.Scope, storeThreshold int) ([]*entity.Product, error)
	ListAll(ctx context.Context, scope tenancy.Scope) ([]*entity.Product, error)
}
