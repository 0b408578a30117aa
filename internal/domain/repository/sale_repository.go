package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

// SaleRepository define el puerto de persistencia para ventas (cabecera + líneas).
type SaleRepository interface {
	Create(ctx context.Context, scope tenancy.Scope, sale *entity.Sale) error
	GetByID(ctx context.Context, scope tenancy.Scope, id string) (*entity.Sale, error)
	// ListByRange ventas con sold_at en [from, to), más recientes primero. limit <= 0 = sin límite.
	ListByRange(ctx context.Context, scope tenancy.Scope, from, to time.Time, limit int) ([]entity.Sale, error)
	// ListByProduct ventas que incluyen al producto, más recientes primero.
	ListByProduct(ctx context.Context, scope tenancy.Scope, productID string, limit int) ([]entity.Sale, error)
}
