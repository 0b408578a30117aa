package repository

import (
	"context"

	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

// StoreRepository define el puerto de persistencia para Store.
// La tienda es el propio tenant: Get y Update operan sobre scope.StoreID().
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	Get(ctx context.Context, scope tenancy.Scope) (*entity.Store, error)
	Update(ctx context.Context, scope tenancy.Scope, store *entity.Store) error
	// ListAll lo usa solo el trabajo del resumen diario.
	ListAll(ctx context.Context) ([]*entity.Store, error)
}
