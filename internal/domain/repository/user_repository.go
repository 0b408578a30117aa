package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// GetByID busca por subject ID sin scope: lo usa únicamente el gate de acceso
	// para resolver la tienda del llamador. Devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByEmail para login con el proveedor JWT propio. (nil, nil) si no existe.
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// AssignStore aprovisiona una cuenta sin tienda. ErrConflict si ya tenía tienda.
	AssignStore(ctx context.Context, userID, storeID, role string) error

	// Operaciones acotadas a la tienda del llamador. Registro ajeno o ausente → ErrNotFound.
	GetInStore(ctx context.Context, scope tenancy.Scope, id string) (*entity.User, error)
	ListByStore(ctx context.Context, scope tenancy.Scope, page Page) ([]*entity.User, error)
	ListByRoles(ctx context.Context, scope tenancy.Scope, roles []string) ([]*entity.User, error)
	UpdateRole(ctx context.Context, scope tenancy.Scope, id, role string) error
	UpdateSubscription(ctx context.Context, scope tenancy.Scope, id, status string, expiresAt *time.Time) error

	// Consultas de sistema para los trabajos programados (no pertenecen a un tenant).
	ListActiveSubscriptionsExpiringBefore(ctx context.Context, before time.Time) ([]*entity.User, error)
	MarkSubscriptionExpired(ctx context.Context, id string) error
}
