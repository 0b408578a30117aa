package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

// UserUseCase administración de los usuarios de una tienda.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// List lista los usuarios de la tienda.
func (uc *UserUseCase) List(ctx context.Context, scope tenancy.Scope, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByStore(ctx, scope, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, entityToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)},
	}, nil
}

// UpdateRole cambia el rol de un usuario de la tienda. Un admin no puede cambiarse el rol a sí mismo
// (la tienda quedaría sin administrador).
func (uc *UserUseCase) UpdateRole(ctx context.Context, scope tenancy.Scope, actorID, targetID, role string) (*dto.UserResponse, error) {
	if !entity.IsValidRole(role) {
		return nil, domain.ErrInvalidInput
	}
	target, err := uc.repo.GetInStore(ctx, scope, targetID)
	if err != nil {
		return nil, err
	}
	if target.ID == actorID && role != target.Role {
		return nil, fmt.Errorf("%w: no puede cambiar su propio rol", domain.ErrConflict)
	}
	if err := uc.repo.UpdateRole(ctx, scope, targetID, role); err != nil {
		return nil, err
	}
	target.Role = role
	target.UpdatedAt = time.Now().UTC()
	out := entityToUserResponse(target)
	return &out, nil
}

// UpdateSubscription fija estado y vencimiento de la suscripción de un usuario de la tienda.
func (uc *UserUseCase) UpdateSubscription(ctx context.Context, scope tenancy.Scope, targetID string, in dto.UpdateSubscriptionRequest) (*dto.UserResponse, error) {
	if in.Status != entity.SubscriptionActive && in.Status != entity.SubscriptionExpired {
		return nil, domain.ErrInvalidInput
	}
	target, err := uc.repo.GetInStore(ctx, scope, targetID)
	if err != nil {
		return nil, err
	}
	var expiresAt *time.Time
	if in.ExpiresAt != nil {
		t := in.ExpiresAt.UTC()
		expiresAt = &t
	}
	if err := uc.repo.UpdateSubscription(ctx, scope, targetID, in.Status, expiresAt); err != nil {
		return nil, err
	}
	target.SubscriptionStatus = in.Status
	target.SubscriptionExpiresAt = expiresAt
	out := entityToUserResponse(target)
	return &out, nil
}
