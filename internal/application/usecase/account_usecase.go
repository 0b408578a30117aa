package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/application/inventory"
	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

// AccountUseCase datos de la cuenta del llamador: perfil, datos protegidos y volcado de desarrollo.
type AccountUseCase struct {
	userRepo       repository.UserRepository
	storeRepo      repository.StoreRepository
	productRepo    repository.ProductRepository
	saleRepo       repository.SaleRepository
	adjustmentRepo repository.AdjustmentRepository
	now            func() time.Time
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	adjustmentRepo repository.AdjustmentRepository,
) *AccountUseCase {
	return &AccountUseCase{
		userRepo:       userRepo,
		storeRepo:      storeRepo,
		productRepo:    productRepo,
		saleRepo:       saleRepo,
		adjustmentRepo: adjustmentRepo,
		now:            time.Now,
	}
}

// Me devuelve el usuario y el perfil de su tienda.
func (uc *AccountUseCase) Me(ctx context.Context, scope tenancy.Scope, userID string) (*dto.MeResponse, error) {
	user, err := uc.userRepo.GetInStore(ctx, scope, userID)
	if err != nil {
		return nil, err
	}
	store, err := uc.storeRepo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		User:               entityToUserResponse(user),
		Store:              entityToStoreResponse(store),
		ActiveSubscription: user.HasActiveSubscription(uc.now()),
	}, nil
}

// ProtectedData payload reservado a suscripciones activas (lo exige la política de la ruta).
// requestedUser, si viene, debe ser el propio llamador.
func (uc *AccountUseCase) ProtectedData(ctx context.Context, scope tenancy.Scope, callerID, requestedUser string) (*dto.ProtectedDataResponse, error) {
	if requestedUser != "" && requestedUser != callerID {
		return nil, fmt.Errorf("%w: solo puede consultar sus propios datos", domain.ErrForbidden)
	}
	user, err := uc.userRepo.GetInStore(ctx, scope, callerID)
	if err != nil {
		return nil, err
	}
	out := &dto.ProtectedDataResponse{
		UserID:  user.ID,
		StoreID: user.StoreID,
		Message: "suscripción activa",
	}
	if user.SubscriptionExpiresAt != nil {
		out.SubscriptionExpiresAt = user.SubscriptionExpiresAt.UTC().Format(time.RFC3339)
	}
	return out, nil
}

// DebugDump vuelca los datos de la tienda del scope. Nunca cruza tiendas.
func (uc *AccountUseCase) DebugDump(ctx context.Context, scope tenancy.Scope) (*dto.DebugDumpResponse, error) {
	store, err := uc.storeRepo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	maxPage := repository.Page{Limit: repository.MaxPageLimit}
	users, err := uc.userRepo.ListByStore(ctx, scope, maxPage)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.ListAll(ctx, scope)
	if err != nil {
		return nil, err
	}
	sales, err := uc.saleRepo.ListByRange(ctx, scope, time.Unix(0, 0).UTC(), uc.now().UTC().Add(time.Second), repository.MaxPageLimit)
	if err != nil {
		return nil, err
	}
	adjustments, err := uc.adjustmentRepo.List(ctx, scope, maxPage)
	if err != nil {
		return nil, err
	}

	out := &dto.DebugDumpResponse{
		Store:       entityToStoreResponse(store),
		Users:       make([]dto.UserResponse, 0, len(users)),
		Products:    toProductResponses(products, store.LowStockThreshold),
		Sales:       toSaleResponses(sales),
		Adjustments: make([]dto.AdjustmentResponse, 0, len(adjustments)),
	}
	for _, u := range users {
		out.Users = append(out.Users, entityToUserResponse(u))
	}
	for _, a := range adjustments {
		out.Adjustments = append(out.Adjustments, inventory.ToAdjustmentResponse(a))
	}
	return out, nil
}
