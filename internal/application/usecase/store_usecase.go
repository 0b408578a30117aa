package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/tiendapp-api/internal/application/dto"
	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
	"golang.org/x/text/currency"
)

// StoreUseCase configuración de la tienda y onboarding.
type StoreUseCase struct {
	txRunner  repository.TxRunner
	storeRepo repository.StoreRepository
	userRepo  repository.UserRepository
	now       func() time.Time
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(txRunner repository.TxRunner, storeRepo repository.StoreRepository, userRepo repository.UserRepository) *StoreUseCase {
	return &StoreUseCase{txRunner: txRunner, storeRepo: storeRepo, userRepo: userRepo, now: time.Now}
}

// Onboard crea la tienda del usuario y lo aprovisiona como admin.
// ErrConflict si la cuenta ya pertenece a una tienda; en ese caso la tienda no queda creada.
func (uc *StoreUseCase) Onboard(ctx context.Context, user *entity.User, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	if user.StoreID != "" {
		return nil, domain.ErrConflict
	}
	code, err := normalizeCurrency(in.Currency)
	if err != nil {
		return nil, err
	}
	threshold := entity.DefaultLowStockThreshold
	if in.LowStockThreshold != nil {
		threshold = *in.LowStockThreshold
	}
	now := uc.now().UTC()
	store := &entity.Store{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Address:           in.Address,
		Phone:             in.Phone,
		Email:             in.Email,
		Currency:          code,
		LowStockThreshold: threshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		if err := repos.Stores.Create(ctx, store); err != nil {
			return err
		}
		return repos.Users.AssignStore(ctx, user.ID, store.ID, entity.RoleAdmin)
	})
	if err != nil {
		return nil, err
	}
	out := entityToStoreResponse(store)
	return &out, nil
}

// Get devuelve el perfil de la tienda del scope.
func (uc *StoreUseCase) Get(ctx context.Context, scope tenancy.Scope) (*dto.StoreResponse, error) {
	store, err := uc.storeRepo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	out := entityToStoreResponse(store)
	return &out, nil
}

// Update modifica los campos no nil.
func (uc *StoreUseCase) Update(ctx context.Context, scope tenancy.Scope, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	store, err := uc.storeRepo.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		store.Name = *in.Name
	}
	if in.Address != nil {
		store.Address = *in.Address
	}
	if in.Phone != nil {
		store.Phone = *in.Phone
	}
	if in.Email != nil {
		store.Email = *in.Email
	}
	if in.Currency != nil {
		code, err := normalizeCurrency(*in.Currency)
		if err != nil {
			return nil, err
		}
		store.Currency = code
	}
	if in.LogoURL != nil {
		store.LogoURL = *in.LogoURL
	}
	if in.PrimaryColor != nil {
		store.PrimaryColor = *in.PrimaryColor
	}
	if in.LowStockThreshold != nil {
		if *in.LowStockThreshold < 0 {
			return nil, domain.ErrInvalidInput
		}
		store.LowStockThreshold = *in.LowStockThreshold
	}
	store.UpdatedAt = uc.now().UTC()
	if err := uc.storeRepo.Update(ctx, scope, store); err != nil {
		return nil, err
	}
	out := entityToStoreResponse(store)
	return &out, nil
}

// normalizeCurrency valida un código ISO 4217; vacío = moneda por defecto.
func normalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return entity.DefaultCurrency, nil
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", domain.ErrInvalidInput
	}
	return unit.String(), nil
}
