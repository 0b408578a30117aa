package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

var _ repository.StoreRepository = (*StoreRepo)(nil)

const storeColumns = `id, name, address, phone, email, currency, logo_url, primary_color, plan_id, low_stock_threshold, created_at, updated_at`

// StoreRepo implementación del puerto StoreRepository sobre PostgreSQL.
type StoreRepo struct {
	base
}

// NewStoreRepository construye el adaptador de persistencia para tiendas.
func NewStoreRepository(q Querier, queryTimeout time.Duration) *StoreRepo {
	return &StoreRepo{base{q: q, timeout: queryTimeout}}
}

func scanStore(row pgx.Row) (*entity.Store, error) {
	var s entity.Store
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Phone, &s.Email, &s.Currency, &s.LogoURL,
		&s.PrimaryColor, &s.PlanID, &s.LowStockThreshold, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste una tienda nueva.
func (r *StoreRepo) Create(ctx context.Context, store *entity.Store) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	query := `
		INSERT INTO stores (` + storeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		store.ID, store.Name, store.Address, store.Phone, store.Email, store.Currency, store.LogoURL,
		store.PrimaryColor, store.PlanID, store.LowStockThreshold, store.CreatedAt, store.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert store: %w", err)
	}
	return nil
}

// Get obtiene la tienda del scope.
func (r *StoreRepo) Get(ctx context.Context, scope tenancy.Scope) (*entity.Store, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	s, err := scanStore(r.q.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, scope.StoreID()))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get store: %w", err)
	}
	return tenancy.CheckOwner(scope, s, err == nil)
}

// Update actualiza el perfil de la tienda del scope.
func (r *StoreRepo) Update(ctx context.Context, scope tenancy.Scope, store *entity.Store) error {
	if err := requireScope(scope); err != nil {
		return err
	}
	if store.ID != scope.StoreID() {
		return domain.ErrNotFound
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	query := `
		UPDATE stores SET name = $2, address = $3, phone = $4, email = $5, currency = $6, logo_url = $7,
			primary_color = $8, plan_id = $9, low_stock_threshold = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		scope.StoreID(), store.Name, store.Address, store.Phone, store.Email, store.Currency,
		store.LogoURL, store.PrimaryColor, store.PlanID, store.LowStockThreshold, store.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update store: %w", err)
	}
	return rowsAffectedOrNotFound(tag)
}

// ListAll todas las tiendas; solo para el resumen diario.
func (r *StoreRepo) ListAll(ctx context.Context) ([]*entity.Store, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx, `SELECT `+storeColumns+` FROM stores ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
