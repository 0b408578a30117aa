// Package mocks implementaciones en memoria de los puertos de persistencia para tests.
// Respetan el mismo contrato de scope que los adaptadores PostgreSQL.
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/tiendapp-api/internal/domain"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

// DB almacén en memoria compartido por todos los repos mock.
type DB struct {
	mu            sync.Mutex
	Users         map[string]*entity.User
	Stores        map[string]*entity.Store
	Products      map[string]*entity.Product
	Sales         map[string]*entity.Sale
	Adjustments   []entity.InventoryAdjustment
	Notifications map[string]*entity.Notification

	// Writes cuenta las operaciones de escritura (para verificar "sin mutación").
	Writes int
	// Err, si no es nil, lo devuelven todas las operaciones (simula caída de la DB).
	Err error
}

// NewDB construye un almacén vacío.
func NewDB() *DB {
	return &DB{
		Users:         map[string]*entity.User{},
		Stores:        map[string]*entity.Store{},
		Products:      map[string]*entity.Product{},
		Sales:         map[string]*entity.Sale{},
		Notifications: map[string]*entity.Notification{},
	}
}

// UserRepo devuelve la vista de usuarios.
func (db *DB) UserRepo() *UserRepo { return &UserRepo{db: db} }

// StoreRepo devuelve la vista de tiendas.
func (db *DB) StoreRepo() *StoreRepo { return &StoreRepo{db: db} }

// ProductRepo devuelve la vista de productos.
func (db *DB) ProductRepo() *ProductRepo { return &ProductRepo{db: db} }

// SaleRepo devuelve la vista de ventas.
func (db *DB) SaleRepo() *SaleRepo { return &SaleRepo{db: db} }

// AdjustmentRepo devuelve la vista de ajustes.
func (db *DB) AdjustmentRepo() *AdjustmentRepo { return &AdjustmentRepo{db: db} }

// NotificationRepo devuelve la vista del outbox.
func (db *DB) NotificationRepo() *NotificationRepo { return &NotificationRepo{db: db} }

// TxRunner devuelve un runner que restaura el estado si fn falla.
func (db *DB) TxRunner() *TxRunner { return &TxRunner{db: db} }

// ── Users ─────────────────────────────────────────────────────────────────────

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo mock de repository.UserRepository.
type UserRepo struct{ db *DB }

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	for _, u := range r.db.Users {
		if user.Email != "" && u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *user
	r.db.Users[user.ID] = &cp
	r.db.Writes++
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	u, ok := r.db.Users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	for _, u := range r.db.Users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) AssignStore(_ context.Context, userID, storeID, role string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	u, ok := r.db.Users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	if u.StoreID != "" {
		return domain.ErrConflict
	}
	u.StoreID = storeID
	u.Role = role
	r.db.Writes++
	return nil
}

func (r *UserRepo) GetInStore(_ context.Context, scope tenancy.Scope, id string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	u, ok := r.db.Users[id]
	if ok {
		cp := *u
		u = &cp
	}
	return tenancy.CheckOwner(scope, u, ok)
}

func (r *UserRepo) ListByStore(_ context.Context, scope tenancy.Scope, page repository.Page) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	var out []*entity.User
	for _, u := range r.db.Users {
		if u.StoreID == scope.StoreID() {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, page), nil
}

func (r *UserRepo) ListByRoles(_ context.Context, scope tenancy.Scope, roles []string) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	var out []*entity.User
	for _, u := range r.db.Users {
		if u.StoreID != scope.StoreID() {
			continue
		}
		for _, role := range roles {
			if u.Role == role {
				cp := *u
				out = append(out, &cp)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepo) UpdateRole(_ context.Context, scope tenancy.Scope, id, role string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	u, ok := r.db.Users[id]
	if !ok || u.StoreID != scope.StoreID() {
		return domain.ErrNotFound
	}
	u.Role = role
	r.db.Writes++
	return nil
}

func (r *UserRepo) UpdateSubscription(_ context.Context, scope tenancy.Scope, id, status string, expiresAt *time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	u, ok := r.db.Users[id]
	if !ok || u.StoreID != scope.StoreID() {
		return domain.ErrNotFound
	}
	u.SubscriptionStatus = status
	u.SubscriptionExpiresAt = expiresAt
	r.db.Writes++
	return nil
}

func (r *UserRepo) ListActiveSubscriptionsExpiringBefore(_ context.Context, before time.Time) ([]*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	var out []*entity.User
	for _, u := range r.db.Users {
		if u.SubscriptionStatus == entity.SubscriptionActive && u.SubscriptionExpiresAt != nil && u.SubscriptionExpiresAt.Before(before) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UserRepo) MarkSubscriptionExpired(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	if u, ok := r.db.Users[id]; ok {
		u.SubscriptionStatus = entity.SubscriptionExpired
		r.db.Writes++
	}
	return nil
}

// ── Stores ────────────────────────────────────────────────────────────────────

var _ repository.StoreRepository = (*StoreRepo)(nil)

// StoreRepo mock de repository.StoreRepository.
type StoreRepo struct{ db *DB }

func (r *StoreRepo) Create(_ context.Context, store *entity.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	cp := *store
	r.db.Stores[store.ID] = &cp
	r.db.Writes++
	return nil
}

func (r *StoreRepo) Get(_ context.Context, scope tenancy.Scope) (*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	s, ok := r.db.Stores[scope.StoreID()]
	if ok {
		cp := *s
		s = &cp
	}
	return tenancy.CheckOwner(scope, s, ok)
}

func (r *StoreRepo) Update(_ context.Context, scope tenancy.Scope, store *entity.Store) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	if _, ok := r.db.Stores[scope.StoreID()]; !ok || store.ID != scope.StoreID() {
		return domain.ErrNotFound
	}
	cp := *store
	r.db.Stores[store.ID] = &cp
	r.db.Writes++
	return nil
}

func (r *StoreRepo) ListAll(_ context.Context) ([]*entity.Store, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	out := make([]*entity.Store, 0, len(r.db.Stores))
	for _, s := range r.db.Stores {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Products ──────────────────────────────────────────────────────────────────

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo mock de repository.ProductRepository.
type ProductRepo struct{ db *DB }

func (r *ProductRepo) Create(_ context.Context, scope tenancy.Scope, p *entity.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	for _, existing := range r.db.Products {
		if existing.StoreID == scope.StoreID() && existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	cp.StoreID = scope.StoreID()
	r.db.Products[p.ID] = &cp
	r.db.Writes++
	return nil
}

func (r *ProductRepo) get(scope tenancy.Scope, id string) (*entity.Product, error) {
	p, ok := r.db.Products[id]
	if ok {
		cp := *p
		p = &cp
	}
	return tenancy.CheckOwner(scope, p, ok)
}

func (r *ProductRepo) GetByID(_ context.Context, scope tenancy.Scope, id string) (*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	return r.get(scope, id)
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, scope tenancy.Scope, id string) (*entity.Product, error) {
	return r.GetByID(ctx, scope, id)
}

func (r *ProductRepo) GetBySKU(_ context.Context, scope tenancy.Scope, sku string) (*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	for _, p := range r.db.Products {
		if p.StoreID == scope.StoreID() && p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ProductRepo) Update(_ context.Context, scope tenancy.Scope, p *entity.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	existing, ok := r.db.Products[p.ID]
	if !ok || existing.StoreID != scope.StoreID() {
		return domain.ErrNotFound
	}
	cp := *p
	cp.StoreID = existing.StoreID
	cp.Stock = existing.Stock
	cp.Cost = existing.Cost
	r.db.Products[p.ID] = &cp
	r.db.Writes++
	return nil
}

func (r *ProductRepo) UpdateStock(_ context.Context, scope tenancy.Scope, id string, stock int64, cost decimal.Decimal) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	existing, ok := r.db.Products[id]
	if !ok || existing.StoreID != scope.StoreID() {
		return domain.ErrNotFound
	}
	existing.Stock = stock
	existing.Cost = cost
	r.db.Writes++
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, scope tenancy.Scope, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	existing, ok := r.db.Products[id]
	if !ok || existing.StoreID != scope.StoreID() {
		return domain.ErrNotFound
	}
	delete(r.db.Products, id)
	r.db.Writes++
	return nil
}

func (r *ProductRepo) scoped(scope tenancy.Scope, keep func(*entity.Product) bool) []*entity.Product {
	var out []*entity.Product
	for _, p := range r.db.Products {
		if p.StoreID == scope.StoreID() && keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

func (r *ProductRepo) List(_ context.Context, scope tenancy.Scope, filter repository.ProductFilter) ([]*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	q := strings.ToLower(filter.Query)
	out := r.scoped(scope, func(p *entity.Product) bool {
		return q == "" || strings.Contains(strings.ToLower(p.SKU), q) || strings.Contains(strings.ToLower(p.Name), q)
	})
	return paginate(out, filter.Page), nil
}

func (r *ProductRepo) ListLowStock(_ context.Context, scope tenancy.Scope, storeThreshold int) ([]*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	return r.scoped(scope, func(p *entity.Product) bool { return p.IsLowStock(storeThreshold) }), nil
}

func (r *ProductRepo) ListAll(_ context.Context, scope tenancy.Scope) ([]*entity.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	return r.scoped(scope, func(*entity.Product) bool { return true }), nil
}

// ── Sales ─────────────────────────────────────────────────────────────────────

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo mock de repository.SaleRepository.
type SaleRepo struct{ db *DB }

func (r *SaleRepo) Create(_ context.Context, scope tenancy.Scope, sale *entity.Sale) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	cp := *sale
	cp.StoreID = scope.StoreID()
	cp.Items = append([]entity.SaleItem(nil), sale.Items...)
	r.db.Sales[sale.ID] = &cp
	r.db.Writes++
	return nil
}

func (r *SaleRepo) GetByID(_ context.Context, scope tenancy.Scope, id string) (*entity.Sale, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	s, ok := r.db.Sales[id]
	if ok {
		cp := *s
		s = &cp
	}
	return tenancy.CheckOwner(scope, s, ok)
}

func (r *SaleRepo) scoped(scope tenancy.Scope, keep func(*entity.Sale) bool, limit int) []entity.Sale {
	var out []entity.Sale
	for _, s := range r.db.Sales {
		if s.StoreID == scope.StoreID() && keep(s) {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SoldAt.Equal(out[j].SoldAt) {
			return out[i].SoldAt.After(out[j].SoldAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *SaleRepo) ListByRange(_ context.Context, scope tenancy.Scope, from, to time.Time, limit int) ([]entity.Sale, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	return r.scoped(scope, func(s *entity.Sale) bool {
		return !s.SoldAt.Before(from) && s.SoldAt.Before(to)
	}, limit), nil
}

func (r *SaleRepo) ListByProduct(_ context.Context, scope tenancy.Scope, productID string, limit int) ([]entity.Sale, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	return r.scoped(scope, func(s *entity.Sale) bool {
		for _, it := range s.Items {
			if it.ProductID == productID {
				return true
			}
		}
		return false
	}, limit), nil
}

// ── Adjustments ───────────────────────────────────────────────────────────────

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo mock de repository.AdjustmentRepository.
type AdjustmentRepo struct{ db *DB }

func (r *AdjustmentRepo) Create(_ context.Context, scope tenancy.Scope, adj *entity.InventoryAdjustment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	cp := *adj
	cp.StoreID = scope.StoreID()
	r.db.Adjustments = append(r.db.Adjustments, cp)
	r.db.Writes++
	return nil
}

func (r *AdjustmentRepo) ListByProduct(_ context.Context, scope tenancy.Scope, productID string) ([]entity.InventoryAdjustment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	var out []entity.InventoryAdjustment
	for _, a := range r.db.Adjustments {
		if a.StoreID == scope.StoreID() && a.ProductID == productID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *AdjustmentRepo) List(_ context.Context, scope tenancy.Scope, page repository.Page) ([]entity.InventoryAdjustment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return nil, r.db.Err
	}
	var out []entity.InventoryAdjustment
	for _, a := range r.db.Adjustments {
		if a.StoreID == scope.StoreID() {
			out = append(out, a)
		}
	}
	return paginate(out, page), nil
}

// ── Notifications ─────────────────────────────────────────────────────────────

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo mock de repository.NotificationRepository.
type NotificationRepo struct{ db *DB }

func (r *NotificationRepo) Reserve(_ context.Context, n *entity.Notification) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return false, r.db.Err
	}
	if _, ok := r.db.Notifications[n.DedupeKey]; ok {
		return false, nil
	}
	cp := *n
	r.db.Notifications[n.DedupeKey] = &cp
	r.db.Writes++
	return true, nil
}

func (r *NotificationRepo) Release(_ context.Context, dedupeKey string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.Err != nil {
		return r.db.Err
	}
	delete(r.db.Notifications, dedupeKey)
	return nil
}

// ── Tx ────────────────────────────────────────────────────────────────────────

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner mock: ejecuta fn y, si falla, restaura el estado previo de todas las tablas transaccionales.
type TxRunner struct{ db *DB }

func (t *TxRunner) Run(_ context.Context, fn func(repos repository.TxRepos) error) error {
	t.db.mu.Lock()
	products := make(map[string]entity.Product, len(t.db.Products))
	for id, p := range t.db.Products {
		products[id] = *p
	}
	sales := make(map[string]*entity.Sale, len(t.db.Sales))
	for id, s := range t.db.Sales {
		sales[id] = s
	}
	adjustments := append([]entity.InventoryAdjustment(nil), t.db.Adjustments...)
	stores := make(map[string]entity.Store, len(t.db.Stores))
	for id, st := range t.db.Stores {
		stores[id] = *st
	}
	users := make(map[string]entity.User, len(t.db.Users))
	for id, u := range t.db.Users {
		users[id] = *u
	}
	writes := t.db.Writes
	t.db.mu.Unlock()

	err := fn(repository.TxRepos{
		Products:    t.db.ProductRepo(),
		Sales:       t.db.SaleRepo(),
		Adjustments: t.db.AdjustmentRepo(),
		Stores:      t.db.StoreRepo(),
		Users:       t.db.UserRepo(),
	})
	if err == nil {
		return nil
	}

	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	t.db.Products = make(map[string]*entity.Product, len(products))
	for id, p := range products {
		p := p
		t.db.Products[id] = &p
	}
	t.db.Stores = make(map[string]*entity.Store, len(stores))
	for id, st := range stores {
		st := st
		t.db.Stores[id] = &st
	}
	t.db.Users = make(map[string]*entity.User, len(users))
	for id, u := range users {
		u := u
		t.db.Users[id] = &u
	}
	t.db.Sales = sales
	t.db.Adjustments = adjustments
	t.db.Writes = writes
	return err
}

func paginate[T any](items []T, page repository.Page) []T {
	page = page.Normalize()
	if page.Offset >= len(items) {
		return nil
	}
	end := page.Offset + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Offset:end]
}
