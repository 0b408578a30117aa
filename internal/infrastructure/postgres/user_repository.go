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

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, store_id, email, password_hash, display_name, role, subscription_status, subscription_expires_at, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	base
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier, queryTimeout time.Duration) *UserRepo {
	return &UserRepo{base{q: q, timeout: queryTimeout}}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var storeID, passwordHash *string
	if err := row.Scan(&u.ID, &storeID, &u.Email, &passwordHash, &u.DisplayName, &u.Role,
		&u.SubscriptionStatus, &u.SubscriptionExpiresAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.StoreID = fromNullString(storeID)
	u.PasswordHash = fromNullString(passwordHash)
	return &u, nil
}

func collectUsers(rows pgx.Rows) ([]*entity.User, error) {
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		user.ID, nullString(user.StoreID), user.Email, nullString(user.PasswordHash), user.DisplayName, user.Role,
		user.SubscriptionStatus, user.SubscriptionExpiresAt, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID (subject del proveedor de identidad). (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email. (nil, nil) si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	u, err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// AssignStore aprovisiona la cuenta. El UPDATE solo aplica si store_id es NULL.
func (r *UserRepo) AssignStore(ctx context.Context, userID, storeID, role string) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET store_id = $2, role = $3, updated_at = now() WHERE id = $1 AND store_id IS NULL`,
		userID, storeID, role,
	)
	if err != nil {
		return fmt.Errorf("assign store: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := r.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

// GetInStore obtiene un usuario de la tienda del scope.
func (r *UserRepo) GetInStore(ctx context.Context, scope tenancy.Scope, id string) (*entity.User, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	u, err := scanUser(r.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1 AND store_id = $2`, id, scope.StoreID()))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get user in store: %w", err)
	}
	return tenancy.CheckOwner(scope, u, err == nil)
}

// ListByStore lista usuarios de la tienda con paginación.
func (r *UserRepo) ListByStore(ctx context.Context, scope tenancy.Scope, page repository.Page) ([]*entity.User, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	page = page.Normalize()
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE store_id = $1 ORDER BY id LIMIT $2 OFFSET $3`,
		scope.StoreID(), page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collectUsers(rows)
}

// ListByRoles usuarios de la tienda con alguno de los roles indicados.
func (r *UserRepo) ListByRoles(ctx context.Context, scope tenancy.Scope, roles []string) ([]*entity.User, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE store_id = $1 AND role = ANY($2) ORDER BY id`,
		scope.StoreID(), roles)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return collectUsers(rows)
}

// UpdateRole cambia el rol de un usuario de la tienda.
func (r *UserRepo) UpdateRole(ctx context.Context, scope tenancy.Scope, id, role string) error {
	if err := requireScope(scope); err != nil {
		return err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET role = $3, updated_at = now() WHERE id = $1 AND store_id = $2`,
		id, scope.StoreID(), role)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return rowsAffectedOrNotFound(tag)
}

// UpdateSubscription fija estado y vencimiento de la suscripción de un usuario de la tienda.
func (r *UserRepo) UpdateSubscription(ctx context.Context, scope tenancy.Scope, id, status string, expiresAt *time.Time) error {
	if err := requireScope(scope); err != nil {
		return err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	tag, err := r.q.Exec(ctx,
		`UPDATE users SET subscription_status = $3, subscription_expires_at = $4, updated_at = now()
		 WHERE id = $1 AND store_id = $2`,
		id, scope.StoreID(), status, expiresAt)
	if err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return rowsAffectedOrNotFound(tag)
}

// ListActiveSubscriptionsExpiringBefore usuarios con suscripción activa que vence antes de before.
func (r *UserRepo) ListActiveSubscriptionsExpiringBefore(ctx context.Context, before time.Time) ([]*entity.User, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE subscription_status = $1 AND subscription_expires_at IS NOT NULL AND subscription_expires_at < $2
		 ORDER BY id`,
		entity.SubscriptionActive, before)
	if err != nil {
		return nil, fmt.Errorf("list expiring subscriptions: %w", err)
	}
	return collectUsers(rows)
}

// MarkSubscriptionExpired marca la suscripción como vencida.
func (r *UserRepo) MarkSubscriptionExpired(ctx context.Context, id string) error {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	_, err := r.q.Exec(ctx,
		`UPDATE users SET subscription_status = $2, updated_at = now() WHERE id = $1`,
		id, entity.SubscriptionExpired)
	if err != nil {
		return fmt.Errorf("mark subscription expired: %w", err)
	}
	return nil
}
