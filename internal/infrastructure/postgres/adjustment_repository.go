package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

const adjustmentColumns = `id, store_id, product_id, delta, reason, reference, created_at, created_by`

// AdjustmentRepo implementación sobre PostgreSQL (usable con pool o tx).
type AdjustmentRepo struct {
	base
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier, queryTimeout time.Duration) *AdjustmentRepo {
	return &AdjustmentRepo{base{q: q, timeout: queryTimeout}}
}

// Create persiste un ajuste de inventario.
func (r *AdjustmentRepo) Create(ctx context.Context, scope tenancy.Scope, adj *entity.InventoryAdjustment) error {
	if err := requireScope(scope); err != nil {
		return err
	}
	if adj.ID == "" {
		adj.ID = uuid.New().String()
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	_, err := r.q.Exec(ctx,
		`INSERT INTO inventory_adjustments (`+adjustmentColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		adj.ID, scope.StoreID(), adj.ProductID, adj.Delta, adj.Reason, adj.Reference, adj.CreatedAt, nullString(adj.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create inventory adjustment: %w", err)
	}
	adj.StoreID = scope.StoreID()
	return nil
}

// ListByProduct ajustes del producto en orden cronológico (historial de stock).
func (r *AdjustmentRepo) ListByProduct(ctx context.Context, scope tenancy.Scope, productID string) ([]entity.InventoryAdjustment, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx,
		`SELECT `+adjustmentColumns+` FROM inventory_adjustments
		 WHERE store_id = $1 AND product_id = $2 ORDER BY created_at, id`,
		scope.StoreID(), productID)
	if err != nil {
		return nil, fmt.Errorf("list adjustments by product: %w", err)
	}
	return collectAdjustments(rows)
}

// List ajustes de la tienda en orden cronológico con paginación.
func (r *AdjustmentRepo) List(ctx context.Context, scope tenancy.Scope, page repository.Page) ([]entity.InventoryAdjustment, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	page = page.Normalize()
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx,
		`SELECT `+adjustmentColumns+` FROM inventory_adjustments
		 WHERE store_id = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`,
		scope.StoreID(), page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	return collectAdjustments(rows)
}

func collectAdjustments(rows pgx.Rows) ([]entity.InventoryAdjustment, error) {
	defer rows.Close()
	var list []entity.InventoryAdjustment
	for rows.Next() {
		var a entity.InventoryAdjustment
		var createdBy *string
		if err := rows.Scan(&a.ID, &a.StoreID, &a.ProductID, &a.Delta, &a.Reason, &a.Reference,
			&a.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		a.CreatedBy = fromNullString(createdBy)
		list = append(list, a)
	}
	return list, rows.Err()
}
