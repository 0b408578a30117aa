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
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, store_id, sku, name, description, category, price, cost, stock, reorder_point, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	base
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier, queryTimeout time.Duration) *ProductRepo {
	return &ProductRepo{base{q: q, timeout: queryTimeout}}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.StoreID, &p.SKU, &p.Name, &p.Description, &p.Category,
		&p.Price, &p.Cost, &p.Stock, &p.ReorderPoint, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un nuevo producto en la tienda del scope.
func (r *ProductRepo) Create(ctx context.Context, scope tenancy.Scope, product *entity.Product) error {
	if err := requireScope(scope); err != nil {
		return err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		product.ID, scope.StoreID(), product.SKU, product.Name, product.Description, product.Category,
		product.Price, product.Cost, product.Stock, product.ReorderPoint, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	product.StoreID = scope.StoreID()
	return nil
}

func (r *ProductRepo) getOne(ctx context.Context, scope tenancy.Scope, query string, args ...any) (*entity.Product, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return tenancy.CheckOwner(scope, p, err == nil)
}

// GetByID obtiene un producto de la tienda por ID.
func (r *ProductRepo) GetByID(ctx context.Context, scope tenancy.Scope, id string) (*entity.Product, error) {
	return r.getOne(ctx, scope,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND store_id = $2`, id, scope.StoreID())
}

// GetBySKU obtiene un producto de la tienda por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, scope tenancy.Scope, sku string) (*entity.Product, error) {
	return r.getOne(ctx, scope,
		`SELECT `+productColumns+` FROM products WHERE store_id = $1 AND sku = $2`, scope.StoreID(), sku)
}

// GetForUpdate obtiene el producto y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetForUpdate(ctx context.Context, scope tenancy.Scope, id string) (*entity.Product, error) {
	return r.getOne(ctx, scope,
		`SELECT `+productColumns+` FROM products WHERE id = $1 AND store_id = $2 FOR UPDATE`, id, scope.StoreID())
}

// Update actualiza un producto existente. No permite modificar Cost ni Stock (se manejan vía ajustes).
func (r *ProductRepo) Update(ctx context.Context, scope tenancy.Scope, product *entity.Product) error {
	if err := requireScope(scope); err != nil {
		return err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	query := `
		UPDATE products SET sku = $3, name = $4, description = $5, category = $6, price = $7, reorder_point = $8, updated_at = $9
		WHERE id = $1 AND store_id = $2`
	tag, err := r.q.Exec(ctx, query,
		product.ID, scope.StoreID(), product.SKU, product.Name, product.Description, product.Category,
		product.Price, product.ReorderPoint, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	return rowsAffectedOrNotFound(tag)
}

// UpdateStock fija stock y costo (usado por el motor de inventario dentro de una tx).
func (r *ProductRepo) UpdateStock(ctx context.Context, scope tenancy.Scope, id string, stock int64, cost decimal.Decimal) error {
	if err := requireScope(scope); err != nil {
		return err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	tag, err := r.q.Exec(ctx,
		`UPDATE products SET stock = $3, cost = $4, updated_at = now() WHERE id = $1 AND store_id = $2`,
		id, scope.StoreID(), stock, cost,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("update product stock: %w", err)
	}
	return rowsAffectedOrNotFound(tag)
}

// Delete elimina un producto de la tienda. Con ventas o ajustes registrados devuelve ErrConflict.
func (r *ProductRepo) Delete(ctx context.Context, scope tenancy.Scope, id string) error {
	if err := requireScope(scope); err != nil {
		return err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1 AND store_id = $2`, id, scope.StoreID())
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: el producto tiene movimientos registrados", domain.ErrConflict)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return rowsAffectedOrNotFound(tag)
}

// List lista productos de la tienda ordenados por SKU, con búsqueda opcional en sku y name.
func (r *ProductRepo) List(ctx context.Context, scope tenancy.Scope, filter repository.ProductFilter) ([]*entity.Product, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	page := filter.Page.Normalize()
	ctx, cancel := r.ctx(ctx)
	defer cancel()

	var (
		rows pgx.Rows
		err  error
	)
	if filter.Query == "" {
		rows, err = r.q.Query(ctx,
			`SELECT `+productColumns+` FROM products WHERE store_id = $1 ORDER BY sku LIMIT $2 OFFSET $3`,
			scope.StoreID(), page.Limit, page.Offset)
	} else {
		rows, err = r.q.Query(ctx,
			`SELECT `+productColumns+` FROM products
			 WHERE store_id = $1 AND (sku ILIKE $2 OR name ILIKE $2)
			 ORDER BY sku LIMIT $3 OFFSET $4`,
			scope.StoreID(), likePattern(filter.Query), page.Limit, page.Offset)
	}
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

// ListLowStock productos con stock <= punto de reorden (o el umbral de la tienda si no lo tienen).
func (r *ProductRepo) ListLowStock(ctx context.Context, scope tenancy.Scope, storeThreshold int) ([]*entity.Product, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE store_id = $1 AND stock <= CASE WHEN reorder_point > 0 THEN reorder_point ELSE $2 END
		 ORDER BY sku`,
		scope.StoreID(), storeThreshold)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectProducts(rows)
}

// ListAll todos los productos de la tienda (reportes).
func (r *ProductRepo) ListAll(ctx context.Context, scope tenancy.Scope) ([]*entity.Product, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE store_id = $1 ORDER BY sku`, scope.StoreID())
	if err != nil {
		return nil, fmt.Errorf("list all products: %w", err)
	}
	return collectProducts(rows)
}
