package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/tiendapp-api/internal/domain/entity"
	"github.com/jhoicas/tiendapp-api/internal/domain/repository"
	"github.com/jhoicas/tiendapp-api/internal/domain/tenancy"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, store_id, currency, total, sold_at, created_by, created_at`

// SaleRepo implementación del puerto SaleRepository sobre PostgreSQL (cabecera en sales, líneas en sale_items).
type SaleRepo struct {
	base
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier, queryTimeout time.Duration) *SaleRepo {
	return &SaleRepo{base{q: q, timeout: queryTimeout}}
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.ID, &s.StoreID, &s.Currency, &s.Total, &s.SoldAt, &s.CreatedBy, &s.CreatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste cabecera y líneas. Debe llamarse dentro de una transacción.
func (r *SaleRepo) Create(ctx context.Context, scope tenancy.Scope, sale *entity.Sale) error {
	if err := requireScope(scope); err != nil {
		return err
	}
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	_, err := r.q.Exec(ctx,
		`INSERT INTO sales (`+saleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sale.ID, scope.StoreID(), sale.Currency, sale.Total, sale.SoldAt, sale.CreatedBy, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for i, it := range sale.Items {
		_, err := r.q.Exec(ctx,
			`INSERT INTO sale_items (sale_id, line, product_id, quantity, unit_price, amount) VALUES ($1, $2, $3, $4, $5, $6)`,
			sale.ID, i+1, it.ProductID, it.Quantity, it.UnitPrice, it.Amount,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
	}
	sale.StoreID = scope.StoreID()
	return nil
}

// GetByID obtiene una venta de la tienda con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, scope tenancy.Scope, id string) (*entity.Sale, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	qctx, cancel := r.ctx(ctx)
	s, err := scanSale(r.q.QueryRow(qctx,
		`SELECT `+saleColumns+` FROM sales WHERE id = $1 AND store_id = $2`, id, scope.StoreID()))
	cancel()
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s, err = tenancy.CheckOwner(scope, s, err == nil)
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, scope, []string{s.ID})
	if err != nil {
		return nil, err
	}
	s.Items = items[s.ID]
	return s, nil
}

// ListByRange ventas con sold_at en [from, to), más recientes primero.
func (r *SaleRepo) ListByRange(ctx context.Context, scope tenancy.Scope, from, to time.Time, limit int) ([]entity.Sale, error) {
	return r.list(ctx, scope,
		`SELECT `+saleColumns+` FROM sales
		 WHERE store_id = $1 AND sold_at >= $2 AND sold_at < $3
		 ORDER BY sold_at DESC, id LIMIT $4`,
		scope.StoreID(), from, to, limitArg(limit))
}

// ListByProduct ventas que incluyen al producto, más recientes primero.
func (r *SaleRepo) ListByProduct(ctx context.Context, scope tenancy.Scope, productID string, limit int) ([]entity.Sale, error) {
	return r.list(ctx, scope,
		`SELECT `+saleColumns+` FROM sales
		 WHERE store_id = $1 AND id IN (SELECT sale_id FROM sale_items WHERE product_id = $2)
		 ORDER BY sold_at DESC, id LIMIT $3`,
		scope.StoreID(), productID, limitArg(limit))
}

func (r *SaleRepo) list(ctx context.Context, scope tenancy.Scope, query string, args ...any) ([]entity.Sale, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	qctx, cancel := r.ctx(ctx)
	defer cancel()
	rows, err := r.q.Query(qctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var (
		sales []entity.Sale
		ids   []string
	)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, *s)
		ids = append(ids, s.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if len(ids) == 0 {
		return sales, nil
	}

	items, err := r.loadItems(ctx, scope, ids)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Items = items[sales[i].ID]
	}
	return sales, nil
}

// loadItems líneas de las ventas indicadas, en orden de línea. El JOIN mantiene el filtro por tienda.
func (r *SaleRepo) loadItems(ctx context.Context, scope tenancy.Scope, saleIDs []string) (map[string][]entity.SaleItem, error) {
	ctx, cancel := r.ctx(ctx)
	defer cancel()
	rows, err := r.q.Query(ctx,
		`SELECT i.sale_id, i.product_id, i.quantity, i.unit_price, i.amount
		 FROM sale_items i JOIN sales s ON s.id = i.sale_id
		 WHERE s.store_id = $1 AND i.sale_id = ANY($2)
		 ORDER BY i.sale_id, i.line`,
		scope.StoreID(), saleIDs)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	out := make(map[string][]entity.SaleItem, len(saleIDs))
	for rows.Next() {
		var saleID string
		var it entity.SaleItem
		if err := rows.Scan(&saleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Amount); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		out[saleID] = append(out[saleID], it)
	}
	return out, rows.Err()
}

// limitArg NULL en LIMIT equivale a sin límite.
func limitArg(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
