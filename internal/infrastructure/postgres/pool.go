package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/tiendapp-api/pkg/config"
)

// NewPool crea un pool de conexiones PostgreSQL usando la configuración de la app.
// Si está definido DATABASE_URL se usa tal cual; si no, se construye el DSN desde DB_HOST, DB_PORT, etc.
func NewPool(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	// Registrar codec para NUMERIC/DECIMAL -> shopspring/decimal (todas las conexiones del pool).
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}

	pingCtx := ctx
	if cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.QueryTimeout)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping DB: %w", err)
	}
	return pool, nil
}

// Repositories agrupa los adaptadores construidos sobre el pool.
type Repositories struct {
	Users         *UserRepo
	Stores        *StoreRepo
	Products      *ProductRepo
	Sales         *SaleRepo
	Adjustments   *AdjustmentRepo
	Notifications *NotificationRepo
	Tx            *TxRunner
}

// NewRepositories construye todos los repos con el mismo deadline por consulta.
func NewRepositories(pool *pgxpool.Pool, queryTimeout time.Duration) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(pool, queryTimeout),
		Stores:        NewStoreRepository(pool, queryTimeout),
		Products:      NewProductRepository(pool, queryTimeout),
		Sales:         NewSaleRepository(pool, queryTimeout),
		Adjustments:   NewAdjustmentRepository(pool, queryTimeout),
		Notifications: NewNotificationRepository(pool, queryTimeout),
		Tx:            NewTxRunner(pool, queryTimeout),
	}
}
