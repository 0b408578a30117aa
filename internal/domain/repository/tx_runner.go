package repository

import "context"

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products    ProductRepository
	Sales       SaleRepository
	Adjustments AdjustmentRepository
	Stores      StoreRepository
	Users       UserRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
