package repository

import "context"

// Tx agrupa los repositorios atados a una misma transacción.
type Tx struct {
	Products    ProductRepository
	Locations   LocationRepository
	Movements   MovementRepository
	Balances    BalanceRepository
	StockLevels StockLevelRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda nada persistido (Commit/Rollback a cargo del runner).
type TxRunner interface {
	Run(ctx context.Context, fn func(tx Tx) error) error
	// ReadOnly ejecuta fn sobre una única instantánea consistente, sin permitir escrituras.
	// Todas las lecturas de fn ven el mismo estado confirmado.
	ReadOnly(ctx context.Context, fn func(tx Tx) error) error
}
