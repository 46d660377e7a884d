package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool       *pgxpool.Pool
	maxRetries int
	log        *logger.Logger
}

// NewTxRunner construye el runner con el pool. maxRetries acota los reintentos ante
// fallos de serialización o deadlock; agotados, el error se devuelve al llamador.
func NewTxRunner(pool *pgxpool.Pool, maxRetries int, log *logger.Logger) *TxRunner {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &TxRunner{pool: pool, maxRetries: maxRetries, log: log.Component("tx")}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Cada sentencia ve lo confirmado por otras transacciones, así que un
// saldo recalculado después de tomar los locks FOR UPDATE refleja los commits concurrentes.
// fn puede ejecutarse más de una vez.
func (r *TxRunner) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	var err error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
		r.log.Warn().Err(err).Int("attempt", attempt+1).Msg("reintentando transacción")
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(Repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ReadOnly abre una transacción REPEATABLE READ de solo lectura: todas las consultas de fn
// comparten la instantánea tomada en la primera sentencia.
func (r *TxRunner) ReadOnly(ctx context.Context, fn func(tx repository.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("begin read-only transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(Repositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit read-only transaction: %w", err)
	}
	return nil
}

// Repositories arma el conjunto de repositorios sobre un Querier (pool o tx).
func Repositories(q Querier) repository.Tx {
	return repository.Tx{
		Products:    NewProductRepository(q),
		Locations:   NewLocationRepository(q),
		Movements:   NewMovementRepository(q),
		Balances:    NewBalanceRepository(q),
		StockLevels: NewStockLevelRepository(q),
	}
}
