// Package bootstrap arma el store y los casos de uso a partir de la configuración.
// Lo comparten la API y los comandos seed y reconcile.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Store repositorios fuera de transacción más el runner transaccional del backend elegido.
type Store struct {
	Repos    repository.Tx
	TxRunner repository.TxRunner
	close    func()
}

// Close libera las conexiones del backend.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore abre el backend indicado por STORE_DRIVER. Con postgres aplica el esquema si
// DB_AUTO_MIGRATE está activo.
func OpenStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		m := memory.NewStore()
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
		return &Store{
			Repos: repository.Tx{
				Products:    m.Products(),
				Locations:   m.Locations(),
				Movements:   m.Movements(),
				Balances:    m.Balances(),
				StockLevels: m.StockLevels(),
			},
			TxRunner: m,
		}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Msg("esquema aplicado")
		}
		return &Store{
			Repos:    postgres.Repositories(pool),
			TxRunner: postgres.NewTxRunner(pool, cfg.DB.TxMaxRetries, log),
			close:    pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("driver de store desconocido %q", cfg.Store.Driver)
	}
}

// UseCases casos de uso de la aplicación sobre un Store.
type UseCases struct {
	Products  *usecase.ProductUseCase
	Locations *usecase.LocationUseCase
	Propose   *inventory.ProposeMovementUseCase
	Ledger    *inventory.LedgerUseCase
	Balances  *inventory.BalanceUseCase
	Reconcile *inventory.ReconcileUseCase
}

// NewUseCases construye todos los casos de uso.
func NewUseCases(s *Store, log *logger.Logger) *UseCases {
	r := s.Repos
	return &UseCases{
		Products:  usecase.NewProductUseCase(r.Products, s.TxRunner),
		Locations: usecase.NewLocationUseCase(r.Locations, s.TxRunner),
		Propose:   inventory.NewProposeMovementUseCase(s.TxRunner, log),
		Ledger:    inventory.NewLedgerUseCase(r.Movements),
		Balances:  inventory.NewBalanceUseCase(r.Balances, r.Products, r.Locations),
		Reconcile: inventory.NewReconcileUseCase(s.TxRunner),
	}
}
