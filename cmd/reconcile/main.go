// reconcile compara los saldos materializados (stock_levels) contra el recálculo del ledger.
// Termina con código 1 si encuentra diferencias y 2 ante errores.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("abrir store")
		return 2
	}
	defer store.Close()

	diffs, err := bootstrap.NewUseCases(store, log).Reconcile.Reconcile(ctx)
	if err != nil {
		log.Error().Err(err).Msg("conciliación")
		return 2
	}
	for _, d := range diffs {
		log.Warn().
			Str("product_id", d.ProductID).
			Str("location_id", d.LocationID).
			Int64("derived", d.Derived).
			Int64("materialized", d.Materialized).
			Msg("saldo materializado distinto del ledger")
	}
	if len(diffs) > 0 {
		log.Warn().Int("discrepancies", len(diffs)).Msg("conciliación con diferencias")
		return 1
	}
	log.Info().Msg("saldos materializados consistentes con el ledger")
	return 0
}
