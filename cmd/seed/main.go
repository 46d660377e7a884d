// seed carga el catálogo y el guion de movimientos de ejemplo en el store configurado.
//
// Uso: STORE_DRIVER=postgres go run ./cmd/seed
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/stock-ledger/internal/application/seed"
	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir store")
	}
	defer store.Close()

	uc := bootstrap.NewUseCases(store, log)
	res, err := seed.Run(ctx, seed.Deps{
		Products:   store.Repos.Products,
		Locations:  store.Repos.Locations,
		Balances:   store.Repos.Balances,
		ProductUC:  uc.Products,
		LocationUC: uc.Locations,
		Propose:    uc.Propose,
	}, log)
	if err != nil {
		log.Error().Err(err).Msg("seed")
		store.Close()
		os.Exit(1)
	}

	log.Info().
		Int("products_created", res.ProductsCreated).
		Int("locations_created", res.LocationsCreated).
		Int("movements_accepted", res.MovementsAccepted).
		Int("movements_rejected", res.MovementsRejected).
		Bool("movements_skipped", res.MovementsSkipped).
		Msg("base de datos poblada")
}
