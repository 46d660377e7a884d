package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir store")
	}
	defer store.Close()

	uc := bootstrap.NewUseCases(store, log)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.Swagger {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ServiceName: cfg.App.Name,
		ProductUC:   uc.Products,
		LocationUC:  uc.Locations,
		Propose:     uc.Propose,
		LedgerUC:    uc.Ledger,
		BalanceUC:   uc.Balances,
		ReconcileUC: uc.Reconcile,
	})

	go func() {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
