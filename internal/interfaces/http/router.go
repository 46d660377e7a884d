package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName string
	ProductUC   *usecase.ProductUseCase
	LocationUC  *usecase.LocationUseCase
	Propose     *inventory.ProposeMovementUseCase
	LedgerUC    *inventory.LedgerUseCase
	BalanceUC   *inventory.BalanceUseCase
	ReconcileUC *inventory.ReconcileUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api")

	// Catálogo
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Put("/:id", locationHandler.Update)
	locations.Delete("/:id", locationHandler.Delete)

	// Ledger
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.Propose, deps.LedgerUC)
	movements.Post("/", movementHandler.Propose)
	movements.Get("/", movementHandler.History)
	movements.Get("/:id", movementHandler.GetByID)

	// Saldos
	balanceHandler := NewBalanceHandler(deps.BalanceUC, deps.ReconcileUC)
	api.Get("/balances", balanceHandler.List)
	api.Get("/balances/:product_id/:location_id", balanceHandler.GetPair)
	api.Get("/summary", balanceHandler.Summary)
	api.Get("/reconciliation", balanceHandler.Reconcile)
}
