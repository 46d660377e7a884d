package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// NewApp construye la aplicación Fiber con manejo de errores, recover y log de peticiones.
func NewApp(name string, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		ReadTimeout:           time.Second * 10,
		WriteTimeout:          time.Second * 10,
		IdleTimeout:           time.Second * 60,
		ErrorHandler:          ErrorHandler(log),
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))
	return app
}
