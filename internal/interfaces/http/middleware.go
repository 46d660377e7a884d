package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RequestLogger registra cada petición con método, ruta, estado y latencia.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Ejecutar el ErrorHandler ahora para registrar el estado final.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}

// actorFrom devuelve el actor del cuerpo o, si falta, del header X-Actor.
func actorFrom(c *fiber.Ctx, bodyActor string) string {
	if bodyActor != "" {
		return bodyActor
	}
	return c.Get("X-Actor")
}
