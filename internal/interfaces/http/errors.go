package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ErrorHandler traduce los errores devueltos por los handlers a respuestas JSON.
// Los errores no tipados se registran y se responden como 500 sin exponer detalles.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, body := mapError(err)
		if status == fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Msg("error interno")
		}
		return c.Status(status).JSON(body)
	}
}

func mapError(err error) (int, dto.ErrorResponse) {
	var (
		verr  *domain.ValidationError
		nf    *domain.NotFoundError
		stock *domain.InsufficientStockError
		ref   *domain.ReferentialIntegrityError
		ferr  *fiber.Error
	)
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, dto.ErrorResponse{
			Code: "VALIDATION", Message: verr.Message, Kind: string(verr.Kind), Field: verr.Field,
		}
	case errors.As(err, &nf):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: nf.Error()}
	case errors.As(err, &stock):
		available, requested := stock.Available, stock.Requested
		return fiber.StatusConflict, dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: stock.Error(), Available: &available, Requested: &requested,
		}
	case errors.As(err, &ref):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "REFERENCED", Message: ref.Error()}
	case errors.As(err, &ferr):
		code := "HTTP_ERROR"
		switch ferr.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusBadRequest:
			code = "INVALID_BODY"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		}
		return ferr.Code, dto.ErrorResponse{Code: code, Message: ferr.Message}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"}
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
