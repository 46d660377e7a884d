package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementHandler expone la admisión de movimientos y el historial del ledger.
type MovementHandler struct {
	propose *inventory.ProposeMovementUseCase
	ledger  *inventory.LedgerUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(propose *inventory.ProposeMovementUseCase, ledger *inventory.LedgerUseCase) *MovementHandler {
	return &MovementHandler{propose: propose, ledger: ledger}
}

// Propose godoc
// @Summary      Proponer movimiento
// @Description  Entrada (solo to_location_id), salida (solo from_location_id) o traslado (ambos).
// @Description  Se rechaza si deja el saldo de origen en negativo. El actor puede venir en el header X-Actor.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string                      false  "Actor si no viene en el cuerpo"
// @Param        body     body    dto.ProposeMovementRequest  true   "Movimiento"
// @Success      201      {object}  dto.MovementResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Propose(c *fiber.Ctx) error {
	var in dto.ProposeMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	m, err := h.propose.Admit(c.UserContext(), inventory.ProposeMovementInput{
		ProductID:      in.ProductID,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		Qty:            in.Qty,
		Note:           in.Note,
		Actor:          actorFrom(c, in.Actor),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(m))
}

// History godoc
// @Summary      Historial de movimientos
// @Description  Del más reciente al más antiguo. location_id coincide con origen o destino.
// @Tags         movements
// @Produce      json
// @Param        product_id   query  string  false  "Filtrar por producto"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200          {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) History(c *fiber.Ctx) error {
	filter := inventory.NormalizeHistoryFilter(entity.MovementFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		Limit:      c.QueryInt("limit", inventory.DefaultHistoryLimit),
		Offset:     c.QueryInt("offset", 0),
	})
	list, err := h.ledger.History(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset}})
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         movements
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	m, err := h.ledger.GetMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toMovementResponse(m))
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		Timestamp:      m.Timestamp,
		ProductID:      m.ProductID,
		FromLocationID: m.FromLocationID,
		ToLocationID:   m.ToLocationID,
		Qty:            m.Qty,
		Note:           m.Note,
		Actor:          m.Actor,
	}
}
