package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// BalanceHandler consultas de saldos, resumen y conciliación.
type BalanceHandler struct {
	balances  *inventory.BalanceUseCase
	reconcile *inventory.ReconcileUseCase
}

// NewBalanceHandler construye el handler.
func NewBalanceHandler(balances *inventory.BalanceUseCase, reconcile *inventory.ReconcileUseCase) *BalanceHandler {
	return &BalanceHandler{balances: balances, reconcile: reconcile}
}

// List godoc
// @Summary      Saldos por producto y ubicación
// @Description  Solo pares con al menos un movimiento, ordenados por producto y ubicación.
// @Tags         balances
// @Produce      json
// @Success      200  {array}  dto.BalanceResponse
// @Router       /api/balances [get]
func (h *BalanceHandler) List(c *fiber.Ctx) error {
	list, err := h.balances.ListBalances(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.BalanceResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.BalanceResponse{
			ProductID:    b.ProductID,
			ProductName:  b.ProductName,
			LocationID:   b.LocationID,
			LocationName: b.LocationName,
			Incoming:     b.Incoming,
			Outgoing:     b.Outgoing,
			Balance:      b.Balance,
		})
	}
	return c.JSON(out)
}

// GetPair godoc
// @Summary      Saldo de un producto en una ubicación
// @Tags         balances
// @Produce      json
// @Param        product_id   path  string  true  "ID del producto"
// @Param        location_id  path  string  true  "ID de la ubicación"
// @Success      200          {object}  dto.PairBalanceResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/balances/{product_id}/{location_id} [get]
func (h *BalanceHandler) GetPair(c *fiber.Ctx) error {
	productID, locationID := c.Params("product_id"), c.Params("location_id")
	balance, err := h.balances.BalanceAt(c.UserContext(), productID, locationID)
	if err != nil {
		return err
	}
	return c.JSON(dto.PairBalanceResponse{ProductID: productID, LocationID: locationID, Balance: balance})
}

// Summary godoc
// @Summary      Resumen del inventario
// @Tags         balances
// @Produce      json
// @Success      200  {object}  dto.SummaryResponse
// @Router       /api/summary [get]
func (h *BalanceHandler) Summary(c *fiber.Ctx) error {
	s, err := h.balances.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.SummaryResponse{
		ProductCount:  s.ProductCount,
		LocationCount: s.LocationCount,
		MovementCount: s.MovementCount,
		TotalInflow:   s.TotalInflow,
		TotalOutflow:  s.TotalOutflow,
	})
}

// Reconcile godoc
// @Summary      Conciliar saldos materializados con el ledger
// @Tags         balances
// @Produce      json
// @Success      200  {object}  dto.ReconciliationResponse
// @Router       /api/reconciliation [get]
func (h *BalanceHandler) Reconcile(c *fiber.Ctx) error {
	diffs, err := h.reconcile.Reconcile(c.UserContext())
	if err != nil {
		return err
	}
	out := dto.ReconciliationResponse{Consistent: len(diffs) == 0, Discrepancies: make([]dto.DiscrepancyResponse, 0, len(diffs))}
	for _, d := range diffs {
		out.Discrepancies = append(out.Discrepancies, dto.DiscrepancyResponse{
			ProductID:    d.ProductID,
			LocationID:   d.LocationID,
			Derived:      d.Derived,
			Materialized: d.Materialized,
		})
	}
	return c.JSON(out)
}
