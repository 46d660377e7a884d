// Package seed carga un catálogo de ejemplo y un guion de movimientos. Los movimientos
// pasan por el control de admisión; los rechazados se registran y se omiten.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Actor registrado en los movimientos de ejemplo.
const Actor = "SYSTEM_ADMIN"

// Products catálogo de ejemplo.
var Products = []dto.CreateProductRequest{
	{Name: "Laptop Pro X", SKU: "LPX-2025", Description: "High-performance laptop for professionals", UnitOfMeasure: "unit"},
	{Name: "Gaming Mouse", SKU: "GM-001", Description: "Precision gaming mouse with RGB lighting", UnitOfMeasure: "unit"},
	{Name: "Wireless Keyboard", SKU: "WK-2024", Description: "Ergonomic wireless keyboard", UnitOfMeasure: "unit"},
	{Name: "Monitor 4K", SKU: "M4K-2025", Description: "Ultra HD 4K monitor for professional use", UnitOfMeasure: "unit"},
	{Name: "Office Chair", SKU: "OC-2024", Description: "Ergonomic office chair with lumbar support", UnitOfMeasure: "unit"},
}

// Locations ubicaciones de ejemplo.
var Locations = []dto.CreateLocationRequest{
	{Name: "Zone 1A Shelf", Address: "123 Industrial Blvd, City A", Type: "Warehouse"},
	{Name: "Zone 2B Storage", Address: "456 Commerce St, City B", Type: "Warehouse"},
	{Name: "Retail Floor", Address: "789 Main St, Downtown", Type: "Retail"},
	{Name: "Fulfillment Center", Address: "321 Logistics Ave, Industrial District", Type: "Fulfillment"},
	{Name: "Back Stock Room", Address: "654 Storage Lane, Warehouse District", Type: "Warehouse"},
}

// Step movimiento del guion; Product, From y To son índices en Products y Locations (-1 = sin ubicación).
type Step struct {
	Product int
	From    int
	To      int
	Qty     int64
	Note    string
}

const none = -1

func in(p, to int, qty int64, note string) Step { return Step{p, none, to, qty, note} }
func out(p, from int, qty int64, note string) Step { return Step{p, from, none, qty, note} }
func move(p, from, to int, qty int64, note string) Step { return Step{p, from, to, qty, note} }

// Script guion de movimientos de ejemplo. Algunos traslados no tienen stock suficiente en
// origen y son rechazados por la admisión.
var Script = []Step{
	in(0, 0, 100, "Initial stock receipt"),
	in(1, 0, 200, "Initial stock receipt"),
	in(2, 1, 150, "Initial stock receipt"),
	in(3, 2, 75, "Initial stock receipt"),
	in(4, 3, 50, "Initial stock receipt"),
	move(0, 0, 2, 20, "Transfer to retail floor"),
	move(1, 0, 2, 30, "Transfer to retail floor"),
	move(2, 1, 2, 25, "Transfer to retail floor"),
	out(3, 2, 5, "Customer sale"),
	out(4, 3, 3, "Customer sale"),
	out(0, 2, 8, "Customer sale"),
	out(1, 2, 12, "Customer sale"),
	out(2, 2, 6, "Customer sale"),
	in(0, 0, 50, "Restock from supplier"),
	in(1, 0, 75, "Restock from supplier"),
	in(2, 1, 60, "Restock from supplier"),
	in(3, 2, 40, "Restock from supplier"),
	in(4, 3, 25, "Restock from supplier"),
	move(0, 0, 1, 30, "Warehouse rebalancing"),
	move(1, 1, 0, 40, "Warehouse rebalancing"),
	move(2, 1, 0, 20, "Warehouse rebalancing"),
	move(3, 0, 1, 15, "Warehouse rebalancing"),
	move(4, 3, 4, 10, "Back stock transfer"),
	move(0, 1, 2, 12, "Additional retail stock"),
	move(1, 0, 2, 18, "Additional retail stock"),
	move(2, 0, 2, 8, "Additional retail stock"),
	move(3, 1, 2, 6, "Additional retail stock"),
	move(4, 4, 2, 4, "Additional retail stock"),
	out(0, 2, 7, "Customer sale"),
	out(1, 2, 9, "Customer sale"),
	out(2, 2, 4, "Customer sale"),
	out(3, 2, 3, "Customer sale"),
	out(4, 2, 2, "Customer sale"),
	in(0, 3, 35, "Direct fulfillment stock"),
	in(1, 3, 45, "Direct fulfillment stock"),
	in(2, 3, 30, "Direct fulfillment stock"),
	in(3, 3, 20, "Direct fulfillment stock"),
	in(4, 3, 15, "Direct fulfillment stock"),
	out(0, 3, 15, "Online order fulfillment"),
	out(1, 3, 22, "Online order fulfillment"),
	out(2, 3, 18, "Online order fulfillment"),
	out(3, 3, 12, "Online order fulfillment"),
	out(4, 3, 8, "Online order fulfillment"),
	out(0, 2, 3, "Final sale"),
	out(1, 2, 5, "Final sale"),
	out(2, 2, 2, "Final sale"),
	out(3, 2, 1, "Final sale"),
	out(4, 2, 1, "Final sale"),
	in(0, 4, 25, "End of period stock adjustment"),
	in(1, 4, 35, "End of period stock adjustment"),
	in(2, 4, 28, "End of period stock adjustment"),
	in(3, 4, 18, "End of period stock adjustment"),
	in(4, 4, 12, "End of period stock adjustment"),
}

// Deps dependencias del seeder.
type Deps struct {
	Products   repository.ProductRepository
	Locations  repository.LocationRepository
	Balances   repository.BalanceRepository
	ProductUC  *usecase.ProductUseCase
	LocationUC *usecase.LocationUseCase
	Propose    *inventory.ProposeMovementUseCase
}

// Result contadores de una ejecución.
type Result struct {
	ProductsCreated   int
	LocationsCreated  int
	MovementsAccepted int
	MovementsRejected int
	MovementsSkipped  bool // el ledger ya tenía movimientos
}

// Run crea lo que falte del catálogo (por nombre) y, si el ledger está vacío, propone el guion.
// Es seguro ejecutarlo varias veces.
func Run(ctx context.Context, d Deps, log *logger.Logger) (*Result, error) {
	log = log.Component("seed")
	res := &Result{}

	productIDs := make([]string, len(Products))
	for i, p := range Products {
		id, created, err := ensureProduct(ctx, d, p)
		if err != nil {
			return nil, fmt.Errorf("producto %q: %w", p.Name, err)
		}
		productIDs[i] = id
		if created {
			res.ProductsCreated++
		}
	}
	locationIDs := make([]string, len(Locations))
	for i, l := range Locations {
		id, created, err := ensureLocation(ctx, d, l)
		if err != nil {
			return nil, fmt.Errorf("ubicación %q: %w", l.Name, err)
		}
		locationIDs[i] = id
		if created {
			res.LocationsCreated++
		}
	}

	summary, err := d.Balances.Summary(ctx)
	if err != nil {
		return nil, err
	}
	if summary.MovementCount > 0 {
		res.MovementsSkipped = true
		log.Info().Int64("movements", summary.MovementCount).Msg("el ledger ya tiene movimientos; se omite el guion")
		return res, nil
	}

	for i, s := range Script {
		input := inventory.ProposeMovementInput{
			ProductID: productIDs[s.Product],
			Qty:       s.Qty,
			Note:      s.Note,
			Actor:     Actor,
		}
		if s.From != none {
			input.FromLocationID = locationIDs[s.From]
		}
		if s.To != none {
			input.ToLocationID = locationIDs[s.To]
		}
		_, err := d.Propose.ProposeMovement(ctx, input)
		switch {
		case err == nil:
			res.MovementsAccepted++
		case errors.Is(err, domain.ErrInsufficientStock):
			res.MovementsRejected++
			log.Warn().Err(err).Int("step", i).Str("note", s.Note).Msg("movimiento de ejemplo rechazado")
		default:
			return nil, fmt.Errorf("paso %d: %w", i, err)
		}
	}
	return res, nil
}

func ensureProduct(ctx context.Context, d Deps, p dto.CreateProductRequest) (string, bool, error) {
	existing, err := d.Products.GetByName(ctx, p.Name)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}
	out, err := d.ProductUC.Create(ctx, p)
	if err != nil {
		return "", false, err
	}
	return out.ID, true, nil
}

func ensureLocation(ctx context.Context, d Deps, l dto.CreateLocationRequest) (string, bool, error) {
	existing, err := d.Locations.GetByName(ctx, l.Name)
	if err != nil {
		return "", false, err
	}
	if existing != nil {
		return existing.ID, false, nil
	}
	out, err := d.LocationUC.Create(ctx, l)
	if err != nil {
		return "", false, err
	}
	return out.ID, true, nil
}
