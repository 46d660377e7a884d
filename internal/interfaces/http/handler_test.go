package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp construye la API completa sobre el store en memoria.
func buildTestApp() *fiber.App {
	log := logger.Nop()
	store := memory.NewStore()
	app := apphttp.NewApp("stock-ledger-test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		ServiceName: "stock-ledger-test",
		ProductUC:   usecase.NewProductUseCase(store.Products(), store),
		LocationUC:  usecase.NewLocationUseCase(store.Locations(), store),
		Propose:     inventory.NewProposeMovementUseCase(store, log),
		LedgerUC:    inventory.NewLedgerUseCase(store.Movements()),
		BalanceUC:   inventory.NewBalanceUseCase(store.Balances(), store.Products(), store.Locations()),
		ReconcileUC: inventory.NewReconcileUseCase(store),
	})
	return app
}

// do ejecuta la petición y decodifica la respuesta JSON en out (si no es nil).
func do(t *testing.T, app *fiber.App, method, path string, body any, out any, headers ...string) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), "respuesta: %s", raw)
	}
	return resp.StatusCode
}

type fixture struct {
	app       *fiber.App
	productID string
	centralID string
	storeID   string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	app := buildTestApp()

	var p dto.ProductResponse
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/products",
		dto.CreateProductRequest{Name: "Laptop Pro X", SKU: "LPX-2025"}, &p))

	var central, shop dto.LocationResponse
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/locations",
		dto.CreateLocationRequest{Name: "Almacén Central"}, &central))
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/locations",
		dto.CreateLocationRequest{Name: "Tienda Centro", Type: "Retail"}, &shop))

	return fixture{app: app, productID: p.ID, centralID: central.ID, storeID: shop.ID}
}

func (f fixture) move(t *testing.T, from, to string, qty int64, out any) int {
	t.Helper()
	return do(t, f.app, http.MethodPost, "/api/movements", dto.ProposeMovementRequest{
		ProductID: f.productID, FromLocationID: from, ToLocationID: to, Qty: qty, Actor: "tester",
	}, out)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos y saldos
// ──────────────────────────────────────────────────────────────────────────────

func TestMovements_EntradaTrasladoYSaldos(t *testing.T) {
	f := newFixture(t)

	var m dto.MovementResponse
	require.Equal(t, http.StatusCreated, f.move(t, "", f.centralID, 100, &m))
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "tester", m.Actor)
	require.Equal(t, http.StatusCreated, f.move(t, f.centralID, f.storeID, 20, nil))

	var balances []dto.BalanceResponse
	require.Equal(t, http.StatusOK, do(t, f.app, http.MethodGet, "/api/balances", nil, &balances))
	require.Len(t, balances, 2)
	assert.Equal(t, "Almacén Central", balances[0].LocationName)
	assert.Equal(t, int64(100), balances[0].Incoming)
	assert.Equal(t, int64(20), balances[0].Outgoing)
	assert.Equal(t, int64(80), balances[0].Balance)
	assert.Equal(t, "Tienda Centro", balances[1].LocationName)
	assert.Equal(t, int64(20), balances[1].Balance)

	var pair dto.PairBalanceResponse
	require.Equal(t, http.StatusOK, do(t, f.app, http.MethodGet,
		"/api/balances/"+f.productID+"/"+f.storeID, nil, &pair))
	assert.Equal(t, int64(20), pair.Balance)

	var summary dto.SummaryResponse
	require.Equal(t, http.StatusOK, do(t, f.app, http.MethodGet, "/api/summary", nil, &summary))
	assert.Equal(t, dto.SummaryResponse{ProductCount: 1, LocationCount: 2, MovementCount: 2, TotalInflow: 120, TotalOutflow: 20}, summary)

	var rec dto.ReconciliationResponse
	require.Equal(t, http.StatusOK, do(t, f.app, http.MethodGet, "/api/reconciliation", nil, &rec))
	assert.True(t, rec.Consistent)
	assert.Empty(t, rec.Discrepancies)
}

func TestMovements_StockInsuficiente(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated, f.move(t, "", f.centralID, 100, nil))
	require.Equal(t, http.StatusCreated, f.move(t, f.centralID, f.storeID, 20, nil))

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, f.move(t, f.centralID, "", 90, &e))
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	require.NotNil(t, e.Available)
	require.NotNil(t, e.Requested)
	assert.Equal(t, int64(80), *e.Available)
	assert.Equal(t, int64(90), *e.Requested)

	// El límite exacto se acepta y deja el saldo en cero.
	assert.Equal(t, http.StatusCreated, f.move(t, f.centralID, "", 80, nil))

	var pair dto.PairBalanceResponse
	require.Equal(t, http.StatusOK, do(t, f.app, http.MethodGet,
		"/api/balances/"+f.productID+"/"+f.centralID, nil, &pair))
	assert.Zero(t, pair.Balance)
}

func TestMovements_Validacion(t *testing.T) {
	f := newFixture(t)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, f.move(t, "", f.centralID, 0, &e))
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Equal(t, "NonPositiveQuantity", e.Kind)

	e = dto.ErrorResponse{}
	assert.Equal(t, http.StatusBadRequest, f.move(t, f.centralID, f.centralID, 1, &e))
	assert.Equal(t, "SameLocation", e.Kind)

	e = dto.ErrorResponse{}
	assert.Equal(t, http.StatusBadRequest, f.move(t, "", "", 1, &e))
	assert.Equal(t, "MissingLocation", e.Kind)

	e = dto.ErrorResponse{}
	assert.Equal(t, http.StatusBadRequest, do(t, f.app, http.MethodPost, "/api/movements", dto.ProposeMovementRequest{
		ProductID: f.productID, ToLocationID: f.centralID, Qty: 1, Actor: strings.Repeat("x", 201),
	}, &e))
	assert.Equal(t, "InvalidField", e.Kind)
	assert.Equal(t, "actor", e.Field)
}

// lookupCaido simula un fallo de lectura del ledger posterior al registro.
type lookupCaido struct {
	repository.MovementRepository
}

func (lookupCaido) GetByID(context.Context, string) (*entity.Movement, error) {
	return nil, errors.New("lectura no disponible")
}

// La respuesta 201 sale del movimiento registrado; no depende de releerlo del ledger.
func TestMovements_RespuestaNoDependeDeRelectura(t *testing.T) {
	log := logger.Nop()
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Laptop Pro X", SKU: "LPX-2025"}))
	require.NoError(t, store.Locations().Create(ctx, &entity.Location{ID: "l1", Name: "Almacén Central"}))

	app := apphttp.NewApp("stock-ledger-test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(store.Products(), store),
		LocationUC:  usecase.NewLocationUseCase(store.Locations(), store),
		Propose:     inventory.NewProposeMovementUseCase(store, log),
		LedgerUC:    inventory.NewLedgerUseCase(lookupCaido{store.Movements()}),
		BalanceUC:   inventory.NewBalanceUseCase(store.Balances(), store.Products(), store.Locations()),
		ReconcileUC: inventory.NewReconcileUseCase(store),
	})

	var m dto.MovementResponse
	require.Equal(t, http.StatusCreated, do(t, app, http.MethodPost, "/api/movements", dto.ProposeMovementRequest{
		ProductID: "p1", ToLocationID: "l1", Qty: 7, Note: "recepción", Actor: "tester",
	}, &m))
	assert.NotEmpty(t, m.ID)
	assert.False(t, m.Timestamp.IsZero())
	assert.Equal(t, int64(7), m.Qty)
	assert.Equal(t, "l1", m.ToLocationID)

	stored, err := store.Movements().GetByID(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Timestamp.Equal(m.Timestamp))
}

func TestMovements_ActorDesdeHeader(t *testing.T) {
	f := newFixture(t)
	body := dto.ProposeMovementRequest{ProductID: f.productID, ToLocationID: f.centralID, Qty: 5}

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, f.app, http.MethodPost, "/api/movements", body, &e))
	assert.Equal(t, "MissingActor", e.Kind)

	var m dto.MovementResponse
	assert.Equal(t, http.StatusCreated, do(t, f.app, http.MethodPost, "/api/movements", body, &m, "X-Actor", "bodeguero"))
	assert.Equal(t, "bodeguero", m.Actor)
}

func TestMovements_ReferenciasInexistentes(t *testing.T) {
	f := newFixture(t)

	var e dto.ErrorResponse
	status := do(t, f.app, http.MethodPost, "/api/movements", dto.ProposeMovementRequest{
		ProductID: "no-existe", ToLocationID: f.centralID, Qty: 1, Actor: "a",
	}, &e)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", e.Code)

	status = f.move(t, "", "no-existe", 1, &e)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMovements_HistorialYConsulta(t *testing.T) {
	f := newFixture(t)
	var first, second dto.MovementResponse
	require.Equal(t, http.StatusCreated, f.move(t, "", f.centralID, 10, &first))
	require.Equal(t, http.StatusCreated, f.move(t, "", f.storeID, 5, &second))

	var list dto.MovementListResponse
	require.Equal(t, http.StatusOK, do(t, f.app, http.MethodGet, "/api/movements", nil, &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, second.ID, list.Items[0].ID, "más reciente primero")
	assert.Equal(t, inventory.DefaultHistoryLimit, list.Page.Limit)

	list = dto.MovementListResponse{}
	require.Equal(t, http.StatusOK, do(t, f.app, http.MethodGet, "/api/movements?location_id="+f.centralID, nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, first.ID, list.Items[0].ID)

	var got dto.MovementResponse
	require.Equal(t, http.StatusOK, do(t, f.app, http.MethodGet, "/api/movements/"+first.ID, nil, &got))
	assert.Equal(t, int64(10), got.Qty)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, do(t, f.app, http.MethodGet, "/api/movements/nope", nil, &e))
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_DuplicadosYBorrado(t *testing.T) {
	f := newFixture(t)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, do(t, f.app, http.MethodPost, "/api/products",
		dto.CreateProductRequest{Name: "Laptop Pro X", SKU: "OTRO"}, &e))
	assert.Equal(t, "DuplicateName", e.Kind)

	e = dto.ErrorResponse{}
	assert.Equal(t, http.StatusBadRequest, do(t, f.app, http.MethodPost, "/api/products",
		dto.CreateProductRequest{Name: "Otro", SKU: ""}, &e))
	assert.Equal(t, "MissingSKU", e.Kind)

	require.Equal(t, http.StatusCreated, f.move(t, "", f.centralID, 1, nil))

	e = dto.ErrorResponse{}
	assert.Equal(t, http.StatusConflict, do(t, f.app, http.MethodDelete, "/api/products/"+f.productID, nil, &e))
	assert.Equal(t, "REFERENCED", e.Code)

	e = dto.ErrorResponse{}
	assert.Equal(t, http.StatusConflict, do(t, f.app, http.MethodDelete, "/api/locations/"+f.centralID, nil, &e))
	assert.Equal(t, "REFERENCED", e.Code)

	// Ubicación sin historial: se puede borrar.
	assert.Equal(t, http.StatusNoContent, do(t, f.app, http.MethodDelete, "/api/locations/"+f.storeID, nil, nil))
	assert.Equal(t, http.StatusNotFound, do(t, f.app, http.MethodGet, "/api/locations/"+f.storeID, nil, &e))
}

func TestProducts_ActualizarYListar(t *testing.T) {
	f := newFixture(t)
	name := "Laptop Pro X2"

	var p dto.ProductResponse
	require.Equal(t, http.StatusOK, do(t, f.app, http.MethodPut, "/api/products/"+f.productID,
		dto.UpdateProductRequest{Name: &name}, &p))
	assert.Equal(t, name, p.Name)
	assert.Equal(t, "LPX-2025", p.SKU)
	assert.Equal(t, "unit", p.UnitOfMeasure)

	var list dto.ProductListResponse
	require.Equal(t, http.StatusOK, do(t, f.app, http.MethodGet, "/api/products?limit=10", nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Page.Total)

	var locs dto.LocationListResponse
	require.Equal(t, http.StatusOK, do(t, f.app, http.MethodGet, "/api/locations", nil, &locs))
	require.Len(t, locs.Items, 2)
	assert.Equal(t, "Almacén Central", locs.Items[0].Name)
	assert.Equal(t, "Warehouse", locs.Items[0].Type)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores genéricos
// ──────────────────────────────────────────────────────────────────────────────

func TestApp_CuerpoInvalidoYRutaInexistente(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString("{no es json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/api/nada", nil, &e))
	assert.Equal(t, "NOT_FOUND", e.Code)

	var health map[string]string
	assert.Equal(t, http.StatusOK, do(t, app, http.MethodGet, "/health", nil, &health))
	assert.Equal(t, "ok", health["status"])
}
