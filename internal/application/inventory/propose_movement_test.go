package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Laptop Pro X", SKU: "LPX-2025"}))
	require.NoError(t, s.Locations().Create(ctx, &entity.Location{ID: "l1", Name: "Zone 1A Shelf"}))
	require.NoError(t, s.Locations().Create(ctx, &entity.Location{ID: "l2", Name: "Retail Floor"}))
	return s
}

func propose(t *testing.T, uc *inventory.ProposeMovementUseCase, from, to string, qty int64) (string, error) {
	t.Helper()
	return uc.ProposeMovement(context.Background(), inventory.ProposeMovementInput{
		ProductID: "p1", FromLocationID: from, ToLocationID: to, Qty: qty, Actor: "tester",
	})
}

func TestProposeMovement_EntradaYTraslado(t *testing.T) {
	s := newStore(t)
	uc := inventory.NewProposeMovementUseCase(s, logger.Nop())
	ctx := context.Background()

	_, err := propose(t, uc, "", "l1", 100)
	require.NoError(t, err)
	_, err = propose(t, uc, "l1", "l2", 20)
	require.NoError(t, err)

	b1, err := s.Balances().BalanceAt(ctx, "p1", "l1")
	require.NoError(t, err)
	b2, err := s.Balances().BalanceAt(ctx, "p1", "l2")
	require.NoError(t, err)
	assert.Equal(t, int64(80), b1)
	assert.Equal(t, int64(20), b2)
}

func TestProposeMovement_LimiteExacto(t *testing.T) {
	s := newStore(t)
	uc := inventory.NewProposeMovementUseCase(s, logger.Nop())

	_, err := propose(t, uc, "", "l1", 80)
	require.NoError(t, err)

	_, err = propose(t, uc, "l1", "", 90)
	var stock *domain.InsufficientStockError
	require.True(t, errors.As(err, &stock))
	assert.Equal(t, int64(80), stock.Available)
	assert.Equal(t, int64(90), stock.Requested)
	assert.Equal(t, "Laptop Pro X", stock.ProductName)
	assert.Equal(t, "Zone 1A Shelf", stock.LocationName)

	_, err = propose(t, uc, "l1", "", 80)
	assert.NoError(t, err, "dejar el saldo en cero es válido")

	n, err := s.Movements().CountByProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n, "el movimiento rechazado no se registra")
}

func TestProposeMovement_SalidaSinStock(t *testing.T) {
	s := newStore(t)
	uc := inventory.NewProposeMovementUseCase(s, logger.Nop())

	_, err := propose(t, uc, "l2", "l1", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestProposeMovement_ReferenciasAntesQueStock(t *testing.T) {
	s := newStore(t)
	uc := inventory.NewProposeMovementUseCase(s, logger.Nop())
	ctx := context.Background()

	// Producto inexistente con cantidad que además excedería el saldo: gana NotFound.
	_, err := uc.ProposeMovement(ctx, inventory.ProposeMovementInput{
		ProductID: "nope", FromLocationID: "l1", Qty: 1000, Actor: "a",
	})
	var nf *domain.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "product", nf.Entity)

	_, err = propose(t, uc, "l1", "nope", 1000)
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "location", nf.Entity)
	assert.Equal(t, "nope", nf.ID)
}

func TestProposeMovement_ValidacionAntesQueReferencias(t *testing.T) {
	s := newStore(t)
	uc := inventory.NewProposeMovementUseCase(s, logger.Nop())

	_, err := uc.ProposeMovement(context.Background(), inventory.ProposeMovementInput{
		ProductID: "nope", ToLocationID: "nope", Qty: 0, Actor: "a",
	})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, domain.KindNonPositiveQuantity, verr.Kind)
}

// El saldo destino nunca puede superar math.MaxInt64: la entrada que lo desbordaría se
// rechaza sin tocar el ledger.
func TestProposeMovement_DestinoNoDesborda(t *testing.T) {
	s := newStore(t)
	uc := inventory.NewProposeMovementUseCase(s, logger.Nop())
	ctx := context.Background()

	_, err := propose(t, uc, "", "l1", 5_000_000_000_000_000_000)
	require.NoError(t, err)
	_, err = propose(t, uc, "", "l1", 5_000_000_000_000_000_000)
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr), "se esperaba ValidationError, llegó %v", err)
	assert.Equal(t, domain.KindInvalidField, verr.Kind)
	assert.Equal(t, "qty", verr.Field)

	// Hasta el máximo exacto sí se admite.
	_, err = propose(t, uc, "", "l1", math.MaxInt64-5_000_000_000_000_000_000)
	require.NoError(t, err)
	_, err = propose(t, uc, "", "l1", 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	b, err := s.Balances().BalanceAt(ctx, "p1", "l1")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), b)

	// Las salidas siguen viendo el saldo correcto.
	_, err = propose(t, uc, "l1", "l2", math.MaxInt64)
	require.NoError(t, err)
	_, err = propose(t, uc, "l1", "", 1)
	var serr *domain.InsufficientStockError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, int64(0), serr.Available)

	n, err := s.Movements().CountByProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	diffs, err := inventory.NewReconcileUseCase(s).Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestProposeMovement_NormalizaYFechaUTC(t *testing.T) {
	s := newStore(t)
	fixed := time.Date(2025, 3, 14, 9, 30, 0, 0, time.FixedZone("COT", -5*3600))
	uc := inventory.NewProposeMovementUseCase(s, logger.Nop()).WithClock(func() time.Time { return fixed })
	ctx := context.Background()

	id, err := uc.ProposeMovement(ctx, inventory.ProposeMovementInput{
		ProductID: " p1 ", ToLocationID: "l1 ", Qty: 3, Note: "  recepción  ", Actor: " ana ",
	})
	require.NoError(t, err)

	m, err := s.Movements().GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "p1", m.ProductID)
	assert.Equal(t, "recepción", m.Note)
	assert.Equal(t, "ana", m.Actor)
	assert.Equal(t, time.UTC, m.Timestamp.Location())
	assert.True(t, fixed.Equal(m.Timestamp))
}

// Muchas salidas concurrentes sobre el mismo par: ninguna combinación puede dejar el saldo negativo.
func TestProposeMovement_ConcurrenciaNoSobregira(t *testing.T) {
	s := newStore(t)
	uc := inventory.NewProposeMovementUseCase(s, logger.Nop())
	ctx := context.Background()

	_, err := propose(t, uc, "", "l1", 100)
	require.NoError(t, err)

	var accepted, rejected atomic.Int64
	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			_, err := uc.ProposeMovement(ctx, inventory.ProposeMovementInput{
				ProductID: "p1", FromLocationID: "l1", ToLocationID: "l2", Qty: 3, Actor: "worker",
			})
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(33), accepted.Load())
	assert.Equal(t, int64(17), rejected.Load())

	b1, err := s.Balances().BalanceAt(ctx, "p1", "l1")
	require.NoError(t, err)
	b2, err := s.Balances().BalanceAt(ctx, "p1", "l2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), b1)
	assert.Equal(t, int64(99), b2)

	diffs, err := inventory.NewReconcileUseCase(s).Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, diffs)
}
