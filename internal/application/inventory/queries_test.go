package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func TestLedgerUseCase_HistoryYGetMovement(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	uc := inventory.NewProposeMovementUseCase(s, logger.Nop())
	first, err := propose(t, uc, "", "l1", 10)
	require.NoError(t, err)
	second, err := propose(t, uc, "l1", "l2", 4)
	require.NoError(t, err)

	ledgerUC := inventory.NewLedgerUseCase(s.Movements())
	list, err := ledgerUC.History(ctx, entity.MovementFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, first, list[1].ID)

	list, err = ledgerUC.History(ctx, entity.MovementFilter{LocationID: "l2"})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = ledgerUC.History(ctx, entity.MovementFilter{ProductID: "otro"})
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = ledgerUC.GetMovement(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNormalizeHistoryFilter(t *testing.T) {
	f := inventory.NormalizeHistoryFilter(entity.MovementFilter{ProductID: " p1 ", Limit: 0, Offset: -5})
	assert.Equal(t, "p1", f.ProductID)
	assert.Equal(t, inventory.DefaultHistoryLimit, f.Limit)
	assert.Zero(t, f.Offset)

	f = inventory.NormalizeHistoryFilter(entity.MovementFilter{Limit: 10_000})
	assert.Equal(t, inventory.MaxHistoryLimit, f.Limit)
}

func TestBalanceUseCase_BalanceAt(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	uc := inventory.NewBalanceUseCase(s.Balances(), s.Products(), s.Locations())

	b, err := uc.BalanceAt(ctx, "p1", "l1")
	require.NoError(t, err)
	assert.Zero(t, b, "par sin historial")

	_, err = uc.BalanceAt(ctx, "nope", "l1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.BalanceAt(ctx, "p1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.ListBalances(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestReconcileUseCase_DetectaDiferencias(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	_, err := propose(t, inventory.NewProposeMovementUseCase(s, logger.Nop()), "", "l1", 10)
	require.NoError(t, err)

	rec := inventory.NewReconcileUseCase(s)
	diffs, err := rec.Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, diffs)

	// Materialización corrupta: un par con historial y otro sin él.
	require.NoError(t, s.StockLevels().AddDelta(ctx, "p1", "l1", 5))
	require.NoError(t, s.StockLevels().AddDelta(ctx, "p1", "l2", 7))

	diffs, err = rec.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, []inventory.Discrepancy{
		{ProductID: "p1", LocationID: "l1", Derived: 10, Materialized: 15},
		{ProductID: "p1", LocationID: "l2", Derived: 0, Materialized: 7},
	}, diffs)
}

// Con un escritor activo, cada conciliación debe ver ledger y saldos materializados en el
// mismo estado: nunca reporta diferencias en un ledger sano.
func TestReconcileUseCase_ConsistenteConEscrituraConcurrente(t *testing.T) {
	s := newStore(t)
	uc := inventory.NewProposeMovementUseCase(s, logger.Nop())
	rec := inventory.NewReconcileUseCase(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for gctx.Err() == nil {
			if _, err := uc.ProposeMovement(gctx, inventory.ProposeMovementInput{
				ProductID: "p1", ToLocationID: "l1", Qty: 1, Actor: "writer",
			}); err != nil && gctx.Err() == nil {
				return err
			}
		}
		return nil
	})

	for i := 0; i < 500; i++ {
		diffs, err := rec.Reconcile(context.Background())
		require.NoError(t, err)
		require.Empty(t, diffs, "iteración %d", i)
	}
	cancel()
	require.NoError(t, g.Wait())
}
