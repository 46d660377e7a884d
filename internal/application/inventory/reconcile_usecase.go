package inventory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Discrepancy diferencia entre el saldo derivado del ledger y el saldo materializado.
type Discrepancy struct {
	ProductID    string
	LocationID   string
	Derived      int64
	Materialized int64
}

// ReconcileUseCase compara stock_levels contra el recálculo completo del ledger.
// El ledger es la referencia; cualquier diferencia indica un error en la materialización.
type ReconcileUseCase struct {
	txRunner repository.TxRunner
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(txRunner repository.TxRunner) *ReconcileUseCase {
	return &ReconcileUseCase{txRunner: txRunner}
}

// Reconcile devuelve las discrepancias encontradas, ordenadas por producto y ubicación.
// Lista vacía = materialización consistente. Ambos lados se leen en la misma instantánea,
// así que un movimiento confirmado durante la conciliación no aparece como diferencia.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context) ([]Discrepancy, error) {
	var (
		derived      []entity.Balance
		materialized []entity.StockLevel
	)
	err := uc.txRunner.ReadOnly(ctx, func(tx repository.Tx) error {
		var err error
		if derived, err = tx.Balances.ListBalances(ctx); err != nil {
			return err
		}
		materialized, err = tx.StockLevels.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	type key struct{ p, l string }
	levels := make(map[key]int64, len(materialized))
	for _, s := range materialized {
		levels[key{s.ProductID, s.LocationID}] = s.Quantity
	}

	out := make([]Discrepancy, 0)
	for _, b := range derived {
		k := key{b.ProductID, b.LocationID}
		qty, ok := levels[k]
		delete(levels, k)
		if !ok || qty != b.Balance {
			out = append(out, Discrepancy{ProductID: b.ProductID, LocationID: b.LocationID, Derived: b.Balance, Materialized: qty})
		}
	}
	// Filas materializadas sin historial: solo son válidas en cero (filas de bloqueo).
	for k, qty := range levels {
		if qty != 0 {
			out = append(out, Discrepancy{ProductID: k.p, LocationID: k.l, Derived: 0, Materialized: qty})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		return out[i].LocationID < out[j].LocationID
	})
	return out, nil
}
