package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BalanceRepository consultas de solo lectura derivadas del ledger.
type BalanceRepository interface {
	// ListBalances devuelve un saldo por cada par (producto, ubicación) con al menos un
	// movimiento, ordenado por nombre de producto y luego nombre de ubicación.
	ListBalances(ctx context.Context) ([]entity.Balance, error)
	// BalanceAt devuelve entradas - salidas del par; 0 si no hay historial.
	BalanceAt(ctx context.Context, productID, locationID string) (int64, error)
	Summary(ctx context.Context) (*entity.Summary, error)
}
