package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// BalanceUseCase consultas de saldos derivados del ledger.
type BalanceUseCase struct {
	balances  repository.BalanceRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
}

// NewBalanceUseCase construye el caso de uso.
func NewBalanceUseCase(
	balances repository.BalanceRepository,
	products repository.ProductRepository,
	locations repository.LocationRepository,
) *BalanceUseCase {
	return &BalanceUseCase{balances: balances, products: products, locations: locations}
}

// ListBalances saldos por producto y ubicación, solo pares con historial.
func (uc *BalanceUseCase) ListBalances(ctx context.Context) ([]entity.Balance, error) {
	list, err := uc.balances.ListBalances(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []entity.Balance{}
	}
	return list, nil
}

// BalanceAt saldo de un par. Producto y ubicación deben existir; un par sin historial vale 0.
func (uc *BalanceUseCase) BalanceAt(ctx context.Context, productID, locationID string) (int64, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, &domain.NotFoundError{Entity: "product", ID: productID}
	}
	l, err := uc.locations.GetByID(ctx, locationID)
	if err != nil {
		return 0, err
	}
	if l == nil {
		return 0, &domain.NotFoundError{Entity: "location", ID: locationID}
	}
	return uc.balances.BalanceAt(ctx, productID, locationID)
}

// Summary contadores para el tablero.
func (uc *BalanceUseCase) Summary(ctx context.Context) (*entity.Summary, error) {
	return uc.balances.Summary(ctx)
}
