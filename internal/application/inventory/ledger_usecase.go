package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Límites de paginación del historial.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// LedgerUseCase consultas sobre el historial de movimientos (solo lectura).
type LedgerUseCase struct {
	movements repository.MovementRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(movements repository.MovementRepository) *LedgerUseCase {
	return &LedgerUseCase{movements: movements}
}

// History lista movimientos del más reciente al más antiguo, filtrando opcionalmente por
// producto y/o ubicación (como origen o destino).
func (uc *LedgerUseCase) History(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error) {
	filter = NormalizeHistoryFilter(filter)
	list, err := uc.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.Movement{}
	}
	return list, nil
}

// GetMovement obtiene un movimiento por ID.
func (uc *LedgerUseCase) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := uc.movements.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, &domain.NotFoundError{Entity: "movement", ID: id}
	}
	return m, nil
}

// NormalizeHistoryFilter recorta espacios y aplica los límites de paginación.
func NormalizeHistoryFilter(filter entity.MovementFilter) entity.MovementFilter {
	filter.ProductID = strings.TrimSpace(filter.ProductID)
	filter.LocationID = strings.TrimSpace(filter.LocationID)
	if filter.Limit <= 0 {
		filter.Limit = DefaultHistoryLimit
	}
	if filter.Limit > MaxHistoryLimit {
		filter.Limit = MaxHistoryLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return filter
}
