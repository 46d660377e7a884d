package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementRepository puerto del ledger de movimientos. Solo inserción: no hay Update ni Delete.
type MovementRepository interface {
	// Append persiste el movimiento y devuelve su ID.
	Append(ctx context.Context, movement *entity.Movement) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// List devuelve movimientos del más reciente al más antiguo.
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error)
	CountByProduct(ctx context.Context, productID string) (int64, error)
	// CountByLocation cuenta movimientos donde la ubicación es origen o destino.
	CountByLocation(ctx context.Context, locationID string) (int64, error)
}
