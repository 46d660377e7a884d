package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// LocationRepository define el puerto de persistencia para Location (DIP).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	GetByName(ctx context.Context, name string) (*entity.Location, error)
	Update(ctx context.Context, location *entity.Location) error
	List(ctx context.Context, limit, offset int) ([]*entity.Location, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}
