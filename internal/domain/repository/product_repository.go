package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetBy* devuelven (nil, nil) cuando no existe el registro.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByName(ctx context.Context, name string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}
