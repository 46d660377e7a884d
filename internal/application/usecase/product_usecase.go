package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner repository.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner repository.TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner}
}

// Create crea un nuevo producto. Name y SKU deben ser únicos.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	in.Description = strings.TrimSpace(in.Description)
	in.UnitOfMeasure = strings.TrimSpace(in.UnitOfMeasure)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	if in.UnitOfMeasure == "" {
		in.UnitOfMeasure = entity.DefaultUnitOfMeasure
	}
	if err := uc.checkUnique(ctx, "", in.Name, in.SKU); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          in.Name,
		SKU:           in.SKU,
		Description:   in.Description,
		UnitOfMeasure: in.UnitOfMeasure,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "product", ID: id}
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. Puede conservar su propio nombre/SKU, pero no tomar los de otro.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	trimPtr(in.Name)
	trimPtr(in.SKU)
	trimPtr(in.Description)
	trimPtr(in.UnitOfMeasure)
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "product", ID: id}
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.SKU != nil {
		product.SKU = *in.SKU
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.UnitOfMeasure != nil {
		product.UnitOfMeasure = *in.UnitOfMeasure
		if product.UnitOfMeasure == "" {
			product.UnitOfMeasure = entity.DefaultUnitOfMeasure
		}
	}
	if err := uc.checkUnique(ctx, product.ID, product.Name, product.SKU); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, limit, offset int) (*dto.ProductListResponse, error) {
	limit, offset = normalizePage(limit, offset)
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: int(total)},
	}, nil
}

// Delete elimina un producto sin movimientos. La verificación y el borrado comparten transacción.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		product, err := tx.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return &domain.NotFoundError{Entity: "product", ID: id}
		}
		refs, err := tx.Movements.CountByProduct(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return &domain.ReferentialIntegrityError{Entity: "product", ID: id, References: refs}
		}
		return tx.Products.Delete(ctx, id)
	})
}

// checkUnique verifica que name y sku no pertenezcan a otro producto distinto de selfID.
func (uc *ProductUseCase) checkUnique(ctx context.Context, selfID, name, sku string) error {
	existing, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.NewValidationError(domain.KindDuplicateName, "name", "ya existe un producto con este nombre")
	}
	existing, err = uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.NewValidationError(domain.KindDuplicateSKU, "sku", "ya existe un producto con este SKU")
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		SKU:           p.SKU,
		Description:   p.Description,
		UnitOfMeasure: p.UnitOfMeasure,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
