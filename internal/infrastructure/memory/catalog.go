package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository  = (*ProductRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
)

// ProductRepo productos en memoria. Name y SKU únicos como en el esquema SQL.
type ProductRepo struct {
	v view
}

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.v.with(ctx, func(s *state) error {
		if err := productConflict(s, product); err != nil {
			return err
		}
		cp := *product
		s.products[cp.ID] = &cp
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.with(ctx, func(s *state) error {
		if p, ok := s.products[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	return r.find(ctx, func(p *entity.Product) bool { return p.Name == name })
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.find(ctx, func(p *entity.Product) bool { return p.SKU == sku })
}

func (r *ProductRepo) find(ctx context.Context, match func(*entity.Product) bool) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.with(ctx, func(s *state) error {
		for _, p := range s.products {
			if match(p) {
				cp := *p
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return r.v.with(ctx, func(s *state) error {
		if _, ok := s.products[product.ID]; !ok {
			return &domain.NotFoundError{Entity: "product", ID: product.ID}
		}
		if err := productConflict(s, product); err != nil {
			return err
		}
		cp := *product
		s.products[cp.ID] = &cp
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.with(ctx, func(s *state) error {
		all := make([]*entity.Product, 0, len(s.products))
		for _, p := range s.products {
			cp := *p
			all = append(all, &cp)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.v.with(ctx, func(s *state) error {
		n = int64(len(s.products))
		return nil
	})
	return n, err
}

// Delete equivale a ON DELETE RESTRICT: falla si algún movimiento referencia el producto.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.v.with(ctx, func(s *state) error {
		var refs int64
		for _, m := range s.movements {
			if m.ProductID == id {
				refs++
			}
		}
		if refs > 0 {
			return &domain.ReferentialIntegrityError{Entity: "product", ID: id, References: refs}
		}
		delete(s.products, id)
		return nil
	})
}

func productConflict(s *state, product *entity.Product) error {
	for _, p := range s.products {
		if p.ID == product.ID {
			continue
		}
		if p.Name == product.Name {
			return domain.NewValidationError(domain.KindDuplicateName, "name", "ya existe un producto con este nombre")
		}
		if p.SKU == product.SKU {
			return domain.NewValidationError(domain.KindDuplicateSKU, "sku", "ya existe un producto con este SKU")
		}
	}
	return nil
}

// LocationRepo ubicaciones en memoria. Name único.
type LocationRepo struct {
	v view
}

func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	return r.v.with(ctx, func(s *state) error {
		if err := locationConflict(s, location); err != nil {
			return err
		}
		cp := *location
		s.locations[cp.ID] = &cp
		return nil
	})
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	var out *entity.Location
	err := r.v.with(ctx, func(s *state) error {
		if l, ok := s.locations[id]; ok {
			cp := *l
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) GetByName(ctx context.Context, name string) (*entity.Location, error) {
	var out *entity.Location
	err := r.v.with(ctx, func(s *state) error {
		for _, l := range s.locations {
			if l.Name == name {
				cp := *l
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *LocationRepo) Update(ctx context.Context, location *entity.Location) error {
	return r.v.with(ctx, func(s *state) error {
		if _, ok := s.locations[location.ID]; !ok {
			return &domain.NotFoundError{Entity: "location", ID: location.ID}
		}
		if err := locationConflict(s, location); err != nil {
			return err
		}
		cp := *location
		s.locations[cp.ID] = &cp
		return nil
	})
}

func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	err := r.v.with(ctx, func(s *state) error {
		all := make([]*entity.Location, 0, len(s.locations))
		for _, l := range s.locations {
			cp := *l
			all = append(all, &cp)
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *LocationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.v.with(ctx, func(s *state) error {
		n = int64(len(s.locations))
		return nil
	})
	return n, err
}

func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	return r.v.with(ctx, func(s *state) error {
		var refs int64
		for _, m := range s.movements {
			if m.Touches(id) {
				refs++
			}
		}
		if refs > 0 {
			return &domain.ReferentialIntegrityError{Entity: "location", ID: id, References: refs}
		}
		delete(s.locations, id)
		return nil
	})
}

func locationConflict(s *state, location *entity.Location) error {
	for _, l := range s.locations {
		if l.ID != location.ID && l.Name == location.Name {
			return domain.NewValidationError(domain.KindDuplicateName, "name", "ya existe una ubicación con este nombre")
		}
	}
	return nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
