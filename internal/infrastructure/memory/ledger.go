package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.MovementRepository   = (*MovementRepo)(nil)
	_ repository.BalanceRepository    = (*BalanceRepo)(nil)
	_ repository.StockLevelRepository = (*StockLevelRepo)(nil)
)

// MovementRepo ledger en memoria, solo inserción.
type MovementRepo struct {
	v view
}

// Append valida estructura y referencias (como CHECK y FOREIGN KEY en SQL) y agrega al final.
func (r *MovementRepo) Append(ctx context.Context, movement *entity.Movement) (string, error) {
	if err := ledger.Validate(movement); err != nil {
		return "", err
	}
	err := r.v.with(ctx, func(s *state) error {
		if _, ok := s.products[movement.ProductID]; !ok {
			return &domain.NotFoundError{Entity: "product", ID: movement.ProductID}
		}
		for _, loc := range []string{movement.FromLocationID, movement.ToLocationID} {
			if _, ok := s.locations[loc]; loc != "" && !ok {
				return &domain.NotFoundError{Entity: "location", ID: loc}
			}
		}
		cp := *movement
		s.movements = append(s.movements, &cp)
		return nil
	})
	if err != nil {
		return "", err
	}
	return movement.ID, nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.v.with(ctx, func(s *state) error {
		for _, m := range s.movements {
			if m.ID == id {
				cp := *m
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List recorre el ledger desde el final: el último insertado es el más reciente.
func (r *MovementRepo) List(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	err := r.v.with(ctx, func(s *state) error {
		matched := make([]*entity.Movement, 0)
		for i := len(s.movements) - 1; i >= 0; i-- {
			m := s.movements[i]
			if filter.ProductID != "" && m.ProductID != filter.ProductID {
				continue
			}
			if filter.LocationID != "" && !m.Touches(filter.LocationID) {
				continue
			}
			cp := *m
			matched = append(matched, &cp)
		}
		out = page(matched, filter.Limit, filter.Offset)
		return nil
	})
	return out, err
}

func (r *MovementRepo) CountByProduct(ctx context.Context, productID string) (int64, error) {
	var n int64
	err := r.v.with(ctx, func(s *state) error {
		for _, m := range s.movements {
			if m.ProductID == productID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *MovementRepo) CountByLocation(ctx context.Context, locationID string) (int64, error) {
	var n int64
	err := r.v.with(ctx, func(s *state) error {
		for _, m := range s.movements {
			if m.Touches(locationID) {
				n++
			}
		}
		return nil
	})
	return n, err
}

// BalanceRepo saldos derivados calculados con el paquete ledger sobre el historial completo.
type BalanceRepo struct {
	v view
}

func (r *BalanceRepo) ListBalances(ctx context.Context) ([]entity.Balance, error) {
	var out []entity.Balance
	err := r.v.with(ctx, func(s *state) error {
		productNames := make(map[string]string, len(s.products))
		for id, p := range s.products {
			productNames[id] = p.Name
		}
		locationNames := make(map[string]string, len(s.locations))
		for id, l := range s.locations {
			locationNames[id] = l.Name
		}
		out = ledger.ComputeBalances(s.movements, productNames, locationNames)
		return nil
	})
	return out, err
}

func (r *BalanceRepo) BalanceAt(ctx context.Context, productID, locationID string) (int64, error) {
	var b int64
	err := r.v.with(ctx, func(s *state) error {
		b = ledger.BalanceAt(s.movements, productID, locationID)
		return nil
	})
	return b, err
}

func (r *BalanceRepo) Summary(ctx context.Context) (*entity.Summary, error) {
	var out *entity.Summary
	err := r.v.with(ctx, func(s *state) error {
		in, o := ledger.Summarize(s.movements)
		out = &entity.Summary{
			ProductCount:  int64(len(s.products)),
			LocationCount: int64(len(s.locations)),
			MovementCount: int64(len(s.movements)),
			TotalInflow:   in,
			TotalOutflow:  o,
		}
		return nil
	})
	return out, err
}

// StockLevelRepo saldos materializados en memoria. El bloqueo lo da el mutex del Store.
type StockLevelRepo struct {
	v view
}

func (r *StockLevelRepo) LockForUpdate(ctx context.Context, productID string, locationIDs ...string) error {
	return r.v.with(ctx, func(s *state) error {
		for _, loc := range locationIDs {
			k := levelKey{productID, loc}
			if _, ok := s.levels[k]; !ok {
				s.levels[k] = &entity.StockLevel{ProductID: productID, LocationID: loc}
			}
		}
		return nil
	})
}

func (r *StockLevelRepo) AddDelta(ctx context.Context, productID, locationID string, delta int64) error {
	return r.v.with(ctx, func(s *state) error {
		k := levelKey{productID, locationID}
		next := entity.StockLevel{ProductID: productID, LocationID: locationID}
		if cur, ok := s.levels[k]; ok {
			next.Quantity = cur.Quantity
		}
		next.Quantity += delta
		next.UpdatedAt = timeNow()
		s.levels[k] = &next
		return nil
	})
}

func (r *StockLevelRepo) List(ctx context.Context) ([]entity.StockLevel, error) {
	var out []entity.StockLevel
	err := r.v.with(ctx, func(s *state) error {
		out = make([]entity.StockLevel, 0, len(s.levels))
		for _, l := range s.levels {
			out = append(out, *l)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].ProductID != out[j].ProductID {
				return out[i].ProductID < out[j].ProductID
			}
			return out[i].LocationID < out[j].LocationID
		})
		return nil
	})
	return out, err
}
