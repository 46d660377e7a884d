package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

const locationColumns = `id::text, name, address, type, created_at, updated_at`

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) Create(ctx context.Context, location *entity.Location) error {
	query := `
		INSERT INTO locations (id, name, address, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		location.ID, location.Name, location.Address, location.Type, location.CreatedAt, location.UpdatedAt,
	)
	if err != nil {
		if derr := constraintError(err); derr != nil {
			return derr
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM locations WHERE id = $1`, id)
}

func (r *LocationRepo) GetByName(ctx context.Context, name string) (*entity.Location, error) {
	return r.getOne(ctx, `SELECT `+locationColumns+` FROM locations WHERE name = $1`, name)
}

func (r *LocationRepo) getOne(ctx context.Context, query string, arg any) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

func (r *LocationRepo) Update(ctx context.Context, location *entity.Location) error {
	if !validID(location.ID) {
		return &domain.NotFoundError{Entity: "location", ID: location.ID}
	}
	query := `UPDATE locations SET name = $2, address = $3, type = $4, updated_at = $5 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, location.ID, location.Name, location.Address, location.Type, location.UpdatedAt)
	if err != nil {
		if derr := constraintError(err); derr != nil {
			return derr
		}
		return fmt.Errorf("update location: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "location", ID: location.ID}
	}
	return nil
}

func (r *LocationRepo) List(ctx context.Context, limit, offset int) ([]*entity.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations ORDER BY name, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Location, 0, limit)
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *LocationRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM locations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return n, nil
}

func (r *LocationRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	_, err := r.q.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			refs := countRefs(ctx, r.q, "from_location_id = $1 OR to_location_id = $1", id)
			return &domain.ReferentialIntegrityError{Entity: "location", ID: id, References: refs}
		}
		return fmt.Errorf("delete location: %w", err)
	}
	return nil
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var l entity.Location
	if err := row.Scan(&l.ID, &l.Name, &l.Address, &l.Type, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
