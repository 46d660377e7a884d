package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id::text, occurred_at, product_id::text, from_location_id::text, to_location_id::text, qty, note, actor`

// MovementRepo ledger de movimientos sobre PostgreSQL (usable con pool o tx).
// La tabla rechaza UPDATE y DELETE mediante trigger.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Append persiste un movimiento. Las violaciones de CHECK se traducen a ValidationError y
// las de FOREIGN KEY a NotFoundError.
func (r *MovementRepo) Append(ctx context.Context, movement *entity.Movement) (string, error) {
	for _, id := range []string{movement.ProductID, movement.FromLocationID, movement.ToLocationID} {
		if id != "" && !validID(id) {
			entityName := "location"
			if id == movement.ProductID {
				entityName = "product"
			}
			return "", &domain.NotFoundError{Entity: entityName, ID: id}
		}
	}
	query := `
		INSERT INTO movements (id, occurred_at, product_id, from_location_id, to_location_id, qty, note, actor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.Timestamp, movement.ProductID,
		nullable(movement.FromLocationID), nullable(movement.ToLocationID),
		movement.Qty, movement.Note, movement.Actor,
	)
	if err != nil {
		if derr := constraintError(err); derr != nil {
			return "", derr
		}
		if isForeignKeyViolation(err) {
			return "", movementFKError(err, movement)
		}
		return "", fmt.Errorf("append movement: %w", err)
	}
	return movement.ID, nil
}

func movementFKError(err error, m *entity.Movement) error {
	var pgErr *pgconn.PgError
	errors.As(err, &pgErr)
	switch pgErr.ConstraintName {
	case "movements_from_location_fkey":
		return &domain.NotFoundError{Entity: "location", ID: m.FromLocationID}
	case "movements_to_location_fkey":
		return &domain.NotFoundError{Entity: "location", ID: m.ToLocationID}
	default:
		return &domain.NotFoundError{Entity: "product", ID: m.ProductID}
	}
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	if !validID(id) {
		return nil, nil
	}
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List devuelve movimientos del más reciente al más antiguo; seq desempata timestamps iguales.
func (r *MovementRepo) List(ctx context.Context, filter entity.MovementFilter) ([]*entity.Movement, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ProductID != "" {
		if !validID(filter.ProductID) {
			return []*entity.Movement{}, nil
		}
		args = append(args, filter.ProductID)
		conds = append(conds, fmt.Sprintf("product_id = $%d", len(args)))
	}
	if filter.LocationID != "" {
		if !validID(filter.LocationID) {
			return []*entity.Movement{}, nil
		}
		args = append(args, filter.LocationID)
		conds = append(conds, fmt.Sprintf("(from_location_id = $%d OR to_location_id = $%d)", len(args), len(args)))
	}

	query := `SELECT ` + movementColumns + ` FROM movements`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY occurred_at DESC, seq DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	list := []*entity.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func (r *MovementRepo) CountByProduct(ctx context.Context, productID string) (int64, error) {
	if !validID(productID) {
		return 0, nil
	}
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM movements WHERE product_id = $1`, productID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements by product: %w", err)
	}
	return n, nil
}

func (r *MovementRepo) CountByLocation(ctx context.Context, locationID string) (int64, error) {
	if !validID(locationID) {
		return 0, nil
	}
	var n int64
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM movements WHERE from_location_id = $1 OR to_location_id = $1`, locationID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count movements by location: %w", err)
	}
	return n, nil
}

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var (
		m        entity.Movement
		from, to *string
	)
	if err := row.Scan(&m.ID, &m.Timestamp, &m.ProductID, &from, &to, &m.Qty, &m.Note, &m.Actor); err != nil {
		return nil, err
	}
	m.FromLocationID = deref(from)
	m.ToLocationID = deref(to)
	m.Timestamp = m.Timestamp.UTC()
	return &m, nil
}
