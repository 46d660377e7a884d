package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo saldos derivados del ledger con agregaciones SQL.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Entradas y salidas agregadas por separado y unidas con FULL OUTER JOIN: un par con solo
// salidas o solo entradas aparece con 0 del otro lado. SUM(BIGINT) es NUMERIC: el saldo se
// calcula antes del cast y los totales se saturan en el máximo de BIGINT.
const balancesQuery = `
	WITH incoming AS (
		SELECT product_id, to_location_id AS location_id, SUM(qty) AS qty
		FROM movements WHERE to_location_id IS NOT NULL
		GROUP BY product_id, to_location_id
	), outgoing AS (
		SELECT product_id, from_location_id AS location_id, SUM(qty) AS qty
		FROM movements WHERE from_location_id IS NOT NULL
		GROUP BY product_id, from_location_id
	)
	SELECT p.id::text, p.name, l.id::text, l.name,
		LEAST(COALESCE(i.qty, 0), 9223372036854775807)::BIGINT AS incoming,
		LEAST(COALESCE(o.qty, 0), 9223372036854775807)::BIGINT AS outgoing,
		(COALESCE(i.qty, 0) - COALESCE(o.qty, 0))::BIGINT AS balance
	FROM incoming i
	FULL OUTER JOIN outgoing o ON o.product_id = i.product_id AND o.location_id = i.location_id
	JOIN products p ON p.id = COALESCE(i.product_id, o.product_id)
	JOIN locations l ON l.id = COALESCE(i.location_id, o.location_id)
	ORDER BY p.name, l.name`

func (r *BalanceRepo) ListBalances(ctx context.Context) ([]entity.Balance, error) {
	rows, err := r.q.Query(ctx, balancesQuery)
	if err != nil {
		return nil, fmt.Errorf("list balances: %w", err)
	}
	defer rows.Close()
	list := []entity.Balance{}
	for rows.Next() {
		var b entity.Balance
		if err := rows.Scan(&b.ProductID, &b.ProductName, &b.LocationID, &b.LocationName, &b.Incoming, &b.Outgoing, &b.Balance); err != nil {
			return nil, fmt.Errorf("scan balance: %w", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Misma colación que el store en memoria, independiente de la del servidor.
	ledger.SortBalances(list)
	return list, nil
}

// BalanceAt recalcula el saldo del par desde el ledger. Dentro de una transacción READ
// COMMITTED y después de LockForUpdate ve todos los movimientos confirmados del par.
func (r *BalanceRepo) BalanceAt(ctx context.Context, productID, locationID string) (int64, error) {
	if !validID(productID) || !validID(locationID) {
		return 0, nil
	}
	query := `
		SELECT COALESCE(SUM(CASE WHEN to_location_id = $2 THEN qty ELSE -qty END), 0)::BIGINT
		FROM movements
		WHERE product_id = $1 AND (to_location_id = $2 OR from_location_id = $2)`
	var balance int64
	if err := r.q.QueryRow(ctx, query, productID, locationID).Scan(&balance); err != nil {
		return 0, fmt.Errorf("balance at: %w", err)
	}
	return balance, nil
}

func (r *BalanceRepo) Summary(ctx context.Context) (*entity.Summary, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM locations),
			(SELECT COUNT(*) FROM movements),
			(SELECT LEAST(COALESCE(SUM(qty), 0), 9223372036854775807)::BIGINT FROM movements WHERE to_location_id IS NOT NULL),
			(SELECT LEAST(COALESCE(SUM(qty), 0), 9223372036854775807)::BIGINT FROM movements WHERE from_location_id IS NOT NULL)`
	var s entity.Summary
	err := r.q.QueryRow(ctx, query).Scan(&s.ProductCount, &s.LocationCount, &s.MovementCount, &s.TotalInflow, &s.TotalOutflow)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	return &s, nil
}
