package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockLevelRepository = (*StockLevelRepo)(nil)

// StockLevelRepo saldo materializado por producto y ubicación (tabla stock_levels).
type StockLevelRepo struct {
	q Querier
}

// NewStockLevelRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockLevelRepository(q Querier) *StockLevelRepo {
	return &StockLevelRepo{q: q}
}

// LockForUpdate asegura que existan las filas de los pares y las bloquea (SELECT FOR UPDATE)
// en orden de location_id. Dos transacciones que tocan las mismas ubicaciones siempre
// adquieren los locks en el mismo orden.
func (r *StockLevelRepo) LockForUpdate(ctx context.Context, productID string, locationIDs ...string) error {
	locs := append([]string(nil), locationIDs...)
	sort.Strings(locs)
	for _, loc := range locs {
		_, err := r.q.Exec(ctx, `
			INSERT INTO stock_levels (product_id, location_id, quantity, updated_at)
			VALUES ($1, $2, 0, now())
			ON CONFLICT (product_id, location_id) DO NOTHING`, productID, loc)
		if err != nil {
			return fmt.Errorf("ensure stock level: %w", err)
		}
		var qty int64
		err = r.q.QueryRow(ctx, `
			SELECT quantity FROM stock_levels
			WHERE product_id = $1 AND location_id = $2
			FOR UPDATE`, productID, loc).Scan(&qty)
		if err != nil {
			return fmt.Errorf("lock stock level: %w", err)
		}
	}
	return nil
}

// AddDelta suma delta al saldo materializado del par.
func (r *StockLevelRepo) AddDelta(ctx context.Context, productID, locationID string, delta int64) error {
	query := `
		INSERT INTO stock_levels (product_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = stock_levels.quantity + EXCLUDED.quantity, updated_at = now()`
	if _, err := r.q.Exec(ctx, query, productID, locationID, delta); err != nil {
		return fmt.Errorf("add stock delta: %w", err)
	}
	return nil
}

// List devuelve todas las filas materializadas ordenadas por producto y ubicación.
func (r *StockLevelRepo) List(ctx context.Context) ([]entity.StockLevel, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id::text, location_id::text, quantity, updated_at
		FROM stock_levels ORDER BY product_id, location_id`)
	if err != nil {
		return nil, fmt.Errorf("list stock levels: %w", err)
	}
	defer rows.Close()
	list := []entity.StockLevel{}
	for rows.Next() {
		var s entity.StockLevel
		if err := rows.Scan(&s.ProductID, &s.LocationID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
