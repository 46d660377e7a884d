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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id::text, name, sku, description, unit_of_measure, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Nombre y SKU duplicados llegan como ValidationError.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, sku, description, unit_of_measure, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SKU, product.Description, product.UnitOfMeasure,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if derr := constraintError(err); derr != nil {
			return derr
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByName obtiene un producto por nombre exacto.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE name = $1`, name)
}

// GetBySKU obtiene un producto por SKU exacto.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update actualiza los campos editables de un producto existente.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	if !validID(product.ID) {
		return &domain.NotFoundError{Entity: "product", ID: product.ID}
	}
	query := `
		UPDATE products SET name = $2, sku = $3, description = $4, unit_of_measure = $5, updated_at = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.SKU, product.Description, product.UnitOfMeasure, product.UpdatedAt,
	)
	if err != nil {
		if derr := constraintError(err); derr != nil {
			return derr
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return &domain.NotFoundError{Entity: "product", ID: product.ID}
	}
	return nil
}

// List lista productos ordenados por nombre con paginación.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY name, id LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0, limit)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Count total de productos.
func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

// Delete elimina un producto por ID. La FK de movements (ON DELETE RESTRICT) impide borrar
// productos con historial.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	_, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ReferentialIntegrityError{Entity: "product", ID: id, References: countRefs(ctx, r.q, "product_id = $1", id)}
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Description, &p.UnitOfMeasure, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// countRefs cuenta movimientos que cumplen cond; se usa solo para enriquecer el error de borrado.
func countRefs(ctx context.Context, q Querier, cond, id string) int64 {
	var n int64
	_ = q.QueryRow(ctx, `SELECT COUNT(*) FROM movements WHERE `+cond, id).Scan(&n)
	return n
}
