package postgres

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Códigos SQLSTATE usados por los adaptadores.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

func pgCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// isForeignKeyViolation verifica si un error es una violación de clave foránea (23503).
func isForeignKeyViolation(err error) bool {
	code, _ := pgCode(err)
	return code == codeForeignKeyViolation
}

// isRetryable indica si la transacción puede reintentarse completa (serialización o deadlock).
func isRetryable(err error) bool {
	code, _ := pgCode(err)
	return code == codeSerializationFailure || code == codeDeadlockDetected
}

// constraintError traduce violaciones de UNIQUE y CHECK del esquema a errores de dominio.
// Devuelve nil si el error no corresponde a un constraint conocido.
func constraintError(err error) error {
	code, constraint := pgCode(err)
	switch code {
	case codeUniqueViolation:
		switch constraint {
		case "products_name_key":
			return domain.NewValidationError(domain.KindDuplicateName, "name", "ya existe un producto con este nombre")
		case "products_sku_key":
			return domain.NewValidationError(domain.KindDuplicateSKU, "sku", "ya existe un producto con este SKU")
		case "locations_name_key":
			return domain.NewValidationError(domain.KindDuplicateName, "name", "ya existe una ubicación con este nombre")
		}
	case codeCheckViolation:
		switch constraint {
		case "movements_qty_positive":
			return domain.NewValidationError(domain.KindNonPositiveQuantity, "qty", "la cantidad debe ser mayor que 0")
		case "movements_location_required":
			return domain.NewValidationError(domain.KindMissingLocation, "from_location_id", "debe indicarse ubicación de origen o de destino")
		case "movements_distinct_locations":
			return domain.NewValidationError(domain.KindSameLocation, "to_location_id", "origen y destino no pueden ser la misma ubicación")
		}
	}
	return nil
}

// validID evita enviar a PostgreSQL identificadores que no son UUID (error 22P02);
// un ID mal formado se trata como inexistente.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
