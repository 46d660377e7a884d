// Package ledger contiene las reglas puras del ledger de movimientos: validación estructural
// de un movimiento y cálculo de saldos a partir del historial. No accede a persistencia.
package ledger

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MaxActorLength longitud máxima del actor en caracteres (columna movements.actor).
const MaxActorLength = 100

// Validate aplica las invariantes estructurales de un movimiento, en este orden:
// producto, al menos una ubicación, cantidad positiva, origen distinto de destino, actor.
func Validate(m *entity.Movement) error {
	if strings.TrimSpace(m.ProductID) == "" {
		return domain.NewValidationError(domain.KindMissingProduct, "product_id", "el producto es requerido")
	}
	if m.FromLocationID == "" && m.ToLocationID == "" {
		return domain.NewValidationError(domain.KindMissingLocation, "from_location_id",
			"debe indicarse ubicación de origen o de destino")
	}
	if m.Qty <= 0 {
		return domain.NewValidationError(domain.KindNonPositiveQuantity, "qty", "la cantidad debe ser mayor que 0")
	}
	if m.FromLocationID != "" && m.FromLocationID == m.ToLocationID {
		return domain.NewValidationError(domain.KindSameLocation, "to_location_id",
			"origen y destino no pueden ser la misma ubicación")
	}
	if strings.TrimSpace(m.Actor) == "" {
		return domain.NewValidationError(domain.KindMissingActor, "actor", "el actor es requerido")
	}
	if utf8.RuneCountInString(m.Actor) > MaxActorLength {
		return domain.NewValidationError(domain.KindInvalidField, "actor",
			"supera la longitud máxima de "+strconv.Itoa(MaxActorLength))
	}
	return nil
}
