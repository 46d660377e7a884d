package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrReferenced        = errors.New("recurso referenciado por movimientos")
)

// ValidationKind identifica la regla de validación que falló.
type ValidationKind string

const (
	KindMissingProduct      ValidationKind = "MissingProduct"
	KindMissingLocation     ValidationKind = "MissingLocation"
	KindNonPositiveQuantity ValidationKind = "NonPositiveQuantity"
	KindSameLocation        ValidationKind = "SameLocation"
	KindMissingActor        ValidationKind = "MissingActor"
	KindMissingName         ValidationKind = "MissingName"
	KindMissingSKU          ValidationKind = "MissingSKU"
	KindDuplicateName       ValidationKind = "DuplicateName"
	KindDuplicateSKU        ValidationKind = "DuplicateSKU"
	KindInvalidField        ValidationKind = "InvalidField"
)

// ValidationError petición mal formada. Corresponde a ErrInvalidInput con errors.Is.
type ValidationError struct {
	Kind    ValidationKind
	Field   string
	Message string
}

// NewValidationError construye un ValidationError.
func NewValidationError(kind ValidationKind, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NotFoundError producto, ubicación o movimiento inexistente.
type NotFoundError struct {
	Entity string // product, location, movement
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// InsufficientStockError la salida dejaría el saldo de la ubicación origen en negativo.
type InsufficientStockError struct {
	ProductID    string
	ProductName  string
	LocationID   string
	LocationName string
	Available    int64
	Requested    int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: %d unidades disponibles de %s en %s, se solicitaron %d",
		e.Available, nameOr(e.ProductName, e.ProductID), nameOr(e.LocationName, e.LocationID), e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// ReferentialIntegrityError borrado de un producto o ubicación con historial de movimientos.
type ReferentialIntegrityError struct {
	Entity     string
	ID         string
	References int64
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s %q tiene %d movimientos registrados y no puede eliminarse", e.Entity, e.ID, e.References)
}

func (e *ReferentialIntegrityError) Is(target error) bool { return target == ErrReferenced }

func nameOr(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
