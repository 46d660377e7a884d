package entity

import "time"

// DefaultUnitOfMeasure unidad aplicada cuando el producto no indica una.
const DefaultUnitOfMeasure = "unit"

// Product representa un producto del catálogo. Name y SKU son únicos en todo el catálogo.
// UnitOfMeasure es descriptivo; no convierte cantidades.
type Product struct {
	ID            string
	Name          string
	SKU           string
	Description   string
	UnitOfMeasure string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
