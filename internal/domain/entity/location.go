package entity

import "time"

// DefaultLocationType clasificación aplicada cuando la ubicación no indica una.
const DefaultLocationType = "Warehouse"

// Location representa una bodega, tienda o cualquier punto donde se almacena stock.
// Type es una clasificación libre (Warehouse, Retail, Fulfillment...).
type Location struct {
	ID        string
	Name      string
	Address   string
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
