package entity

import "time"

// Movement es un evento inmutable del ledger: entrada (solo To), salida (solo From)
// o traslado (From y To). Qty siempre es positiva; el sentido lo da la ubicación.
type Movement struct {
	ID             string
	Timestamp      time.Time
	ProductID      string
	FromLocationID string // vacío = sin origen (entrada)
	ToLocationID   string // vacío = sin destino (salida)
	Qty            int64
	Note           string
	Actor          string
}

// Touches indica si el movimiento afecta la ubicación como origen o destino.
func (m *Movement) Touches(locationID string) bool {
	return locationID != "" && (m.FromLocationID == locationID || m.ToLocationID == locationID)
}

// MovementFilter filtros para el historial. LocationID coincide con origen o destino.
type MovementFilter struct {
	ProductID  string
	LocationID string
	Limit      int
	Offset     int
}
