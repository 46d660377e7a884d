package entity

import "time"

// StockLevel saldo materializado de un producto en una ubicación.
// Se actualiza en la misma transacción que cada movimiento y sirve como fila de bloqueo
// para la validación de stock; el saldo derivado del ledger sigue siendo la referencia.
type StockLevel struct {
	ProductID  string
	LocationID string
	Quantity   int64
	UpdatedAt  time.Time
}
