package entity

// Balance saldo derivado de un producto en una ubicación (Incoming - Outgoing).
// No se persiste: se recalcula desde el ledger en cada consulta.
type Balance struct {
	ProductID    string
	ProductName  string
	LocationID   string
	LocationName string
	Incoming     int64
	Outgoing     int64
	Balance      int64
}

// Summary contadores generales del inventario.
type Summary struct {
	ProductCount  int64
	LocationCount int64
	MovementCount int64
	TotalInflow   int64 // suma de qty con destino
	TotalOutflow  int64 // suma de qty con origen
}
