package dto

import "time"

// ProposeMovementRequest body para POST /api/movements.
// Entrada: to_location_id. Salida: from_location_id. Traslado: ambos.
type ProposeMovementRequest struct {
	ProductID      string `json:"product_id"`
	FromLocationID string `json:"from_location_id,omitempty"`
	ToLocationID   string `json:"to_location_id,omitempty"`
	Qty            int64  `json:"qty"`
	Note           string `json:"note,omitempty"`
	Actor          string `json:"actor,omitempty"` // si falta se toma del header X-Actor
}

// MovementResponse salida de un movimiento del ledger.
type MovementResponse struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	ProductID      string    `json:"product_id"`
	FromLocationID string    `json:"from_location_id,omitempty"`
	ToLocationID   string    `json:"to_location_id,omitempty"`
	Qty            int64     `json:"qty"`
	Note           string    `json:"note,omitempty"`
	Actor          string    `json:"actor"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// BalanceResponse saldo de un producto en una ubicación.
type BalanceResponse struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name,omitempty"`
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name,omitempty"`
	Incoming     int64  `json:"incoming"`
	Outgoing     int64  `json:"outgoing"`
	Balance      int64  `json:"balance"`
}

// SummaryResponse contadores del tablero.
type SummaryResponse struct {
	ProductCount  int64 `json:"product_count"`
	LocationCount int64 `json:"location_count"`
	MovementCount int64 `json:"movement_count"`
	TotalInflow   int64 `json:"total_inflow"`
	TotalOutflow  int64 `json:"total_outflow"`
}

// DiscrepancyResponse diferencia entre saldo derivado y materializado.
type DiscrepancyResponse struct {
	ProductID    string `json:"product_id"`
	LocationID   string `json:"location_id"`
	Derived      int64  `json:"derived"`
	Materialized int64  `json:"materialized"`
}

// ReconciliationResponse resultado de comparar ledger y saldos materializados.
type ReconciliationResponse struct {
	Consistent    bool                  `json:"consistent"`
	Discrepancies []DiscrepancyResponse `json:"discrepancies"`
}

// PairBalanceResponse saldo de un único par producto/ubicación.
type PairBalanceResponse struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	Balance    int64  `json:"balance"`
}
