package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockLevelRepository define el puerto para el saldo materializado por producto+ubicación.
// Usado dentro de transacciones para serializar la admisión de movimientos.
type StockLevelRepository interface {
	// LockForUpdate crea (si falta) y bloquea las filas de los pares indicados hasta el fin
	// de la transacción. Las ubicaciones se bloquean en orden para evitar interbloqueos.
	LockForUpdate(ctx context.Context, productID string, locationIDs ...string) error
	// AddDelta suma delta (positivo o negativo) al saldo materializado del par.
	AddDelta(ctx context.Context, productID, locationID string, delta int64) error
	List(ctx context.Context) ([]entity.StockLevel, error)
}
