package inventory

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ProposeMovementUseCase es el control de admisión del ledger: valida un movimiento contra
// el saldo actual y solo entonces lo agrega, todo dentro de una transacción.
type ProposeMovementUseCase struct {
	txRunner repository.TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewProposeMovementUseCase construye el caso de uso.
func NewProposeMovementUseCase(txRunner repository.TxRunner, log *logger.Logger) *ProposeMovementUseCase {
	return &ProposeMovementUseCase{
		txRunner: txRunner,
		log:      log.Component("admission"),
		now:      time.Now,
	}
}

// WithClock reemplaza el reloj usado para el timestamp de los movimientos.
func (uc *ProposeMovementUseCase) WithClock(now func() time.Time) *ProposeMovementUseCase {
	uc.now = now
	return uc
}

// ProposeMovementInput entrada para proponer un movimiento.
// Entrada: solo ToLocationID. Salida: solo FromLocationID. Traslado: ambos.
// Actor es obligatorio: no existe un actor implícito.
type ProposeMovementInput struct {
	ProductID      string
	FromLocationID string
	ToLocationID   string
	Qty            int64
	Note           string
	Actor          string
}

// ProposeMovement valida y registra un movimiento. Orden de validación:
//  1. estructural (ValidationError)
//  2. referencial: producto y ubicaciones existen (NotFoundError)
//  3. stock: solo con origen, saldo - qty >= 0 (InsufficientStockError)
//  4. capacidad: solo con destino, saldo + qty no debe superar math.MaxInt64 (ValidationError)
//
// Los pasos 2 y 3 y el append corren en la misma transacción; las filas de saldo de los
// pares afectados quedan bloqueadas hasta el Commit, por lo que dos propuestas sobre el
// mismo producto y ubicación se serializan.
func (uc *ProposeMovementUseCase) ProposeMovement(ctx context.Context, in ProposeMovementInput) (string, error) {
	mov, err := uc.Admit(ctx, in)
	if err != nil {
		return "", err
	}
	return mov.ID, nil
}

// Admit es ProposeMovement devolviendo el movimiento tal como quedó registrado (ID y
// timestamp asignados), sin una lectura posterior al Commit.
func (uc *ProposeMovementUseCase) Admit(ctx context.Context, in ProposeMovementInput) (*entity.Movement, error) {
	mov := &entity.Movement{
		ProductID:      strings.TrimSpace(in.ProductID),
		FromLocationID: strings.TrimSpace(in.FromLocationID),
		ToLocationID:   strings.TrimSpace(in.ToLocationID),
		Qty:            in.Qty,
		Note:           strings.TrimSpace(in.Note),
		Actor:          strings.TrimSpace(in.Actor),
	}
	if err := ledger.Validate(mov); err != nil {
		uc.log.Debug().Err(err).Str("product_id", mov.ProductID).Msg("movimiento rechazado")
		return nil, err
	}

	var id string
	err := uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		product, fromLoc, err := uc.checkReferences(ctx, tx, mov)
		if err != nil {
			return err
		}

		if err := tx.StockLevels.LockForUpdate(ctx, mov.ProductID, touchedLocations(mov)...); err != nil {
			return err
		}

		if mov.FromLocationID != "" {
			available, err := tx.Balances.BalanceAt(ctx, mov.ProductID, mov.FromLocationID)
			if err != nil {
				return err
			}
			if available-mov.Qty < 0 {
				return &domain.InsufficientStockError{
					ProductID:    product.ID,
					ProductName:  product.Name,
					LocationID:   fromLoc.ID,
					LocationName: fromLoc.Name,
					Available:    available,
					Requested:    mov.Qty,
				}
			}
		}

		if mov.ToLocationID != "" {
			current, err := tx.Balances.BalanceAt(ctx, mov.ProductID, mov.ToLocationID)
			if err != nil {
				return err
			}
			if current > math.MaxInt64-mov.Qty {
				return domain.NewValidationError(domain.KindInvalidField, "qty",
					"la cantidad excede el saldo máximo representable en la ubicación destino")
			}
		}

		mov.ID = uuid.New().String()
		// TIMESTAMPTZ guarda microsegundos; el valor devuelto debe coincidir con el persistido.
		mov.Timestamp = uc.now().UTC().Truncate(time.Microsecond)
		id, err = tx.Movements.Append(ctx, mov)
		if err != nil {
			return err
		}

		if mov.FromLocationID != "" {
			if err := tx.StockLevels.AddDelta(ctx, mov.ProductID, mov.FromLocationID, -mov.Qty); err != nil {
				return err
			}
		}
		if mov.ToLocationID != "" {
			if err := tx.StockLevels.AddDelta(ctx, mov.ProductID, mov.ToLocationID, mov.Qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).
			Str("product_id", mov.ProductID).
			Str("from", mov.FromLocationID).
			Str("to", mov.ToLocationID).
			Int64("qty", mov.Qty).
			Msg("movimiento rechazado")
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", id).
		Str("product_id", mov.ProductID).
		Str("from", mov.FromLocationID).
		Str("to", mov.ToLocationID).
		Int64("qty", mov.Qty).
		Str("actor", mov.Actor).
		Msg("movimiento registrado")
	out := *mov
	return &out, nil
}

// checkReferences verifica producto, origen y destino (en ese orden).
func (uc *ProposeMovementUseCase) checkReferences(ctx context.Context, tx repository.Tx, mov *entity.Movement) (*entity.Product, *entity.Location, error) {
	product, err := tx.Products.GetByID(ctx, mov.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, &domain.NotFoundError{Entity: "product", ID: mov.ProductID}
	}

	var fromLoc *entity.Location
	if mov.FromLocationID != "" {
		fromLoc, err = tx.Locations.GetByID(ctx, mov.FromLocationID)
		if err != nil {
			return nil, nil, err
		}
		if fromLoc == nil {
			return nil, nil, &domain.NotFoundError{Entity: "location", ID: mov.FromLocationID}
		}
	}
	if mov.ToLocationID != "" {
		toLoc, err := tx.Locations.GetByID(ctx, mov.ToLocationID)
		if err != nil {
			return nil, nil, err
		}
		if toLoc == nil {
			return nil, nil, &domain.NotFoundError{Entity: "location", ID: mov.ToLocationID}
		}
	}
	return product, fromLoc, nil
}

func touchedLocations(m *entity.Movement) []string {
	locs := make([]string, 0, 2)
	if m.FromLocationID != "" {
		locs = append(locs, m.FromLocationID)
	}
	if m.ToLocationID != "" {
		locs = append(locs, m.ToLocationID)
	}
	return locs
}
