// Package memory implementa los puertos de persistencia en memoria. Se usa en desarrollo
// (STORE_DRIVER=memory) y en tests; aplica las mismas restricciones que el esquema PostgreSQL
// (unicidad, claves foráneas, ledger solo inserción).
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

type levelKey struct {
	productID  string
	locationID string
}

type state struct {
	products  map[string]*entity.Product
	locations map[string]*entity.Location
	movements []*entity.Movement // orden de inserción
	levels    map[levelKey]*entity.StockLevel
}

func newState() *state {
	return &state{
		products:  make(map[string]*entity.Product),
		locations: make(map[string]*entity.Location),
		levels:    make(map[levelKey]*entity.StockLevel),
	}
}

// clone copia los índices; las entidades se reemplazan (nunca se mutan) al escribir.
// movements se recorta a su capacidad para que un append en la copia no toque el original.
func (s *state) clone() *state {
	c := &state{
		products:  make(map[string]*entity.Product, len(s.products)),
		locations: make(map[string]*entity.Location, len(s.locations)),
		movements: s.movements[:len(s.movements):len(s.movements)],
		levels:    make(map[levelKey]*entity.StockLevel, len(s.levels)),
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.levels {
		c.levels[k] = v
	}
	return c
}

// Store contenedor en memoria. Un único mutex serializa transacciones y operaciones sueltas.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// view da acceso al estado: dentro de una transacción usa la copia (mutex ya tomado),
// fuera de ella toma el mutex por operación.
type view struct {
	store *Store
	tx    *state
}

func (v view) with(ctx context.Context, fn func(s *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.state)
}

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepo { return &ProductRepo{v: view{store: s}} }

// Locations repositorio de ubicaciones fuera de transacción.
func (s *Store) Locations() *LocationRepo { return &LocationRepo{v: view{store: s}} }

// Movements repositorio del ledger fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{v: view{store: s}} }

// Balances consultas de saldos fuera de transacción.
func (s *Store) Balances() *BalanceRepo { return &BalanceRepo{v: view{store: s}} }

// StockLevels saldos materializados fuera de transacción.
func (s *Store) StockLevels() *StockLevelRepo { return &StockLevelRepo{v: view{store: s}} }

// Run ejecuta fn con repositorios sobre una copia del estado y la publica solo si fn no
// devuelve error. El mutex se mantiene durante toda la transacción.
func (s *Store) Run(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.state.clone()
	v := view{store: s, tx: staged}
	tx := repository.Tx{
		Products:    &ProductRepo{v: v},
		Locations:   &LocationRepo{v: v},
		Movements:   &MovementRepo{v: v},
		Balances:    &BalanceRepo{v: v},
		StockLevels: &StockLevelRepo{v: v},
	}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = staged
	return nil
}

// ReadOnly ejecuta fn sobre el estado actual con el mutex tomado: ninguna escritura puede
// intercalarse entre sus lecturas. fn no debe modificar el estado.
func (s *Store) ReadOnly(ctx context.Context, fn func(tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	v := view{store: s, tx: s.state}
	return fn(repository.Tx{
		Products:    &ProductRepo{v: v},
		Locations:   &LocationRepo{v: v},
		Movements:   &MovementRepo{v: v},
		Balances:    &BalanceRepo{v: v},
		StockLevels: &StockLevelRepo{v: v},
	})
}

var timeNow = func() time.Time { return time.Now().UTC() }
