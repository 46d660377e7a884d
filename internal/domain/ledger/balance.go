package ledger

import (
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

type pairKey struct {
	productID  string
	locationID string
}

// BalanceAt calcula entradas - salidas de un producto en una ubicación. Sin historial = 0.
func BalanceAt(movements []*entity.Movement, productID, locationID string) int64 {
	var balance int64
	for _, m := range movements {
		if m.ProductID != productID {
			continue
		}
		if m.ToLocationID == locationID {
			balance += m.Qty
		}
		if m.FromLocationID == locationID {
			balance -= m.Qty
		}
	}
	return balance
}

// ComputeBalances agrupa entradas (por destino) y salidas (por origen) y las combina sobre
// todos los pares que aparecen en algún movimiento; el lado ausente vale 0.
// Balance se acumula aparte, de modo que coincide con BalanceAt aunque Incoming u Outgoing
// se saturen en math.MaxInt64. Los pares sin historial no se materializan. productNames y
// locationNames se usan para rellenar los nombres y ordenar el resultado.
func ComputeBalances(movements []*entity.Movement, productNames, locationNames map[string]string) []entity.Balance {
	incoming := make(map[pairKey]int64)
	outgoing := make(map[pairKey]int64)
	net := make(map[pairKey]int64)
	pairs := make([]pairKey, 0)
	seen := make(map[pairKey]struct{})

	touch := func(k pairKey) {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			pairs = append(pairs, k)
		}
	}

	for _, m := range movements {
		if m.ToLocationID != "" {
			k := pairKey{m.ProductID, m.ToLocationID}
			incoming[k] = addSat(incoming[k], m.Qty)
			net[k] += m.Qty
			touch(k)
		}
		if m.FromLocationID != "" {
			k := pairKey{m.ProductID, m.FromLocationID}
			outgoing[k] = addSat(outgoing[k], m.Qty)
			net[k] -= m.Qty
			touch(k)
		}
	}

	out := make([]entity.Balance, 0, len(pairs))
	for _, k := range pairs {
		out = append(out, entity.Balance{
			ProductID:    k.productID,
			ProductName:  productNames[k.productID],
			LocationID:   k.locationID,
			LocationName: locationNames[k.locationID],
			Incoming:     incoming[k],
			Outgoing:     outgoing[k],
			Balance:      net[k],
		})
	}
	SortBalances(out)
	return out
}

// SortBalances ordena por nombre de producto y luego nombre de ubicación (colación Unicode,
// no orden de bytes). Los IDs desempatan para que el orden sea siempre determinista.
func SortBalances(balances []entity.Balance) {
	c := collate.New(language.Und)
	sort.SliceStable(balances, func(i, j int) bool {
		a, b := balances[i], balances[j]
		if r := c.CompareString(a.ProductName, b.ProductName); r != 0 {
			return r < 0
		}
		if r := c.CompareString(a.LocationName, b.LocationName); r != 0 {
			return r < 0
		}
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		return a.LocationID < b.LocationID
	})
}

// Summarize totaliza entradas y salidas del ledger completo. Los totales se saturan en
// math.MaxInt64.
func Summarize(movements []*entity.Movement) (inflow, outflow int64) {
	for _, m := range movements {
		if m.ToLocationID != "" {
			inflow = addSat(inflow, m.Qty)
		}
		if m.FromLocationID != "" {
			outflow = addSat(outflow, m.Qty)
		}
	}
	return inflow, outflow
}

// addSat suma qty (>= 0) sin desbordar: el resultado se satura en math.MaxInt64.
func addSat(total, qty int64) int64 {
	if total > math.MaxInt64-qty {
		return math.MaxInt64
	}
	return total + qty
}
