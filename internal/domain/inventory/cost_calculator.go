package inventory

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Allocation porción de un lote tomada para cubrir una cantidad.
type Allocation struct {
	Lot      *entity.Lot
	Quantity decimal.Decimal
}

// Cost devuelve el valor de la porción al costo del lote.
func (a Allocation) Cost() decimal.Decimal {
	return a.Quantity.Mul(a.Lot.UnitCost)
}

// SortByReceipt ordena los lotes por ID ascendente (el más antiguo primero).
func SortByReceipt(lots []*entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool { return lots[i].ID < lots[j].ID })
}

// SortByExpiration ordena por vencimiento ascendente; los lotes sin vencimiento van al final
// y los empates se resuelven por ID.
func SortByExpiration(lots []*entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		ei, ej := lots[i].ExpirationDate, lots[j].ExpirationDate
		switch {
		case ei == nil && ej == nil:
			return lots[i].ID < lots[j].ID
		case ei == nil:
			return false
		case ej == nil:
			return true
		case !ei.Equal(*ej):
			return ei.Before(*ej)
		}
		return lots[i].ID < lots[j].ID
	})
}

// Allocate recorre los lotes en el orden recibido y toma de cada uno hasta cubrir qty.
// Ignora lotes sin cantidad. Devuelve las porciones y el faltante (cero si se cubrió todo).
// No modifica los lotes.
func Allocate(lots []*entity.Lot, qty decimal.Decimal) ([]Allocation, decimal.Decimal) {
	remaining := qty
	var out []Allocation
	for _, lot := range lots {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		if !lot.Quantity.GreaterThan(decimal.Zero) {
			continue
		}
		take := decimal.Min(remaining, lot.Quantity)
		out = append(out, Allocation{Lot: lot, Quantity: take})
		remaining = remaining.Sub(take)
	}
	if remaining.LessThan(decimal.Zero) {
		remaining = decimal.Zero
	}
	return out, remaining
}

// CostFIFO valora qty consumiendo virtualmente los lotes por vencimiento ascendente.
// Devuelve el costo acumulado y el faltante si los lotes no alcanzan.
func CostFIFO(lots []*entity.Lot, qty decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	ordered := make([]*entity.Lot, len(lots))
	copy(ordered, lots)
	SortByExpiration(ordered)

	allocs, shortfall := Allocate(ordered, qty)
	cost := decimal.Zero
	for _, a := range allocs {
		cost = cost.Add(a.Cost())
	}
	return cost, shortfall
}

// RealQuantity ajusta la cantidad de receta por la merma de preparación:
// real = qty / (1 - merma/100). ok es false si la merma no está en [0, 100).
func RealQuantity(qty, shrinkagePct decimal.Decimal) (adjusted decimal.Decimal, ok bool) {
	if shrinkagePct.LessThan(decimal.Zero) || shrinkagePct.GreaterThanOrEqual(hundred) {
		return decimal.Zero, false
	}
	factor := decimal.NewFromInt(1).Sub(shrinkagePct.Div(hundred))
	return qty.Div(factor), true
}

// TheoreticalStock suma las cantidades de los lotes.
func TheoreticalStock(lots []*entity.Lot) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lots {
		total = total.Add(l.Quantity)
	}
	return total
}

// LatestLot devuelve el lote creado más recientemente (mayor ID) o nil.
func LatestLot(lots []*entity.Lot) *entity.Lot {
	var latest *entity.Lot
	for _, l := range lots {
		if latest == nil || l.ID > latest.ID {
			latest = l
		}
	}
	return latest
}
