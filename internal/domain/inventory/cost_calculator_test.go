package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/inventory"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

func lot(id int64, qty, cost string, exp *time.Time) *entity.Lot {
	return &entity.Lot{ID: id, Kind: entity.LotKindIngredient, Quantity: dec(qty), UnitCost: dec(cost), ExpirationDate: exp}
}

func TestCostFIFO_ConsumePorVencimiento(t *testing.T) {
	// El lote que vence después se pasa primero para comprobar que se ordena por vencimiento.
	lots := []*entity.Lot{
		lot(2, "5", "12", date("2024-02-01")),
		lot(1, "2", "10", date("2024-01-01")),
	}
	cost, shortfall := inventory.CostFIFO(lots, dec("4"))

	assert.True(t, shortfall.IsZero())
	assert.True(t, cost.Equal(dec("44")), "2x10 + 2x12 = 44, obtenido %s", cost)
	// no muta los lotes
	assert.True(t, lots[0].Quantity.Equal(dec("5")))
	assert.True(t, lots[1].Quantity.Equal(dec("2")))
	assert.Equal(t, int64(2), lots[0].ID, "el slice de entrada conserva su orden")
}

func TestCostFIFO_Faltante(t *testing.T) {
	lots := []*entity.Lot{lot(1, "3", "10", nil)}
	cost, shortfall := inventory.CostFIFO(lots, dec("5"))

	assert.True(t, shortfall.Equal(dec("2")))
	assert.True(t, cost.Equal(dec("30")))
}

func TestSortByExpiration_SinVencimientoAlFinal(t *testing.T) {
	lots := []*entity.Lot{
		lot(1, "1", "1", nil),
		lot(3, "1", "1", date("2024-03-01")),
		lot(2, "1", "1", date("2024-03-01")),
		lot(4, "1", "1", date("2024-01-15")),
	}
	inventory.SortByExpiration(lots)

	ids := []int64{lots[0].ID, lots[1].ID, lots[2].ID, lots[3].ID}
	assert.Equal(t, []int64{4, 2, 3, 1}, ids)
}

func TestAllocate_PorRecepcionConConsumoParcial(t *testing.T) {
	lots := []*entity.Lot{lot(2, "5", "1", nil), lot(1, "5", "1", nil), lot(3, "0", "1", nil)}
	inventory.SortByReceipt(lots)

	allocs, shortfall := inventory.Allocate(lots, dec("3"))
	require.Len(t, allocs, 1)
	assert.Equal(t, int64(1), allocs[0].Lot.ID)
	assert.True(t, allocs[0].Quantity.Equal(dec("3")))
	assert.True(t, shortfall.IsZero())

	allocs, shortfall = inventory.Allocate(lots, dec("7"))
	require.Len(t, allocs, 2)
	assert.True(t, allocs[0].Quantity.Equal(dec("5")))
	assert.True(t, allocs[1].Quantity.Equal(dec("2")))
	assert.True(t, shortfall.IsZero())
}

func TestRealQuantity(t *testing.T) {
	got, ok := inventory.RealQuantity(dec("4"), decimal.Zero)
	require.True(t, ok)
	assert.True(t, got.Equal(dec("4")))

	got, ok = inventory.RealQuantity(dec("9"), dec("10"))
	require.True(t, ok)
	assert.True(t, got.Equal(dec("10")), "9 / 0.9 = 10, obtenido %s", got)

	_, ok = inventory.RealQuantity(dec("1"), dec("100"))
	assert.False(t, ok, "una merma del 100% no es válida")
}

func TestLatestLotYTheoreticalStock(t *testing.T) {
	lots := []*entity.Lot{lot(1, "5", "3", nil), lot(7, "2.5", "4", nil), lot(4, "0", "9", nil)}

	assert.Equal(t, int64(7), inventory.LatestLot(lots).ID)
	assert.True(t, inventory.TheoreticalStock(lots).Equal(dec("7.5")))
	assert.Nil(t, inventory.LatestLot(nil))
}
