package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

func TestCalculateMenuItemCost_FIFOPorVencimiento(t *testing.T) {
	f := newFixture(t)
	item := f.store.AddMenuItem(companyA, "Arroz con pollo", "porción", dec("12"))
	ing := f.store.AddIngredient(companyA, "Pollo", "kg")
	f.ingredientLot(ing.ID, "P2", "5", "12", date("2024-02-01"))
	f.ingredientLot(ing.ID, "P1", "2", "10", date("2024-01-01"))
	f.store.AddRecipeLine(entity.RecipeIngredient{MenuItemID: item.ID, IngredientID: ing.ID, Quantity: dec("4"), Unit: "kg"})

	cost, err := f.costing.CalculateMenuItemCost(f.ctx, item.ID, companyA)

	require.NoError(t, err)
	assert.True(t, cost.Equal(dec("44")), "obtenido %s", cost)
}

func TestCalculateMenuItemCost_AjustaPorMerma(t *testing.T) {
	f := newFixture(t)
	item := f.store.AddMenuItem(companyA, "Puré", "porción", dec("5"))
	ing := f.store.AddIngredient(companyA, "Papa", "kg")
	f.ingredientLot(ing.ID, "L1", "20", "1.5", nil)
	f.store.AddRecipeLine(entity.RecipeIngredient{
		MenuItemID: item.ID, IngredientID: ing.ID, Quantity: dec("9"), ShrinkagePercentage: dec("10"), Unit: "kg",
	})

	cost, err := f.costing.CalculateMenuItemCost(f.ctx, item.ID, companyA)

	require.NoError(t, err)
	assert.True(t, cost.Equal(dec("15")), "9 / 0.9 = 10 kg a 1.5, obtenido %s", cost)
}

func TestCalculateMenuItemCost_SinRecetaEsCero(t *testing.T) {
	f := newFixture(t)
	item := f.store.AddMenuItem(companyA, "Agua", "botella", dec("1"))

	cost, err := f.costing.CalculateMenuItemCost(f.ctx, item.ID, companyA)

	require.NoError(t, err)
	assert.True(t, cost.IsZero())
}

func TestCalculateMenuItemCost_InsumoInsuficiente(t *testing.T) {
	f := newFixture(t)
	item := f.store.AddMenuItem(companyA, "Ensalada", "porción", dec("6"))
	ing := f.store.AddIngredient(companyA, "Lechuga", "unidad")
	f.ingredientLot(ing.ID, "L1", "1", "2", nil)
	f.store.AddRecipeLine(entity.RecipeIngredient{MenuItemID: item.ID, IngredientID: ing.ID, Quantity: dec("2"), Unit: "unidad"})

	_, err := f.costing.CalculateMenuItemCost(f.ctx, item.ID, companyA)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Lechuga")
}

func TestCalculateMenuItemCost_NoModificaElLibro(t *testing.T) {
	f := newFixture(t)
	item := f.store.AddMenuItem(companyA, "Arroz con pollo", "porción", dec("12"))
	ing := f.store.AddIngredient(companyA, "Pollo", "kg")
	lot := f.ingredientLot(ing.ID, "P1", "5", "10", nil)
	f.store.AddRecipeLine(entity.RecipeIngredient{MenuItemID: item.ID, IngredientID: ing.ID, Quantity: dec("3"), Unit: "kg"})

	first, err := f.costing.CalculateMenuItemCost(f.ctx, item.ID, companyA)
	require.NoError(t, err)
	second, err := f.costing.CalculateMenuItemCost(f.ctx, item.ID, companyA)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.True(t, f.store.Lot(entity.LotKindIngredient, lot.ID).Quantity.Equal(dec("5")))
	assert.Empty(t, f.store.Movements())
}

func TestCalculateMenuItemCost_ProductoDeOtraEmpresa(t *testing.T) {
	f := newFixture(t)
	item := f.store.AddMenuItem(companyA, "Sopa", "porción", dec("3"))

	_, err := f.costing.CalculateMenuItemCost(f.ctx, item.ID, companyB)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
