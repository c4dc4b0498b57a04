package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comedor-api/internal/application/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

func TestCreateWasteLog_DescuentaLoteYGuardaRegistro(t *testing.T) {
	f := newFixture(t)
	ing := f.store.AddIngredient(companyA, "Tomate", "kg")
	lot := f.ingredientLot(ing.ID, "T1", "5", "3", nil)

	wl, err := f.waste.CreateWasteLog(f.ctx, inventory.WasteInput{
		IngredientLotID: ptr(lot.ID),
		Quantity:        dec("2"),
		Reason:          entity.WasteReasonExpired,
		Notes:           "cámara fría apagada",
		LogDate:         date("2024-04-02"),
	}, companyA, userID)

	require.NoError(t, err)
	assert.Equal(t, "kg", wl.Unit)
	assert.Equal(t, ing.ID, wl.EntityID)
	assert.Equal(t, "2024-04-02", wl.LogDate.Format("2006-01-02"))
	assert.True(t, f.store.Lot(entity.LotKindIngredient, lot.ID).Quantity.Equal(dec("3")))
	assert.True(t, f.ingredientStock(ing.ID).Equal(dec("3")))

	movs := f.store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeWASTE, movs[0].Type)
	assert.Equal(t, "Merma: EXPIRED", movs[0].Reason)
	assert.Len(t, f.store.WasteLogs(), 1)
}

func TestCreateWasteLog_LoteDeProductoDelMenu(t *testing.T) {
	f := newFixture(t)
	item := f.store.AddMenuItem(companyA, "Sopa", "porción", dec("3"))
	lot := f.menuItemLot(item.ID, "PROD-1", "4", "3", nil)

	wl, err := f.waste.CreateWasteLog(f.ctx, inventory.WasteInput{
		MenuItemLotID: ptr(lot.ID), Quantity: dec("1.5"), Reason: entity.WasteReasonOverproduction,
	}, companyA, userID)

	require.NoError(t, err)
	assert.Equal(t, entity.LotKindMenuItem, wl.Kind)
	assert.Equal(t, item.ID, wl.EntityID)
	assert.Equal(t, lot.ID, wl.LotID)
	assert.Equal(t, "porción", wl.Unit)
	assert.True(t, f.store.Lot(entity.LotKindMenuItem, lot.ID).Quantity.Equal(dec("2.5")))
	assert.True(t, f.menuItemStock(item.ID).Equal(dec("2.5")))

	movs := f.store.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementTypeWASTE, movs[0].Type)
	assert.Equal(t, entity.LotKindMenuItem, movs[0].Kind)
	assert.Len(t, f.store.WasteLogs(), 1)
}

func TestCreateWasteLog_ExcedeLote(t *testing.T) {
	f := newFixture(t)
	item := f.store.AddMenuItem(companyA, "Sopa", "porción", dec("3"))
	lot := f.menuItemLot(item.ID, "PROD-1", "1", "3", nil)

	_, err := f.waste.CreateWasteLog(f.ctx, inventory.WasteInput{
		MenuItemLotID: ptr(lot.ID), Quantity: dec("2"), Reason: entity.WasteReasonOverproduction,
	}, companyA, userID)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, f.store.WasteLogs())
	assert.Empty(t, f.store.Movements())
}

func TestCreateWasteLog_Validaciones(t *testing.T) {
	f := newFixture(t)

	_, err := f.waste.CreateWasteLog(f.ctx, inventory.WasteInput{
		IngredientLotID: ptr(int64(1)), MenuItemLotID: ptr(int64(1)), Quantity: dec("1"), Reason: entity.WasteReasonOther,
	}, companyA, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.waste.CreateWasteLog(f.ctx, inventory.WasteInput{
		IngredientLotID: ptr(int64(1)), Quantity: dec("0.00001"), Reason: entity.WasteReasonOther,
	}, companyA, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.waste.CreateWasteLog(f.ctx, inventory.WasteInput{
		IngredientLotID: ptr(int64(1)), Quantity: dec("1"), Reason: "ROBO",
	}, companyA, userID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.waste.CreateWasteLog(f.ctx, inventory.WasteInput{
		IngredientLotID: ptr(int64(99)), Quantity: dec("1"), Reason: entity.WasteReasonOther,
	}, companyA, userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
