package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comedor-api/internal/application/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

func TestReceivePurchase_TodosLosItems(t *testing.T) {
	f := newFixture(t)
	arroz := f.store.AddIngredient(companyA, "Arroz", "kg")
	jugo := f.store.AddMenuItem(companyA, "Jugo embotellado", "unidad", dec("2"))

	movs, err := f.purchases.ReceivePurchase(f.ctx, inventory.PurchaseReceiptInput{
		PurchaseOrderID: "PO-7",
		Items: []inventory.PurchaseReceiptItem{
			{IngredientID: arroz.ID, LotNumber: "R-1", Quantity: dec("25"), UnitCost: dec("1.2"), ExpirationDate: date("2025-01-01")},
			{MenuItemID: jugo.ID, LotNumber: "J-1", Quantity: dec("12"), UnitCost: dec("0.8")},
		},
	}, companyA, userID)

	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		assert.Equal(t, "Compra PO-7", m.Reason)
	}
	assert.True(t, f.ingredientStock(arroz.ID).Equal(dec("25")))
	assert.True(t, f.menuItemStock(jugo.ID).Equal(dec("12")))
}

func TestReceivePurchase_UnItemInvalidoRevierteTodo(t *testing.T) {
	f := newFixture(t)
	arroz := f.store.AddIngredient(companyA, "Arroz", "kg")

	_, err := f.purchases.ReceivePurchase(f.ctx, inventory.PurchaseReceiptInput{
		PurchaseOrderID: "PO-8",
		Items: []inventory.PurchaseReceiptItem{
			{IngredientID: arroz.ID, LotNumber: "R-1", Quantity: dec("25"), UnitCost: dec("1.2")},
			{IngredientID: "desconocido", LotNumber: "X", Quantity: dec("1"), UnitCost: dec("1")},
		},
	}, companyA, userID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, f.ingredientStock(arroz.ID).IsZero())
	assert.Empty(t, f.store.Movements())
}

func TestConsumeForTicket_SalidasConTicket(t *testing.T) {
	f := newFixture(t)
	item := f.store.AddMenuItem(companyA, "Almuerzo", "porción", dec("10"))
	f.menuItemLot(item.ID, "PROD-1", "1", "10", date("2024-01-01"))
	f.menuItemLot(item.ID, "PROD-2", "5", "10", date("2024-01-02"))
	ticketID := "5b7c1c0e-7f0a-4a7e-8d55-0b9a3c1f9e21"

	movs, err := f.tickets.ConsumeForTicket(f.ctx, inventory.TicketConsumptionInput{
		TicketID: ticketID,
		Items:    []inventory.TicketConsumptionItem{{MenuItemID: item.ID, Quantity: dec("2")}},
	}, companyA, userID)

	require.NoError(t, err)
	require.Len(t, movs, 2)
	for _, m := range movs {
		require.NotNil(t, m.RelatedTicketID)
		assert.Equal(t, ticketID, *m.RelatedTicketID)
		assert.Equal(t, entity.MovementTypeOUT, m.Type)
	}
	assert.True(t, f.menuItemStock(item.ID).Equal(dec("4")))
}

func TestConsumeForTicket_SinStockNoDescuentaNada(t *testing.T) {
	f := newFixture(t)
	sopa := f.store.AddMenuItem(companyA, "Sopa", "porción", dec("4"))
	jugo := f.store.AddMenuItem(companyA, "Jugo", "vaso", dec("2"))
	f.menuItemLot(sopa.ID, "PROD-1", "3", "4", nil)

	_, err := f.tickets.ConsumeForTicket(f.ctx, inventory.TicketConsumptionInput{
		TicketID: "t-1",
		Items: []inventory.TicketConsumptionItem{
			{MenuItemID: sopa.ID, Quantity: dec("1")},
			{MenuItemID: jugo.ID, Quantity: dec("1")},
		},
	}, companyA, userID)

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, f.menuItemStock(sopa.ID).Equal(dec("3")))
	assert.Empty(t, f.store.Movements())
}
