package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comedor-api/internal/application/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

func TestFindHistoryForIngredient_MasRecientesPrimero(t *testing.T) {
	f := newFixture(t)
	ing := f.store.AddIngredient(companyA, "Azúcar", "kg")
	other := f.store.AddIngredient(companyA, "Sal", "kg")

	var ids []string
	for _, lotNumber := range []string{"A1", "A2", "A3"} {
		mov, err := f.ledger.RegisterMovement(f.ctx, inventory.MovementRequest{
			IngredientID: ing.ID, Type: entity.MovementTypeIN, Quantity: dec("1"),
			LotNumber: lotNumber, UnitCost: ptr(dec("1")),
		}, companyA, userID)
		require.NoError(t, err)
		ids = append(ids, mov.ID)
	}
	_, err := f.ledger.RegisterMovement(f.ctx, inventory.MovementRequest{
		IngredientID: other.ID, Type: entity.MovementTypeIN, Quantity: dec("1"),
		LotNumber: "S1", UnitCost: ptr(dec("1")),
	}, companyA, userID)
	require.NoError(t, err)

	list, err := f.history.FindHistoryForIngredient(f.ctx, companyA, ing.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, ids[2], list[0].ID)
	assert.Equal(t, ids[0], list[2].ID)

	page, err := f.history.FindHistoryForIngredient(f.ctx, companyA, ing.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[1], page[0].ID)
}

func TestFindHistoryForMenuItem_VacioYNoEncontrado(t *testing.T) {
	f := newFixture(t)
	item := f.store.AddMenuItem(companyA, "Té", "taza", dec("1"))

	list, err := f.history.FindHistoryForMenuItem(f.ctx, companyA, item.ID, 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = f.history.FindHistoryForMenuItem(f.ctx, companyB, item.ID, 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
