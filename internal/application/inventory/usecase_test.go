package inventory_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comedor-api/internal/application/dto"
	"github.com/jhoicas/Comedor-api/internal/application/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

func TestRegisterMovement_INCreaLote(t *testing.T) {
	f := newFixture(t)
	ing := f.store.AddIngredient(companyA, "Arroz", "kg")

	mov, err := f.ledger.RegisterMovement(f.ctx, inventory.MovementRequest{
		IngredientID:   ing.ID,
		Type:           entity.MovementTypeIN,
		Quantity:       dec("10"),
		LotNumber:      "L1",
		UnitCost:       ptr(dec("5")),
		ExpirationDate: date("2024-05-01"),
	}, companyA, userID)

	require.NoError(t, err)
	assert.True(t, mov.StockAfter.Equal(dec("10")))
	assert.Equal(t, "kg", mov.Unit, "la unidad se hereda del insumo")
	assert.Equal(t, userID, mov.PerformedBy)
	lot := f.store.Lot(entity.LotKindIngredient, mov.LotID)
	require.NotNil(t, lot)
	assert.Equal(t, "L1", lot.LotNumber)
	assert.True(t, f.ingredientStock(ing.ID).Equal(dec("10")))
	assert.Len(t, f.observer.registered, 1)
	assert.Equal(t, []string{mov.ID}, f.publisher.published)
}

func TestRegisterMovement_INSobreLoteExistente(t *testing.T) {
	f := newFixture(t)
	ing := f.store.AddIngredient(companyA, "Arroz", "kg")
	existing := f.ingredientLot(ing.ID, "L1", "10", "5", nil)

	mov, err := f.ledger.RegisterMovement(f.ctx, inventory.MovementRequest{
		IngredientID: ing.ID,
		Type:         entity.MovementTypeIN,
		Quantity:     dec("3"),
		LotNumber:    "L1",
		UnitCost:     ptr(dec("6")),
	}, companyA, userID)

	require.NoError(t, err)
	assert.Equal(t, existing.ID, mov.LotID)
	assert.True(t, mov.StockAfter.Equal(dec("13")))
	lot := f.store.Lot(entity.LotKindIngredient, existing.ID)
	assert.True(t, lot.Quantity.Equal(dec("13")))
	assert.True(t, lot.UnitCost.Equal(dec("6")), "el costo queda con el de la última entrada")
	assert.True(t, f.ingredientStock(ing.ID).Equal(dec("13")))
}

func TestRegisterMovement_OUTExcedeCantidad(t *testing.T) {
	f := newFixture(t)
	ing := f.store.AddIngredient(companyA, "Arroz", "kg")
	lot := f.ingredientLot(ing.ID, "L1", "5", "2", nil)

	_, err := f.ledger.RegisterMovement(f.ctx, inventory.MovementRequest{
		IngredientID:    ing.ID,
		Type:            entity.MovementTypeOUT,
		Quantity:        dec("6"),
		IngredientLotID: ptr(lot.ID),
	}, companyA, userID)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.True(t, insufficient.Shortfall().Equal(dec("1")))
	assert.True(t, f.store.Lot(entity.LotKindIngredient, lot.ID).Quantity.Equal(dec("5")))
	assert.Empty(t, f.store.Movements())
	assert.Equal(t, []string{entity.MovementTypeOUT}, f.observer.rejected)
	assert.Empty(t, f.publisher.published)
}

func TestRegisterMovement_OUTDescuentaYSincronizaCache(t *testing.T) {
	f := newFixture(t)
	item := f.store.AddMenuItem(companyA, "Almuerzo", "porción", dec("8"))
	lot := f.menuItemLot(item.ID, "PROD-20240101", "10", "8", nil)

	mov, err := f.ledger.RegisterMovement(f.ctx, inventory.MovementRequest{
		MenuItemID:    item.ID,
		Type:          entity.MovementTypeADJUSTMENT,
		Quantity:      dec("4"),
		MenuItemLotID: ptr(lot.ID),
		Reason:        "ajuste",
	}, companyA, userID)

	require.NoError(t, err)
	assert.True(t, mov.StockAfter.Equal(dec("6")))
	assert.True(t, f.menuItemStock(item.ID).Equal(dec("6")))
}

func TestRegisterMovement_Validaciones(t *testing.T) {
	f := newFixture(t)
	ing := f.store.AddIngredient(companyA, "Arroz", "kg")
	item := f.store.AddMenuItem(companyA, "Sopa", "porción", dec("3"))

	cases := map[string]inventory.MovementRequest{
		"ambas entidades": {IngredientID: ing.ID, MenuItemID: item.ID, Type: entity.MovementTypeIN,
			Quantity: dec("1"), LotNumber: "L", UnitCost: ptr(dec("1"))},
		"ninguna entidad":       {Type: entity.MovementTypeIN, Quantity: dec("1"), LotNumber: "L", UnitCost: ptr(dec("1"))},
		"cantidad cero":         {IngredientID: ing.ID, Type: entity.MovementTypeIN, Quantity: dec("0"), LotNumber: "L", UnitCost: ptr(dec("1"))},
		"IN sin lote":           {IngredientID: ing.ID, Type: entity.MovementTypeIN, Quantity: dec("1"), UnitCost: ptr(dec("1"))},
		"IN sin costo":          {IngredientID: ing.ID, Type: entity.MovementTypeIN, Quantity: dec("1"), LotNumber: "L"},
		"OUT sin lote":          {IngredientID: ing.ID, Type: entity.MovementTypeOUT, Quantity: dec("1")},
		"OUT lote de otro tipo": {IngredientID: ing.ID, Type: entity.MovementTypeOUT, Quantity: dec("1"), MenuItemLotID: ptr(int64(1))},
		"tipo desconocido":      {IngredientID: ing.ID, Type: "TRANSFER", Quantity: dec("1")},
		"cantidad con cinco decimales": {IngredientID: ing.ID, Type: entity.MovementTypeIN, Quantity: dec("0.00001"),
			LotNumber: "L", UnitCost: ptr(dec("1"))},
		"costo con cinco decimales": {IngredientID: ing.ID, Type: entity.MovementTypeIN, Quantity: dec("1"),
			LotNumber: "L", UnitCost: ptr(dec("1.23456"))},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.ledger.RegisterMovement(f.ctx, req, companyA, userID)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, f.store.Movements())
}

func TestRegisterMovementFromRequest_MermaSoloPorWaste(t *testing.T) {
	f := newFixture(t)
	ing := f.store.AddIngredient(companyA, "Arroz", "kg")
	lot := f.ingredientLot(ing.ID, "L1", "5", "2", nil)

	_, err := f.ledger.RegisterMovementFromRequest(f.ctx, companyA, userID, dto.RegisterMovementRequest{
		IngredientID: ing.ID, Type: entity.MovementTypeWASTE, Quantity: dec("1"), IngredientLotID: ptr(lot.ID),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "/api/stock/waste")
	assert.Empty(t, f.store.Movements())
	assert.True(t, f.ingredientStock(ing.ID).Equal(dec("5")))
}

func TestRegisterMovement_LoteDeOtraEntidad(t *testing.T) {
	f := newFixture(t)
	arroz := f.store.AddIngredient(companyA, "Arroz", "kg")
	frijol := f.store.AddIngredient(companyA, "Frijol", "kg")
	lot := f.ingredientLot(frijol.ID, "F1", "5", "2", nil)

	_, err := f.ledger.RegisterMovement(f.ctx, inventory.MovementRequest{
		IngredientID:    arroz.ID,
		Type:            entity.MovementTypeOUT,
		Quantity:        dec("1"),
		IngredientLotID: ptr(lot.ID),
	}, companyA, userID)

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.True(t, f.store.Lot(entity.LotKindIngredient, lot.ID).Quantity.Equal(dec("5")))
}

func TestRegisterMovement_OtraEmpresaNoVeLaEntidad(t *testing.T) {
	f := newFixture(t)
	ing := f.store.AddIngredient(companyA, "Arroz", "kg")
	lot := f.ingredientLot(ing.ID, "L1", "5", "2", nil)

	_, err := f.ledger.RegisterMovement(f.ctx, inventory.MovementRequest{
		IngredientID:    ing.ID,
		Type:            entity.MovementTypeOUT,
		Quantity:        dec("1"),
		IngredientLotID: ptr(lot.ID),
	}, companyB, userID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, f.store.Lot(entity.LotKindIngredient, lot.ID).Quantity.Equal(dec("5")))
}

func TestRegisterMovement_SalidasConcurrentesSoloUnaGana(t *testing.T) {
	f := newFixture(t)
	ing := f.store.AddIngredient(companyA, "Arroz", "kg")
	lot := f.ingredientLot(ing.ID, "L1", "10", "2", nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.ledger.RegisterMovement(f.ctx, inventory.MovementRequest{
				IngredientID:    ing.ID,
				Type:            entity.MovementTypeOUT,
				Quantity:        dec("6"),
				IngredientLotID: ptr(lot.ID),
			}, companyA, userID)
		}(i)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
			failures++
		}
	}
	assert.Equal(t, 1, failures)
	assert.True(t, f.store.Lot(entity.LotKindIngredient, lot.ID).Quantity.Equal(dec("4")))
	assert.Len(t, f.store.Movements(), 1)
}

func TestRegisterMovement_StockAfterSigueAlLote(t *testing.T) {
	f := newFixture(t)
	ing := f.store.AddIngredient(companyA, "Aceite", "l")
	in, err := f.ledger.RegisterMovement(f.ctx, inventory.MovementRequest{
		IngredientID: ing.ID, Type: entity.MovementTypeIN, Quantity: dec("7.5"),
		LotNumber: "A1", UnitCost: ptr(dec("4")),
	}, companyA, userID)
	require.NoError(t, err)

	want := []string{"5", "2.25", "0"}
	for i, q := range []string{"2.5", "2.75", "2.25"} {
		mov, err := f.ledger.RegisterMovement(f.ctx, inventory.MovementRequest{
			IngredientID: ing.ID, Type: entity.MovementTypeOUT, Quantity: dec(q), IngredientLotID: ptr(in.LotID),
		}, companyA, userID)
		require.NoError(t, err)
		assert.True(t, mov.StockAfter.Equal(dec(want[i])), "paso %d: %s", i, mov.StockAfter)
	}
	assert.True(t, f.store.Lot(entity.LotKindIngredient, in.LotID).Quantity.IsZero())
	assert.True(t, f.ingredientStock(ing.ID).IsZero())
}

func TestRegisterMovement_FallaAlPublicarNoAfectaElLibro(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("redis caído")
	ing := f.store.AddIngredient(companyA, "Arroz", "kg")

	_, err := f.ledger.RegisterMovement(f.ctx, inventory.MovementRequest{
		IngredientID: ing.ID, Type: entity.MovementTypeIN, Quantity: dec("1"),
		LotNumber: "L1", UnitCost: ptr(dec("1")),
	}, companyA, userID)

	require.NoError(t, err)
	assert.Len(t, f.store.Movements(), 1)
	assert.Len(t, f.publisher.published, 1)
}

func TestIsBusinessError(t *testing.T) {
	assert.True(t, inventory.IsBusinessError(domain.NotFound("x")))
	assert.True(t, inventory.IsBusinessError(&domain.InsufficientStockError{}))
	assert.False(t, inventory.IsBusinessError(errors.New("conexión cerrada")))
}
