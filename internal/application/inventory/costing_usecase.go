package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain/repository"
)

// CostingUseCase valora recetas contra los lotes disponibles sin modificar el libro.
type CostingUseCase struct {
	menuItems   repository.MenuItemRepository
	ingredients repository.IngredientRepository
	lots        repository.LotRepository
}

// NewCostingUseCase construye el caso de uso con repositorios de solo lectura.
func NewCostingUseCase(
	menuItems repository.MenuItemRepository,
	ingredients repository.IngredientRepository,
	lots repository.LotRepository,
) *CostingUseCase {
	return &CostingUseCase{menuItems: menuItems, ingredients: ingredients, lots: lots}
}

// CalculateMenuItemCost suma, por cada insumo de la receta, el costo de consumir la cantidad real
// (ajustada por merma) desde los lotes que vencen primero. Un producto sin receta cuesta 0.
// Si algún insumo no alcanza devuelve InsufficientStockError: no informa un costo que no puede respaldar.
func (uc *CostingUseCase) CalculateMenuItemCost(ctx context.Context, menuItemID, companyID string) (decimal.Decimal, error) {
	item, err := uc.menuItems.GetByID(ctx, menuItemID, companyID)
	if err != nil {
		return decimal.Zero, err
	}
	if item == nil {
		return decimal.Zero, domain.NotFound(fmt.Sprintf("producto del menú %s", menuItemID))
	}
	recipe, err := uc.menuItems.ListRecipe(ctx, menuItemID, companyID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, line := range recipe {
		required, ok := inventory.RealQuantity(line.Quantity, line.ShrinkagePercentage)
		if !ok {
			return decimal.Zero, domain.Invalid(fmt.Sprintf("merma inválida para el insumo %s", line.IngredientID))
		}
		lots, err := uc.lots.ListAvailableByExpiration(ctx, entity.LotKindIngredient, line.IngredientID, companyID)
		if err != nil {
			return decimal.Zero, err
		}
		cost, shortfall := inventory.CostFIFO(lots, required)
		if shortfall.GreaterThan(decimal.Zero) {
			return decimal.Zero, &domain.InsufficientStockError{
				Item:      uc.ingredientName(ctx, line.IngredientID, companyID),
				Available: inventory.TheoreticalStock(lots),
				Required:  required,
			}
		}
		total = total.Add(cost)
	}
	return total, nil
}

func (uc *CostingUseCase) ingredientName(ctx context.Context, id, companyID string) string {
	ing, err := uc.ingredients.GetByID(ctx, id, companyID)
	if err != nil || ing == nil {
		return id
	}
	return ing.Name
}
