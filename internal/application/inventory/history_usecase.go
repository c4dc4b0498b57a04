package inventory

import (
	"context"

	"github.com/jhoicas/Comedor-api/internal/application/dto"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/repository"
)

// HistoryUseCase consulta el libro de movimientos por insumo o producto.
type HistoryUseCase struct {
	movements   repository.StockMovementRepository
	ingredients repository.IngredientRepository
	menuItems   repository.MenuItemRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(
	movements repository.StockMovementRepository,
	ingredients repository.IngredientRepository,
	menuItems repository.MenuItemRepository,
) *HistoryUseCase {
	return &HistoryUseCase{movements: movements, ingredients: ingredients, menuItems: menuItems}
}

// FindHistoryForIngredient movimientos del insumo, más recientes primero.
func (uc *HistoryUseCase) FindHistoryForIngredient(ctx context.Context, companyID, ingredientID string, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.find(ctx, entity.LotKindIngredient, companyID, ingredientID, limit, offset)
}

// FindHistoryForMenuItem movimientos del producto del menú, más recientes primero.
func (uc *HistoryUseCase) FindHistoryForMenuItem(ctx context.Context, companyID, menuItemID string, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.find(ctx, entity.LotKindMenuItem, companyID, menuItemID, limit, offset)
}

func (uc *HistoryUseCase) find(ctx context.Context, kind entity.LotKind, companyID, entityID string, limit, offset int) ([]*entity.StockMovement, error) {
	if _, err := loadSubject(ctx, uc.ingredients, uc.menuItems, kind, entityID, companyID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = dto.DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.movements.ListByEntity(ctx, kind, entityID, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*entity.StockMovement{}
	}
	return list, nil
}
