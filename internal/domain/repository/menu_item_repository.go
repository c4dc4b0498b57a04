package repository

import (
	"context"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

// MenuItemRepository define el puerto de consulta de productos del menú y sus recetas.
type MenuItemRepository interface {
	GetByID(ctx context.Context, id, companyID string) (*entity.MenuItem, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.MenuItem, error)
	ListRecipe(ctx context.Context, menuItemID, companyID string) ([]*entity.RecipeIngredient, error)
	// SyncStock recalcula stock como la suma de los lotes del producto.
	SyncStock(ctx context.Context, id, companyID string) error
}
