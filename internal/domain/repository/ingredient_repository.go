package repository

import (
	"context"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

// IngredientRepository define el puerto de consulta de insumos (DIP).
type IngredientRepository interface {
	GetByID(ctx context.Context, id, companyID string) (*entity.Ingredient, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Ingredient, error)
	// SyncStock recalcula quantity_in_stock como la suma de los lotes del insumo.
	SyncStock(ctx context.Context, id, companyID string) error
}
