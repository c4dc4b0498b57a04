package repository

import (
	"context"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del libro de movimientos (solo inserción).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByEntity lista los movimientos de un insumo o producto, más recientes primero.
	ListByEntity(ctx context.Context, kind entity.LotKind, entityID, companyID string, limit, offset int) ([]*entity.StockMovement, error)
}
