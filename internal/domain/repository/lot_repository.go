package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

// LotRepository define el puerto de persistencia para lotes de insumos y productos del menú.
// Todas las consultas filtran por companyID; un lote de otra empresa se comporta como inexistente.
type LotRepository interface {
	GetByID(ctx context.Context, kind entity.LotKind, id int64, companyID string) (*entity.Lot, error)
	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE) hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, kind entity.LotKind, id int64, companyID string) (*entity.Lot, error)
	// ListByEntity devuelve todos los lotes de la entidad ordenados por ID ascendente.
	ListByEntity(ctx context.Context, kind entity.LotKind, entityID, companyID string) ([]*entity.Lot, error)
	ListByEntityForUpdate(ctx context.Context, kind entity.LotKind, entityID, companyID string) ([]*entity.Lot, error)
	// ListAvailableByExpiration devuelve lotes con cantidad > 0 por vencimiento ascendente
	// (sin vencimiento al final) y luego por ID.
	ListAvailableByExpiration(ctx context.Context, kind entity.LotKind, entityID, companyID string) ([]*entity.Lot, error)
	// Receive crea el lote o, si el número de lote ya existe, suma la cantidad y sobrescribe el costo.
	Receive(ctx context.Context, lot *entity.Lot) (*entity.Lot, error)
	// Decrease descuenta qty solo si el lote tiene al menos qty. Devuelve nil si no alcanzó.
	Decrease(ctx context.Context, kind entity.LotKind, id int64, companyID string, qty decimal.Decimal) (*entity.Lot, error)
}
