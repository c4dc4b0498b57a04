package repository

import (
	"context"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

// StockAuditRepository define el puerto de persistencia para auditorías de stock.
type StockAuditRepository interface {
	Create(ctx context.Context, audit *entity.StockAudit) error
	GetByID(ctx context.Context, id, companyID string) (*entity.StockAudit, error)
}
