package repository

import (
	"context"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

// WasteLogRepository define el puerto de persistencia para registros de merma.
type WasteLogRepository interface {
	Create(ctx context.Context, log *entity.WasteLog) error
}
