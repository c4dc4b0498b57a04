package inventory

import (
	"context"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/repository"
)

// UnitOfWork agrupa los repositorios atados a una misma transacción de BD.
// Se pasa explícitamente por la cadena de llamadas: las operaciones *InTx participan en ella
// en lugar de abrir su propia transacción.
type UnitOfWork struct {
	Lots        repository.LotRepository
	Movements   repository.StockMovementRepository
	Audits      repository.StockAuditRepository
	WasteLogs   repository.WasteLogRepository
	Ingredients repository.IngredientRepository
	MenuItems   repository.MenuItemRepository

	afterCommit []func()
}

// AfterCommit registra fn para ejecutarse solo si la transacción hace Commit.
func (u *UnitOfWork) AfterCommit(fn func()) {
	u.afterCommit = append(u.afterCommit, fn)
}

// Committed ejecuta los callbacks registrados. Lo invoca el TxRunner tras un Commit exitoso.
func (u *UnitOfWork) Committed() {
	hooks := u.afterCommit
	u.afterCommit = nil
	for _, fn := range hooks {
		fn()
	}
}

// TxRunner ejecuta fn dentro de una transacción de BD: Commit si fn devuelve nil, Rollback si no.
// Garantiza atomicidad para el libro de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(uow *UnitOfWork) error) error
}

// LedgerObserver recibe notificaciones del libro para métricas. Puede ser nil.
type LedgerObserver interface {
	MovementRegistered(mov *entity.StockMovement)
	MovementRejected(movementType string, err error)
	AuditRecorded(audit *entity.StockAudit, movements int)
}

// StockEventPublisher publica movimientos ya confirmados a otros servicios. Puede ser nil.
type StockEventPublisher interface {
	PublishMovement(ctx context.Context, mov *entity.StockMovement) error
}

// CountSheetCodec convierte filas de conteo físico desde y hacia una planilla.
type CountSheetCodec interface {
	Encode(auditType entity.LotKind, rows []CountSheetRow) ([]byte, error)
	Decode(data []byte) ([]CountSheetRow, error)
}
