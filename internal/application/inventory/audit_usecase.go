package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain/repository"
	"github.com/jhoicas/Comedor-api/pkg/logger"
)

// AuditUseCase compara el stock teórico con el conteo físico y registra los movimientos
// que reconcilian el libro con lo contado.
type AuditUseCase struct {
	txRunner TxRunner
	ledger   *RegisterMovementUseCase
	audits   repository.StockAuditRepository
	observer LedgerObserver
	log      *logger.Logger
}

// NewAuditUseCase construye el caso de uso. audits se usa para lecturas fuera de transacción.
func NewAuditUseCase(
	txRunner TxRunner,
	ledger *RegisterMovementUseCase,
	audits repository.StockAuditRepository,
	observer LedgerObserver,
	log *logger.Logger,
) *AuditUseCase {
	return &AuditUseCase{
		txRunner: txRunner,
		ledger:   ledger,
		audits:   audits,
		observer: observer,
		log:      log,
	}
}

// AuditInput datos del conteo físico.
type AuditInput struct {
	AuditType     entity.LotKind
	EntityID      string
	PhysicalStock decimal.Decimal
	Observations  string
}

// AuditResult auditoría creada y movimientos compensatorios (puede no haber ninguno).
type AuditResult struct {
	Audit     *entity.StockAudit
	Movements []*entity.StockMovement
}

// HandleAudit registra la auditoría y sus movimientos en una sola transacción.
func (uc *AuditUseCase) HandleAudit(ctx context.Context, in AuditInput, companyID, userID string) (*AuditResult, error) {
	if companyID == "" || userID == "" {
		return nil, domain.Invalid("company_id y user_id son obligatorios")
	}
	if !in.AuditType.IsValid() {
		return nil, domain.Invalid(fmt.Sprintf("audit_type desconocido: %q", in.AuditType))
	}
	if in.EntityID == "" {
		return nil, domain.Invalid("entity_id es obligatorio")
	}
	if in.PhysicalStock.LessThan(decimal.Zero) {
		return nil, domain.Invalid("physical_stock no puede ser negativo")
	}
	if err := domain.CheckScale("physical_stock", in.PhysicalStock); err != nil {
		return nil, err
	}

	var result *AuditResult
	err := uc.txRunner.Run(ctx, func(uow *UnitOfWork) error {
		var err error
		result, err = uc.HandleAuditInTx(ctx, uow, in, companyID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// HandleAuditInTx ejecuta la auditoría dentro de la transacción del caller:
//  1. bloquea los lotes y calcula teórico = suma de cantidades
//  2. diferencia = teórico - físico
//  3. guarda la auditoría con el costo del lote más reciente
//  4. faltante: salidas desde los lotes más antiguos hasta cubrirlo
//  5. sobrante: una entrada al lote más reciente con su número y costo
func (uc *AuditUseCase) HandleAuditInTx(
	ctx context.Context,
	uow *UnitOfWork,
	in AuditInput,
	companyID, userID string,
) (*AuditResult, error) {
	if _, err := loadSubject(ctx, uow.Ingredients, uow.MenuItems, in.AuditType, in.EntityID, companyID); err != nil {
		return nil, err
	}
	lots, err := uow.Lots.ListByEntityForUpdate(ctx, in.AuditType, in.EntityID, companyID)
	if err != nil {
		return nil, err
	}
	theoretical := inventory.TheoreticalStock(lots)
	difference := theoretical.Sub(in.PhysicalStock)
	latest := inventory.LatestLot(lots)
	unitCost := decimal.Zero
	if latest != nil {
		unitCost = latest.UnitCost
	}

	audit := &entity.StockAudit{
		ID:               uuid.New().String(),
		CompanyID:        companyID,
		AuditType:        in.AuditType,
		EntityID:         in.EntityID,
		TheoreticalStock: theoretical,
		PhysicalStock:    in.PhysicalStock,
		Difference:       difference,
		UnitCostAtAudit:  unitCost,
		Observations:     in.Observations,
		PerformedBy:      userID,
		CreatedAt:        time.Now(),
	}
	if err := uow.Audits.Create(ctx, audit); err != nil {
		return nil, err
	}
	auditID := audit.ID

	var movs []*entity.StockMovement
	switch {
	case difference.GreaterThan(decimal.Zero):
		movs, err = uc.ledger.ConsumeInTx(ctx, uow, ConsumeRequest{
			Kind:     in.AuditType,
			EntityID: in.EntityID,
			Quantity: difference,
			Type:     entity.MovementTypeOUT,
			Order:    OrderByReceipt,
			Reason:   fmt.Sprintf("Auditoría %s: faltante", auditID),
			AuditID:  &auditID,
		}, companyID, userID)
		if err != nil {
			return nil, err
		}
	case difference.LessThan(decimal.Zero):
		mov, err := uc.registerSurplus(ctx, uow, audit, latest, difference.Neg(), companyID, userID)
		if err != nil {
			return nil, err
		}
		movs = append(movs, mov)
	}

	uow.AfterCommit(func() {
		if uc.observer != nil {
			uc.observer.AuditRecorded(audit, len(movs))
		}
		uc.log.Info().
			Str("audit_id", audit.ID).
			Str("company_id", companyID).
			Str("entity_id", audit.EntityID).
			Str("difference", audit.Difference.String()).
			Int("movements", len(movs)).
			Msg("auditoría de stock registrada")
	})
	return &AuditResult{Audit: audit, Movements: movs}, nil
}

// registerSurplus ingresa el sobrante al lote más reciente. Si la entidad no tiene lotes,
// crea un lote sintético AUD-<id> a costo cero para que el libro refleje la auditoría.
func (uc *AuditUseCase) registerSurplus(
	ctx context.Context,
	uow *UnitOfWork,
	audit *entity.StockAudit,
	latest *entity.Lot,
	surplus decimal.Decimal,
	companyID, userID string,
) (*entity.StockMovement, error) {
	lotNumber := "AUD-" + audit.ID[:8]
	unitCost := decimal.Zero
	if latest != nil {
		lotNumber = latest.LotNumber
		unitCost = latest.UnitCost
	} else {
		uc.log.Warn().
			Str("audit_id", audit.ID).
			Str("entity_id", audit.EntityID).
			Str("lot_number", lotNumber).
			Msg("sobrante sin lotes previos: se crea lote sintético a costo cero")
	}

	req := targetRequest(audit.AuditType, audit.EntityID, nil)
	req.Type = entity.MovementTypeIN
	req.Quantity = surplus
	req.LotNumber = lotNumber
	req.UnitCost = &unitCost
	req.Reason = fmt.Sprintf("Auditoría %s: sobrante", audit.ID)
	req.AuditID = &audit.ID
	return uc.ledger.RegisterMovementInTx(ctx, uow, req, companyID, userID)
}

// GetAudit obtiene una auditoría de la empresa.
func (uc *AuditUseCase) GetAudit(ctx context.Context, id, companyID string) (*entity.StockAudit, error) {
	audit, err := uc.audits.GetByID(ctx, id, companyID)
	if err != nil {
		return nil, err
	}
	if audit == nil {
		return nil, domain.NotFound(fmt.Sprintf("auditoría %s", id))
	}
	return audit, nil
}
