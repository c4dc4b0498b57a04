package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/pkg/logger"
)

const publishTimeout = 2 * time.Second

// RegisterMovementUseCase es el libro de movimientos: registra entradas y salidas sobre lotes
// de forma transaccional, con bloqueo de fila (SELECT FOR UPDATE) y descuento condicionado.
type RegisterMovementUseCase struct {
	txRunner  TxRunner
	observer  LedgerObserver
	publisher StockEventPublisher
	log       *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso. observer y publisher pueden ser nil.
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	observer LedgerObserver,
	publisher StockEventPublisher,
	log *logger.Logger,
) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:  txRunner,
		observer:  observer,
		publisher: publisher,
		log:       log,
	}
}

// MovementRequest entrada para registrar un movimiento.
// Exactamente uno de IngredientID/MenuItemID. IN exige LotNumber y UnitCost;
// OUT, ADJUSTMENT y WASTE exigen el ID del lote del mismo tipo que la entidad.
type MovementRequest struct {
	IngredientID    string
	MenuItemID      string
	Type            string
	Quantity        decimal.Decimal
	LotNumber       string
	UnitCost        *decimal.Decimal
	ExpirationDate  *time.Time
	IngredientLotID *int64
	MenuItemLotID   *int64
	Unit            string
	Reason          string
	RelatedTicketID *string
	AuditID         *string
}

// RegisterMovement abre su propia transacción y registra el movimiento.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, req MovementRequest, companyID, userID string) (*entity.StockMovement, error) {
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(uow *UnitOfWork) error {
		var err error
		mov, err = uc.RegisterMovementInTx(ctx, uow, req, companyID, userID)
		return err
	})
	if err != nil {
		if uc.observer != nil {
			uc.observer.MovementRejected(req.Type, err)
		}
		return nil, err
	}
	return mov, nil
}

// RegisterMovementInTx registra el movimiento dentro de la transacción del caller.
// Modifica exactamente un lote e inserta exactamente un movimiento.
func (uc *RegisterMovementUseCase) RegisterMovementInTx(
	ctx context.Context,
	uow *UnitOfWork,
	req MovementRequest,
	companyID, userID string,
) (*entity.StockMovement, error) {
	if companyID == "" || userID == "" {
		return nil, domain.Invalid("company_id y user_id son obligatorios")
	}
	kind, entityID, lotID, err := validateMovement(req)
	if err != nil {
		return nil, err
	}
	subject, err := loadSubject(ctx, uow.Ingredients, uow.MenuItems, kind, entityID, companyID)
	if err != nil {
		return nil, err
	}

	var lot *entity.Lot
	if req.Type == entity.MovementTypeIN {
		lot, err = uc.applyIN(ctx, uow, kind, entityID, companyID, req)
	} else {
		lot, err = uc.applyOUT(ctx, uow, subject, *lotID, companyID, req.Quantity)
	}
	if err != nil {
		return nil, err
	}
	if err := syncStock(ctx, uow, kind, entityID, companyID); err != nil {
		return nil, err
	}

	unit := req.Unit
	if unit == "" {
		unit = subject.Unit
	}
	mov := &entity.StockMovement{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		Kind:            kind,
		EntityID:        entityID,
		LotID:           lot.ID,
		Type:            req.Type,
		Quantity:        req.Quantity,
		Unit:            unit,
		Reason:          req.Reason,
		RelatedTicketID: req.RelatedTicketID,
		AuditID:         req.AuditID,
		PerformedBy:     userID,
		StockAfter:      lot.Quantity,
		CreatedAt:       time.Now(),
	}
	if err := uow.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	uow.AfterCommit(func() { uc.committed(mov) })
	return mov, nil
}

// applyIN crea el lote o suma al existente con el mismo número; el costo unitario
// queda con el de la última entrada.
func (uc *RegisterMovementUseCase) applyIN(
	ctx context.Context,
	uow *UnitOfWork,
	kind entity.LotKind,
	entityID, companyID string,
	req MovementRequest,
) (*entity.Lot, error) {
	now := time.Now()
	return uow.Lots.Receive(ctx, &entity.Lot{
		Kind:           kind,
		EntityID:       entityID,
		CompanyID:      companyID,
		LotNumber:      strings.TrimSpace(req.LotNumber),
		Quantity:       req.Quantity,
		UnitCost:       *req.UnitCost,
		ExpirationDate: req.ExpirationDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
}

// applyOUT bloquea el lote, valida pertenencia y cantidad, y descuenta con guarda
// (quantity >= n) para que la cantidad nunca quede negativa.
func (uc *RegisterMovementUseCase) applyOUT(
	ctx context.Context,
	uow *UnitOfWork,
	subject *stockSubject,
	lotID int64,
	companyID string,
	qty decimal.Decimal,
) (*entity.Lot, error) {
	lot, err := uow.Lots.GetForUpdate(ctx, subject.Kind, lotID, companyID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.NotFound(fmt.Sprintf("lote %d", lotID))
	}
	if lot.EntityID != subject.ID {
		return nil, domain.Conflict(fmt.Sprintf("el lote %d no pertenece a %s", lotID, subject.Name))
	}
	insufficient := &domain.InsufficientStockError{
		Item:      fmt.Sprintf("%s (lote %s)", subject.Name, lot.LotNumber),
		Available: lot.Quantity,
		Required:  qty,
	}
	if lot.Quantity.LessThan(qty) {
		return nil, insufficient
	}
	updated, err := uow.Lots.Decrease(ctx, subject.Kind, lotID, companyID, qty)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, insufficient
	}
	return updated, nil
}

func (uc *RegisterMovementUseCase) committed(mov *entity.StockMovement) {
	if uc.observer != nil {
		uc.observer.MovementRegistered(mov)
	}
	if uc.publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := uc.publisher.PublishMovement(ctx, mov); err != nil {
		uc.log.Warn().Err(err).
			Str("movement_id", mov.ID).
			Str("company_id", mov.CompanyID).
			Msg("no se pudo publicar el movimiento")
	}
}

// validateMovement revisa la forma del request antes de tocar la BD.
// Devuelve el tipo de entidad, su ID y, para salidas, el ID del lote.
func validateMovement(req MovementRequest) (entity.LotKind, string, *int64, error) {
	hasIngredient := req.IngredientID != ""
	hasMenuItem := req.MenuItemID != ""
	if hasIngredient == hasMenuItem {
		return "", "", nil, domain.Invalid("debe indicar exactamente uno de ingredient_id o menu_item_id")
	}
	kind, entityID := entity.LotKindIngredient, req.IngredientID
	lotID, otherLotID := req.IngredientLotID, req.MenuItemLotID
	if hasMenuItem {
		kind, entityID = entity.LotKindMenuItem, req.MenuItemID
		lotID, otherLotID = req.MenuItemLotID, req.IngredientLotID
	}
	if !req.Quantity.GreaterThan(decimal.Zero) {
		return "", "", nil, domain.Invalid("quantity debe ser mayor que cero")
	}
	if err := domain.CheckScale("quantity", req.Quantity); err != nil {
		return "", "", nil, err
	}
	if req.UnitCost != nil {
		if err := domain.CheckScale("unit_cost", *req.UnitCost); err != nil {
			return "", "", nil, err
		}
	}

	switch req.Type {
	case entity.MovementTypeIN:
		if strings.TrimSpace(req.LotNumber) == "" {
			return "", "", nil, domain.Invalid("lot_number es obligatorio para entradas")
		}
		if req.UnitCost == nil || req.UnitCost.LessThan(decimal.Zero) {
			return "", "", nil, domain.Invalid("unit_cost es obligatorio para entradas y no puede ser negativo")
		}
		return kind, entityID, nil, nil
	case entity.MovementTypeOUT, entity.MovementTypeADJUSTMENT, entity.MovementTypeWASTE:
		if otherLotID != nil {
			return "", "", nil, domain.Invalid("el lote indicado no corresponde al tipo de entidad")
		}
		if lotID == nil {
			return "", "", nil, domain.Invalid("se requiere el lote a descontar")
		}
		return kind, entityID, lotID, nil
	}
	return "", "", nil, domain.Invalid(fmt.Sprintf("tipo de movimiento desconocido: %q", req.Type))
}

// IsBusinessError indica si err es una regla de negocio (no reintentable).
func IsBusinessError(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrInsufficientStock)
}
