package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

// WasteUseCase registra mermas: un movimiento WASTE sobre el lote y su WasteLog, juntos.
type WasteUseCase struct {
	txRunner TxRunner
	ledger   *RegisterMovementUseCase
}

// NewWasteUseCase construye el caso de uso.
func NewWasteUseCase(txRunner TxRunner, ledger *RegisterMovementUseCase) *WasteUseCase {
	return &WasteUseCase{txRunner: txRunner, ledger: ledger}
}

// WasteInput merma sobre exactamente un lote. Unit vacío hereda la unidad de la entidad.
type WasteInput struct {
	IngredientLotID *int64
	MenuItemLotID   *int64
	Quantity        decimal.Decimal
	Reason          entity.WasteReason
	Notes           string
	LogDate         *time.Time
	Unit            string
}

// CreateWasteLog descuenta la merma del lote y guarda el registro en la misma transacción.
func (uc *WasteUseCase) CreateWasteLog(ctx context.Context, in WasteInput, companyID, userID string) (*entity.WasteLog, error) {
	if (in.IngredientLotID == nil) == (in.MenuItemLotID == nil) {
		return nil, domain.Invalid("debe indicar exactamente uno de ingredient_lot_id o menu_item_lot_id")
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.Invalid("quantity debe ser mayor que cero")
	}
	if err := domain.CheckScale("quantity", in.Quantity); err != nil {
		return nil, err
	}
	if !in.Reason.IsValid() {
		return nil, domain.Invalid(fmt.Sprintf("motivo de merma desconocido: %q", in.Reason))
	}

	var wasteLog *entity.WasteLog
	err := uc.txRunner.Run(ctx, func(uow *UnitOfWork) error {
		var err error
		wasteLog, err = uc.createInTx(ctx, uow, in, companyID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wasteLog, nil
}

func (uc *WasteUseCase) createInTx(ctx context.Context, uow *UnitOfWork, in WasteInput, companyID, userID string) (*entity.WasteLog, error) {
	var (
		kind  entity.LotKind
		lotID int64
	)
	if in.MenuItemLotID != nil {
		kind, lotID = entity.LotKindMenuItem, *in.MenuItemLotID
	} else {
		kind, lotID = entity.LotKindIngredient, *in.IngredientLotID
	}
	lot, err := uow.Lots.GetByID(ctx, kind, lotID, companyID)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, domain.NotFound(fmt.Sprintf("lote %d", lotID))
	}
	subject, err := loadSubject(ctx, uow.Ingredients, uow.MenuItems, kind, lot.EntityID, companyID)
	if err != nil {
		return nil, err
	}
	unit := in.Unit
	if unit == "" {
		unit = subject.Unit
	}

	req := targetRequest(kind, lot.EntityID, &lotID)
	req.Type = entity.MovementTypeWASTE
	req.Quantity = in.Quantity
	req.Unit = unit
	req.Reason = "Merma: " + string(in.Reason)
	if _, err := uc.ledger.RegisterMovementInTx(ctx, uow, req, companyID, userID); err != nil {
		return nil, err
	}

	now := time.Now()
	logDate := now
	if in.LogDate != nil {
		logDate = *in.LogDate
	}
	wasteLog := &entity.WasteLog{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Kind:        kind,
		EntityID:    lot.EntityID,
		LotID:       lotID,
		Quantity:    in.Quantity,
		Unit:        unit,
		Reason:      in.Reason,
		Notes:       in.Notes,
		LogDate:     logDate,
		PerformedBy: userID,
		CreatedAt:   now,
	}
	if err := uow.WasteLogs.Create(ctx, wasteLog); err != nil {
		return nil, err
	}
	return wasteLog, nil
}
