package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Comedor-api/internal/application/dto"
	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al caso de uso RegisterMovement.
// Usar desde handlers HTTP que ya tengan companyID y userID del token.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, companyID, userID string, in dto.RegisterMovementRequest) (*entity.StockMovement, error) {
	if in.Type == entity.MovementTypeWASTE {
		return nil, domain.Invalid("las mermas se registran en /api/stock/waste")
	}
	exp, err := parseDate(in.ExpirationDate)
	if err != nil {
		return nil, err
	}
	return uc.RegisterMovement(ctx, MovementRequest{
		IngredientID:    in.IngredientID,
		MenuItemID:      in.MenuItemID,
		Type:            in.Type,
		Quantity:        in.Quantity,
		LotNumber:       in.LotNumber,
		UnitCost:        in.UnitCost,
		ExpirationDate:  exp,
		IngredientLotID: in.IngredientLotID,
		MenuItemLotID:   in.MenuItemLotID,
		Unit:            in.Unit,
		Reason:          in.Reason,
		RelatedTicketID: in.RelatedTicketID,
	}, companyID, userID)
}

// HandleAuditFromRequest adapta dto.AuditRequest.
func (uc *AuditUseCase) HandleAuditFromRequest(ctx context.Context, companyID, userID string, in dto.AuditRequest) (*AuditResult, error) {
	return uc.HandleAudit(ctx, AuditInput{
		AuditType:     entity.LotKind(in.AuditType),
		EntityID:      in.EntityID,
		PhysicalStock: in.PhysicalStock,
		Observations:  in.Observations,
	}, companyID, userID)
}

// CreateWasteLogFromRequest adapta dto.WasteRequest.
func (uc *WasteUseCase) CreateWasteLogFromRequest(ctx context.Context, companyID, userID string, in dto.WasteRequest) (*entity.WasteLog, error) {
	logDate, err := parseDate(in.LogDate)
	if err != nil {
		return nil, err
	}
	return uc.CreateWasteLog(ctx, WasteInput{
		IngredientLotID: in.IngredientLotID,
		MenuItemLotID:   in.MenuItemLotID,
		Quantity:        in.Quantity,
		Reason:          entity.WasteReason(in.Reason),
		Notes:           in.Notes,
		LogDate:         logDate,
		Unit:            in.Unit,
	}, companyID, userID)
}

// RegisterProductionFromRequest adapta dto.ProductionRequest.
func (uc *ProductionUseCase) RegisterProductionFromRequest(ctx context.Context, companyID, userID string, in dto.ProductionRequest) ([]*entity.StockMovement, error) {
	return uc.RegisterProduction(ctx, ProductionInput{
		MenuItemID: in.MenuItemID,
		Quantity:   in.Quantity,
		ShiftID:    in.ShiftID,
	}, companyID, userID)
}

// ReceivePurchaseFromRequest adapta dto.PurchaseReceiptRequest.
func (uc *PurchaseReceiptUseCase) ReceivePurchaseFromRequest(ctx context.Context, companyID, userID string, in dto.PurchaseReceiptRequest) ([]*entity.StockMovement, error) {
	items := make([]PurchaseReceiptItem, 0, len(in.Items))
	for _, it := range in.Items {
		exp, err := parseDate(it.ExpirationDate)
		if err != nil {
			return nil, err
		}
		items = append(items, PurchaseReceiptItem{
			IngredientID:   it.IngredientID,
			MenuItemID:     it.MenuItemID,
			LotNumber:      it.LotNumber,
			Quantity:       it.Quantity,
			UnitCost:       it.UnitCost,
			ExpirationDate: exp,
			Unit:           it.Unit,
		})
	}
	return uc.ReceivePurchase(ctx, PurchaseReceiptInput{PurchaseOrderID: in.PurchaseOrderID, Items: items}, companyID, userID)
}

// ConsumeForTicketFromRequest adapta dto.TicketConsumptionRequest.
func (uc *TicketConsumptionUseCase) ConsumeForTicketFromRequest(ctx context.Context, companyID, userID string, in dto.TicketConsumptionRequest) ([]*entity.StockMovement, error) {
	items := make([]TicketConsumptionItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, TicketConsumptionItem{MenuItemID: it.MenuItemID, Quantity: it.Quantity})
	}
	return uc.ConsumeForTicket(ctx, TicketConsumptionInput{TicketID: in.TicketID, Items: items}, companyID, userID)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return nil, domain.Invalid("fecha inválida, formato esperado AAAA-MM-DD: " + s)
	}
	return &t, nil
}
