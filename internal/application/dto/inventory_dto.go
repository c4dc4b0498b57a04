package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

// DateLayout formato de fechas (vencimiento, fecha de merma) en requests.
const DateLayout = "2006-01-02"

// RegisterMovementRequest body para POST /api/stock/movements. Las mermas van por /api/stock/waste.
type RegisterMovementRequest struct {
	IngredientID    string           `json:"ingredient_id,omitempty" validate:"omitempty,uuid"`
	MenuItemID      string           `json:"menu_item_id,omitempty" validate:"omitempty,uuid"`
	Type            string           `json:"movement_type" validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity        decimal.Decimal  `json:"quantity" validate:"gt=0"`
	LotNumber       string           `json:"lot_number,omitempty" validate:"omitempty,max=64"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty" validate:"omitempty,gte=0"`
	ExpirationDate  string           `json:"expiration_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	IngredientLotID *int64           `json:"ingredient_lot_id,omitempty" validate:"omitempty,gt=0"`
	MenuItemLotID   *int64           `json:"menu_item_lot_id,omitempty" validate:"omitempty,gt=0"`
	Unit            string           `json:"unit,omitempty" validate:"omitempty,max=20"`
	Reason          string           `json:"reason,omitempty" validate:"omitempty,max=255"`
	RelatedTicketID *string          `json:"related_ticket_id,omitempty" validate:"omitempty,uuid"`
}

// AuditRequest body para POST /api/stock/audits.
type AuditRequest struct {
	AuditType     string          `json:"audit_type" validate:"required,oneof=INGREDIENT MENU_ITEM"`
	EntityID      string          `json:"entity_id" validate:"required,uuid"`
	PhysicalStock decimal.Decimal `json:"physical_stock" validate:"gte=0"`
	Observations  string          `json:"observations,omitempty" validate:"omitempty,max=500"`
}

// WasteRequest body para POST /api/stock/waste.
type WasteRequest struct {
	IngredientLotID *int64          `json:"ingredient_lot_id,omitempty" validate:"omitempty,gt=0"`
	MenuItemLotID   *int64          `json:"menu_item_lot_id,omitempty" validate:"omitempty,gt=0"`
	Quantity        decimal.Decimal `json:"quantity" validate:"gt=0"`
	Reason          string          `json:"reason" validate:"required,oneof=EXPIRED DAMAGED SPOILED PREPARATION_ERROR OVERPRODUCTION OTHER"`
	Notes           string          `json:"notes,omitempty" validate:"omitempty,max=500"`
	LogDate         string          `json:"log_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Unit            string          `json:"unit,omitempty" validate:"omitempty,max=20"`
}

// ProductionRequest body para POST /api/stock/production.
type ProductionRequest struct {
	MenuItemID string          `json:"menu_item_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity" validate:"gt=0"`
	ShiftID    string          `json:"shift_id,omitempty" validate:"omitempty,uuid"`
}

// PurchaseReceiptItemRequest ítem recibido de una orden de compra.
type PurchaseReceiptItemRequest struct {
	IngredientID   string          `json:"ingredient_id,omitempty" validate:"omitempty,uuid"`
	MenuItemID     string          `json:"menu_item_id,omitempty" validate:"omitempty,uuid"`
	LotNumber      string          `json:"lot_number" validate:"required,max=64"`
	Quantity       decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitCost       decimal.Decimal `json:"unit_cost" validate:"gte=0"`
	ExpirationDate string          `json:"expiration_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Unit           string          `json:"unit,omitempty" validate:"omitempty,max=20"`
}

// PurchaseReceiptRequest body para POST /api/stock/purchases/receipts.
type PurchaseReceiptRequest struct {
	PurchaseOrderID string                       `json:"purchase_order_id" validate:"required,max=64"`
	Items           []PurchaseReceiptItemRequest `json:"items" validate:"required,min=1,dive"`
}

// TicketConsumptionItemRequest producto entregado contra un ticket.
type TicketConsumptionItemRequest struct {
	MenuItemID string          `json:"menu_item_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity" validate:"gt=0"`
}

// TicketConsumptionRequest body para POST /api/stock/tickets/consumption.
type TicketConsumptionRequest struct {
	TicketID string                         `json:"ticket_id" validate:"required,uuid"`
	Items    []TicketConsumptionItemRequest `json:"items" validate:"required,min=1,dive"`
}

// MovementResponse movimiento del libro.
type MovementResponse struct {
	ID              string          `json:"id"`
	IngredientID    string          `json:"ingredient_id,omitempty"`
	MenuItemID      string          `json:"menu_item_id,omitempty"`
	IngredientLotID int64           `json:"ingredient_lot_id,omitempty"`
	MenuItemLotID   int64           `json:"menu_item_lot_id,omitempty"`
	Type            string          `json:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	Unit            string          `json:"unit"`
	Reason          string          `json:"reason,omitempty"`
	RelatedTicketID *string         `json:"related_ticket_id,omitempty"`
	AuditID         *string         `json:"audit_id,omitempty"`
	PerformedBy     string          `json:"performed_by"`
	StockAfter      decimal.Decimal `json:"stock_after"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewMovementResponse mapea la entidad al DTO.
func NewMovementResponse(m *entity.StockMovement) MovementResponse {
	out := MovementResponse{
		ID:              m.ID,
		Type:            m.Type,
		Quantity:        m.Quantity,
		Unit:            m.Unit,
		Reason:          m.Reason,
		RelatedTicketID: m.RelatedTicketID,
		AuditID:         m.AuditID,
		PerformedBy:     m.PerformedBy,
		StockAfter:      m.StockAfter,
		CreatedAt:       m.CreatedAt,
	}
	if m.Kind == entity.LotKindMenuItem {
		out.MenuItemID, out.MenuItemLotID = m.EntityID, m.LotID
	} else {
		out.IngredientID, out.IngredientLotID = m.EntityID, m.LotID
	}
	return out
}

// NewMovementList mapea una lista de movimientos.
func NewMovementList(list []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, NewMovementResponse(m))
	}
	return out
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AuditResponse auditoría y sus movimientos compensatorios.
type AuditResponse struct {
	ID               string             `json:"id"`
	AuditType        string             `json:"audit_type"`
	EntityID         string             `json:"entity_id"`
	TheoreticalStock decimal.Decimal    `json:"theoretical_stock"`
	PhysicalStock    decimal.Decimal    `json:"physical_stock"`
	Difference       decimal.Decimal    `json:"difference"`
	UnitCostAtAudit  decimal.Decimal    `json:"unit_cost_at_audit"`
	Observations     string             `json:"observations,omitempty"`
	PerformedBy      string             `json:"performed_by"`
	CreatedAt        time.Time          `json:"created_at"`
	Movements        []MovementResponse `json:"movements,omitempty"`
}

// CountSheetImportResponse resultado de importar una planilla. Code y Message solo vienen
// cuando una fila falló; Audits trae las filas ya registradas antes del error.
type CountSheetImportResponse struct {
	Code    string          `json:"code,omitempty"`
	Message string          `json:"message,omitempty"`
	Audits  []AuditResponse `json:"audits"`
}

// NewAuditResponse mapea la auditoría y, si hay, sus movimientos.
func NewAuditResponse(a *entity.StockAudit, movs []*entity.StockMovement) AuditResponse {
	out := AuditResponse{
		ID:               a.ID,
		AuditType:        string(a.AuditType),
		EntityID:         a.EntityID,
		TheoreticalStock: a.TheoreticalStock,
		PhysicalStock:    a.PhysicalStock,
		Difference:       a.Difference,
		UnitCostAtAudit:  a.UnitCostAtAudit,
		Observations:     a.Observations,
		PerformedBy:      a.PerformedBy,
		CreatedAt:        a.CreatedAt,
	}
	if len(movs) > 0 {
		out.Movements = NewMovementList(movs)
	}
	return out
}

// WasteLogResponse registro de merma.
type WasteLogResponse struct {
	ID          string          `json:"id"`
	Kind        string          `json:"kind"`
	EntityID    string          `json:"entity_id"`
	LotID       int64           `json:"lot_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	Reason      string          `json:"reason"`
	Notes       string          `json:"notes,omitempty"`
	LogDate     string          `json:"log_date"`
	PerformedBy string          `json:"performed_by"`
}

// NewWasteLogResponse mapea el registro de merma.
func NewWasteLogResponse(w *entity.WasteLog) WasteLogResponse {
	return WasteLogResponse{
		ID:          w.ID,
		Kind:        string(w.Kind),
		EntityID:    w.EntityID,
		LotID:       w.LotID,
		Quantity:    w.Quantity,
		Unit:        w.Unit,
		Reason:      string(w.Reason),
		Notes:       w.Notes,
		LogDate:     w.LogDate.Format(DateLayout),
		PerformedBy: w.PerformedBy,
	}
}

// MenuItemCostResponse costo FIFO de una receta.
type MenuItemCostResponse struct {
	MenuItemID string          `json:"menu_item_id"`
	Cost       decimal.Decimal `json:"cost"`
}
