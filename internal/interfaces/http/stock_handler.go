package http

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Comedor-api/internal/application/dto"
	"github.com/jhoicas/Comedor-api/internal/application/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/pkg/validator"
)

const (
	xlsxContentType  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxCountSheetLen = 5 << 20
)

// StockHandler expone el libro de stock bajo /api/stock (protegido).
type StockHandler struct {
	movements   *inventory.RegisterMovementUseCase
	audits      *inventory.AuditUseCase
	costing     *inventory.CostingUseCase
	waste       *inventory.WasteUseCase
	production  *inventory.ProductionUseCase
	history     *inventory.HistoryUseCase
	purchases   *inventory.PurchaseReceiptUseCase
	tickets     *inventory.TicketConsumptionUseCase
	countSheets *inventory.CountSheetUseCase
	retry       *TxRetrier
}

// NewStockHandler construye el handler a partir de las dependencias del router.
func NewStockHandler(deps RouterDeps) *StockHandler {
	return &StockHandler{
		movements:   deps.RegisterMovement,
		audits:      deps.Audit,
		costing:     deps.Costing,
		waste:       deps.Waste,
		production:  deps.Production,
		history:     deps.History,
		purchases:   deps.PurchaseReceipt,
		tickets:     deps.TicketConsumption,
		countSheets: deps.CountSheet,
		retry:       deps.Retry,
	}
}

func identity(c *fiber.Ctx) (companyID, userID string, ok bool) {
	companyID, userID = GetCompanyID(c), GetUserID(c)
	return companyID, userID, companyID != "" && userID != ""
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func pathUUID(c *fiber.Ctx, name string) (string, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return "", domain.Invalid(fmt.Sprintf("%s no es un UUID válido", name))
	}
	return id.String(), nil
}

// RegisterMovement POST /api/stock/movements
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.RegisterMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	var mov *entity.StockMovement
	err := h.retry.Do(c.Context(), func(ctx context.Context) error {
		var err error
		mov, err = h.movements.RegisterMovementFromRequest(ctx, companyID, userID, in)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementResponse(mov))
}

// IngredientHistory GET /api/stock/ingredients/:id/movements?limit=&offset=
func (h *StockHandler) IngredientHistory(c *fiber.Ctx) error {
	return h.listHistory(c, h.history.FindHistoryForIngredient)
}

// MenuItemHistory GET /api/stock/menu-items/:id/movements?limit=&offset=
func (h *StockHandler) MenuItemHistory(c *fiber.Ctx) error {
	return h.listHistory(c, h.history.FindHistoryForMenuItem)
}

type historyFunc func(ctx context.Context, companyID, entityID string, limit, offset int) ([]*entity.StockMovement, error)

func (h *StockHandler) listHistory(c *fiber.Ctx, find historyFunc) error {
	companyID, _, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "limit y offset deben ser enteros"})
	}
	page.DefaultPage()
	if errs := validator.ValidateStruct(page); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Message(errs)})
	}
	list, err := find(c.Context(), companyID, id, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: dto.NewMovementList(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// HandleAudit POST /api/stock/audits
func (h *StockHandler) HandleAudit(c *fiber.Ctx) error {
	companyID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.AuditRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	var res *inventory.AuditResult
	err := h.retry.Do(c.Context(), func(ctx context.Context) error {
		var err error
		res, err = h.audits.HandleAuditFromRequest(ctx, companyID, userID, in)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAuditResponse(res.Audit, res.Movements))
}

// GetAudit GET /api/stock/audits/:id
func (h *StockHandler) GetAudit(c *fiber.Ctx) error {
	companyID, _, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	audit, err := h.audits.GetAudit(c.Context(), id, companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewAuditResponse(audit, nil))
}

// MenuItemCost GET /api/stock/menu-items/:id/cost
func (h *StockHandler) MenuItemCost(c *fiber.Ctx) error {
	companyID, _, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	id, err := pathUUID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	cost, err := h.costing.CalculateMenuItemCost(c.Context(), id, companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MenuItemCostResponse{MenuItemID: id, Cost: cost})
}

// CreateWasteLog POST /api/stock/waste
func (h *StockHandler) CreateWasteLog(c *fiber.Ctx) error {
	companyID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.WasteRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	var w *entity.WasteLog
	err := h.retry.Do(c.Context(), func(ctx context.Context) error {
		var err error
		w, err = h.waste.CreateWasteLogFromRequest(ctx, companyID, userID, in)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewWasteLogResponse(w))
}

// RegisterProduction POST /api/stock/production
func (h *StockHandler) RegisterProduction(c *fiber.Ctx) error {
	companyID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.ProductionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	return h.movementBatch(c, func(ctx context.Context) ([]*entity.StockMovement, error) {
		return h.production.RegisterProductionFromRequest(ctx, companyID, userID, in)
	})
}

// ReceivePurchase POST /api/stock/purchases/receipts
func (h *StockHandler) ReceivePurchase(c *fiber.Ctx) error {
	companyID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.PurchaseReceiptRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	return h.movementBatch(c, func(ctx context.Context) ([]*entity.StockMovement, error) {
		return h.purchases.ReceivePurchaseFromRequest(ctx, companyID, userID, in)
	})
}

// ConsumeForTicket POST /api/stock/tickets/consumption
func (h *StockHandler) ConsumeForTicket(c *fiber.Ctx) error {
	companyID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	var in dto.TicketConsumptionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	return h.movementBatch(c, func(ctx context.Context) ([]*entity.StockMovement, error) {
		return h.tickets.ConsumeForTicketFromRequest(ctx, companyID, userID, in)
	})
}

func (h *StockHandler) movementBatch(c *fiber.Ctx, run func(ctx context.Context) ([]*entity.StockMovement, error)) error {
	var movs []*entity.StockMovement
	err := h.retry.Do(c.Context(), func(ctx context.Context) error {
		var err error
		movs, err = run(ctx)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movements": dto.NewMovementList(movs)})
}

func auditTypeQuery(c *fiber.Ctx) (entity.LotKind, error) {
	kind := entity.LotKind(c.Query("audit_type", string(entity.LotKindIngredient)))
	if !kind.IsValid() {
		return "", domain.Invalid(fmt.Sprintf("audit_type desconocido: %q", kind))
	}
	return kind, nil
}

// ExportCountSheet GET /api/stock/count-sheets?audit_type=INGREDIENT|MENU_ITEM
func (h *StockHandler) ExportCountSheet(c *fiber.Ctx) error {
	companyID, _, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	kind, err := auditTypeQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	data, err := h.countSheets.Export(c.Context(), companyID, kind)
	if err != nil {
		return writeError(c, err)
	}
	name := fmt.Sprintf("conteo_%s_%s.xlsx", kind, time.Now().Format("20060102_150405"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	return c.Send(data)
}

// ImportCountSheet POST /api/stock/count-sheets?audit_type=... (multipart, campo "file").
// Cada fila contada es una auditoría independiente: ante un error, las filas anteriores quedan
// registradas y vuelven en audits junto al código del error.
func (h *StockHandler) ImportCountSheet(c *fiber.Ctx) error {
	companyID, userID, ok := identity(c)
	if !ok {
		return unauthorized(c)
	}
	kind, err := auditTypeQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "se espera el archivo en el campo file"})
	}
	if fh.Size > maxCountSheetLen {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(dto.ErrorResponse{Code: "TOO_LARGE", Message: "la planilla supera 5 MB"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return writeError(c, err)
	}

	results, err := h.countSheets.Import(c.Context(), companyID, userID, kind, data, h.retry.Do)
	out := make([]dto.AuditResponse, 0, len(results))
	for _, r := range results {
		out = append(out, dto.NewAuditResponse(r.Audit, r.Movements))
	}
	if err != nil {
		status, body := errorStatus(err)
		return c.Status(status).JSON(dto.CountSheetImportResponse{Code: body.Code, Message: body.Message, Audits: out})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CountSheetImportResponse{Audits: out})
}

