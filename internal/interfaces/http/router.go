package http

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/Comedor-api/internal/application/inventory"
	"github.com/jhoicas/Comedor-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RegisterMovement  *inventory.RegisterMovementUseCase
	Audit             *inventory.AuditUseCase
	Costing           *inventory.CostingUseCase
	Waste             *inventory.WasteUseCase
	Production        *inventory.ProductionUseCase
	History           *inventory.HistoryUseCase
	PurchaseReceipt   *inventory.PurchaseReceiptUseCase
	TicketConsumption *inventory.TicketConsumptionUseCase
	CountSheet        *inventory.CountSheetUseCase
	Retry             *TxRetrier
	JWTSecret         string
	ServiceName       string
	// Metrics se monta en MetricsPath si no es nil.
	Metrics     http.Handler
	MetricsPath string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(deps.Metrics))
	}

	// Rutas protegidas (requieren Bearer Token)
	stock := app.Group("/api/stock", AuthMiddleware(deps.JWTSecret))
	h := NewStockHandler(deps)

	storekeepers := RequireRole(jwt.RoleAdmin, jwt.RoleStorekeeper)
	kitchen := RequireRole(jwt.RoleAdmin, jwt.RoleKitchen)
	readers := RequireRole(jwt.RoleAdmin, jwt.RoleStorekeeper, jwt.RoleKitchen)

	stock.Post("/movements", storekeepers, h.RegisterMovement)
	stock.Get("/ingredients/:id/movements", readers, h.IngredientHistory)
	stock.Get("/menu-items/:id/movements", readers, h.MenuItemHistory)
	stock.Get("/menu-items/:id/cost", readers, h.MenuItemCost)

	stock.Post("/audits", storekeepers, h.HandleAudit)
	stock.Get("/audits/:id", storekeepers, h.GetAudit)
	stock.Get("/count-sheets", storekeepers, h.ExportCountSheet)
	stock.Post("/count-sheets", storekeepers, h.ImportCountSheet)
	stock.Post("/purchases/receipts", storekeepers, h.ReceivePurchase)

	stock.Post("/waste", readers, h.CreateWasteLog)
	stock.Post("/production", kitchen, h.RegisterProduction)
	stock.Post("/tickets/consumption", RequireRole(jwt.RoleAdmin, jwt.RoleCashier), h.ConsumeForTicket)
}
