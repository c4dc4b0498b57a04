package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/application/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/infrastructure/memory"
	"github.com/jhoicas/Comedor-api/pkg/logger"
)

const (
	companyA = "company-a"
	companyB = "company-b"
	userID   = "user-1"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func ptr[T any](v T) *T { return &v }

func date(s string) *time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return &t
}

// recordingObserver guarda las notificaciones del libro.
type recordingObserver struct {
	mu         sync.Mutex
	registered []*entity.StockMovement
	rejected   []string
	audits     []*entity.StockAudit
}

func (o *recordingObserver) MovementRegistered(m *entity.StockMovement) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.registered = append(o.registered, m)
}

func (o *recordingObserver) MovementRejected(movementType string, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rejected = append(o.rejected, movementType)
}

func (o *recordingObserver) AuditRecorded(a *entity.StockAudit, _ int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.audits = append(o.audits, a)
}

type recordingPublisher struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (p *recordingPublisher) PublishMovement(_ context.Context, m *entity.StockMovement) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, m.ID)
	return p.err
}

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	observer  *recordingObserver
	publisher *recordingPublisher

	ledger     *inventory.RegisterMovementUseCase
	audits     *inventory.AuditUseCase
	costing    *inventory.CostingUseCase
	production *inventory.ProductionUseCase
	waste      *inventory.WasteUseCase
	history    *inventory.HistoryUseCase
	purchases  *inventory.PurchaseReceiptUseCase
	tickets    *inventory.TicketConsumptionUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	runner := memory.NewTxRunner(store)
	log := logger.Nop()
	obs := &recordingObserver{}
	pub := &recordingPublisher{}

	ingredients := memory.NewIngredientRepository(store)
	menuItems := memory.NewMenuItemRepository(store)
	lots := memory.NewLotRepository(store)

	ledger := inventory.NewRegisterMovementUseCase(runner, obs, pub, log)
	return &fixture{
		ctx:        context.Background(),
		store:      store,
		observer:   obs,
		publisher:  pub,
		ledger:     ledger,
		audits:     inventory.NewAuditUseCase(runner, ledger, memory.NewStockAuditRepository(store), obs, log),
		costing:    inventory.NewCostingUseCase(menuItems, ingredients, lots),
		production: inventory.NewProductionUseCase(runner, ledger, log),
		waste:      inventory.NewWasteUseCase(runner, ledger),
		history:    inventory.NewHistoryUseCase(memory.NewStockMovementRepository(store), ingredients, menuItems),
		purchases:  inventory.NewPurchaseReceiptUseCase(runner, ledger),
		tickets:    inventory.NewTicketConsumptionUseCase(runner, ledger),
	}
}

func (f *fixture) ingredientLot(ingredientID, lotNumber, qty, cost string, exp *time.Time) *entity.Lot {
	return f.store.AddLot(entity.Lot{
		Kind: entity.LotKindIngredient, EntityID: ingredientID, CompanyID: companyA,
		LotNumber: lotNumber, Quantity: dec(qty), UnitCost: dec(cost), ExpirationDate: exp,
	})
}

func (f *fixture) menuItemLot(menuItemID, lotNumber, qty, cost string, exp *time.Time) *entity.Lot {
	return f.store.AddLot(entity.Lot{
		Kind: entity.LotKindMenuItem, EntityID: menuItemID, CompanyID: companyA,
		LotNumber: lotNumber, Quantity: dec(qty), UnitCost: dec(cost), ExpirationDate: exp,
	})
}

func (f *fixture) ingredientStock(id string) decimal.Decimal {
	ing, err := memory.NewIngredientRepository(f.store).GetByID(f.ctx, id, companyA)
	if err != nil || ing == nil {
		return decimal.NewFromInt(-1)
	}
	return ing.QuantityInStock
}

func (f *fixture) menuItemStock(id string) decimal.Decimal {
	item, err := memory.NewMenuItemRepository(f.store).GetByID(f.ctx, id, companyA)
	if err != nil || item == nil {
		return decimal.NewFromInt(-1)
	}
	return item.Stock
}
