package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/inventory"
)

// LotOrder política para elegir de qué lotes descontar.
type LotOrder int

const (
	// OrderByReceipt el lote recibido primero (menor ID) se consume primero.
	OrderByReceipt LotOrder = iota
	// OrderByExpiration el lote que vence primero se consume primero.
	OrderByExpiration
)

// ConsumeRequest salida por cantidad total, repartida entre lotes según Order.
type ConsumeRequest struct {
	Kind            entity.LotKind
	EntityID        string
	Quantity        decimal.Decimal
	Type            string // OUT, ADJUSTMENT o WASTE
	Order           LotOrder
	Unit            string
	Reason          string
	RelatedTicketID *string
	AuditID         *string
}

// ConsumeInTx bloquea los lotes de la entidad, decide las porciones y registra un movimiento
// por lote tocado, todo dentro de la transacción del caller. Si los lotes no alcanzan no
// registra nada y devuelve InsufficientStockError.
func (uc *RegisterMovementUseCase) ConsumeInTx(
	ctx context.Context,
	uow *UnitOfWork,
	req ConsumeRequest,
	companyID, userID string,
) ([]*entity.StockMovement, error) {
	if !req.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.Invalid("quantity debe ser mayor que cero")
	}
	if err := domain.CheckScale("quantity", req.Quantity); err != nil {
		return nil, err
	}
	subject, err := loadSubject(ctx, uow.Ingredients, uow.MenuItems, req.Kind, req.EntityID, companyID)
	if err != nil {
		return nil, err
	}
	lots, err := uow.Lots.ListByEntityForUpdate(ctx, req.Kind, req.EntityID, companyID)
	if err != nil {
		return nil, err
	}
	if req.Order == OrderByExpiration {
		inventory.SortByExpiration(lots)
	} else {
		inventory.SortByReceipt(lots)
	}

	allocs, shortfall := inventory.Allocate(lots, req.Quantity)
	if shortfall.GreaterThan(decimal.Zero) {
		return nil, &domain.InsufficientStockError{
			Item:      subject.Name,
			Available: inventory.TheoreticalStock(lots),
			Required:  req.Quantity,
		}
	}

	movs := make([]*entity.StockMovement, 0, len(allocs))
	for _, a := range allocs {
		lotID := a.Lot.ID
		mreq := targetRequest(req.Kind, req.EntityID, &lotID)
		mreq.Type = req.Type
		mreq.Quantity = a.Quantity
		mreq.Unit = req.Unit
		mreq.Reason = req.Reason
		mreq.RelatedTicketID = req.RelatedTicketID
		mreq.AuditID = req.AuditID
		mov, err := uc.RegisterMovementInTx(ctx, uow, mreq, companyID, userID)
		if err != nil {
			return nil, err
		}
		movs = append(movs, mov)
	}
	return movs, nil
}
