package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

// TicketConsumptionUseCase descuenta del stock los productos del menú entregados contra un ticket.
type TicketConsumptionUseCase struct {
	txRunner TxRunner
	ledger   *RegisterMovementUseCase
}

// NewTicketConsumptionUseCase construye el caso de uso.
func NewTicketConsumptionUseCase(txRunner TxRunner, ledger *RegisterMovementUseCase) *TicketConsumptionUseCase {
	return &TicketConsumptionUseCase{txRunner: txRunner, ledger: ledger}
}

// TicketConsumptionItem producto y cantidad entregada.
type TicketConsumptionItem struct {
	MenuItemID string
	Quantity   decimal.Decimal
}

// TicketConsumptionInput entrega asociada a un ticket.
type TicketConsumptionInput struct {
	TicketID string
	Items    []TicketConsumptionItem
}

// ConsumeForTicket registra salidas por vencimiento con el ticket relacionado; todo o nada.
func (uc *TicketConsumptionUseCase) ConsumeForTicket(ctx context.Context, in TicketConsumptionInput, companyID, userID string) ([]*entity.StockMovement, error) {
	if in.TicketID == "" {
		return nil, domain.Invalid("ticket_id es obligatorio")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("el ticket no tiene ítems")
	}
	ticketID := in.TicketID

	var movs []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(uow *UnitOfWork) error {
		movs = nil
		for _, item := range in.Items {
			if item.MenuItemID == "" {
				return domain.Invalid("menu_item_id es obligatorio")
			}
			out, err := uc.ledger.ConsumeInTx(ctx, uow, ConsumeRequest{
				Kind:            entity.LotKindMenuItem,
				EntityID:        item.MenuItemID,
				Quantity:        item.Quantity,
				Type:            entity.MovementTypeOUT,
				Order:           OrderByExpiration,
				Reason:          "Ticket " + ticketID,
				RelatedTicketID: &ticketID,
			}, companyID, userID)
			if err != nil {
				return err
			}
			movs = append(movs, out...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movs, nil
}
