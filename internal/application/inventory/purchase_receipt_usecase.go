package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

// PurchaseReceiptUseCase recibe los ítems de una orden de compra como entradas a lotes.
type PurchaseReceiptUseCase struct {
	txRunner TxRunner
	ledger   *RegisterMovementUseCase
}

// NewPurchaseReceiptUseCase construye el caso de uso.
func NewPurchaseReceiptUseCase(txRunner TxRunner, ledger *RegisterMovementUseCase) *PurchaseReceiptUseCase {
	return &PurchaseReceiptUseCase{txRunner: txRunner, ledger: ledger}
}

// PurchaseReceiptItem un ítem recibido: exactamente uno de IngredientID/MenuItemID.
type PurchaseReceiptItem struct {
	IngredientID   string
	MenuItemID     string
	LotNumber      string
	Quantity       decimal.Decimal
	UnitCost       decimal.Decimal
	ExpirationDate *time.Time
	Unit           string
}

// PurchaseReceiptInput recepción de una orden de compra.
type PurchaseReceiptInput struct {
	PurchaseOrderID string
	Items           []PurchaseReceiptItem
}

// ReceivePurchase registra todos los ítems en una transacción: o entran todos o ninguno.
func (uc *PurchaseReceiptUseCase) ReceivePurchase(ctx context.Context, in PurchaseReceiptInput, companyID, userID string) ([]*entity.StockMovement, error) {
	if in.PurchaseOrderID == "" {
		return nil, domain.Invalid("purchase_order_id es obligatorio")
	}
	if len(in.Items) == 0 {
		return nil, domain.Invalid("la recepción no tiene ítems")
	}

	var movs []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(uow *UnitOfWork) error {
		movs = make([]*entity.StockMovement, 0, len(in.Items))
		for _, item := range in.Items {
			unitCost := item.UnitCost
			mov, err := uc.ledger.RegisterMovementInTx(ctx, uow, MovementRequest{
				IngredientID:   item.IngredientID,
				MenuItemID:     item.MenuItemID,
				Type:           entity.MovementTypeIN,
				Quantity:       item.Quantity,
				LotNumber:      item.LotNumber,
				UnitCost:       &unitCost,
				ExpirationDate: item.ExpirationDate,
				Unit:           item.Unit,
				Reason:         "Compra " + in.PurchaseOrderID,
			}, companyID, userID)
			if err != nil {
				return err
			}
			movs = append(movs, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return movs, nil
}
