package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/pkg/logger"
)

// ProductionUseCase traduce la producción de un turno en movimientos: acredita el producto
// del menú y descuenta los insumos de su receta.
type ProductionUseCase struct {
	txRunner TxRunner
	ledger   *RegisterMovementUseCase
	log      *logger.Logger
}

// NewProductionUseCase construye el caso de uso.
func NewProductionUseCase(txRunner TxRunner, ledger *RegisterMovementUseCase, log *logger.Logger) *ProductionUseCase {
	return &ProductionUseCase{txRunner: txRunner, ledger: ledger, log: log}
}

// ProductionInput cantidad producida de un producto del menú en un turno.
type ProductionInput struct {
	MenuItemID string
	Quantity   decimal.Decimal
	ShiftID    string
}

// RegisterProduction registra la corrida completa en una transacción; si falta algún insumo
// no queda ningún movimiento.
func (uc *ProductionUseCase) RegisterProduction(ctx context.Context, in ProductionInput, companyID, userID string) ([]*entity.StockMovement, error) {
	if in.MenuItemID == "" {
		return nil, domain.Invalid("menu_item_id es obligatorio")
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.Invalid("quantity debe ser mayor que cero")
	}
	if err := domain.CheckScale("quantity", in.Quantity); err != nil {
		return nil, err
	}

	var movs []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(uow *UnitOfWork) error {
		var err error
		movs, err = uc.RegisterProductionInTx(ctx, uow, in, companyID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return movs, nil
}

// RegisterProductionInTx ingresa lo producido al lote del día (al precio del producto) y
// descuenta cantidadReceta x producido de cada insumo, por vencimiento.
func (uc *ProductionUseCase) RegisterProductionInTx(
	ctx context.Context,
	uow *UnitOfWork,
	in ProductionInput,
	companyID, userID string,
) ([]*entity.StockMovement, error) {
	item, err := uow.MenuItems.GetByID(ctx, in.MenuItemID, companyID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound(fmt.Sprintf("producto del menú %s", in.MenuItemID))
	}
	recipe, err := uow.MenuItems.ListRecipe(ctx, in.MenuItemID, companyID)
	if err != nil {
		return nil, err
	}

	price := item.Price
	inMov, err := uc.ledger.RegisterMovementInTx(ctx, uow, MovementRequest{
		MenuItemID: item.ID,
		Type:       entity.MovementTypeIN,
		Quantity:   in.Quantity,
		LotNumber:  ProductionLotNumber(time.Now()),
		UnitCost:   &price,
		Reason:     "Producción",
	}, companyID, userID)
	if err != nil {
		return nil, err
	}
	movs := []*entity.StockMovement{inMov}

	for _, line := range recipe {
		out, err := uc.ledger.ConsumeInTx(ctx, uow, ConsumeRequest{
			Kind:     entity.LotKindIngredient,
			EntityID: line.IngredientID,
			Quantity: consumedByRecipe(line.Quantity, in.Quantity),
			Type:     entity.MovementTypeOUT,
			Order:    OrderByExpiration,
			Unit:     line.Unit,
			Reason:   "Producción: " + item.Name,
		}, companyID, userID)
		if err != nil {
			return nil, err
		}
		movs = append(movs, out...)
	}

	uow.AfterCommit(func() {
		uc.log.Info().
			Str("company_id", companyID).
			Str("menu_item_id", item.ID).
			Str("shift_id", in.ShiftID).
			Str("quantity", in.Quantity.String()).
			Int("movements", len(movs)).
			Msg("producción registrada")
	})
	return movs, nil
}

// consumedByRecipe cantidad de insumo para lo producido, redondeada hacia arriba a la escala
// del libro: el lote nunca queda con más de lo que realmente se usó.
func consumedByRecipe(perUnit, produced decimal.Decimal) decimal.Decimal {
	return perUnit.Mul(produced).RoundCeil(domain.QuantityScale)
}

// ProductionLotNumber lote diario donde se acumula la producción.
func ProductionLotNumber(t time.Time) string {
	return "PROD-" + t.Format("20060102")
}
