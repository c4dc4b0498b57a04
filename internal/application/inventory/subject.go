package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/repository"
)

// stockSubject vista común de un insumo o producto del menú dueño de lotes.
type stockSubject struct {
	Kind  entity.LotKind
	ID    string
	Name  string
	Unit  string
	Price decimal.Decimal
}

// loadSubject busca la entidad dentro de la empresa; si no existe devuelve ErrNotFound.
func loadSubject(
	ctx context.Context,
	ingredients repository.IngredientRepository,
	menuItems repository.MenuItemRepository,
	kind entity.LotKind,
	id, companyID string,
) (*stockSubject, error) {
	switch kind {
	case entity.LotKindIngredient:
		ing, err := ingredients.GetByID(ctx, id, companyID)
		if err != nil {
			return nil, err
		}
		if ing == nil {
			return nil, domain.NotFound(fmt.Sprintf("insumo %s", id))
		}
		return &stockSubject{Kind: kind, ID: ing.ID, Name: ing.Name, Unit: ing.Unit}, nil
	case entity.LotKindMenuItem:
		item, err := menuItems.GetByID(ctx, id, companyID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.NotFound(fmt.Sprintf("producto del menú %s", id))
		}
		return &stockSubject{Kind: kind, ID: item.ID, Name: item.Name, Unit: item.Unit, Price: item.Price}, nil
	}
	return nil, domain.Invalid(fmt.Sprintf("tipo desconocido: %q", kind))
}

// syncStock mantiene el caché de stock de la entidad igual a la suma de sus lotes.
func syncStock(ctx context.Context, uow *UnitOfWork, kind entity.LotKind, id, companyID string) error {
	if kind == entity.LotKindMenuItem {
		return uow.MenuItems.SyncStock(ctx, id, companyID)
	}
	return uow.Ingredients.SyncStock(ctx, id, companyID)
}

// targetRequest arma un MovementRequest apuntando a la entidad y, si se indica, a su lote.
func targetRequest(kind entity.LotKind, entityID string, lotID *int64) MovementRequest {
	if kind == entity.LotKindMenuItem {
		return MovementRequest{MenuItemID: entityID, MenuItemLotID: lotID}
	}
	return MovementRequest{IngredientID: entityID, IngredientLotID: lotID}
}
