package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain/repository"
)

// CountSheetRow una fila de la planilla de conteo físico. PhysicalStock nil = no contado.
type CountSheetRow struct {
	EntityID         string
	Name             string
	Unit             string
	TheoreticalStock decimal.Decimal
	PhysicalStock    *decimal.Decimal
}

// RowRunner ejecuta la auditoría de una fila; el handler HTTP pasa su reintentador de
// transacciones. nil la ejecuta una sola vez.
type RowRunner func(ctx context.Context, fn func(ctx context.Context) error) error

// CountSheetUseCase exporta planillas de conteo y las importa como auditorías.
type CountSheetUseCase struct {
	ingredients repository.IngredientRepository
	menuItems   repository.MenuItemRepository
	lots        repository.LotRepository
	audits      *AuditUseCase
	codec       CountSheetCodec
}

// NewCountSheetUseCase construye el caso de uso.
func NewCountSheetUseCase(
	ingredients repository.IngredientRepository,
	menuItems repository.MenuItemRepository,
	lots repository.LotRepository,
	audits *AuditUseCase,
	codec CountSheetCodec,
) *CountSheetUseCase {
	return &CountSheetUseCase{
		ingredients: ingredients,
		menuItems:   menuItems,
		lots:        lots,
		audits:      audits,
		codec:       codec,
	}
}

// Export genera la planilla con el stock teórico (suma de lotes) de cada entidad y la
// columna de conteo vacía.
func (uc *CountSheetUseCase) Export(ctx context.Context, companyID string, auditType entity.LotKind) ([]byte, error) {
	rows, err := uc.rows(ctx, companyID, auditType)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		lots, err := uc.lots.ListByEntity(ctx, auditType, rows[i].EntityID, companyID)
		if err != nil {
			return nil, err
		}
		rows[i].TheoreticalStock = inventory.TheoreticalStock(lots)
	}
	return uc.codec.Encode(auditType, rows)
}

// Import ejecuta una auditoría por cada fila contada, cada una en su propia transacción y
// a través de run. Ante el primer error devuelve las auditorías ya registradas y el error con la fila.
func (uc *CountSheetUseCase) Import(
	ctx context.Context,
	companyID, userID string,
	auditType entity.LotKind,
	data []byte,
	run RowRunner,
) ([]*AuditResult, error) {
	if !auditType.IsValid() {
		return nil, domain.Invalid(fmt.Sprintf("audit_type desconocido: %q", auditType))
	}
	rows, err := uc.codec.Decode(data)
	if err != nil {
		return nil, domain.Invalid(err.Error())
	}
	if run == nil {
		run = func(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
	}
	results := make([]*AuditResult, 0, len(rows))
	for i, row := range rows {
		if row.PhysicalStock == nil {
			continue
		}
		in := AuditInput{
			AuditType:     auditType,
			EntityID:      row.EntityID,
			PhysicalStock: *row.PhysicalStock,
			Observations:  "Conteo por planilla",
		}
		var res *AuditResult
		err := run(ctx, func(ctx context.Context) error {
			var err error
			res, err = uc.audits.HandleAudit(ctx, in, companyID, userID)
			return err
		})
		if err != nil {
			return results, fmt.Errorf("fila %d (%s): %w", i+2, row.EntityID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (uc *CountSheetUseCase) rows(ctx context.Context, companyID string, auditType entity.LotKind) ([]CountSheetRow, error) {
	var rows []CountSheetRow
	switch auditType {
	case entity.LotKindIngredient:
		list, err := uc.ingredients.ListByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		for _, ing := range list {
			rows = append(rows, CountSheetRow{EntityID: ing.ID, Name: ing.Name, Unit: ing.Unit})
		}
	case entity.LotKindMenuItem:
		list, err := uc.menuItems.ListByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		for _, item := range list {
			rows = append(rows, CountSheetRow{EntityID: item.ID, Name: item.Name, Unit: item.Unit})
		}
	default:
		return nil, domain.Invalid(fmt.Sprintf("audit_type desconocido: %q", auditType))
	}
	return rows, nil
}
