package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/repository"
)

var _ repository.WasteLogRepository = (*WasteLogRepo)(nil)

// WasteLogRepo registros de merma.
type WasteLogRepo struct {
	q Querier
}

// NewWasteLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWasteLogRepository(q Querier) *WasteLogRepo {
	return &WasteLogRepo{q: q}
}

// Create persiste la merma apuntando al lote de su tipo.
func (r *WasteLogRepo) Create(ctx context.Context, w *entity.WasteLog) error {
	var ingredientLotID, menuItemLotID *int64
	lotID := w.LotID
	if w.Kind == entity.LotKindMenuItem {
		menuItemLotID = &lotID
	} else {
		ingredientLotID = &lotID
	}
	query := `
		INSERT INTO waste_logs (id, company_id, ingredient_lot_id, menu_item_lot_id, entity_id, quantity, unit,
			reason, notes, log_date, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		w.ID, w.CompanyID, ingredientLotID, menuItemLotID, w.EntityID, w.Quantity, w.Unit,
		string(w.Reason), w.Notes, w.LogDate, w.PerformedBy, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create waste log: %w", err)
	}
	return nil
}
