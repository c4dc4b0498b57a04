package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de movimientos sobre stock_movements (solo inserción).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento. La fila guarda entidad y lote en las columnas de su tipo.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	var ingredientID, menuItemID *string
	var ingredientLotID, menuItemLotID *int64
	entityID, lotID := m.EntityID, m.LotID
	if m.Kind == entity.LotKindMenuItem {
		menuItemID, menuItemLotID = &entityID, &lotID
	} else {
		ingredientID, ingredientLotID = &entityID, &lotID
	}
	query := `
		INSERT INTO stock_movements (id, company_id, ingredient_id, menu_item_id, ingredient_lot_id, menu_item_lot_id,
			movement_type, quantity, unit, reason, related_ticket_id, audit_id, performed_by, stock_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, ingredientID, menuItemID, ingredientLotID, menuItemLotID,
		m.Type, m.Quantity, m.Unit, m.Reason, m.RelatedTicketID, m.AuditID, m.PerformedBy, m.StockAfter, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("movimiento duplicado " + m.ID)
		}
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// ListByEntity movimientos del insumo o producto, más recientes primero.
func (r *StockMovementRepo) ListByEntity(ctx context.Context, kind entity.LotKind, entityID, companyID string, limit, offset int) ([]*entity.StockMovement, error) {
	owner := "ingredient_id"
	if kind == entity.LotKindMenuItem {
		owner = "menu_item_id"
	}
	query := fmt.Sprintf(`
		SELECT id, company_id, COALESCE(ingredient_id, menu_item_id), COALESCE(ingredient_lot_id, menu_item_lot_id),
			movement_type, quantity, unit, reason, related_ticket_id, audit_id, performed_by, stock_after, created_at
		FROM stock_movements
		WHERE company_id = $1 AND %s = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`, owner)
	rows, err := r.q.Query(ctx, query, companyID, entityID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	list := []*entity.StockMovement{}
	for rows.Next() {
		m := entity.StockMovement{Kind: kind}
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.EntityID, &m.LotID, &m.Type, &m.Quantity, &m.Unit,
			&m.Reason, &m.RelatedTicketID, &m.AuditID, &m.PerformedBy, &m.StockAfter, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
