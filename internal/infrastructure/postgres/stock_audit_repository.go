package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/domain/repository"
)

var _ repository.StockAuditRepository = (*StockAuditRepo)(nil)

// StockAuditRepo auditorías de stock.
type StockAuditRepo struct {
	q Querier
}

// NewStockAuditRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockAuditRepository(q Querier) *StockAuditRepo {
	return &StockAuditRepo{q: q}
}

// Create persiste la auditoría.
func (r *StockAuditRepo) Create(ctx context.Context, a *entity.StockAudit) error {
	query := `
		INSERT INTO stock_audits (id, company_id, audit_type, entity_id, theoretical_stock, physical_stock,
			difference, unit_cost_at_audit, observations, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.CompanyID, string(a.AuditType), a.EntityID, a.TheoreticalStock, a.PhysicalStock,
		a.Difference, a.UnitCostAtAudit, a.Observations, a.PerformedBy, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflict("auditoría duplicada " + a.ID)
		}
		return fmt.Errorf("create stock audit: %w", err)
	}
	return nil
}

// GetByID obtiene una auditoría de la empresa; nil si no existe.
func (r *StockAuditRepo) GetByID(ctx context.Context, id, companyID string) (*entity.StockAudit, error) {
	query := `
		SELECT id, company_id, audit_type, entity_id, theoretical_stock, physical_stock,
			difference, unit_cost_at_audit, observations, performed_by, created_at
		FROM stock_audits WHERE id = $1 AND company_id = $2`
	var a entity.StockAudit
	var auditType string
	err := r.q.QueryRow(ctx, query, id, companyID).Scan(
		&a.ID, &a.CompanyID, &auditType, &a.EntityID, &a.TheoreticalStock, &a.PhysicalStock,
		&a.Difference, &a.UnitCostAtAudit, &a.Observations, &a.PerformedBy, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock audit: %w", err)
	}
	a.AuditType = entity.LotKind(auditType)
	return &a, nil
}
