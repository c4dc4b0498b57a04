package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockAudit compara el stock teórico (suma de lotes) con el conteo físico.
// Difference = TheoreticalStock - PhysicalStock: positivo es faltante, negativo sobrante.
type StockAudit struct {
	ID               string
	CompanyID        string
	AuditType        LotKind
	EntityID         string
	TheoreticalStock decimal.Decimal
	PhysicalStock    decimal.Decimal
	Difference       decimal.Decimal
	UnitCostAtAudit  decimal.Decimal
	Observations     string
	PerformedBy      string
	CreatedAt        time.Time
}
