package metrics_test

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
	"github.com/jhoicas/Comedor-api/internal/infrastructure/metrics"
)

func TestLedgerMetrics_CuentaMovimientosYRechazos(t *testing.T) {
	m := metrics.NewLedgerMetrics()

	m.MovementRegistered(&entity.StockMovement{Type: entity.MovementTypeIN, Kind: entity.LotKindIngredient})
	m.MovementRegistered(&entity.StockMovement{Type: entity.MovementTypeIN, Kind: entity.LotKindIngredient})
	m.MovementRejected(entity.MovementTypeOUT, &domain.InsufficientStockError{})
	m.MovementRejected(entity.MovementTypeOUT, errors.New("conexión perdida"))

	count, err := testutil.GatherAndCount(m.Registry(), "comedor_stock_movements_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "una sola serie IN/INGREDIENT")
	count, err = testutil.GatherAndCount(m.Registry(), "comedor_stock_movement_rejections_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "insufficient_stock e internal")
}

func TestLedgerMetrics_AuditoriasYHandler(t *testing.T) {
	m := metrics.NewLedgerMetrics()
	m.AuditRecorded(&entity.StockAudit{AuditType: entity.LotKindIngredient, Difference: decimal.NewFromInt(3)}, 1)
	m.AuditRecorded(&entity.StockAudit{AuditType: entity.LotKindIngredient, Difference: decimal.NewFromInt(-2)}, 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `comedor_stock_audits_total{audit_type="INGREDIENT",result="shortage"} 1`)
	assert.Contains(t, string(body), `comedor_stock_audits_total{audit_type="INGREDIENT",result="surplus"} 1`)
	assert.Contains(t, string(body), "comedor_stock_audit_difference_abs_count")
}
