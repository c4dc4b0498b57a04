package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Comedor-api/internal/application/inventory"
	"github.com/jhoicas/Comedor-api/internal/domain"
	"github.com/jhoicas/Comedor-api/internal/domain/entity"
)

var _ inventory.LedgerObserver = (*LedgerMetrics)(nil)

// LedgerMetrics métricas Prometheus del libro de stock, en un registry propio.
type LedgerMetrics struct {
	registry   *prometheus.Registry
	movements  *prometheus.CounterVec
	rejections *prometheus.CounterVec
	audits     *prometheus.CounterVec
	difference *prometheus.HistogramVec
}

// NewLedgerMetrics registra los colectores del libro más los de proceso y runtime.
func NewLedgerMetrics() *LedgerMetrics {
	reg := prometheus.NewRegistry()
	m := &LedgerMetrics{
		registry: reg,
		movements: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "comedor",
			Subsystem: "stock",
			Name:      "movements_total",
			Help:      "Movimientos confirmados por tipo y clase de entidad.",
		}, []string{"type", "kind"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "comedor",
			Subsystem: "stock",
			Name:      "movement_rejections_total",
			Help:      "Movimientos rechazados por tipo y causa.",
		}, []string{"type", "cause"}),
		audits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "comedor",
			Subsystem: "stock",
			Name:      "audits_total",
			Help:      "Auditorías registradas por tipo y resultado (match, shortage, surplus).",
		}, []string{"audit_type", "result"}),
		difference: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "comedor",
			Subsystem: "stock",
			Name:      "audit_difference_abs",
			Help:      "Diferencia absoluta entre stock teórico y físico en auditorías.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500},
		}, []string{"audit_type"}),
	}
	reg.MustRegister(
		m.movements, m.rejections, m.audits, m.difference,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry para tests o para montar otros colectores.
func (m *LedgerMetrics) Registry() *prometheus.Registry { return m.registry }

// Handler expone el registry en formato Prometheus.
func (m *LedgerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *LedgerMetrics) MovementRegistered(mov *entity.StockMovement) {
	m.movements.WithLabelValues(mov.Type, string(mov.Kind)).Inc()
}

func (m *LedgerMetrics) MovementRejected(movementType string, err error) {
	m.rejections.WithLabelValues(movementType, rejectionCause(err)).Inc()
}

func (m *LedgerMetrics) AuditRecorded(a *entity.StockAudit, _ int) {
	result := "match"
	switch a.Difference.Sign() {
	case 1:
		result = "shortage"
	case -1:
		result = "surplus"
	}
	m.audits.WithLabelValues(string(a.AuditType), result).Inc()
	diff, _ := a.Difference.Abs().Round(4).Float64()
	m.difference.WithLabelValues(string(a.AuditType)).Observe(diff)
}

func rejectionCause(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	}
	return "internal"
}

