package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Metrics reúne as métricas Prometheus da reconciliação.
// Um *Metrics nulo é válido e simplesmente não registra nada.
type Metrics struct {
	registry *prometheus.Registry

	Reconciliations   *prometheus.CounterVec
	AttributedRevenue *prometheus.CounterVec
	AuditFailures     prometheus.Counter
	LedgerLatency     *prometheus.HistogramVec
	SaleSyncRuns      *prometheus.CounterVec
	DeliverySyncRuns  *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Reconciliations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconciliations_total",
				Help:      "Vendas reconciliadas por plataforma e desfecho",
			},
			[]string{"platform", "status"},
		),
		AttributedRevenue: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "attributed_revenue_total",
				Help:      "Receita somada ao ledger por plataforma",
			},
			[]string{"platform"},
		),
		AuditFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_failures_total",
				Help:      "Falhas ao gravar a auditoria de atribuição",
			},
		),
		LedgerLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ledger_latency_seconds",
				Help:      "Latência das operações no ledger de métricas",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		SaleSyncRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sale_sync_runs_total",
				Help:      "Execuções da sincronização de vendas por resultado",
			},
			[]string{"result"},
		),
		DeliverySyncRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "delivery_sync_runs_total",
				Help:      "Execuções da sincronização de entrega dos anúncios por resultado",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) ObserveReconciliation(platform, status string, revenue decimal.Decimal) {
	if m == nil {
		return
	}
	m.Reconciliations.WithLabelValues(platform, status).Inc()
	if revenue.IsPositive() {
		m.AttributedRevenue.WithLabelValues(platform).Add(revenue.InexactFloat64())
	}
}

func (m *Metrics) ObserveAuditFailure() {
	if m == nil {
		return
	}
	m.AuditFailures.Inc()
}

func (m *Metrics) ObserveLedger(operation string, started time.Time) {
	if m == nil {
		return
	}
	m.LedgerLatency.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveSaleSync(result string) {
	if m == nil {
		return
	}
	m.SaleSyncRuns.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveDeliverySync(result string) {
	if m == nil {
		return
	}
	m.DeliverySyncRuns.WithLabelValues(result).Inc()
}

// Handler expõe o registro em /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry permite inspecionar as métricas nos testes
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
