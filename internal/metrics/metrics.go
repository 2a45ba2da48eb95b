package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ModeAtomic = "atomic"
	ModeSaga   = "saga"

	CompensationOK     = "ok"
	CompensationFailed = "failed"
)

// Metrics は注文まわりのカウンタ。nilのままでも呼べる。
type Metrics struct {
	registry *prometheus.Registry

	ordersCreated     *prometheus.CounterVec
	orderFailures     *prometheus.CounterVec
	compensations     *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	guardRejections   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ordersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "orders_created_total",
			Help:      "Orders created, by creation mode.",
		}, []string{"mode"}),
		orderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "order_create_failures_total",
			Help:      "Order creations that failed, by error kind.",
		}, []string{"kind"}),
		compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "order_compensations_total",
			Help:      "Header deletions after a failed item write, by result.",
		}, []string{"result"}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "order_status_transitions_total",
			Help:      "Applied order status transitions.",
		}, []string{"from", "to"}),
		guardRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crm",
			Name:      "delete_guard_rejections_total",
			Help:      "Deletes refused because the record is still referenced.",
		}, []string{"resource"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ordersCreated,
		m.orderFailures,
		m.compensations,
		m.statusTransitions,
		m.guardRejections,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// /metrics 用
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) OrderCreated(mode string) {
	if m == nil {
		return
	}
	m.ordersCreated.WithLabelValues(mode).Inc()
}

func (m *Metrics) OrderCreateFailed(kind string) {
	if m == nil {
		return
	}
	m.orderFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) Compensation(result string) {
	if m == nil {
		return
	}
	m.compensations.WithLabelValues(result).Inc()
}

func (m *Metrics) StatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) GuardRejected(resource string) {
	if m == nil {
		return
	}
	m.guardRejections.WithLabelValues(resource).Inc()
}
