package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records counters for the order lifecycle and its best-effort
// side effects.
type OrderMetrics struct {
	created        *prometheus.CounterVec
	statusUpdates  *prometheus.CounterVec
	settled        prometheus.Counter
	sideEffectFail *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, labeled by payment method.",
	}, []string{"payment_method"})
	statusUpdates := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_updates_total",
		Help: "Order status updates, labeled by target status.",
	}, []string{"status"})
	settled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "affiliate_earnings_settled_total",
		Help: "Affiliate earnings confirmed at delivery.",
	})
	sideEffectFail := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_side_effect_failures_total",
		Help: "Best-effort side effects that failed, labeled by effect.",
	}, []string{"effect"})
	reg.MustRegister(created, statusUpdates, settled, sideEffectFail)
	return &OrderMetrics{
		created:        created,
		statusUpdates:  statusUpdates,
		settled:        settled,
		sideEffectFail: sideEffectFail,
	}
}

// IncCreated counts a created order for a payment method.
func (m *OrderMetrics) IncCreated(paymentMethod string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncStatusUpdate counts a status update toward the target status.
func (m *OrderMetrics) IncStatusUpdate(status string) {
	if m == nil || m.statusUpdates == nil {
		return
	}
	m.statusUpdates.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncSettled counts a confirmed affiliate earning.
func (m *OrderMetrics) IncSettled() {
	if m == nil || m.settled == nil {
		return
	}
	m.settled.Inc()
}

// IncSideEffectFailure counts a swallowed side-effect failure.
func (m *OrderMetrics) IncSideEffectFailure(effect string) {
	if m == nil || m.sideEffectFail == nil {
		return
	}
	m.sideEffectFail.WithLabelValues(normalizeLabel(effect)).Inc()
}

func normalizeLabel(value string) string {
	label := strings.TrimSpace(strings.ToLower(value))
	if label == "" {
		return "unknown"
	}
	return strings.ReplaceAll(label, " ", "_")
}
