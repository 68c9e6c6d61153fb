package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOrderMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewOrderMetrics(reg)

	m.IncCreated("COD")
	m.IncCreated("COD")
	m.IncStatusUpdate("delivered")
	m.IncSettled()
	m.IncSideEffectFailure("invoice generate")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.created.WithLabelValues("cod")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.statusUpdates.WithLabelValues("delivered")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.settled))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sideEffectFail.WithLabelValues("invoice_generate")))
}

func TestOrderMetricsNilSafe(t *testing.T) {
	var m *OrderMetrics
	assert.NotPanics(t, func() {
		m.IncCreated("cod")
		m.IncStatusUpdate("pending")
		m.IncSettled()
		m.IncSideEffectFailure("settlement")
	})

	empty := NewOrderMetrics(nil)
	assert.NotPanics(t, func() { empty.IncSettled() })
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "credit_card", normalizeLabel(" Credit Card "))
	assert.Equal(t, "unknown", normalizeLabel(""))
}
