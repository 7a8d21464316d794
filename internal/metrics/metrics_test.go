package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRun("delivered", 2*time.Second)
	m.SourceFailed("news")
	m.SourceFailed("news")
	m.RewriteFellBack()
	m.Delivered(true)
	m.Delivered(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Runs.WithLabelValues("delivered")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SourceFailures.WithLabelValues("news")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RewriteFallbacks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deliveries.WithLabelValues("failed")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 5)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRun("delivered", time.Second)
		m.SourceFailed("weather_current")
		m.RewriteFellBack()
		m.Delivered(true)
	})
}
