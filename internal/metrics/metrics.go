// Package metrics holds the Prometheus collectors for briefing runs.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Runs             *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	SourceFailures   *prometheus.CounterVec
	RewriteFallbacks prometheus.Counter
	Deliveries       *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg creates unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "briefing_runs_total",
			Help: "Briefing pipeline runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "briefing_run_duration_seconds",
			Help:    "Wall time of a full briefing run.",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 120},
		}),
		SourceFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "briefing_source_failures_total",
			Help: "Failed upstream fetches by source.",
		}, []string{"source"}),
		RewriteFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "briefing_rewrite_fallbacks_total",
			Help: "Rewritten compositions that fell back to the template.",
		}),
		Deliveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "briefing_deliveries_total",
			Help: "Notification delivery attempts by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveRun(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(d.Seconds())
}

func (m *Metrics) SourceFailed(source string) {
	if m == nil {
		return
	}
	m.SourceFailures.WithLabelValues(source).Inc()
}

func (m *Metrics) RewriteFellBack() {
	if m == nil {
		return
	}
	m.RewriteFallbacks.Inc()
}

func (m *Metrics) Delivered(ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.Deliveries.WithLabelValues(result).Inc()
}
