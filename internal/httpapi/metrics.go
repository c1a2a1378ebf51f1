package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments the resolution pipeline.
type Metrics struct {
	resolutions *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewMetrics registers resolver metrics on the given registerer. Queue and
// session gauges are registered by the server so they can read live state.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "livehls",
			Name:      "resolutions_total",
			Help:      "Resolution outcomes by status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "livehls",
			Name:      "resolution_duration_seconds",
			Help:      "End-to-end resolution latency, queue wait included.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 45, 90},
		}),
	}
	reg.MustRegister(m.resolutions, m.duration)
	return m
}

func (m *Metrics) observe(status string, seconds float64) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(status).Inc()
	m.duration.Observe(seconds)
}
