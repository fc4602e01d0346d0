package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	// Requests counts processed fragments by mode and status.
	// Labels: mode (extract, rewrite), status (ok, error)
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codetok",
		Subsystem: "processor",
		Name:      "requests_total",
		Help:      "Total processed fragments by mode and status",
	}, []string{"mode", "status"})

	// WrapLevels counts the wrap level each fragment was accepted at.
	// Labels: level (RAW, CLASS, CLASS+METHOD)
	WrapLevels = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codetok",
		Subsystem: "parser",
		Name:      "wrap_level_total",
		Help:      "Accepted fragments by wrap level",
	}, []string{"level"})

	// CallResolutions counts method call outcomes.
	// Labels: outcome (resolved, suppressed, hinted, unknown, dropped)
	CallResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "codetok",
		Subsystem: "resolver",
		Name:      "call_resolution_total",
		Help:      "Method call resolution outcomes",
	}, []string{"outcome"})

	// ProcessSeconds measures per-fragment processing latency.
	// Labels: mode
	ProcessSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "codetok",
		Subsystem: "processor",
		Name:      "process_seconds",
		Help:      "Per-fragment processing latency",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"mode"})
)

// RecordRequest records one processed fragment.
func RecordRequest(mode string, ok bool, seconds float64) {
	status := "ok"
	if !ok {
		status = "error"
	}
	Requests.WithLabelValues(mode, status).Inc()
	ProcessSeconds.WithLabelValues(mode).Observe(seconds)
}
