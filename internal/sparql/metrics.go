package sparql

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors for endpoint traffic.
// A nil *Metrics disables collection.
type Metrics struct {
	queries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the client collectors.
// Returns nil when reg is nil.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ldx",
			Subsystem: "sparql",
			Name:      "queries_total",
			Help:      "SPARQL queries sent, by kind and outcome",
		}, []string{"kind", "outcome"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ldx",
			Subsystem: "sparql",
			Name:      "query_duration_seconds",
			Help:      "SPARQL round-trip latency",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind"}),
	}

	reg.MustRegister(m.queries, m.duration)
	return m
}

func (m *Metrics) observe(kind, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.queries.WithLabelValues(kind, outcome).Inc()
	m.duration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// outcomeOf classifies err for the outcome label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsRateLimited(err):
		return "rate_limited"
	default:
		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return "http_error"
		}
		return "error"
	}
}
