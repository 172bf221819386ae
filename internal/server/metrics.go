package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks websocket sessions.
type Metrics struct {
	sessions prometheus.Gauge
	messages *prometheus.CounterVec
}

// NewMetrics registers session metrics with reg. A nil registry disables
// metrics and returns nil.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ldx",
			Subsystem: "server",
			Name:      "sessions_active",
			Help:      "Open websocket explorer sessions",
		}),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ldx",
			Subsystem: "server",
			Name:      "ws_messages_total",
			Help:      "Websocket messages by direction and type",
		}, []string{"direction", "type"}),
	}
	reg.MustRegister(m.sessions, m.messages)
	return m
}

func (m *Metrics) sessionOpened() {
	if m != nil {
		m.sessions.Inc()
	}
}

func (m *Metrics) sessionClosed() {
	if m != nil {
		m.sessions.Dec()
	}
}

func (m *Metrics) message(direction, typ string) {
	if m != nil {
		m.messages.WithLabelValues(direction, typ).Inc()
	}
}
