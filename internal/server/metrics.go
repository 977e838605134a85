package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type serverMetrics struct {
	requests   *prometheus.CounterVec
	pending    *prometheus.GaugeVec
	generation *prometheus.GaugeVec
}

func newServerMetrics(reg prometheus.Registerer, hub *Hub) *serverMetrics {
	m := &serverMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agama",
			Subsystem: "service",
			Name:      "requests_total",
			Help:      "Requests handled by root, operation and status code.",
		}, []string{"root", "op", "code"}),
		pending: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "agama",
			Subsystem: "service",
			Name:      "pending_changes",
			Help:      "Writes accumulated since the last apply.",
		}, []string{"root"}),
		generation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "agama",
			Subsystem: "service",
			Name:      "generation",
			Help:      "Number of applies performed.",
		}, []string{"root"}),
	}

	reg.MustRegister(
		m.requests,
		m.pending,
		m.generation,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "agama",
			Subsystem: "service",
			Name:      "event_subscribers",
			Help:      "Connected event stream subscribers.",
		}, func() float64 { return float64(hub.Subscribers()) }),
		collectors.NewGoCollector(),
	)
	return m
}

func (m *serverMetrics) setState(root string, pending int, generation uint64) {
	m.pending.WithLabelValues(root).Set(float64(pending))
	m.generation.WithLabelValues(root).Set(float64(generation))
}
