package httptransport

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the client-side request metrics of a Transport.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the request metrics and registers them with reg.
// A nil reg leaves them unregistered, which is convenient in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agama",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Requests sent to the configuration service by method and status code.",
		}, []string{"method", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agama",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Duration of requests sent to the configuration service.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.duration)
	}
	return m
}

// observe is a no-op on a nil receiver. A zero code means no response.
func (m *Metrics) observe(method string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if code > 0 {
		label = strconv.Itoa(code)
	}
	m.requests.WithLabelValues(method, label).Inc()
	m.duration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Requests returns the request counter, for inspection in tests
func (m *Metrics) Requests() *prometheus.CounterVec {
	return m.requests
}
