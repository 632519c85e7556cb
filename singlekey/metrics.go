package singlekey

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records latency and failures of SingleKey API calls.
// A nil *Metrics records nothing.
type Metrics struct {
	requestTime *prometheus.HistogramVec
	failures    *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when reg is non-nil
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "singlekey_request_time_taken",
			Help:    "SingleKey API latency distributions by operation",
			Buckets: prometheus.LinearBuckets(0.25, 0.25, 20),
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "singlekey_request_failure",
			Help: "Total number of failed SingleKey API calls by operation and error kind.",
		}, []string{"operation", "kind"}),
	}

	if reg != nil {
		reg.MustRegister(m.requestTime, m.failures)
	}
	return m
}

func (m *Metrics) observe(operation string, elapsed time.Duration, apiErr *Error) {
	if m == nil {
		return
	}
	m.requestTime.WithLabelValues(operation).Observe(elapsed.Seconds())
	if apiErr != nil {
		m.failures.WithLabelValues(operation, apiErr.Kind.String()).Inc()
	}
}
