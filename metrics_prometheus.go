package jobdispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "jobdispatch"

// PrometheusMetrics exports dispatcher activity as Prometheus collectors.
type PrometheusMetrics struct {
	submitted prometheus.Counter
	finished  prometheus.Counter
	inFlight  prometheus.Gauge
}

// NewPrometheusMetrics registers the dispatcher collectors with reg.
// A nil reg creates unregistered collectors.
func NewPrometheusMetrics(reg prometheus.Registerer, labels prometheus.Labels) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		submitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "jobs_submitted_total",
			Help:        "Total number of jobs handed to workers.",
			ConstLabels: labels,
		}),
		finished: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   metricsNamespace,
			Name:        "jobs_finished_total",
			Help:        "Total number of results collected from workers.",
			ConstLabels: labels,
		}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "jobs_in_flight",
			Help:        "Jobs currently held by workers.",
			ConstLabels: labels,
		}),
	}
}

func (m *PrometheusMetrics) IncSubmitted()       { m.submitted.Inc() }
func (m *PrometheusMetrics) IncFinished()        { m.finished.Inc() }
func (m *PrometheusMetrics) SetInFlight(n int64) { m.inFlight.Set(float64(n)) }
