// Package metrics exposes Prometheus collectors for dataset loads and
// dashboard requests on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "enrollboard"

// Load outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
)

// Metrics holds the application's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	dashboardRequests *prometheus.CounterVec
	aggregation       *prometheus.HistogramVec
	loads             *prometheus.CounterVec
	records           prometheus.Gauge
}

// New builds the collectors and registers them with Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)
	m := &Metrics{
		registry: reg,
		dashboardRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dashboard_requests_total",
			Help:      "Dashboard bundles served, by tab.",
		}, []string{"tab"}),
		aggregation: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "aggregation_duration_seconds",
			Help:      "Time spent filtering and aggregating one bundle.",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"tab"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset loads, by outcome.",
		}, []string{"outcome"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Records in the current dataset.",
		}),
	}
	reg.MustRegister(m.dashboardRequests, m.aggregation, m.loads, m.records)
	return m
}

// ObserveDashboard counts one bundle for tab and records how long it took.
func (m *Metrics) ObserveDashboard(tab string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.dashboardRequests.WithLabelValues(tab).Inc()
	m.aggregation.WithLabelValues(tab).Observe(elapsed.Seconds())
}

// ObserveLoad records a dataset load. An empty dataset counts as degraded.
func (m *Metrics) ObserveLoad(records int) {
	if m == nil {
		return
	}
	outcome := OutcomeOK
	if records == 0 {
		outcome = OutcomeDegraded
	}
	m.loads.WithLabelValues(outcome).Inc()
	m.records.Set(float64(records))
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
