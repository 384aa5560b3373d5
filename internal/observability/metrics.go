package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "retail_dashboard"

// Metrics bundles the service collectors on a private registry so tests
// can build isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	DatasetRows       prometheus.Gauge
	DatasetColumns    prometheus.Gauge
	DatasetLoadsTotal prometheus.Counter
	ChartBuildsTotal  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status class.",
		}, []string{"route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		DatasetRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "dataset",
			Name:      "rows",
			Help:      "Rows in the current dataset snapshot.",
		}),
		DatasetColumns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "dataset",
			Name:      "columns",
			Help:      "Columns in the current dataset snapshot.",
		}),
		DatasetLoadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "dataset",
			Name:      "loads_total",
			Help:      "Completed dataset loads, initial and explicit reloads.",
		}),
		ChartBuildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "charts",
			Name:      "builds_total",
			Help:      "Chart spec builds by chart name and outcome.",
		}, []string{"chart", "outcome"}),
	}

	collectors := []prometheus.Collector{
		m.RequestsTotal,
		m.RequestDuration,
		m.DatasetRows,
		m.DatasetColumns,
		m.DatasetLoadsTotal,
		m.ChartBuildsTotal,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				panic(err)
			}
		}
	}
	return m
}

// Handler serves the registry in the standard exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveDataset records the shape of a freshly installed snapshot.
func (m *Metrics) ObserveDataset(rows, columns int) {
	m.DatasetRows.Set(float64(rows))
	m.DatasetColumns.Set(float64(columns))
	m.DatasetLoadsTotal.Inc()
}
