// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	UpstreamRequestsTotal *prometheus.CounterVec
	RecordsInsertedTotal  prometheus.Counter
	KPICacheTotal         *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates the collectors and registers them on registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medplat_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "medplat_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		UpstreamRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medplat_genai_requests_total",
				Help: "Generative AI calls by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		RecordsInsertedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "medplat_records_inserted_total",
				Help: "Records inserted through uploads",
			},
		),
		KPICacheTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "medplat_kpi_cache_total",
				Help: "KPI suggestion cache lookups by result",
			},
			[]string{"result"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.UpstreamRequestsTotal,
		m.RecordsInsertedTotal,
		m.KPICacheTotal,
	)
	return m
}

// Handler serves the registry in the exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
