// Package metrics exposes Prometheus collectors for the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Extraction outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
)

// Metrics holds all collectors.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec

	Extractions       *prometheus.CounterVec
	ExtractionLatency prometheus.Histogram

	CampaignsImported prometheus.Counter
	StateSaves        *prometheus.CounterVec

	Campaigns prometheus.Gauge
	Products  prometheus.Gauge
}

// New creates all collectors on a fresh registry together with the Go and
// process collectors.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route pattern, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		HTTPLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		Extractions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extractions_total",
				Help:      "Message extractions by outcome",
			},
			[]string{"outcome"},
		),
		ExtractionLatency: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "extraction_duration_seconds",
				Help:      "Completion service round trip in seconds",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),
		CampaignsImported: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "campaigns_imported_total",
				Help:      "Campaign rows appended by bulk import",
			},
		),
		StateSaves: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "state_saves_total",
				Help:      "State persistence attempts by result",
			},
			[]string{"result"},
		),
		Campaigns: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "campaigns",
				Help:      "Campaigns currently stored",
			},
		),
		Products: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "products",
				Help:      "Products currently stored",
			},
		),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, code int, took time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.HTTPLatency.WithLabelValues(route).Observe(took.Seconds())
}

// ObserveExtraction records one extraction attempt.
func (m *Metrics) ObserveExtraction(outcome string, took time.Duration) {
	m.Extractions.WithLabelValues(outcome).Inc()
	m.ExtractionLatency.Observe(took.Seconds())
}

// ObserveSave records a persistence attempt.
func (m *Metrics) ObserveSave(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.StateSaves.WithLabelValues(result).Inc()
}

// SetSizes updates the collection gauges.
func (m *Metrics) SetSizes(campaigns, products int) {
	m.Campaigns.Set(float64(campaigns))
	m.Products.Set(float64(products))
}
