// Package metrics owns the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sniplink"

// Redirect outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeExpired  = "expired"
	OutcomeError    = "error"
)

// Link creation kinds.
const (
	KindCustom    = "custom"
	KindGenerated = "generated"
)

// Metrics groups the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	redirects    *prometheus.CounterVec
	linksCreated *prometheus.CounterVec
	qrRendered   prometheus.Counter
	httpDuration *prometheus.HistogramVec
	linksActive  prometheus.Gauge
	clicksTotal  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.redirects = m.registerCounter("redirects_total", "Redirect requests by outcome.", []string{"outcome"})
	m.linksCreated = m.registerCounter("links_created_total", "Links created by code kind.", []string{"kind"})
	m.qrRendered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "qr_rendered_total",
		Help:      "QR PNG images rendered.",
	})
	m.httpDuration = m.registerHistogram("http_request_duration_seconds", "HTTP request latency.",
		[]string{"method", "status"}, prometheus.DefBuckets)
	m.linksActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "links_active",
		Help:      "Active links in the store.",
	})
	m.clicksTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "clicks_total",
		Help:      "Clicks recorded on active links.",
	})

	m.registry.MustRegister(
		m.qrRendered,
		m.linksActive,
		m.clicksTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) registerCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)
	m.registry.MustRegister(counter)
	return counter
}

func (m *Metrics) registerHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	histogram := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
	m.registry.MustRegister(histogram)
	return histogram
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry (tests, extra collectors).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Redirect(outcome string) { m.redirects.WithLabelValues(outcome).Inc() }

func (m *Metrics) LinkCreated(custom bool) {
	kind := KindGenerated
	if custom {
		kind = KindCustom
	}
	m.linksCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) QRRendered() { m.qrRendered.Inc() }

func (m *Metrics) ObserveRequest(method string, status int, elapsed time.Duration) {
	m.httpDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// SetTotals updates the gauges refreshed by the stats job.
func (m *Metrics) SetTotals(activeLinks, clicks int64) {
	m.linksActive.Set(float64(activeLinks))
	m.clicksTotal.Set(float64(clicks))
}
