// Package metrics exposes controller counters in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "spese"

// Result labels.
const (
	ResultOK       = "ok"
	ResultInvalid  = "invalid"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	registry  *prometheus.Registry
	submits   *prometheus.CounterVec
	deletes   *prometheus.CounterVec
	refreshes *prometheus.CounterVec
	refreshed prometheus.Histogram
	charts    prometheus.Gauge
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	limited   prometheus.Counter
}

// New registers the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submits_total",
			Help:      "Expense submissions by result.",
		}, []string{"result"}),
		deletes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletes_total",
			Help:      "Expense deletions by store result. Rows are removed regardless.",
		}, []string{"result"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_refreshes_total",
			Help:      "Chart refreshes by result.",
		}, []string{"result"}),
		refreshed: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chart_refresh_duration_seconds",
			Help:      "Time from fetch start to chart redraw.",
			Buckets:   prometheus.DefBuckets,
		}),
		charts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_charts",
			Help:      "Chart instances currently alive. Anything above 1 is a leak.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests served by the web front by route and status code.",
		}, []string{"route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Request latency by route, upstream time included for proxied routes.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		limited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests refused by the rate limiter.",
		}),
	}
	m.registry.MustRegister(m.submits, m.deletes, m.refreshes, m.refreshed, m.charts,
		m.requests, m.latency, m.limited)
	return m
}

func (m *Metrics) Submit(result string) {
	if m == nil {
		return
	}
	m.submits.WithLabelValues(result).Inc()
}

func (m *Metrics) Delete(result string) {
	if m == nil {
		return
	}
	m.deletes.WithLabelValues(result).Inc()
}

func (m *Metrics) Refresh(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(result).Inc()
	if result == ResultOK {
		m.refreshed.Observe(d.Seconds())
	}
}

func (m *Metrics) ChartCreated() {
	if m == nil {
		return
	}
	m.charts.Inc()
}

func (m *Metrics) ChartDestroyed() {
	if m == nil {
		return
	}
	m.charts.Dec()
}

// HTTPRequest records one request served by the web front. route is the
// mux pattern, never the raw path, to keep label cardinality bounded.
func (m *Metrics) HTTPRequest(route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.limited.Inc()
}

// Registry returns the private registry, for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
