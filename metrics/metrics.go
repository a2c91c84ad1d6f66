package metrics

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "expired_listings"

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// HTTPMetrics holds Prometheus metrics for HTTP request tracking.
type HTTPMetrics struct {
	RequestDuration *prometheus.HistogramVec
	RequestsTotal   *prometheus.CounterVec
	InFlightGauge   prometheus.Gauge
}

// NewHTTPMetrics creates and registers HTTP metrics on the given registry.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status_code"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status_code"}),
		InFlightGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of HTTP requests currently being processed.",
		}),
	}

	reg.MustRegister(m.RequestDuration, m.RequestsTotal, m.InFlightGauge)
	return m
}

// Middleware returns an Echo middleware that records HTTP metrics.
// It skips /metrics and /health/* endpoints.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Path()
			if path == "/metrics" || strings.HasPrefix(path, "/health/") {
				return next(c)
			}

			m.InFlightGauge.Inc()
			defer m.InFlightGauge.Dec()

			timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
				status := strconv.Itoa(c.Response().Status)
				m.RequestDuration.WithLabelValues(c.Request().Method, path, status).Observe(v)
				m.RequestsTotal.WithLabelValues(c.Request().Method, path, status).Inc()
			}))

			err := next(c)
			timer.ObserveDuration()
			return err
		}
	}
}

// AnalysisMetrics tracks analysis outcomes.
type AnalysisMetrics struct {
	AnalysesTotal *prometheus.CounterVec
	RowsLoaded    *prometheus.CounterVec
	ExpiredFound  prometheus.Histogram
	ExportsTotal  *prometheus.CounterVec
}

// NewAnalysisMetrics creates and registers analysis metrics on the given registry.
func NewAnalysisMetrics(reg prometheus.Registerer) *AnalysisMetrics {
	m := &AnalysisMetrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Analyses attempted, by result.",
		}, []string{"result"}),
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "rows_loaded_total",
			Help:      "CSV rows loaded, by export.",
		}, []string{"source"}),
		ExpiredFound: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "expired_listings",
			Help:      "Expired, unlisted properties found per analysis.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		ExportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "exports_total",
			Help:      "Result exports served, by format.",
		}, []string{"format"}),
	}

	reg.MustRegister(m.AnalysesTotal, m.RowsLoaded, m.ExpiredFound, m.ExportsTotal)
	return m
}
