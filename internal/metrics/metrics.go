package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "email_guard"

// Metrics holds the Prometheus collectors of the service
//
// Each instance owns its registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	scans              *prometheus.CounterVec
	primaryOutcomes    *prometheus.CounterVec
	historyWriteErrors prometheus.Counter
	riskScore          prometheus.Histogram
	requestDuration    *prometheus.HistogramVec
}

// New creates and registers every collector
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Total number of emails scanned, by rule-based decision",
		}, []string{"decision"}),
		primaryOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "primary_classifier_total",
			Help:      "Primary classifier outcomes per scan",
		}, []string{"status"}),
		historyWriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_write_errors_total",
			Help:      "Total number of scans that could not be recorded in history",
		}),
		riskScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "risk_score",
			Help:      "Rule-based risk score of scanned emails",
			Buckets:   []float64{0, 15, 30, 45, 60, 90, 120, 180},
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.scans,
		m.primaryOutcomes,
		m.historyWriteErrors,
		m.riskScore,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveScan records one completed scan
func (m *Metrics) ObserveScan(decision string, riskScore int, primaryStatus string) {
	m.scans.WithLabelValues(decision).Inc()
	m.riskScore.Observe(float64(riskScore))
	m.primaryOutcomes.WithLabelValues(primaryStatus).Inc()
}

// HistoryWriteFailed counts a scan that was returned but not recorded
func (m *Metrics) HistoryWriteFailed() {
	m.historyWriteErrors.Inc()
}

// ObserveRequest records the latency of one HTTP request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
