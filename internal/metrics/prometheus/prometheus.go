// Package prometheus exports service metrics through client_golang.
package prometheus

import (
	"strconv"
	"time"

	"cashbook/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

var _ metrics.Collector = (*PrometheusCollector)(nil)

// PrometheusCollector implements metrics.Collector for Prometheus.
type PrometheusCollector struct {
	requests        *prometheus.CounterVec
	requestLatency  *prometheus.HistogramVec
	summaries       *prometheus.CounterVec
	summaryLatency  *prometheus.HistogramVec
	listedPerSearch prometheus.Histogram
	mutations       *prometheus.CounterVec
}

// NewPrometheusCollector creates a collector whose metric names are prefixed with namespace.
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	return &PrometheusCollector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by method and route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		summaries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summary_computations_total",
				Help:      "Total number of summaries computed by report period mode",
			},
			[]string{"mode"},
		),
		summaryLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "summary_duration_seconds",
				Help:      "Time spent computing a summary by report period mode",
				Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"mode"},
		),
		listedPerSearch: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "summary_listed_transactions",
				Help:      "Number of transactions listed per summary",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
			},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Total number of successful writes by resource and action",
			},
			[]string{"resource", "action"},
		),
	}
}

// Register registers all metrics with the given Prometheus registry.
func (pc *PrometheusCollector) Register(registry prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		pc.requests,
		pc.requestLatency,
		pc.summaries,
		pc.summaryLatency,
		pc.listedPerSearch,
		pc.mutations,
	}

	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}

	return nil
}

// RecordRequest records a served HTTP request.
func (pc *PrometheusCollector) RecordRequest(method, route string, status int, duration time.Duration) {
	pc.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	pc.requestLatency.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSummary records one engine computation.
func (pc *PrometheusCollector) RecordSummary(mode string, listed int, duration time.Duration) {
	pc.summaries.WithLabelValues(mode).Inc()
	pc.summaryLatency.WithLabelValues(mode).Observe(duration.Seconds())
	pc.listedPerSearch.Observe(float64(listed))
}

// RecordMutation records a successful create, update or delete.
func (pc *PrometheusCollector) RecordMutation(resource, action string) {
	pc.mutations.WithLabelValues(resource, action).Inc()
}
