// Package metrics holds the prometheus collectors for alignments and HTTP
// traffic. Every Collector owns a private registry, so tests and multiple
// servers in one process never collide on registration.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Alignment outcome labels.
const (
	StatusOK       = "ok"
	StatusRejected = "rejected" // caller input refused before the matrix is built
	StatusFailed   = "failed"   // internal failure, e.g. inconsistent traceback state
)

// Collector holds all prometheus metrics for the application.
type Collector struct {
	registry *prometheus.Registry

	// Alignment metrics
	Alignments        *prometheus.CounterVec
	AlignmentDuration *prometheus.HistogramVec
	MatrixCells       prometheus.Histogram

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates a Collector under namespace and registers everything on a
// fresh registry, including the Go runtime and process collectors.
func New(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Alignments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alignments_total",
				Help:      "Total number of alignment requests by mode and outcome",
			},
			[]string{"mode", "status"},
		),
		AlignmentDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "alignment_duration_seconds",
				Help:      "Time spent building, tracing and rendering one alignment",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"mode"},
		),
		MatrixCells: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "alignment_matrix_cells",
				Help:      "Number of score-matrix cells allocated per alignment",
				Buckets:   prometheus.ExponentialBuckets(16, 8, 8),
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	c.registry.MustRegister(
		c.Alignments,
		c.AlignmentDuration,
		c.MatrixCells,
		c.HTTPRequests,
		c.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// ObserveAlignment records one alignment outcome. cells is 0 when the
// request was rejected before allocation.
func (c *Collector) ObserveAlignment(mode, status string, cells int, d time.Duration) {
	if c == nil {
		return
	}
	c.Alignments.WithLabelValues(mode, status).Inc()
	if status == StatusOK {
		c.AlignmentDuration.WithLabelValues(mode).Observe(d.Seconds())
		c.MatrixCells.Observe(float64(cells))
	}
}

// ObserveHTTP records one finished HTTP request.
func (c *Collector) ObserveHTTP(method, route, status string, d time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// Registry exposes the private registry, mainly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
