// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	CompletionRequests *prometheus.CounterVec
	CompletionTokens   prometheus.Counter
	CompletionLatency  prometheus.Histogram
	HTTPRequests       *prometheus.CounterVec
	HTTPLatency        *prometheus.HistogramVec
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		CompletionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codementor",
			Name:      "completion_requests_total",
			Help:      "Completion gateway calls by outcome.",
		}, []string{"outcome"}),
		CompletionTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "codementor",
			Name:      "completion_tokens_total",
			Help:      "Tokens reported by the completion provider.",
		}),
		CompletionLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "codementor",
			Name:      "completion_duration_seconds",
			Help:      "Latency of completion provider calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codementor",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status.",
		}, []string{"route", "method", "status"}),
		HTTPLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "codementor",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(
		m.CompletionRequests,
		m.CompletionTokens,
		m.CompletionLatency,
		m.HTTPRequests,
		m.HTTPLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler returns an http.Handler for Prometheus scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCompletion records one gateway call. Safe on a nil receiver.
func (m *Metrics) ObserveCompletion(outcome string, tokens int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.CompletionRequests.WithLabelValues(outcome).Inc()
	m.CompletionLatency.Observe(elapsed.Seconds())
	if tokens > 0 {
		m.CompletionTokens.Add(float64(tokens))
	}
}

// ObserveHTTP records one served request. Safe on a nil receiver.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
