package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the rendering service.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Render pipeline metrics
	RendersTotal          *prometheus.CounterVec // labeled by content source: plain|markup
	MentionsResolvedTotal *prometheus.CounterVec // labeled by outcome: resolved|unresolved
	SanitizerRemovedTotal prometheus.Counter     // tags/attrs dropped by the sanitizer

	// Suggestion metrics
	SuggestionSearchesTotal prometheus.Counter
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all metrics. Safe to call more than
// once; registration happens a single time.
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
				},
				[]string{"method", "path", "status"},
			),
			RendersTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "content_renders_total",
					Help: "Post content renders by storage path",
				},
				[]string{"source"},
			),
			MentionsResolvedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "mentions_resolved_total",
					Help: "Mention tokens classified at render time",
				},
				[]string{"outcome"},
			),
			SanitizerRemovedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "sanitizer_removed_total",
					Help: "Tags and attributes removed by the markup sanitizer",
				},
			),
			SuggestionSearchesTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "mention_suggestion_searches_total",
					Help: "Username prefix searches issued for mention suggestions",
				},
			),
		}
	})
	return instance
}

// Get returns the metrics instance, initializing on first use.
func Get() *Metrics {
	return Initialize()
}
