package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freigent_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "freigent_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	AgentsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "freigent_agents_registered_total",
			Help: "Total agent registrations in the hub",
		},
	)

	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "freigent_a2a_messages_sent_total",
			Help: "Total agent-to-agent messages sent through the hub",
		},
	)

	RequestsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "freigent_requests_processed_total",
			Help: "Total inbox messages processed by the worker",
		},
		[]string{"status"}, // "ok", "ignored" or "error"
	)

	AutoSearches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "freigent_auto_searches_total",
			Help: "Total multi-agent auto searches",
		},
	)

	// LLM metrics
	LLMLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "freigent_llm_latency_seconds",
			Help:    "Recommendation generation latency",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	LLMFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "freigent_llm_failures_total",
			Help: "Total recommendation generations degraded to a fallback",
		},
	)
)
