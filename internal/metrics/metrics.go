// Package metrics registers the Prometheus metrics for the LLM core.
// Import it from the server entry point before mounting the /metrics handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ResponsesTotal counts completed GetResponse calls labelled by
	// provider, model, and outcome ("success" or the error kind).
	ResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venturekit_responses_total",
			Help: "Total LLM responses processed, by provider, model, and status.",
		},
		[]string{"provider", "model", "status"},
	)

	// ResponseDuration observes end-to-end call latency in seconds.
	ResponseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "venturekit_response_duration_seconds",
			Help:    "End-to-end LLM call duration in seconds.",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider", "model"},
	)

	// DiscoveryFallbacks counts model-discovery failures absorbed into the
	// default-model fallback.
	DiscoveryFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venturekit_discovery_fallbacks_total",
			Help: "Model discovery failures absorbed into the default-model fallback.",
		},
		[]string{"provider"},
	)

	// RateLimitWaits observes time spent waiting on per-provider limiters.
	RateLimitWaits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venturekit_rate_limit_waits_total",
			Help: "Invocations delayed by the per-provider rate limiter.",
		},
		[]string{"provider"},
	)
)

// ErrorKind labels for ResponsesTotal.
const (
	StatusSuccess            = "success"
	StatusUnsupported        = "unsupported_provider"
	StatusMissingCredential  = "missing_credential"
	StatusConstructionFailed = "construction_error"
	StatusTemplateFailed     = "template_error"
	StatusInvocationFailed   = "invocation_error"
)
