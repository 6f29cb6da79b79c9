// Package metrics defines the Prometheus metrics exported by BlogFront.
// All metrics register with the default registry on package load and are
// served by the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blogfront"

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionEventsTotal counts session lifecycle transitions.
// Label:
//   - event: "login", "logout", "purged", "expired" or "read_error"
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session lifecycle events, by event.",
	},
	[]string{"event"},
)

// SessionsCleanedTotal counts expired records removed by the background sweep.
var SessionsCleanedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_cleaned_total",
		Help:      "Total number of expired session records removed by the cleanup loop.",
	},
)

// ── Guard metrics ─────────────────────────────────────────────────────────────

// GuardDecisionsTotal counts route guard outcomes.
// Labels:
//   - area: the guarded area name (e.g. "admin", "editor")
//   - decision: "authorized", "unauthenticated" or "role_denied"
var GuardDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_decisions_total",
		Help:      "Total number of route guard decisions, by area and outcome.",
	},
	[]string{"area", "decision"},
)

// ── Upstream API metrics ──────────────────────────────────────────────────────

// UpstreamRequestsTotal counts calls to the blog API.
// Labels:
//   - method: HTTP method
//   - code: response status code, or "error" for transport failures
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests sent to the blog API.",
	},
	[]string{"method", "code"},
)

// UpstreamRequestDuration measures blog API round-trip latency.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of requests to the blog API.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts requests served by the front end.
// Labels:
//   - method: HTTP method
//   - code: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests served.",
	},
	[]string{"method", "code"},
)
