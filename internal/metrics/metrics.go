// Guara - Cultural Collection SPARQL Gateway
// Copyright 2026 The Guara Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/alisoncf/guara

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guara_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "guara_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_api_rate_limit_hits_total",
			Help: "Total number of inbound rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// SPARQL upstream metrics. endpoint is the host of the Fuseki URL so
	// request-supplied dataset paths do not explode cardinality.
	SPARQLRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_sparql_requests_total",
			Help: "Total SPARQL requests sent upstream",
		},
		[]string{"operation", "endpoint", "outcome"}, // outcome: ok, upstream_error, network_error, rejected
	)

	SPARQLRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guara_sparql_request_duration_seconds",
			Help:    "SPARQL round-trip duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		},
		[]string{"operation", "endpoint"},
	)

	SPARQLRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_sparql_retries_total",
			Help: "Total SPARQL query retries after a retryable status",
		},
		[]string{"endpoint", "status_code"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "guara_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: success, failure, rejected
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "guara_circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Auth Metrics
	TokenChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_token_checks_total",
			Help: "Token checks by result",
		},
		[]string{"result"}, // valid, missing, invalid, expired, error
	)

	TokenCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_token_cache_hits_total",
			Help: "Token cache hits",
		},
		[]string{"backend"},
	)

	TokenCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_token_cache_misses_total",
			Help: "Token cache misses",
		},
		[]string{"backend"},
	)

	TokenCacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_token_cache_errors_total",
			Help: "Token cache backend failures that fell back to the triplestore",
		},
		[]string{"backend"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"}, // success, failure, error
	)

	AuthzDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_authz_decisions_total",
			Help: "Casbin authorization decisions",
		},
		[]string{"action", "decision"},
	)

	// Media Metrics
	MediaFilesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guara_media_files_stored_total",
			Help: "Uploaded files written to the upload folder",
		},
	)

	MediaUploadBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "guara_media_upload_bytes_total",
			Help: "Bytes written by uploads",
		},
	)

	MediaRemovals = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_media_removals_total",
			Help: "Media removals by outcome",
		},
		[]string{"outcome"}, // moved, already, sparql_failed, move_pending
	)

	JournalPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "guara_media_journal_pending",
			Help: "Media removals waiting in the journal",
		},
	)

	JournalRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guara_media_journal_recovered_total",
			Help: "Journal entries processed by the recovery service",
		},
		[]string{"result"}, // confirmed, failed, abandoned
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "guara_app_info",
			Help: "Application version information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSPARQLRequest records one upstream round trip.
func RecordSPARQLRequest(operation, endpoint, outcome string, duration time.Duration) {
	SPARQLRequestsTotal.WithLabelValues(operation, endpoint, outcome).Inc()
	SPARQLRequestDuration.WithLabelValues(operation, endpoint).Observe(duration.Seconds())
}

// RecordSPARQLRetry records a retried query.
func RecordSPARQLRetry(endpoint string, statusCode int) {
	SPARQLRetriesTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
}

// RecordTokenCheck records the result of a token check.
func RecordTokenCheck(result string) {
	TokenChecksTotal.WithLabelValues(result).Inc()
}

// RecordTokenCache records a cache lookup.
func RecordTokenCache(backend string, hit bool) {
	if hit {
		TokenCacheHits.WithLabelValues(backend).Inc()
		return
	}
	TokenCacheMisses.WithLabelValues(backend).Inc()
}

// RecordLogin records a login attempt.
func RecordLogin(result string) {
	LoginsTotal.WithLabelValues(result).Inc()
}

// RecordAuthzDecision records an authorization decision.
func RecordAuthzDecision(action string, allowed bool) {
	decision := "deny"
	if allowed {
		decision = "allow"
	}
	AuthzDecisions.WithLabelValues(action, decision).Inc()
}

// RecordMediaStored records one stored upload.
func RecordMediaStored(size int64) {
	MediaFilesStored.Inc()
	MediaUploadBytes.Add(float64(size))
}

// RecordMediaRemoval records the outcome of a removal request.
func RecordMediaRemoval(outcome string) {
	MediaRemovals.WithLabelValues(outcome).Inc()
}
