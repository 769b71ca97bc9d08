// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Upstream Umami API performance per server
// - Dashboard API endpoint latency and throughput
// - Aggregation cycle metrics
// - Realtime probe strategy outcomes
// - Circuit breaker state

var (
	// Upstream Umami API Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "umami_upstream_requests_total",
			Help: "Total number of requests to upstream Umami servers",
		},
		[]string{"server", "endpoint", "status"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "umami_upstream_request_duration_seconds",
			Help:    "Duration of upstream Umami API calls in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"server", "endpoint"},
	)

	UpstreamAuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "umami_upstream_auth_attempts_total",
			Help: "Total number of authentication attempts against upstream servers",
		},
		[]string{"server", "result"}, // result: "success", "failure"
	)

	UpstreamTokenRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "umami_upstream_token_refreshes_total",
			Help: "Total number of token refreshes triggered by 401 responses",
		},
		[]string{"server"},
	)

	// Realtime Probe Metrics
	RealtimeProbeAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "umami_realtime_probe_attempts_total",
			Help: "Total number of realtime probe attempts by strategy",
		},
		[]string{"strategy", "outcome"}, // outcome: "hit", "miss", "error"
	)

	RealtimeActiveUsers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "umami_realtime_active_users",
			Help: "Last observed active user count per upstream server",
		},
		[]string{"server"},
	)

	// Aggregation Cycle Metrics
	AggregationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "umami_aggregation_duration_seconds",
			Help:    "Duration of full aggregation cycles in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60}, // Sequential per-site fetches can take a while
		},
	)

	AggregationWebsites = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "umami_aggregation_websites",
			Help:    "Number of websites returned per aggregation cycle",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	AggregationWebsiteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "umami_aggregation_website_errors_total",
			Help: "Total number of websites skipped during aggregation due to errors",
		},
		[]string{"server"},
	)

	AggregationLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "umami_aggregation_last_success_timestamp",
			Help: "Unix timestamp of last successful aggregation",
		},
	)

	MockFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "umami_mock_fallbacks_total",
			Help: "Total number of dashboard responses served from mock data",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// History Ring Metrics
	HistoryPoints = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "umami_history_points",
			Help: "Current number of retained history points",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordUpstreamRequest records an upstream Umami API call and its outcome.
func RecordUpstreamRequest(server, endpoint string, statusCode int, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(server, endpoint, strconv.Itoa(statusCode)).Inc()
	UpstreamRequestDuration.WithLabelValues(server, endpoint).Observe(duration.Seconds())
}

// RecordUpstreamError records an upstream call that failed before an HTTP
// status was received (network error, timeout).
func RecordUpstreamError(server, endpoint string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(server, endpoint, "error").Inc()
	UpstreamRequestDuration.WithLabelValues(server, endpoint).Observe(duration.Seconds())
}

// RecordAuthAttempt records an authentication attempt against an upstream server.
func RecordAuthAttempt(server string, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	UpstreamAuthAttempts.WithLabelValues(server, result).Inc()
}

// RecordTokenRefresh records a 401-triggered re-authentication.
func RecordTokenRefresh(server string) {
	UpstreamTokenRefreshes.WithLabelValues(server).Inc()
}

// RecordRealtimeProbe records a single realtime probe attempt.
// Strategy names the endpoint or heuristic tried, outcome is one of
// "hit", "miss" or "error".
func RecordRealtimeProbe(strategy, outcome string) {
	RealtimeProbeAttempts.WithLabelValues(strategy, outcome).Inc()
}

// RecordAggregation records a completed aggregation cycle.
func RecordAggregation(duration time.Duration, websiteCount int) {
	AggregationDuration.Observe(duration.Seconds())
	AggregationWebsites.Observe(float64(websiteCount))
	AggregationLastSuccess.SetToCurrentTime()
}

// RecordWebsiteError records a website skipped during aggregation.
func RecordWebsiteError(server string) {
	AggregationWebsiteErrors.WithLabelValues(server).Inc()
}

// RecordMockFallback records a response served from generated demo data.
func RecordMockFallback() {
	MockFallbacks.Inc()
}

// RecordHTTPRequest records a dashboard API request.
func RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRateLimitHit records a request rejected by the rate limiter.
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// UpdateHistorySize updates the history ring size gauge.
func UpdateHistorySize(points int) {
	HistoryPoints.Set(float64(points))
}
