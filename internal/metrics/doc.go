// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

/*
Package metrics provides Prometheus metrics collection and export for observability.

The package exposes package-level collectors registered via promauto, covering:
  - Upstream Umami API call latency, status, and authentication outcomes
  - Realtime probe strategy attempts and outcomes
  - Aggregation cycle duration and per-cycle website counts
  - Dashboard API request latency and throughput
  - Circuit breaker state and transitions

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3000/metrics

# Cardinality Management

To prevent high cardinality issues:
  - Server labels use the configured alias, not raw URLs
  - Endpoint labels are normalized route patterns, never raw paths
  - Probe strategies are a fixed set of constants
  - Website IDs never appear as label values

# Thread Safety

All metric recording functions are safe for concurrent use from multiple
goroutines. The Prometheus client library handles synchronization internally.
*/
package metrics
