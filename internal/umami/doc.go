// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

/*
Package umami implements the client for the Umami analytics HTTP API.

The package absorbs the compatibility surface of multiple incompatible
Umami major versions behind a single typed interface:

  - Authentication and transparent single-retry re-authentication on
    token expiry (client.go)
  - Normalization of numeric fields that arrive as numbers, numeric
    strings, or wrapper objects (normalize.go)
  - Pagination-aware website enumeration accepting both listing response
    shapes (websites.go)
  - Windowed stats retrieval with a best-effort separate sessions call
    (stats.go)
  - Multi-strategy active visitor probing across the realtime endpoints
    that different versions expose (realtime.go)
  - Per-server aggregation into metric records (aggregate.go)
  - A circuit breaker wrapper guarding against dead upstreams
    (circuit_breaker.go)
  - A per-endpoint diagnostic probe for the realtime test surface
    (diagnostics.go)

One Client instance serves one configured Umami server. Clients are safe
for concurrent use; the session token is the only shared mutable state
and it is mutex guarded.
*/
package umami
