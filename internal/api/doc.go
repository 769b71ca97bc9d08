// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

// Package api provides the HTTP surface of the dashboard service.
//
// All responses use the models.APIResponse envelope. Routes live under
// /api/v1:
//
//	GET    /stats          aggregated snapshot (startAt/endAt optional)
//	POST   /auth/test      connection credential check
//	POST   /websites       website listing for a supplied connection
//	POST   /realtime/test  per-endpoint realtime diagnostic
//	GET    /config         default connection settings, password masked
//	GET    /history        retained aggregation summaries
//	DELETE /history        clear retained summaries
//	GET    /version        build version and time
//	GET    /health[...]    health, liveness, readiness
//
// Prometheus metrics are scraped from /metrics outside the versioned
// prefix.
package api
