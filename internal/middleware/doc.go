// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

// Package middleware provides HTTP middleware shared by the API layer:
// request ID propagation with logging integration, Prometheus request
// instrumentation, and security response headers. All middleware uses
// the standard func(http.Handler) http.Handler shape so it composes
// with Chi's Use().
package middleware
