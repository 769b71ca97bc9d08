// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package models

import "time"

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "AUTHENTICATION_ERROR",
//	    "message": "Invalid username or password"
//	  },
//	  "metadata": {"timestamp": "2026-09-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
// QueryTimeMS is the wall-clock time spent talking to upstream servers.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError carries structured error details.
//
// Common codes:
//   - VALIDATION_ERROR: invalid request parameters
//   - AUTHENTICATION_ERROR: upstream rejected the supplied credentials
//   - UPSTREAM_ERROR: the Umami server was unreachable or misbehaved
//   - NOT_CONFIGURED: no Umami connection is configured
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ConnectionRequest is the body of connection-scoped endpoints
// (connection test, website listing, realtime diagnostics). It mirrors
// the login settings the dashboard UI collects.
type ConnectionRequest struct {
	ServerURL string `json:"server_url" validate:"required,url"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	Alias     string `json:"alias,omitempty"`
}

// RealtimeTestRequest asks for a per-endpoint realtime probe diagnostic
// for one website.
type RealtimeTestRequest struct {
	ConnectionRequest
	WebsiteID string `json:"website_id" validate:"required"`
}

// EndpointProbeResult describes one realtime endpoint attempt in a
// diagnostic run: the HTTP status (or "error"), the decoded payload, and
// its JSON shape ("array", "object", "number", ...).
type EndpointProbeResult struct {
	Endpoint string      `json:"endpoint"`
	Status   interface{} `json:"status"`
	Type     string      `json:"type,omitempty"`
	Length   *int        `json:"length,omitempty"`
	Data     interface{} `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// RealtimeTestResult is the diagnostic response: every endpoint's raw
// outcome plus the count the production probe chain settles on.
type RealtimeTestResult struct {
	WebsiteID   string                `json:"websiteId"`
	Endpoints   []EndpointProbeResult `json:"endpoints"`
	ActiveUsers int                   `json:"activeUsers"`
	Error       string                `json:"error,omitempty"`
}

// ConnectionDefaults is the environment-sourced default connection the
// UI pre-fills. The password is always masked before leaving the server.
type ConnectionDefaults struct {
	ServerURL   string `json:"serverUrl"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	ServerAlias string `json:"serverAlias"`
}

// VersionInfo reports the running build.
type VersionInfo struct {
	Version        string `json:"version"`
	BuildTime      string `json:"buildTime"`
	BuildTimestamp int64  `json:"buildTimestamp"`
}
