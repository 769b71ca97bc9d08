// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package models

// HealthStatus is the body of the health endpoint. Status is "healthy"
// when at least one upstream is configured, "degraded" in mock-only
// mode. UptimeSeconds is wall-clock time since process start.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Configured    bool    `json:"configured"`
	ServerCount   int     `json:"serverCount"`
	UptimeSeconds float64 `json:"uptime"`
}
