// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package api

import (
	"net/http"
	"time"

	"github.com/songtianlun/umami-dashboard/internal/models"
	"github.com/songtianlun/umami-dashboard/internal/version"
)

// Health reports overall service health. The service is "degraded" when
// no upstream is configured, since it can then only serve demo data.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if !h.service.Configured() {
		status = "degraded"
	}

	respondSuccess(w, models.HealthStatus{
		Status:        status,
		Version:       version.Version,
		Configured:    h.service.Configured(),
		ServerCount:   len(h.config.Umami.Servers),
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}, 0)
}

// HealthLive is the liveness probe: 200 whenever the process runs.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]string{"status": "alive"}, 0)
}

// HealthReady is the readiness probe. The service is always ready to
// serve: with no upstream configured it serves demo data, so readiness
// does not depend on upstream reachability.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]string{"status": "ready"}, 0)
}
