// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/songtianlun/umami-dashboard/internal/logging"
	"github.com/songtianlun/umami-dashboard/internal/models"
	"github.com/songtianlun/umami-dashboard/internal/umami"
)

// AuthTest verifies a connection's credentials without touching the
// configured server set. Rejected credentials map to 401, an
// unreachable server to 502.
func (h *Handler) AuthTest(w http.ResponseWriter, r *http.Request) {
	var req models.ConnectionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	start := time.Now()
	err := h.service.TestConnection(r.Context(), req)
	queryTime := time.Since(start)

	switch {
	case err == nil:
		respondSuccess(w, map[string]interface{}{"authenticated": true}, queryTime)
	case errors.Is(err, umami.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "AUTHENTICATION_ERROR", "Invalid username or password", err)
	default:
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Unable to connect to the Umami server", err)
	}
}

// Websites enumerates the websites visible to a supplied connection.
// POST rather than GET because the body carries credentials.
func (h *Handler) Websites(w http.ResponseWriter, r *http.Request) {
	var req models.ConnectionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	start := time.Now()
	websites, err := h.service.ListWebsites(r.Context(), req)
	queryTime := time.Since(start)
	if err != nil {
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to list websites", err)
		return
	}

	logging.Ctx(r.Context()).Debug().Int("count", len(websites)).Msg("Website listing served")
	respondSuccess(w, websites, queryTime)
}

// RealtimeTest runs the per-endpoint realtime diagnostic for one
// website and reports every endpoint's raw outcome.
func (h *Handler) RealtimeTest(w http.ResponseWriter, r *http.Request) {
	var req models.RealtimeTestRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	start := time.Now()
	result := h.service.RealtimeTest(r.Context(), req)
	queryTime := time.Since(start)

	if result.Error != "" {
		respondError(w, http.StatusBadGateway, "UPSTREAM_ERROR", result.Error, nil)
		return
	}
	respondSuccess(w, result, queryTime)
}
