// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/songtianlun/umami-dashboard/internal/logging"
	"github.com/songtianlun/umami-dashboard/internal/models"
	"github.com/songtianlun/umami-dashboard/internal/umami"
	"github.com/songtianlun/umami-dashboard/internal/version"
)

// Stats serves the aggregated dashboard snapshot. Optional startAt and
// endAt query parameters (epoch milliseconds) select the window; the
// default is the trailing 24 hours. Upstream failures degrade to demo
// data inside the service, so this endpoint never fails on their
// account.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	window, ok := windowFromQuery(w, r)
	if !ok {
		return
	}

	start := time.Now()
	snapshot := h.service.Snapshot(r.Context(), window)
	queryTime := time.Since(start)

	logging.Ctx(r.Context()).Debug().
		Str("source", snapshot.Source).
		Int("websites", len(snapshot.Websites)).
		Dur("query_time", queryTime).
		Msg("Dashboard snapshot served")

	respondSuccess(w, snapshot, queryTime)
}

// windowFromQuery parses startAt/endAt. Both must be given together; a
// lone bound or a non-numeric value is a validation error. A false
// return means the error response has been written.
func windowFromQuery(w http.ResponseWriter, r *http.Request) (*umami.TimeWindow, bool) {
	startRaw := r.URL.Query().Get("startAt")
	endRaw := r.URL.Query().Get("endAt")
	if startRaw == "" && endRaw == "" {
		return nil, true
	}
	if startRaw == "" || endRaw == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "startAt and endAt must be provided together", nil)
		return nil, false
	}

	startAt, err := strconv.ParseInt(startRaw, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "startAt must be epoch milliseconds", err)
		return nil, false
	}
	endAt, err := strconv.ParseInt(endRaw, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "endAt must be epoch milliseconds", err)
		return nil, false
	}
	if endAt <= startAt {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "endAt must be after startAt", nil)
		return nil, false
	}
	return &umami.TimeWindow{StartAt: startAt, EndAt: endAt}, true
}

// History returns the retained aggregation summaries, oldest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.history.Points(), 0)
}

// HistoryClear empties the history store.
func (h *Handler) HistoryClear(w http.ResponseWriter, r *http.Request) {
	h.history.Clear()
	logging.Ctx(r.Context()).Info().Msg("Aggregation history cleared")
	respondSuccess(w, map[string]string{"message": "history cleared"}, 0)
}

// ConfigDefaults exposes the configured default connection the settings
// UI pre-fills, taken from the first configured server. The password
// never leaves the server; only its presence is signalled by the mask.
func (h *Handler) ConfigDefaults(w http.ResponseWriter, r *http.Request) {
	var defaults models.ConnectionDefaults
	if servers := h.config.Umami.Servers; len(servers) > 0 {
		defaults.ServerURL = servers[0].URL
		defaults.Username = servers[0].Username
		defaults.ServerAlias = servers[0].Alias
		if servers[0].Password != "" {
			defaults.Password = "********"
		}
	}
	respondSuccess(w, defaults, 0)
}

// Version reports the running build.
func (h *Handler) Version(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, version.Info(), 0)
}
