// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package api

import (
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/songtianlun/umami-dashboard/internal/aggregator"
	"github.com/songtianlun/umami-dashboard/internal/config"
	"github.com/songtianlun/umami-dashboard/internal/history"
	"github.com/songtianlun/umami-dashboard/internal/logging"
	"github.com/songtianlun/umami-dashboard/internal/models"
	"github.com/songtianlun/umami-dashboard/internal/validation"
)

// maxRequestBody caps request body reads. Connection test bodies are a
// few hundred bytes; anything past this is abuse.
const maxRequestBody = 64 << 10

// Handler holds the dependencies of all HTTP handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor, response helpers (this file)
//   - handlers_dashboard.go: stats, history, config, version endpoints
//   - handlers_connection.go: connection test, website listing, realtime diagnostics
//   - handlers_health.go: liveness and readiness endpoints
type Handler struct {
	service   *aggregator.Service
	config    *config.Config
	history   *history.Store
	startTime time.Time
}

// NewHandler creates the API handler.
func NewHandler(service *aggregator.Service, cfg *config.Config, hist *history.Store) *Handler {
	return &Handler{
		service:   service,
		config:    cfg,
		history:   hist,
		startTime: time.Now(),
	}
}

// respondJSON writes a success or error envelope. Marshal failures fall
// back to a bare 500 since there is nothing sensible left to send.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

func respondSuccess(w http.ResponseWriter, data interface{}, queryTime time.Duration) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: queryTime.Milliseconds(),
		},
	})
}

func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("API error")
	}
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// decodeAndValidate reads the JSON request body into dst and validates
// it. A false return means the error response has already been written.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Failed to read request body", err)
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON in request body", err)
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		apiErr := verr.ToAPIError()
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error: &models.APIError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		})
		return false
	}
	return true
}
