// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/songtianlun/umami-dashboard/internal/config"
	"github.com/songtianlun/umami-dashboard/internal/metrics"
	"github.com/songtianlun/umami-dashboard/internal/middleware"
)

// connectionTestLimit is the per-IP per-minute budget for endpoints
// that carry upstream credentials.
const connectionTestLimit = 10

// NewRouter wires the full HTTP surface: global middleware, health
// probes, the dashboard API under /api/v1, and the Prometheus scrape
// endpoint.
func NewRouter(handler *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.API.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health probes stay outside the rate limiter so monitoring can
	// poll freely.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(middleware.SecurityHeaders)
		r.Get("/", handler.Health)
		r.Get("/live", handler.HealthLive)
		r.Get("/ready", handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.PrometheusMetrics)
		if !cfg.API.RateLimitDisabled {
			r.Use(httprate.Limit(
				cfg.API.RateLimitReqs,
				cfg.API.RateLimitWindow,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
					metrics.RecordRateLimitHit(req.URL.Path)
					respondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests", nil)
				}),
			))
		}

		// Credential-carrying endpoints get a stricter per-IP limit on
		// top of the shared one to slow down password guessing.
		connLimit := chi.Middlewares{}
		if !cfg.API.RateLimitDisabled {
			connLimit = append(connLimit, httprate.Limit(
				connectionTestLimit,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, req *http.Request) {
					metrics.RecordRateLimitHit(req.URL.Path)
					respondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many connection attempts", nil)
				}),
			))
		}

		r.Get("/stats", handler.Stats)
		r.With(connLimit...).Post("/auth/test", handler.AuthTest)
		r.With(connLimit...).Post("/websites", handler.Websites)
		r.With(connLimit...).Post("/realtime/test", handler.RealtimeTest)
		r.Get("/config", handler.ConfigDefaults)
		r.Get("/history", handler.History)
		r.Delete("/history", handler.HistoryClear)
		r.Get("/version", handler.Version)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
