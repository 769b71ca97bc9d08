// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

// Package main is the entry point for the Umami Dashboard server.
//
// Umami Dashboard aggregates analytics from one or more self-hosted
// Umami instances into a single overview: per-website pageviews,
// sessions, visitors, average session time, bounce rate, and realtime
// active users, plus cross-site totals.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: defaults, optional config.yaml, environment variables (Koanf v2)
//  2. Logging: zerolog with configurable level and format
//  3. History store: in-memory ring of aggregation summaries
//  4. Aggregator: one circuit-breaker-wrapped client per configured Umami server
//  5. HTTP server: Chi router with the dashboard API and /metrics
//
// # Configuration
//
// A single upstream is configured through the legacy environment
// variables the original dashboard used:
//
//	export UMAMI_SERVER_URL=https://analytics.example.com
//	export UMAMI_USERNAME=admin
//	export UMAMI_PASSWORD=secret
//	export UMAMI_SERVER_ALIAS="Production"
//	./umami-dashboard
//
// Multiple upstreams go in config.yaml under umami.servers. With no
// upstream configured the dashboard serves generated demonstration data
// so the UI is never blank.
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: it stops
// accepting new connections and waits up to 10 seconds for in-flight
// requests to finish.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/songtianlun/umami-dashboard/internal/aggregator"
	"github.com/songtianlun/umami-dashboard/internal/api"
	"github.com/songtianlun/umami-dashboard/internal/config"
	"github.com/songtianlun/umami-dashboard/internal/history"
	"github.com/songtianlun/umami-dashboard/internal/logging"
	"github.com/songtianlun/umami-dashboard/internal/version"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Default logger, config not yet available.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version.Format()).
		Int("servers", len(cfg.Umami.Servers)).
		Msg("Starting Umami Dashboard")

	if len(cfg.Umami.Servers) == 0 {
		logging.Warn().Msg("No Umami servers configured, dashboard will serve demonstration data")
	}

	hist := history.NewStore()
	service := aggregator.NewService(cfg, hist)
	handler := api.NewHandler(service, cfg, hist)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           api.NewRouter(handler, cfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}

	logging.Info().Msg("Application stopped gracefully")
}
