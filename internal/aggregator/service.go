// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

// Package aggregator orchestrates upstream Umami clients into dashboard
// snapshots. It owns the per-server client set, the mock fallback
// policy, and the trend history recording.
package aggregator

import (
	"context"
	"time"

	"github.com/songtianlun/umami-dashboard/internal/config"
	"github.com/songtianlun/umami-dashboard/internal/history"
	"github.com/songtianlun/umami-dashboard/internal/logging"
	"github.com/songtianlun/umami-dashboard/internal/metrics"
	"github.com/songtianlun/umami-dashboard/internal/mock"
	"github.com/songtianlun/umami-dashboard/internal/models"
	"github.com/songtianlun/umami-dashboard/internal/umami"
)

// Service aggregates analytics across all configured Umami servers.
// Each configured server gets a long-lived circuit-breaker-wrapped
// client so token caching and failure accounting survive across
// requests. Safe for concurrent use.
type Service struct {
	clients     []umami.ClientInterface
	timeout     time.Duration
	mockEnabled bool
	history     *history.Store
}

// NewService builds a service from the loaded configuration. With no
// servers configured the service is still usable; Snapshot then serves
// demonstration data when the mock fallback is enabled.
func NewService(cfg *config.Config, hist *history.Store) *Service {
	clients := make([]umami.ClientInterface, 0, len(cfg.Umami.Servers))
	for _, server := range cfg.Umami.Servers {
		clients = append(clients, umami.NewCircuitBreakerClient(server, cfg.Umami.RequestTimeout))
	}
	return &Service{
		clients:     clients,
		timeout:     cfg.Umami.RequestTimeout,
		mockEnabled: cfg.Mock.FallbackEnabled,
		history:     hist,
	}
}

// Configured reports whether at least one upstream server is set up.
func (s *Service) Configured() bool {
	return len(s.clients) > 0
}

// Snapshot aggregates current metrics across every configured server.
// A nil window means the trailing 24 hours. Individual server failures
// degrade the result rather than failing it; only when every server
// fails (or none is configured) does the mock fallback kick in. The
// returned snapshot is always non-nil.
func (s *Service) Snapshot(ctx context.Context, window *umami.TimeWindow) *models.DashboardSnapshot {
	if !s.Configured() {
		return s.fallback("No Umami connection configured, showing demonstration data")
	}

	var (
		websites []models.WebsiteMetrics
		failed   int
	)
	for _, client := range s.clients {
		data, err := client.GetAllWebsiteData(ctx, window)
		if err != nil {
			failed++
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("server", client.Alias()).
				Msg("Server aggregation failed, continuing with remaining servers")
			continue
		}
		websites = append(websites, data...)
	}

	if failed == len(s.clients) {
		return s.fallback("All Umami servers unreachable, showing demonstration data")
	}
	if len(websites) == 0 {
		return s.fallback("No websites found on the configured servers, showing demonstration data")
	}

	summary := models.Summarize(websites)
	if s.history != nil {
		s.history.Add(summary)
	}
	return &models.DashboardSnapshot{
		Websites: websites,
		Summary:  summary,
		Source:   models.SourceUmami,
	}
}

func (s *Service) fallback(message string) *models.DashboardSnapshot {
	if !s.mockEnabled {
		return &models.DashboardSnapshot{
			Websites: []models.WebsiteMetrics{},
			Summary:  models.DashboardSummary{},
			Source:   models.SourceUmami,
			Message:  message,
		}
	}
	metrics.RecordMockFallback()
	websites, summary := mock.Generate()
	return &models.DashboardSnapshot{
		Websites: websites,
		Summary:  summary,
		Source:   models.SourceMock,
		Message:  message,
	}
}

// TestConnection checks the supplied credentials against an Umami
// server using a throwaway client. A nil return means the login
// endpoint issued a token; otherwise the error distinguishes rejected
// credentials (umami.ErrInvalidCredentials) from an unreachable server.
func (s *Service) TestConnection(ctx context.Context, req models.ConnectionRequest) error {
	client := s.adhocClient(req)
	return client.Login(ctx)
}

// ListWebsites enumerates the websites visible to the supplied
// credentials. Used by the settings UI to let the user verify what a
// connection can see before saving it.
func (s *Service) ListWebsites(ctx context.Context, req models.ConnectionRequest) ([]models.Website, error) {
	client := s.adhocClient(req)
	return client.ListAllWebsites(ctx)
}

// RealtimeTest runs the per-endpoint realtime diagnostic for one
// website and reports which endpoints the upstream serves, plus the
// active-user count the production chain settles on.
func (s *Service) RealtimeTest(ctx context.Context, req models.RealtimeTestRequest) models.RealtimeTestResult {
	client := s.adhocClient(req.ConnectionRequest)
	result := models.RealtimeTestResult{WebsiteID: req.WebsiteID}
	if !client.Authenticate(ctx) {
		result.Error = "authentication failed"
		return result
	}
	result.Endpoints = client.ProbeRealtimeEndpoints(ctx, req.WebsiteID)
	result.ActiveUsers = client.GetActiveUsers(ctx, req.WebsiteID)
	return result
}

func (s *Service) adhocClient(req models.ConnectionRequest) *umami.Client {
	return umami.NewClient(config.UmamiServer{
		URL:      req.ServerURL,
		Username: req.Username,
		Password: req.Password,
		Alias:    req.Alias,
	}, s.timeout)
}
