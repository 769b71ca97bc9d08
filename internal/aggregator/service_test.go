// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package aggregator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/songtianlun/umami-dashboard/internal/config"
	"github.com/songtianlun/umami-dashboard/internal/history"
	"github.com/songtianlun/umami-dashboard/internal/models"
	"github.com/songtianlun/umami-dashboard/internal/umami"
)

type stubClient struct {
	alias string
	data  []models.WebsiteMetrics
	err   error
	calls int
}

func (c *stubClient) Authenticate(ctx context.Context) bool { return c.err == nil }

func (c *stubClient) ListAllWebsites(ctx context.Context) ([]models.Website, error) {
	return nil, c.err
}

func (c *stubClient) GetWebsiteStats(ctx context.Context, websiteID string, window *umami.TimeWindow) (umami.RawStats, error) {
	return nil, c.err
}

func (c *stubClient) GetActiveUsers(ctx context.Context, websiteID string) int { return 0 }

func (c *stubClient) GetAllWebsiteData(ctx context.Context, window *umami.TimeWindow) ([]models.WebsiteMetrics, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.data, nil
}

func (c *stubClient) Alias() string { return c.alias }

func site(id string, pageviews int) models.WebsiteMetrics {
	return models.WebsiteMetrics{
		ID:        id,
		Name:      id,
		Pageviews: pageviews,
		Sessions:  pageviews / 2,
		Visitors:  pageviews / 3,
	}
}

func TestSnapshotMergesServers(t *testing.T) {
	t.Parallel()

	svc := &Service{
		clients: []umami.ClientInterface{
			&stubClient{alias: "eu", data: []models.WebsiteMetrics{site("a", 100), site("b", 40)}},
			&stubClient{alias: "us", data: []models.WebsiteMetrics{site("c", 60)}},
		},
		mockEnabled: true,
		history:     history.NewStore(),
	}

	snap := svc.Snapshot(t.Context(), nil)
	if snap.Source != models.SourceUmami {
		t.Fatalf("Source = %q, want %q", snap.Source, models.SourceUmami)
	}
	if len(snap.Websites) != 3 {
		t.Fatalf("got %d websites, want 3", len(snap.Websites))
	}
	if snap.Summary.TotalPageviews != 200 {
		t.Errorf("TotalPageviews = %d, want 200", snap.Summary.TotalPageviews)
	}
	if points := svc.history.Points(); len(points) != 1 {
		t.Errorf("history has %d points, want 1", len(points))
	}
}

func TestSnapshotPartialServerFailure(t *testing.T) {
	t.Parallel()

	svc := &Service{
		clients: []umami.ClientInterface{
			&stubClient{alias: "up", data: []models.WebsiteMetrics{site("a", 100)}},
			&stubClient{alias: "down", err: errors.New("connection refused")},
		},
		mockEnabled: true,
	}

	snap := svc.Snapshot(t.Context(), nil)
	if snap.Source != models.SourceUmami {
		t.Fatalf("Source = %q, want live data despite one failed server", snap.Source)
	}
	if len(snap.Websites) != 1 {
		t.Fatalf("got %d websites, want 1", len(snap.Websites))
	}
}

func TestSnapshotAllServersFailedFallsBackToMock(t *testing.T) {
	t.Parallel()

	hist := history.NewStore()
	svc := &Service{
		clients:     []umami.ClientInterface{&stubClient{alias: "down", err: errors.New("boom")}},
		mockEnabled: true,
		history:     hist,
	}

	snap := svc.Snapshot(t.Context(), nil)
	if snap.Source != models.SourceMock {
		t.Fatalf("Source = %q, want %q", snap.Source, models.SourceMock)
	}
	if snap.Message == "" {
		t.Error("mock fallback should explain itself in Message")
	}
	if len(snap.Websites) == 0 {
		t.Error("mock snapshot should carry demo websites")
	}
	if points := hist.Points(); len(points) != 0 {
		t.Errorf("mock data must not be recorded in history, got %d points", len(points))
	}
}

func TestSnapshotZeroWebsitesFallsBackToMock(t *testing.T) {
	t.Parallel()

	svc := &Service{
		clients:     []umami.ClientInterface{&stubClient{alias: "empty"}},
		mockEnabled: true,
	}

	snap := svc.Snapshot(t.Context(), nil)
	if snap.Source != models.SourceMock {
		t.Fatalf("Source = %q, want %q for an empty live result", snap.Source, models.SourceMock)
	}
}

func TestSnapshotUnconfigured(t *testing.T) {
	t.Parallel()

	t.Run("mock enabled", func(t *testing.T) {
		t.Parallel()
		svc := &Service{mockEnabled: true}
		snap := svc.Snapshot(t.Context(), nil)
		if snap.Source != models.SourceMock {
			t.Fatalf("Source = %q, want %q", snap.Source, models.SourceMock)
		}
	})

	t.Run("mock disabled", func(t *testing.T) {
		t.Parallel()
		svc := &Service{mockEnabled: false}
		snap := svc.Snapshot(t.Context(), nil)
		if len(snap.Websites) != 0 {
			t.Fatalf("got %d websites, want empty snapshot", len(snap.Websites))
		}
		if snap.Message == "" {
			t.Error("empty snapshot should explain why in Message")
		}
	})
}

func TestNewServiceBuildsClientPerServer(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Umami: config.UmamiConfig{
			Servers: []config.UmamiServer{
				{URL: "http://one.example", Username: "u", Password: "p", Alias: "one"},
				{URL: "http://two.example", Username: "u", Password: "p", Alias: "two"},
			},
			RequestTimeout: 5 * time.Second,
		},
		Mock: config.MockConfig{FallbackEnabled: true},
	}

	svc := NewService(cfg, history.NewStore())
	if !svc.Configured() {
		t.Fatal("Configured() = false with two servers")
	}
	if len(svc.clients) != 2 {
		t.Fatalf("got %d clients, want 2", len(svc.clients))
	}
}

func TestTestConnection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"token":"tok-1"}`)
	}))
	defer server.Close()

	svc := &Service{timeout: 5 * time.Second}
	if err := svc.TestConnection(t.Context(), models.ConnectionRequest{
		ServerURL: server.URL,
		Username:  "admin",
		Password:  "umami",
	}); err != nil {
		t.Fatalf("TestConnection failed against a server that issues tokens: %v", err)
	}

	err := svc.TestConnection(t.Context(), models.ConnectionRequest{
		ServerURL: "http://127.0.0.1:1",
		Username:  "admin",
		Password:  "umami",
	})
	if err == nil {
		t.Fatal("TestConnection returned nil against an unreachable server")
	}
	if errors.Is(err, umami.ErrInvalidCredentials) {
		t.Error("unreachable server misreported as invalid credentials")
	}
}

func TestTestConnectionRejectedCredentials(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"incorrect password"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := &Service{timeout: 5 * time.Second}
	err := svc.TestConnection(t.Context(), models.ConnectionRequest{
		ServerURL: server.URL,
		Username:  "admin",
		Password:  "wrong",
	})
	if !errors.Is(err, umami.ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRealtimeTest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/auth/login":
			fmt.Fprint(w, `{"token":"tok-1"}`)
		case r.URL.Path == "/api/websites/site-1/active":
			fmt.Fprint(w, `{"visitors":7}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	svc := &Service{timeout: 5 * time.Second}
	result := svc.RealtimeTest(t.Context(), models.RealtimeTestRequest{
		ConnectionRequest: models.ConnectionRequest{
			ServerURL: server.URL,
			Username:  "admin",
			Password:  "umami",
		},
		WebsiteID: "site-1",
	})

	if result.Error != "" {
		t.Fatalf("unexpected error: %s", result.Error)
	}
	if len(result.Endpoints) != 4 {
		t.Fatalf("got %d endpoint probes, want 4", len(result.Endpoints))
	}
	if result.Endpoints[0].Status != http.StatusOK {
		t.Errorf("first endpoint status = %v, want 200", result.Endpoints[0].Status)
	}
	if result.ActiveUsers != 7 {
		t.Errorf("ActiveUsers = %d, want 7", result.ActiveUsers)
	}

	failed := svc.RealtimeTest(t.Context(), models.RealtimeTestRequest{
		ConnectionRequest: models.ConnectionRequest{
			ServerURL: "http://127.0.0.1:1",
			Username:  "admin",
			Password:  "umami",
		},
		WebsiteID: "site-1",
	})
	if failed.Error == "" {
		t.Error("expected an error for an unreachable server")
	}
}
