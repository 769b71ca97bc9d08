// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

/*
client.go - Umami REST API Client

This file implements the HTTP client for a single Umami analytics server.
It handles bearer token authentication, transparent re-authentication on
token expiry, and the raw request plumbing shared by the typed endpoint
methods in websites.go, stats.go and realtime.go.

API Reference: https://umami.is/docs/api
*/

package umami

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/songtianlun/umami-dashboard/internal/config"
	"github.com/songtianlun/umami-dashboard/internal/logging"
	"github.com/songtianlun/umami-dashboard/internal/metrics"
	"github.com/songtianlun/umami-dashboard/internal/models"
)

// paginationDelay spaces out paginated website listing requests so a
// large instance is not hammered with back-to-back page fetches.
const paginationDelay = 200 * time.Millisecond

// ErrInvalidCredentials marks a login the server actively rejected, as
// opposed to a transport failure. Callers use errors.Is to tell a wrong
// password apart from an unreachable server.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ClientInterface defines the operations against a single Umami server.
// Both Client and CircuitBreakerClient implement this interface.
type ClientInterface interface {
	Authenticate(ctx context.Context) bool
	ListAllWebsites(ctx context.Context) ([]models.Website, error)
	GetWebsiteStats(ctx context.Context, websiteID string, window *TimeWindow) (RawStats, error)
	GetActiveUsers(ctx context.Context, websiteID string) int
	GetAllWebsiteData(ctx context.Context, window *TimeWindow) ([]models.WebsiteMetrics, error)
	Alias() string
}

// Ensure Client implements ClientInterface
var _ ClientInterface = (*Client)(nil)

// Client provides access to the REST API of one Umami server.
//
// The token slot is the only mutable shared state. mu guards reads and
// writes of the slot; refreshMu serializes the login itself so that
// concurrent per-website fetches observing an empty or expired token
// perform exactly one upstream login between them.
type Client struct {
	baseURL    string
	username   string
	password   string
	alias      string
	httpClient *http.Client
	pager      *rate.Limiter

	refreshMu sync.Mutex

	mu    sync.Mutex
	token string
}

// NewClient creates a new Umami API client for one configured server.
func NewClient(server config.UmamiServer, timeout time.Duration) *Client {
	alias := server.Alias
	if alias == "" {
		if parsed, err := url.Parse(server.URL); err == nil && parsed.Host != "" {
			alias = parsed.Host
		} else {
			alias = server.URL
		}
	}

	return &Client{
		baseURL:  server.BaseURL(),
		username: server.Username,
		password: server.Password,
		alias:    alias,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		pager: rate.NewLimiter(rate.Every(paginationDelay), 1),
	}
}

// Alias returns the display name used for this server in results,
// logs and metric labels.
func (c *Client) Alias() string {
	return c.alias
}

// Authenticate logs in against the Umami server and stores the session
// token on success. Returns false on any failure (network error, non-2xx
// response, missing token field). Authentication failures are not retried
// here; callers decide whether to abort or retry.
func (c *Client) Authenticate(ctx context.Context) bool {
	return c.Login(ctx) == nil
}

// Login performs the login request and stores the session token on
// success. Unlike Authenticate it reports why a login failed:
// ErrInvalidCredentials when the server rejected the credentials, a
// wrapped transport error when it was unreachable, and a plain error
// when the response had no usable token.
func (c *Client) Login(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{
		"username": c.username,
		"password": c.password,
	})
	if err != nil {
		logging.Error().Err(err).Str("server", c.alias).Msg("Failed to encode login payload")
		metrics.RecordAuthAttempt(c.alias, false)
		return fmt.Errorf("encode login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/auth/login", bytes.NewReader(payload))
	if err != nil {
		logging.Error().Err(err).Str("server", c.alias).Msg("Failed to build login request")
		metrics.RecordAuthAttempt(c.alias, false)
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamError(c.alias, "login", time.Since(start))
		metrics.RecordAuthAttempt(c.alias, false)
		logging.Warn().Err(err).Str("server", c.alias).Msg("Authentication request failed")
		return fmt.Errorf("umami %s unreachable: %w", c.alias, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordUpstreamRequest(c.alias, "login", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		metrics.RecordAuthAttempt(c.alias, false)
		logging.Warn().Int("status", resp.StatusCode).Str("server", c.alias).Msg("Authentication failed")
		return fmt.Errorf("umami %s: login returned status %d: %w", c.alias, resp.StatusCode, ErrInvalidCredentials)
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		metrics.RecordAuthAttempt(c.alias, false)
		logging.Warn().Err(err).Str("server", c.alias).Msg("Failed to decode login response")
		return fmt.Errorf("decode login response: %w", err)
	}
	if body.Token == "" {
		metrics.RecordAuthAttempt(c.alias, false)
		logging.Warn().Str("server", c.alias).Msg("Login response missing token")
		return fmt.Errorf("umami %s: login response missing token", c.alias)
	}

	c.setToken(body.Token)
	metrics.RecordAuthAttempt(c.alias, true)
	logging.Debug().Str("server", c.alias).Str("token", logging.RedactToken(body.Token)).Msg("Authenticated against Umami server")
	return nil
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// clearToken drops a token only if it still matches the one that just
// produced a 401. Another goroutine may already have refreshed it.
func (c *Client) clearToken(stale string) {
	c.mu.Lock()
	if c.token == stale {
		c.token = ""
	}
	c.mu.Unlock()
}

// ensureToken returns the held token, logging in first when the slot is
// empty. The login runs under refreshMu with a re-check of the slot, so
// concurrent callers that all found it empty trigger a single upstream
// login; the rest reuse the token the winner stored.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	if token := c.currentToken(); token != "" {
		return token, nil
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if token := c.currentToken(); token != "" {
		return token, nil
	}
	if err := c.Login(ctx); err != nil {
		return "", err
	}
	return c.currentToken(), nil
}

// authorizedGet performs a GET against an API endpoint with the bearer
// token attached. If no token is held, it authenticates first. On a 401
// response the token is cleared, re-authentication is attempted once, and
// the request is retried exactly once. A second 401, or a failed re-auth,
// propagates as an error. The label is used for metric endpoint labels
// and must be a fixed low-cardinality name, never a raw path.
func (c *Client) authorizedGet(ctx context.Context, endpoint, label string) ([]byte, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("umami %s: authentication failed: %w", c.alias, err)
	}

	body, status, err := c.doGet(ctx, endpoint, label, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		// Token expired. Re-authenticate once and retry the request once.
		// clearToken is conditional on the stale value, so a concurrent
		// goroutine that already refreshed is not clobbered and
		// ensureToken then reuses its token without a second login.
		c.clearToken(token)
		metrics.RecordTokenRefresh(c.alias)
		logging.Debug().Str("server", c.alias).Str("endpoint", label).Msg("Token expired, re-authenticating")

		token, err = c.ensureToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("umami %s: re-authentication failed: %w", c.alias, err)
		}

		body, status, err = c.doGet(ctx, endpoint, label, token)
		if err != nil {
			return nil, err
		}
	}

	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("umami %s: %s returned status %d", c.alias, label, status)
	}

	return body, nil
}

// doGet executes a single GET request and reads the full body.
func (c *Client) doGet(ctx context.Context, endpoint, label, token string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("umami %s: failed to build request: %w", c.alias, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamError(c.alias, label, time.Since(start))
		return nil, 0, fmt.Errorf("umami %s: %s request failed: %w", c.alias, label, err)
	}
	defer func() { _ = resp.Body.Close() }()
	metrics.RecordUpstreamRequest(c.alias, label, resp.StatusCode, time.Since(start))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("umami %s: failed to read %s response: %w", c.alias, label, err)
	}

	return body, resp.StatusCode, nil
}
