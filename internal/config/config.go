// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

// Package config defines the service configuration and its layered
// loading (defaults, optional YAML file, environment variables).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/songtianlun/umami-dashboard/internal/validation"
)

// UmamiServer describes one upstream Umami instance the dashboard
// aggregates from. Credentials are proxied verbatim to the upstream's
// login endpoint; nothing is persisted here.
type UmamiServer struct {
	URL      string `koanf:"url" validate:"required,url"`
	Username string `koanf:"username" validate:"required"`
	Password string `koanf:"password" validate:"required"`
	// Alias is the display name shown for this instance in the UI.
	Alias string `koanf:"alias"`
}

// BaseURL returns the server URL without a trailing slash, the form all
// endpoint paths are joined onto.
func (s UmamiServer) BaseURL() string {
	return strings.TrimSuffix(s.URL, "/")
}

// UmamiConfig groups upstream-facing settings.
type UmamiConfig struct {
	// Servers lists the Umami instances to aggregate. May be empty, in
	// which case the stats endpoint serves demonstration data.
	Servers []UmamiServer `koanf:"servers"`

	// Legacy single-server environment variables (UMAMI_SERVER_URL and
	// friends) land here and are folded into Servers by Load.
	ServerURL   string `koanf:"server_url"`
	Username    string `koanf:"username"`
	Password    string `koanf:"password"`
	ServerAlias string `koanf:"server_alias"`

	// RequestTimeout bounds every upstream HTTP request.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// APIConfig holds HTTP-layer policy settings.
type APIConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs" validate:"gte=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// MockConfig controls the demonstration-data fallback.
type MockConfig struct {
	// FallbackEnabled serves generated demo data when no upstream is
	// configured or aggregation fails entirely. Matches the original
	// dashboard's behavior of never showing a blank screen.
	FallbackEnabled bool `koanf:"fallback_enabled"`
}

// Config is the root configuration.
type Config struct {
	Umami   UmamiConfig   `koanf:"umami"`
	Server  ServerConfig  `koanf:"server"`
	API     APIConfig     `koanf:"api"`
	Logging LoggingConfig `koanf:"logging"`
	Mock    MockConfig    `koanf:"mock"`
}

// Validate checks the configuration for internal consistency.
// An empty server list is valid (mock-only mode); configured servers
// must each be complete.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return fmt.Errorf("invalid configuration: %s", verr.Error())
	}
	for i := range c.Umami.Servers {
		if verr := validation.ValidateStruct(&c.Umami.Servers[i]); verr != nil {
			return fmt.Errorf("invalid umami server %d: %s", i, verr.Error())
		}
	}
	if c.Umami.RequestTimeout <= 0 {
		return fmt.Errorf("umami request_timeout must be positive, got %s", c.Umami.RequestTimeout)
	}
	return nil
}

// foldLegacyServer appends the single-server environment settings to the
// server list when present. Partial legacy settings (URL without
// credentials) are rejected by Validate afterwards.
func (c *Config) foldLegacyServer() {
	if c.Umami.ServerURL == "" || c.Umami.Username == "" || c.Umami.Password == "" {
		return
	}
	c.Umami.Servers = append(c.Umami.Servers, UmamiServer{
		URL:      c.Umami.ServerURL,
		Username: c.Umami.Username,
		Password: c.Umami.Password,
		Alias:    c.Umami.ServerAlias,
	})
	c.Umami.ServerURL = ""
	c.Umami.Username = ""
	c.Umami.Password = ""
	c.Umami.ServerAlias = ""
}
