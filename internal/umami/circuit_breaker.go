// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package umami

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/songtianlun/umami-dashboard/internal/config"
	"github.com/songtianlun/umami-dashboard/internal/logging"
	"github.com/songtianlun/umami-dashboard/internal/metrics"
	"github.com/songtianlun/umami-dashboard/internal/models"
)

// CircuitBreakerClient wraps Client with the circuit breaker pattern,
// preventing cascading failures when an upstream Umami server is
// unavailable or slow. With several configured servers, one dead
// upstream must not burn a full timeout per website per cycle.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// Ensure CircuitBreakerClient implements ClientInterface
var _ ClientInterface = (*CircuitBreakerClient)(nil)

// NewCircuitBreakerClient creates an Umami client with circuit breaker.
// Circuit breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(server config.UmamiServer, timeout time.Duration) *CircuitBreakerClient {
	client := NewClient(server, timeout)
	cbName := "umami-" + client.Alias()

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Str("server", client.Alias()).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// execute wraps an upstream call with circuit breaker protection.
func (cbc *CircuitBreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := cbc.cb.Execute(fn)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "rejected").Inc()
			logging.Warn().Err(err).Str("breaker", cbc.name).Msg("[CIRCUIT BREAKER] Request rejected")
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "failure").Inc()

			counts := cbc.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(cbc.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbc.name).Set(0)

	return result, nil
}

// castResult safely type-casts the circuit breaker result.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// Alias returns the display name of the wrapped server.
func (cbc *CircuitBreakerClient) Alias() string {
	return cbc.client.Alias()
}

// Authenticate verifies credentials with circuit breaker protection. An
// authentication failure counts against the breaker; a rejected call
// reports as a failed authentication.
func (cbc *CircuitBreakerClient) Authenticate(ctx context.Context) bool {
	_, err := cbc.execute(func() (interface{}, error) {
		if !cbc.client.Authenticate(ctx) {
			return nil, errors.New("authentication failed")
		}
		return nil, nil
	})
	return err == nil
}

// ListAllWebsites enumerates websites with circuit breaker protection.
func (cbc *CircuitBreakerClient) ListAllWebsites(ctx context.Context) ([]models.Website, error) {
	return castResult[[]models.Website](cbc.execute(func() (interface{}, error) {
		return cbc.client.ListAllWebsites(ctx)
	}))
}

// GetWebsiteStats retrieves stats with circuit breaker protection.
func (cbc *CircuitBreakerClient) GetWebsiteStats(ctx context.Context, websiteID string, window *TimeWindow) (RawStats, error) {
	return castResult[RawStats](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetWebsiteStats(ctx, websiteID, window)
	}))
}

// GetActiveUsers probes active visitors. The probe itself never fails,
// so it only respects an open breaker rather than feeding it.
func (cbc *CircuitBreakerClient) GetActiveUsers(ctx context.Context, websiteID string) int {
	if cbc.cb.State() == gobreaker.StateOpen {
		return 0
	}
	return cbc.client.GetActiveUsers(ctx, websiteID)
}

// GetAllWebsiteData aggregates all websites with circuit breaker
// protection on the enumeration step.
func (cbc *CircuitBreakerClient) GetAllWebsiteData(ctx context.Context, window *TimeWindow) ([]models.WebsiteMetrics, error) {
	return castResult[[]models.WebsiteMetrics](cbc.execute(func() (interface{}, error) {
		return cbc.client.GetAllWebsiteData(ctx, window)
	}))
}
