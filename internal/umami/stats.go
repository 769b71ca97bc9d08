// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package umami

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/songtianlun/umami-dashboard/internal/logging"
)

// TimeWindow is a query interval in epoch milliseconds.
type TimeWindow struct {
	StartAt int64 `json:"startAt"`
	EndAt   int64 `json:"endAt"`
}

// DefaultWindow returns the trailing 24 hours ending now.
func DefaultWindow() TimeWindow {
	end := time.Now().UnixMilli()
	return TimeWindow{StartAt: end - 24*time.Hour.Milliseconds(), EndAt: end}
}

// RawStats is the schema-ambiguous stats payload of one website. Every
// field is possibly a number, a numeric string, or a wrapper object,
// depending on the Umami version; values must pass through
// NormalizeNumber before use.
type RawStats map[string]any

// GetWebsiteStats retrieves aggregate statistics for one website over
// the given window (trailing 24 hours when window is nil).
//
// The stats request and a best-effort sessions request run concurrently.
// Some Umami versions expose sessions as a separate endpoint; when that
// call fails or the endpoint does not exist, the stats payload alone is
// returned. When the primary stats call fails, an error is returned and
// the caller must treat it as "no data for this website this round",
// not as a fatal aggregation failure.
func (c *Client) GetWebsiteStats(ctx context.Context, websiteID string, window *TimeWindow) (RawStats, error) {
	w := DefaultWindow()
	if window != nil {
		w = *window
	}

	params := url.Values{}
	params.Set("startAt", strconv.FormatInt(w.StartAt, 10))
	params.Set("endAt", strconv.FormatInt(w.EndAt, 10))
	params.Set("unit", "day")
	query := params.Encode()

	type statsResult struct {
		payload RawStats
		err     error
	}
	type sessionsResult struct {
		payload any
		err     error
	}

	statsCh := make(chan statsResult, 1)
	sessionsCh := make(chan sessionsResult, 1)

	go func() {
		body, err := c.authorizedGet(ctx, fmt.Sprintf("/api/websites/%s/stats?%s", websiteID, query), "stats")
		if err != nil {
			statsCh <- statsResult{err: err}
			return
		}
		var stats RawStats
		if err := json.Unmarshal(body, &stats); err != nil {
			statsCh <- statsResult{err: fmt.Errorf("umami %s: failed to decode stats: %w", c.alias, err)}
			return
		}
		statsCh <- statsResult{payload: stats}
	}()

	go func() {
		body, err := c.authorizedGet(ctx, fmt.Sprintf("/api/websites/%s/sessions?%s", websiteID, query), "sessions")
		if err != nil {
			sessionsCh <- sessionsResult{err: err}
			return
		}
		var sessions any
		if err := json.Unmarshal(body, &sessions); err != nil {
			sessionsCh <- sessionsResult{err: err}
			return
		}
		sessionsCh <- sessionsResult{payload: sessions}
	}()

	stats := <-statsCh
	sessions := <-sessionsCh

	if stats.err != nil {
		logging.Debug().Err(stats.err).Str("server", c.alias).Str("website", websiteID).Msg("Stats call failed")
		return nil, stats.err
	}
	if stats.payload == nil {
		stats.payload = RawStats{}
	}

	if sessions.err == nil && sessions.payload != nil {
		stats.payload["sessions"] = sessions.payload
	}

	return stats.payload, nil
}
