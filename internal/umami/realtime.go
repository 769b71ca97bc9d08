// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

/*
realtime.go - Active Visitor Probing

Umami has shipped several incompatible realtime APIs across its major
versions. This file implements a compatibility probe: a fixed sequence of
candidate endpoints is walked first, then heuristic estimations over the
regular stats endpoints. The first strategy yielding a positive count
wins. All caps exist to prevent a misparsed payload from producing an
absurd headline number.
*/

package umami

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/songtianlun/umami-dashboard/internal/logging"
	"github.com/songtianlun/umami-dashboard/internal/metrics"
)

// recentActivityWindow is the interval within which a session counts as
// an active visitor.
const recentActivityWindow = 5 * time.Minute

// Caps on heuristic estimates.
const (
	maxEstimatedVisitors  = 100
	maxPageviewEstimation = 50
)

// GetActiveUsers returns a best-effort count of currently active
// visitors for one website. It never fails; 0 means "no confirmed active
// visitors", which is not necessarily literally zero. False negatives
// are accepted by design, false positives are not.
func (c *Client) GetActiveUsers(ctx context.Context, websiteID string) int {
	now := time.Now()
	windowStart := now.Add(-recentActivityWindow)

	endpoints := []struct {
		path  string
		label string
	}{
		// Umami v2+ format
		{fmt.Sprintf("/api/websites/%s/active", websiteID), "active"},
		{fmt.Sprintf("/api/websites/%s/realtime", websiteID), "realtime"},
		// Legacy format
		{fmt.Sprintf("/api/realtime/%s", websiteID), "realtime_legacy"},
		// Alternative: sessions seen in the last five minutes
		{fmt.Sprintf("/api/websites/%s/sessions?startAt=%d&endAt=%d", websiteID, windowStart.UnixMilli(), now.UnixMilli()), "sessions_window"},
	}

	for _, endpoint := range endpoints {
		body, err := c.authorizedGet(ctx, endpoint.path, endpoint.label)
		if err != nil {
			metrics.RecordRealtimeProbe(endpoint.label, "error")
			continue
		}

		var payload any
		if err := json.Unmarshal(body, &payload); err != nil {
			metrics.RecordRealtimeProbe(endpoint.label, "error")
			continue
		}

		if count := countFromRealtimePayload(payload, windowStart); count > 0 {
			metrics.RecordRealtimeProbe(endpoint.label, "hit")
			metrics.RealtimeActiveUsers.WithLabelValues(c.alias).Set(float64(count))
			return count
		}
		metrics.RecordRealtimeProbe(endpoint.label, "miss")
	}

	if count := c.estimateRecentActiveUsers(ctx, websiteID); count > 0 {
		metrics.RealtimeActiveUsers.WithLabelValues(c.alias).Set(float64(count))
		return count
	}

	metrics.RealtimeActiveUsers.WithLabelValues(c.alias).Set(0)
	return 0
}

// countFromRealtimePayload extracts an active visitor count from the
// heterogeneous response shapes the realtime endpoints return.
func countFromRealtimePayload(payload any, windowStart time.Time) int {
	switch data := payload.(type) {
	case []any:
		if len(data) == 0 {
			return 0
		}

		// Prefer counting entries whose most recent activity falls
		// within the window. Entries without any timestamp count as
		// active.
		recent := 0
		for _, item := range data {
			if isRecentlyActive(item, windowStart) {
				recent++
			}
		}
		if recent > 0 {
			return recent
		}

		if len(data) > 0 {
			return len(data)
		}

		// Some versions return a single summary element with a
		// count-like field instead of one element per session.
		if first, ok := data[0].(map[string]any); ok {
			for _, key := range []string{"x", "y", "value", "count", "visitors"} {
				if n := NormalizeNumber(first[key]); n > 0 {
					return n
				}
			}
		}
		return 0

	case map[string]any:
		for _, key := range []string{"value", "count", "active", "visitors", "total"} {
			if n := NormalizeNumber(data[key]); n > 0 {
				return n
			}
		}
		return 0

	case float64:
		return NormalizeNumber(data)

	default:
		return 0
	}
}

// isRecentlyActive reports whether a session entry shows activity after
// windowStart. Entries without a parseable timestamp are assumed active.
func isRecentlyActive(item any, windowStart time.Time) bool {
	entry, ok := item.(map[string]any)
	if !ok {
		return true
	}
	for _, key := range []string{"updatedAt", "createdAt", "timestamp"} {
		if raw, ok := entry[key]; ok && raw != nil {
			if ts, ok := parseActivityTime(raw); ok {
				return ts.After(windowStart)
			}
		}
	}
	return true
}

// parseActivityTime parses the timestamp formats observed across Umami
// versions: RFC 3339 strings and epoch milliseconds.
func parseActivityTime(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts, true
			}
		}
		return time.Time{}, false
	case float64:
		return time.UnixMilli(int64(v)), true
	default:
		return time.Time{}, false
	}
}

// estimateRecentActiveUsers falls back to heuristic estimation when no
// realtime endpoint produced a count. Methods are tried in order, first
// positive result wins.
func (c *Client) estimateRecentActiveUsers(ctx context.Context, websiteID string) int {
	methods := []struct {
		name string
		fn   func(context.Context, string) int
	}{
		{"uniques_5m", c.estimateFromRecentUniques},
		{"pageviews_5m", c.estimateFromRecentPageviews},
		{"sessions_active", c.estimateFromActiveSessions},
	}

	for _, method := range methods {
		count := method.fn(ctx, websiteID)
		if count > 0 {
			metrics.RecordRealtimeProbe(method.name, "hit")
			logging.Debug().
				Str("server", c.alias).
				Str("website", websiteID).
				Str("method", method.name).
				Int("count", count).
				Msg("Active users estimated heuristically")
			return count
		}
		metrics.RecordRealtimeProbe(method.name, "miss")
	}
	return 0
}

// estimateFromRecentUniques counts unique visitors over the last five
// minutes via the regular stats endpoint, capped at 100.
func (c *Client) estimateFromRecentUniques(ctx context.Context, websiteID string) int {
	end := time.Now()
	start := end.Add(-recentActivityWindow)

	endpoint := fmt.Sprintf("/api/websites/%s/stats?startAt=%d&endAt=%d&unit=minute", websiteID, start.UnixMilli(), end.UnixMilli())
	body, err := c.authorizedGet(ctx, endpoint, "stats")
	if err != nil {
		return 0
	}

	var stats RawStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return 0
	}

	return capAt(NormalizeNumber(stats["uniques"]), maxEstimatedVisitors)
}

// estimateFromRecentPageviews estimates active users from the pageview
// count of the last five minutes, assuming roughly two pageviews per
// session, rounded up, capped at 50.
func (c *Client) estimateFromRecentPageviews(ctx context.Context, websiteID string) int {
	end := time.Now()
	start := end.Add(-recentActivityWindow)

	endpoint := fmt.Sprintf("/api/websites/%s/pageviews?startAt=%d&endAt=%d&unit=minute", websiteID, start.UnixMilli(), end.UnixMilli())
	body, err := c.authorizedGet(ctx, endpoint, "pageviews")
	if err != nil {
		return 0
	}

	var buckets []any
	if err := json.Unmarshal(body, &buckets); err != nil || len(buckets) == 0 {
		return 0
	}

	total := 0
	for _, bucket := range buckets {
		entry, ok := bucket.(map[string]any)
		if !ok {
			continue
		}
		if n := NormalizeNumber(entry["y"]); n > 0 {
			total += n
		} else {
			total += NormalizeNumber(entry["value"])
		}
	}
	if total == 0 {
		return 0
	}

	return capAt((total+1)/2, maxPageviewEstimation)
}

// estimateFromActiveSessions queries the active sessions endpoint
// variant, capped at 100.
func (c *Client) estimateFromActiveSessions(ctx context.Context, websiteID string) int {
	endpoint := fmt.Sprintf("/api/websites/%s/sessions/active", websiteID)
	body, err := c.authorizedGet(ctx, endpoint, "sessions_active")
	if err != nil {
		return 0
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0
	}

	switch data := payload.(type) {
	case []any:
		return capAt(len(data), maxEstimatedVisitors)
	case map[string]any:
		if raw, ok := data["count"].(float64); ok {
			return capAt(NormalizeNumber(raw), maxEstimatedVisitors)
		}
		return 0
	default:
		return 0
	}
}

func capAt(n, limit int) int {
	if n > limit {
		return limit
	}
	return n
}
