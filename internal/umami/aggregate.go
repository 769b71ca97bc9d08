// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package umami

import (
	"context"
	"fmt"
	"time"

	"github.com/songtianlun/umami-dashboard/internal/logging"
	"github.com/songtianlun/umami-dashboard/internal/metrics"
	"github.com/songtianlun/umami-dashboard/internal/models"
)

// totaltimeMillisecondThreshold decides the unit of the upstream
// totaltime field. Different Umami versions report it in seconds or
// milliseconds; a magnitude above this threshold is taken as
// milliseconds.
const totaltimeMillisecondThreshold = 1_000_000

// GetAllWebsiteData enumerates every website on the server and builds a
// metric record for each. Per website, the stats fetch and the realtime
// probe run concurrently; across websites processing is sequential,
// which bounds concurrent upstream load.
//
// A website whose stats call fails is skipped with a warning; partial
// success is the expected steady state against flaky endpoints. An
// error is returned only when enumeration itself fails.
func (c *Client) GetAllWebsiteData(ctx context.Context, window *TimeWindow) ([]models.WebsiteMetrics, error) {
	start := time.Now()

	websites, err := c.ListAllWebsites(ctx)
	if err != nil {
		return nil, fmt.Errorf("umami %s: website enumeration failed: %w", c.alias, err)
	}

	results := make([]models.WebsiteMetrics, 0, len(websites))
	for _, website := range websites {
		websiteID := website.CanonicalID()
		if websiteID == "" {
			logging.Warn().
				Str("server", c.alias).
				Str("name", website.Name).
				Str("domain", website.Domain).
				Msg("Website descriptor missing id, skipping")
			continue
		}

		type realtimeResult struct{ count int }
		realtimeCh := make(chan realtimeResult, 1)
		go func() {
			realtimeCh <- realtimeResult{count: c.GetActiveUsers(ctx, websiteID)}
		}()

		stats, err := c.GetWebsiteStats(ctx, websiteID, window)
		realtime := <-realtimeCh

		if err != nil {
			metrics.RecordWebsiteError(c.alias)
			logging.Warn().
				Err(err).
				Str("server", c.alias).
				Str("website", website.Name).
				Msg("No stats data for website, skipping")
			continue
		}

		results = append(results, c.buildMetrics(website, websiteID, stats, realtime.count))
	}

	metrics.RecordAggregation(time.Since(start), len(results))
	logging.Info().
		Str("server", c.alias).
		Int("websites", len(results)).
		Dur("elapsed", time.Since(start)).
		Msg("Aggregation cycle complete")

	return results, nil
}

// buildMetrics normalizes one raw stats payload into a metric record.
func (c *Client) buildMetrics(website models.Website, websiteID string, stats RawStats, activeUsers int) models.WebsiteMetrics {
	pageviews := NormalizeNumber(stats["pageviews"])
	visitors := FirstNonZero(stats["uniques"], stats["visitors"])
	bounces := NormalizeNumber(stats["bounces"])
	totaltime := NormalizeNumber(stats["totaltime"])
	sessions := deriveSessions(stats, pageviews)

	avgSessionTime := averageSessionTime(totaltime, sessions, visitors)
	if avgSessionTime == 0 && totaltime > 0 {
		logging.Debug().
			Str("server", c.alias).
			Str("website", website.Name).
			Int("totaltime", totaltime).
			Int("sessions", sessions).
			Int("visitors", visitors).
			Msg("Unable to derive average session time")
	}

	bounceRate := 0.0
	if pageviews > 0 {
		bounceRate = float64(bounces) / float64(pageviews) * 100
	}

	return models.WebsiteMetrics{
		ID:             websiteID,
		Name:           website.Name,
		Domain:         website.Domain,
		URL:            "https://" + website.Domain,
		Server:         c.alias,
		Pageviews:      pageviews,
		Sessions:       sessions,
		Visitors:       visitors,
		AvgSessionTime: avgSessionTime,
		CurrentOnline:  activeUsers,
		BounceRate:     bounceRate,
	}
}

// deriveSessions resolves the session count across API shapes: Umami
// 3.0+ reports visits, older versions report sessions (sometimes as an
// array of session objects). With neither present, sessions are
// estimated from pageviews at a rough 0.7 sessions-per-pageview ratio,
// with a minimum of 1 when there were any pageviews at all.
func deriveSessions(stats RawStats, pageviews int) int {
	if visits, ok := stats["visits"]; ok && visits != nil {
		if n := NormalizeNumber(visits); n > 0 {
			return n
		}
	}
	if raw, ok := stats["sessions"]; ok && raw != nil {
		if list, isArray := raw.([]any); isArray {
			return len(list)
		}
		if n := NormalizeNumber(raw); n > 0 {
			return n
		}
	}
	if pageviews > 0 {
		estimated := pageviews * 7 / 10
		if estimated < 1 {
			estimated = 1
		}
		return estimated
	}
	return 0
}

// averageSessionTime derives the mean session duration in seconds.
// totaltime above the millisecond threshold is converted to seconds
// first. Sessions are the preferred denominator; when that yields zero,
// visitors serve as a more stable fallback denominator.
func averageSessionTime(totaltime, sessions, visitors int) int {
	if totaltime <= 0 {
		return 0
	}

	seconds := totaltime
	if totaltime > totaltimeMillisecondThreshold {
		seconds = totaltime / 1000
	}

	if sessions > 0 {
		if avg := seconds / sessions; avg > 0 {
			return avg
		}
	}
	if visitors > 0 {
		return seconds / visitors
	}
	return 0
}
