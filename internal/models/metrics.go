// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package models

import "time"

// WebsiteMetrics is the fully normalized, UI-ready metric record for one
// website over one aggregation window. Constructed fresh per aggregation
// call and never mutated afterwards. All counters are non-negative;
// BounceRate is a percentage (0 when there were no pageviews).
type WebsiteMetrics struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
	URL    string `json:"url"`
	// Server is the display alias of the Umami instance the record came
	// from. Empty for single-server deployments.
	Server         string  `json:"server,omitempty"`
	Pageviews      int     `json:"pageviews"`
	Sessions       int     `json:"sessions"`
	Visitors       int     `json:"visitors"`
	AvgSessionTime int     `json:"avgSessionTime"` // seconds
	CurrentOnline  int     `json:"currentOnline"`
	BounceRate     float64 `json:"bounceRate"` // percent
}

// DashboardSummary holds cross-website totals for one aggregation pass.
// AvgSessionTime is the mean of the per-website averages, matching the
// headline card the dashboard renders.
type DashboardSummary struct {
	TotalPageviews     int `json:"totalPageviews"`
	TotalSessions      int `json:"totalSessions"`
	TotalVisitors      int `json:"totalVisitors"`
	AvgSessionTime     int `json:"avgSessionTime"`
	TotalCurrentOnline int `json:"totalCurrentOnline"`
}

// Summarize computes the cross-website totals the dashboard headline
// shows. AvgSessionTime is the plain mean of the per-website averages.
func Summarize(websites []WebsiteMetrics) DashboardSummary {
	var summary DashboardSummary
	for _, site := range websites {
		summary.TotalPageviews += site.Pageviews
		summary.TotalSessions += site.Sessions
		summary.TotalVisitors += site.Visitors
		summary.AvgSessionTime += site.AvgSessionTime
		summary.TotalCurrentOnline += site.CurrentOnline
	}
	if len(websites) > 0 {
		summary.AvgSessionTime /= len(websites)
	}
	return summary
}

// DataSource identifies where a dashboard snapshot came from.
const (
	SourceUmami = "umami"
	SourceMock  = "mock"
)

// DashboardSnapshot is the response payload of the stats endpoint:
// per-website records plus summary totals, tagged with the data source.
// Message carries a human-readable note when the service degraded to
// demonstration data.
type DashboardSnapshot struct {
	Websites []WebsiteMetrics `json:"websites"`
	Summary  DashboardSummary `json:"summary"`
	Source   string           `json:"source"`
	Message  string           `json:"message,omitempty"`
}

// HistoryPoint is one retained aggregation summary, used by the
// dashboard's trend sparklines. Timestamp is epoch milliseconds to match
// the upstream API's time convention.
type HistoryPoint struct {
	Timestamp          int64 `json:"timestamp"`
	TotalPageviews     int   `json:"totalPageviews"`
	TotalSessions      int   `json:"totalSessions"`
	TotalVisitors      int   `json:"totalVisitors"`
	AvgSessionTime     int   `json:"avgSessionTime"`
	TotalCurrentOnline int   `json:"totalCurrentOnline"`
}

// NewHistoryPoint captures a summary at the given time.
func NewHistoryPoint(at time.Time, s DashboardSummary) HistoryPoint {
	return HistoryPoint{
		Timestamp:          at.UnixMilli(),
		TotalPageviews:     s.TotalPageviews,
		TotalSessions:      s.TotalSessions,
		TotalVisitors:      s.TotalVisitors,
		AvgSessionTime:     s.AvgSessionTime,
		TotalCurrentOnline: s.TotalCurrentOnline,
	}
}
