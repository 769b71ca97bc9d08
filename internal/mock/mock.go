// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

// Package mock generates plausible demonstration data for the dashboard
// when no upstream Umami connection is configured or every upstream is
// unreachable. The UI renders demo data with an explanatory status
// message rather than a blank screen.
package mock

import (
	"math/rand/v2"

	"github.com/songtianlun/umami-dashboard/internal/models"
)

// demoSite bounds the random ranges of one generated website.
type demoSite struct {
	id, name, domain string

	pageviewsBase, pageviewsSpread int
	sessionsBase, sessionsSpread   int
	visitorsBase, visitorsSpread   int
	avgTimeBase, avgTimeSpread     int
	onlineBase, onlineSpread       int
	bounceBase, bounceSpread       float64
}

var demoSites = []demoSite{
	{
		id: "demo-1", name: "Demo Site 1", domain: "demo1.example.com",
		pageviewsBase: 10000, pageviewsSpread: 50000,
		sessionsBase: 3000, sessionsSpread: 15000,
		visitorsBase: 2000, visitorsSpread: 8000,
		avgTimeBase: 120, avgTimeSpread: 300,
		onlineBase: 5, onlineSpread: 50,
		bounceBase: 20, bounceSpread: 30,
	},
	{
		id: "demo-2", name: "Demo Site 2", domain: "demo2.example.com",
		pageviewsBase: 5000, pageviewsSpread: 30000,
		sessionsBase: 2000, sessionsSpread: 10000,
		visitorsBase: 1500, visitorsSpread: 6000,
		avgTimeBase: 180, avgTimeSpread: 400,
		onlineBase: 2, onlineSpread: 30,
		bounceBase: 15, bounceSpread: 25,
	},
}

// Generate produces a fresh set of demonstration websites with a
// matching summary. Every call returns new random values within each
// site's plausible ranges.
func Generate() ([]models.WebsiteMetrics, models.DashboardSummary) {
	websites := make([]models.WebsiteMetrics, 0, len(demoSites))
	for _, site := range demoSites {
		websites = append(websites, models.WebsiteMetrics{
			ID:             site.id,
			Name:           site.name,
			Domain:         site.domain,
			URL:            "https://" + site.domain,
			Server:         "demo",
			Pageviews:      site.pageviewsBase + rand.IntN(site.pageviewsSpread),
			Sessions:       site.sessionsBase + rand.IntN(site.sessionsSpread),
			Visitors:       site.visitorsBase + rand.IntN(site.visitorsSpread),
			AvgSessionTime: site.avgTimeBase + rand.IntN(site.avgTimeSpread),
			CurrentOnline:  site.onlineBase + rand.IntN(site.onlineSpread),
			BounceRate:     site.bounceBase + rand.Float64()*site.bounceSpread,
		})
	}

	return websites, models.Summarize(websites)
}
