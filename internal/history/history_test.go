// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package history

import (
	"testing"
	"time"

	"github.com/songtianlun/umami-dashboard/internal/models"
)

func TestStoreAddAndPoints(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Add(models.DashboardSummary{TotalPageviews: 100})
	store.Add(models.DashboardSummary{TotalPageviews: 200})

	points := store.Points()
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].TotalPageviews != 100 || points[1].TotalPageviews != 200 {
		t.Errorf("points out of order: %+v", points)
	}
}

func TestStoreEvictsOldestBeyondCap(t *testing.T) {
	t.Parallel()

	store := NewStore()
	for i := 0; i < 25; i++ {
		store.Add(models.DashboardSummary{TotalPageviews: i})
	}

	points := store.Points()
	if len(points) != maxPoints {
		t.Fatalf("expected ring capped at %d, got %d", maxPoints, len(points))
	}
	if points[0].TotalPageviews != 5 {
		t.Errorf("expected oldest retained point 5, got %d", points[0].TotalPageviews)
	}
	if points[len(points)-1].TotalPageviews != 24 {
		t.Errorf("expected newest point 24, got %d", points[len(points)-1].TotalPageviews)
	}
}

func TestStoreExpiresStalePoints(t *testing.T) {
	t.Parallel()

	current := time.Now()
	store := NewStore()

	store.now = func() time.Time { return current.Add(-25 * time.Hour) }
	store.Add(models.DashboardSummary{TotalPageviews: 1})

	store.now = func() time.Time { return current }
	store.Add(models.DashboardSummary{TotalPageviews: 2})

	points := store.Points()
	if len(points) != 1 {
		t.Fatalf("expected the stale point filtered out, got %d points", len(points))
	}
	if points[0].TotalPageviews != 2 {
		t.Errorf("expected only the fresh point, got %+v", points[0])
	}
}

func TestStoreClear(t *testing.T) {
	t.Parallel()

	store := NewStore()
	store.Add(models.DashboardSummary{})
	store.Clear()

	if got := len(store.Points()); got != 0 {
		t.Errorf("expected empty store after clear, got %d points", got)
	}
}
