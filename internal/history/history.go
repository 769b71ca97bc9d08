// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

// Package history keeps a short in-memory ring of summary snapshots so
// the dashboard can render trend sparklines. The ring is intentionally
// ephemeral: it retains at most 20 points, drops points older than 24
// hours, and does not survive a restart.
package history

import (
	"sync"
	"time"

	"github.com/songtianlun/umami-dashboard/internal/metrics"
	"github.com/songtianlun/umami-dashboard/internal/models"
)

const (
	// maxPoints bounds the ring length.
	maxPoints = 20
	// retention is the maximum age of a returned point.
	retention = 24 * time.Hour
)

// Store is a bounded, concurrency-safe history ring.
type Store struct {
	mu     sync.Mutex
	points []models.HistoryPoint
	now    func() time.Time
}

// NewStore creates an empty history store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Add appends a summary snapshot, evicting the oldest point when the
// ring is full.
func (s *Store) Add(summary models.DashboardSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.points = append(s.points, models.NewHistoryPoint(s.now(), summary))
	if len(s.points) > maxPoints {
		s.points = s.points[len(s.points)-maxPoints:]
	}
	metrics.UpdateHistorySize(len(s.points))
}

// Points returns the retained points in insertion order, excluding
// anything older than the retention window.
func (s *Store) Points() []models.HistoryPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-retention).UnixMilli()
	out := make([]models.HistoryPoint, 0, len(s.points))
	for _, point := range s.points {
		if point.Timestamp > cutoff {
			out = append(out, point)
		}
	}
	return out
}

// Clear drops all retained points.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = nil
	metrics.UpdateHistorySize(0)
}
