// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package umami

import (
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestDefaultWindow(t *testing.T) {
	t.Parallel()

	w := DefaultWindow()
	if w.EndAt-w.StartAt != 24*time.Hour.Milliseconds() {
		t.Errorf("expected a 24 hour window, got %d ms", w.EndAt-w.StartAt)
	}
	now := time.Now().UnixMilli()
	if w.EndAt < now-1000 || w.EndAt > now+1000 {
		t.Errorf("window should end about now, got %d vs %d", w.EndAt, now)
	}
}

func TestGetWebsiteStats(t *testing.T) {
	t.Parallel()

	t.Run("merges separate sessions payload", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			switch {
			case strings.HasSuffix(r.URL.Path, "/stats"):
				_, _ = w.Write([]byte(`{"pageviews": 100, "uniques": 40}`))
			case strings.HasSuffix(r.URL.Path, "/sessions"):
				_, _ = w.Write([]byte(`[{"id": "s1"}, {"id": "s2"}]`))
			default:
				http.NotFound(w, r)
			}
		})

		stats, err := client.GetWebsiteStats(t.Context(), "site-1", nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if NormalizeNumber(stats["pageviews"]) != 100 {
			t.Errorf("unexpected pageviews: %v", stats["pageviews"])
		}
		sessions, ok := stats["sessions"].([]any)
		if !ok || len(sessions) != 2 {
			t.Errorf("expected merged sessions array of 2, got %v", stats["sessions"])
		}
	})

	t.Run("sessions failure is not an error", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/stats") {
				_, _ = w.Write([]byte(`{"pageviews": "250"}`))
				return
			}
			http.NotFound(w, r)
		})

		stats, err := client.GetWebsiteStats(t.Context(), "site-1", nil)
		if err != nil {
			t.Fatalf("sessions endpoint absence must not fail the fetch: %v", err)
		}
		if NormalizeNumber(stats["pageviews"]) != 250 {
			t.Errorf("unexpected pageviews: %v", stats["pageviews"])
		}
		if _, present := stats["sessions"]; present {
			t.Error("sessions key must be absent when the sessions call failed")
		}
	})

	t.Run("stats failure propagates", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/sessions") {
				_, _ = w.Write([]byte(`[]`))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		})

		if _, err := client.GetWebsiteStats(t.Context(), "site-1", nil); err == nil {
			t.Fatal("expected error when the primary stats call fails")
		}
	})

	t.Run("explicit window is forwarded", func(t *testing.T) {
		t.Parallel()
		window := &TimeWindow{StartAt: 1_700_000_000_000, EndAt: 1_700_086_400_000}
		client := newTestClient(t, "tok", func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/stats") {
				q := r.URL.Query()
				if q.Get("startAt") != strconv.FormatInt(window.StartAt, 10) {
					t.Errorf("unexpected startAt %q", q.Get("startAt"))
				}
				if q.Get("endAt") != strconv.FormatInt(window.EndAt, 10) {
					t.Errorf("unexpected endAt %q", q.Get("endAt"))
				}
				if q.Get("unit") != "day" {
					t.Errorf("unexpected unit %q", q.Get("unit"))
				}
				_, _ = w.Write([]byte(`{}`))
				return
			}
			http.NotFound(w, r)
		})

		if _, err := client.GetWebsiteStats(t.Context(), "site-1", window); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
