// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestRecordUpstreamRequest tests upstream request metric recording
func TestRecordUpstreamRequest(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("primary", "stats", "200"))

	RecordUpstreamRequest("primary", "stats", 200, 150*time.Millisecond)

	after := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("primary", "stats", "200"))
	if after != before+1 {
		t.Errorf("expected counter to increment by 1, got %f -> %f", before, after)
	}
}

// TestRecordUpstreamError tests that network failures are labeled "error"
func TestRecordUpstreamError(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("primary", "websites", "error"))

	RecordUpstreamError("primary", "websites", 5*time.Second)

	after := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("primary", "websites", "error"))
	if after != before+1 {
		t.Errorf("expected error counter to increment by 1, got %f -> %f", before, after)
	}
}

// TestRecordAuthAttempt tests auth outcome labeling
func TestRecordAuthAttempt(t *testing.T) {
	tests := []struct {
		name    string
		success bool
		result  string
	}{
		{"successful login", true, "success"},
		{"failed login", false, "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(UpstreamAuthAttempts.WithLabelValues("primary", tt.result))
			RecordAuthAttempt("primary", tt.success)
			after := testutil.ToFloat64(UpstreamAuthAttempts.WithLabelValues("primary", tt.result))
			if after != before+1 {
				t.Errorf("expected %s counter to increment, got %f -> %f", tt.result, before, after)
			}
		})
	}
}

// TestRecordRealtimeProbe tests probe strategy metric recording
func TestRecordRealtimeProbe(t *testing.T) {
	before := testutil.ToFloat64(RealtimeProbeAttempts.WithLabelValues("active_endpoint", "hit"))

	RecordRealtimeProbe("active_endpoint", "hit")

	after := testutil.ToFloat64(RealtimeProbeAttempts.WithLabelValues("active_endpoint", "hit"))
	if after != before+1 {
		t.Errorf("expected probe counter to increment, got %f -> %f", before, after)
	}
}

// TestRecordHTTPRequest tests API request metric recording
func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/stats", "200"))

	RecordHTTPRequest("GET", "/api/v1/stats", 200, 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/stats", "200"))
	if after != before+1 {
		t.Errorf("expected API counter to increment, got %f -> %f", before, after)
	}
}

// TestUpdateHistorySize tests the history gauge
func TestUpdateHistorySize(t *testing.T) {
	UpdateHistorySize(17)

	if got := testutil.ToFloat64(HistoryPoints); got != 17 {
		t.Errorf("expected history gauge 17, got %f", got)
	}
}

// TestRecordMockFallback tests the mock fallback counter
func TestRecordMockFallback(t *testing.T) {
	before := testutil.ToFloat64(MockFallbacks)

	RecordMockFallback()

	if after := testutil.ToFloat64(MockFallbacks); after != before+1 {
		t.Errorf("expected fallback counter to increment, got %f -> %f", before, after)
	}
}
