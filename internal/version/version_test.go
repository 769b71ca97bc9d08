// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package version

import (
	"strings"
	"testing"
)

func TestInfoDefaults(t *testing.T) {
	info := Info()
	if info.Version != "dev" {
		t.Errorf("expected dev version by default, got %q", info.Version)
	}
	if info.BuildTimestamp == 0 {
		t.Error("expected a non-zero build timestamp")
	}
}

func TestInfoWithBuildTime(t *testing.T) {
	orig := BuildTime
	t.Cleanup(func() { BuildTime = orig })
	BuildTime = "2026-03-01T10:00:00Z"

	info := Info()
	if info.BuildTime != "2026-03-01T10:00:00Z" {
		t.Errorf("unexpected build time %q", info.BuildTime)
	}
	if info.BuildTimestamp != 1772359200000 {
		t.Errorf("unexpected build timestamp %d", info.BuildTimestamp)
	}
}

func TestCopyrightYears(t *testing.T) {
	orig := BuildTime
	t.Cleanup(func() { BuildTime = orig })

	BuildTime = "2025-06-01T00:00:00Z"
	if got := CopyrightYears(); got != "2025" {
		t.Errorf("expected collapsed year, got %q", got)
	}

	BuildTime = "2026-06-01T00:00:00Z"
	if got := CopyrightYears(); got != "2025-2026" {
		t.Errorf("expected year range, got %q", got)
	}
}

func TestFormat(t *testing.T) {
	if !strings.Contains(Format(), Version) {
		t.Errorf("formatted version must contain the version string: %q", Format())
	}
}
