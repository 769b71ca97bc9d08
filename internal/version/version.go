// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

// Package version reports the running build. The variables are
// overridden at build time:
//
//	go build -ldflags "-X .../internal/version.Version=v1.2.0 \
//	  -X .../internal/version.BuildTime=2026-09-01T12:00:00Z"
package version

import (
	"fmt"
	"time"

	"github.com/songtianlun/umami-dashboard/internal/models"
)

// Build metadata, set via -ldflags. Defaults describe a development
// build.
var (
	Version   = "dev"
	BuildTime = ""
)

// copyrightStartYear is the project's first release year.
const copyrightStartYear = 2025

// Info returns the build information of the running binary.
func Info() models.VersionInfo {
	built := buildTime()
	return models.VersionInfo{
		Version:        Version,
		BuildTime:      built.UTC().Format(time.RFC3339),
		BuildTimestamp: built.UnixMilli(),
	}
}

// Format renders the version line shown in the dashboard footer.
func Format() string {
	info := Info()
	return fmt.Sprintf("%s / %s", info.Version, info.BuildTime)
}

// CopyrightYears renders the copyright year range, collapsing to a
// single year for builds from the first release year.
func CopyrightYears() string {
	buildYear := buildTime().Year()
	if buildYear <= copyrightStartYear {
		return fmt.Sprintf("%d", copyrightStartYear)
	}
	return fmt.Sprintf("%d-%d", copyrightStartYear, buildYear)
}

func buildTime() time.Time {
	if BuildTime != "" {
		if parsed, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			return parsed
		}
	}
	return time.Now()
}
