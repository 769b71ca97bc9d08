// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package logging

import (
	"fmt"
	"strings"
)

// The dashboard proxies real Umami credentials and holds live bearer
// tokens, so anything request-shaped that reaches a log line goes
// through these helpers first.

// RedactToken shortens a bearer token to a loggable prefix.
// Empty tokens become "(none)"; short tokens are fully masked.
func RedactToken(token string) string {
	if token == "" {
		return "(none)"
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + fmt.Sprintf("(%d chars)", len(token))
}

// RedactPassword fully masks a password, preserving only whether one was set.
func RedactPassword(password string) string {
	if password == "" {
		return "(none)"
	}
	return "****"
}

// SanitizeLogValue removes control characters from strings to prevent log
// injection. Newlines, carriage returns and other control characters could
// otherwise allow a malicious upstream response to forge log entries.
func SanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
