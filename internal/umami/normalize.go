// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package umami

import (
	"math"
	"strings"
)

// NormalizeNumber converts any value a Umami server may return for a
// numeric statistic into a non-negative integer. It never panics.
//
// Umami has shipped at least three incompatible encodings of the same
// logical quantity across its major versions:
//   - 2.x returns plain numbers (123)
//   - 3.0+ returns numeric strings ("123")
//   - some versions return wrapper objects ({value: 123} or {total: 123})
//
// Rules:
//   - nil -> 0
//   - number -> itself (0 if NaN or infinite)
//   - string -> base-10 integer prefix, 0 if unparseable
//   - object -> recursively normalize value, then total, then count
//   - anything else -> 0
//
// Negative results are clamped to 0; all upstream statistics are counts.
func NormalizeNumber(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return clampNonNegative(int(v))
	case float32:
		return NormalizeNumber(float64(v))
	case int:
		return clampNonNegative(v)
	case int32:
		return clampNonNegative(int(v))
	case int64:
		return clampNonNegative(int(v))
	case uint:
		return clampNonNegative(int(v))
	case uint64:
		// A value past MaxInt64 would wrap negative on conversion.
		return clampNonNegative(int(v))
	case string:
		return parseLeadingInt(v)
	case map[string]any:
		// Mirrors the nullish coalescing chain value ?? total ?? count:
		// a key that is present but null falls through to the next.
		for _, key := range []string{"value", "total", "count"} {
			if nested, ok := v[key]; ok && nested != nil {
				return NormalizeNumber(nested)
			}
		}
		return 0
	default:
		return 0
	}
}

// FirstNonZero normalizes candidates in order and returns the first
// non-zero result, or 0 when all candidates normalize to zero. Used for
// fields with multiple possible names across API versions, such as
// uniques vs visitors.
func FirstNonZero(candidates ...any) int {
	for _, candidate := range candidates {
		if n := NormalizeNumber(candidate); n != 0 {
			return n
		}
	}
	return 0
}

// parseLeadingInt parses a base-10 integer prefix from a string, the
// way parseInt does: leading whitespace and an optional sign are
// accepted, parsing stops at the first non-digit. No digits means 0.
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	i := 0
	negative := false
	if s[0] == '+' || s[0] == '-' {
		negative = s[0] == '-'
		i++
	}

	n := 0
	sawDigit := false
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		sawDigit = true
		n = n*10 + int(c-'0')
		if n > math.MaxInt32 {
			// Counts this large are never legitimate; treat as overflow.
			n = math.MaxInt32
		}
	}
	if !sawDigit || negative {
		return 0
	}
	return n
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
