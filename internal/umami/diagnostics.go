// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package umami

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/songtianlun/umami-dashboard/internal/models"
)

// ProbeRealtimeEndpoints tries every candidate realtime endpoint for one
// website and reports each raw outcome. This is the diagnostic behind
// the realtime test surface in the settings UI; the production probe
// chain in GetActiveUsers stops at the first hit, while this walks all
// of them so a user can see which endpoints their Umami version serves.
func (c *Client) ProbeRealtimeEndpoints(ctx context.Context, websiteID string) []models.EndpointProbeResult {
	now := time.Now()
	windowStart := now.Add(-recentActivityWindow)

	endpoints := []string{
		fmt.Sprintf("/api/websites/%s/active", websiteID),
		fmt.Sprintf("/api/websites/%s/realtime", websiteID),
		fmt.Sprintf("/api/realtime/%s", websiteID),
		fmt.Sprintf("/api/websites/%s/sessions?startAt=%d&endAt=%d", websiteID, windowStart.UnixMilli(), now.UnixMilli()),
	}

	results := make([]models.EndpointProbeResult, 0, len(endpoints))
	for _, endpoint := range endpoints {
		result := models.EndpointProbeResult{Endpoint: endpoint}

		body, err := c.authorizedGet(ctx, endpoint, "realtime_probe")
		if err != nil {
			result.Status = "error"
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		var payload any
		if err := json.Unmarshal(body, &payload); err != nil {
			result.Status = "error"
			result.Error = fmt.Sprintf("undecodable response: %v", err)
			results = append(results, result)
			continue
		}

		result.Status = http.StatusOK
		result.Data = payload
		switch data := payload.(type) {
		case []any:
			length := len(data)
			result.Type = "array"
			result.Length = &length
		case map[string]any:
			result.Type = "object"
		case float64:
			result.Type = "number"
		case string:
			result.Type = "string"
		case nil:
			result.Type = "null"
		default:
			result.Type = "unknown"
		}
		results = append(results, result)
	}

	return results
}
