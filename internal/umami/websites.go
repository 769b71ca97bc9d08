// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package umami

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/songtianlun/umami-dashboard/internal/logging"
	"github.com/songtianlun/umami-dashboard/internal/models"
)

// maxWebsitePages bounds pagination against a misbehaving server that
// keeps returning full pages.
const maxWebsitePages = 10

// defaultPageSizes are the round counts that suggest server-side
// pagination truncated the listing response.
var defaultPageSizes = map[int]bool{10: true, 20: true, 50: true, 100: true}

// ListAllWebsites enumerates every website on the server.
//
// The listing endpoint returns either a bare array or an object wrapping
// the array under a data field, depending on the Umami version. When the
// first response contains exactly a typical default page size (10, 20,
// 50 or 100) the result may have been truncated by server-side
// pagination, so subsequent pages are fetched with that page size until
// a short or empty page, or the hard page cap, is reached. A page fetch
// error stops pagination but returns the pages already collected;
// partial results are preferred over total failure.
func (c *Client) ListAllWebsites(ctx context.Context) ([]models.Website, error) {
	body, err := c.authorizedGet(ctx, "/api/websites", "websites")
	if err != nil {
		return nil, err
	}

	websites, err := decodeWebsitePage(body)
	if err != nil {
		return nil, fmt.Errorf("umami %s: failed to decode website listing: %w", c.alias, err)
	}

	if len(websites) == 0 || !defaultPageSizes[len(websites)] {
		return websites, nil
	}

	pageSize := len(websites)
	logging.Debug().
		Str("server", c.alias).
		Int("page_size", pageSize).
		Msg("Website listing matches a default page size, fetching remaining pages")

	all := websites
	for page := 2; page <= maxWebsitePages; page++ {
		if err := c.pager.Wait(ctx); err != nil {
			return all, nil
		}

		endpoint := fmt.Sprintf("/api/websites?page=%d&size=%d", page, pageSize)
		body, err := c.authorizedGet(ctx, endpoint, "websites")
		if err != nil {
			logging.Warn().Err(err).Str("server", c.alias).Int("page", page).Msg("Pagination fetch failed, returning partial website list")
			return all, nil
		}

		pageWebsites, err := decodeWebsitePage(body)
		if err != nil {
			logging.Warn().Err(err).Str("server", c.alias).Int("page", page).Msg("Pagination decode failed, returning partial website list")
			return all, nil
		}

		if len(pageWebsites) == 0 {
			break
		}
		all = append(all, pageWebsites...)
		if len(pageWebsites) < pageSize {
			break
		}
	}

	logging.Debug().Str("server", c.alias).Int("websites", len(all)).Msg("Website enumeration complete")
	return all, nil
}

// decodeWebsitePage accepts both listing response shapes: a bare array
// of websites, or an object with the array under a data field.
func decodeWebsitePage(body []byte) ([]models.Website, error) {
	var direct []models.Website
	if err := json.Unmarshal(body, &direct); err == nil {
		return direct, nil
	}

	var wrapped struct {
		Data []models.Website `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Data == nil {
		return []models.Website{}, nil
	}
	return wrapped.Data, nil
}
