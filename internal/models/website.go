// Umami Dashboard - Multi-Server Analytics Aggregation
// Copyright 2026 songtianlun
// SPDX-License-Identifier: MIT
// https://github.com/songtianlun/umami-dashboard

package models

// Website is a website descriptor as returned by the Umami websites
// listing endpoint. Umami has renamed the identifier field across major
// versions: 1.x returns "websiteId" while 2.x+ returns "id". Both are
// decoded and CanonicalID picks whichever is populated.
type Website struct {
	ID        string `json:"id"`
	WebsiteID string `json:"websiteId"`
	Name      string `json:"name"`
	Domain    string `json:"domain"`
	ShareID   string `json:"shareId,omitempty"`
}

// CanonicalID returns the single canonical identifier for the website,
// preferring the modern "id" field. Empty when the upstream sent neither
// field; such descriptors are skipped by the enumerator.
func (w Website) CanonicalID() string {
	if w.ID != "" {
		return w.ID
	}
	return w.WebsiteID
}

// WebsiteListPage is one page of the websites listing. Newer Umami
// versions wrap the array under "data" with paging fields; older ones
// return a bare array. The client accepts both and only this struct's
// Data field survives the boundary.
type WebsiteListPage struct {
	Data     []Website `json:"data"`
	Count    int       `json:"count"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}
