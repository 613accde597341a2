// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package transfer exports and imports site content as a portable JSON
// bundle. Menu items reference their parents by slug rather than by
// database id, so a bundle can be replayed into any instance.
package transfer

import "time"

// ExportVersion is the current bundle format version.
const ExportVersion = 1

// ExportData is the root of an export bundle.
type ExportData struct {
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exportedAt"`
	MenuItems  []ExportMenuItem `json:"menuItems"`
	Pages      []ExportPage     `json:"pages"`
}

// ExportMenuItem is a menu item in portable form. ParentSlug names the
// parent item's slug; items whose parent carries no slug are exported
// as roots.
type ExportMenuItem struct {
	TitleEn        string  `json:"titleEn"`
	TitleBn        string  `json:"titleBn"`
	Slug           *string `json:"slug,omitempty"`
	ParentSlug     *string `json:"parentSlug,omitempty"`
	IsExternalLink bool    `json:"isExternalLink,omitempty"`
	URL            *string `json:"url,omitempty"`
	Position       int64   `json:"position"`
	IsActive       bool    `json:"isActive"`
}

// ExportPage is a page in portable form. LayoutKey names the layout by
// its unique key; unknown keys import as pages without a layout.
type ExportPage struct {
	Name        string     `json:"name"`
	TitleEn     string     `json:"titleEn"`
	TitleBn     string     `json:"titleBn"`
	Slug        string     `json:"slug"`
	LayoutKey   *string    `json:"layoutKey,omitempty"`
	TemplateEn  *string    `json:"templateEn,omitempty"`
	TemplateBn  *string    `json:"templateBn,omitempty"`
	Status      string     `json:"status"`
	IsActive    bool       `json:"isActive"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	// SkipExisting skips items and pages whose slug already exists
	// instead of reporting them as errors.
	SkipExisting bool
}

// ImportError describes a single problem found during validation or
// import. Field identifies the offending entry by kind and slug.
type ImportError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportResult summarizes an import run.
type ImportResult struct {
	MenuItemsCreated int           `json:"menuItemsCreated"`
	PagesCreated     int           `json:"pagesCreated"`
	Skipped          int           `json:"skipped"`
	Errors           []ImportError `json:"errors,omitempty"`
}
