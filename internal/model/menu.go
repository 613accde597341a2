// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines domain models and types used throughout the application.
package model

import (
	"database/sql"
	"time"
)

// Menu item constraints
const (
	MaxTitleLength = 200
	MaxPosition    = 999999
)

// MenuItem represents a node in the navigation tree. Slugs are
// hierarchical: a child's slug is composed from its parent's slug and
// its own derived segment, always with a single leading slash.
// External-link items route to URL instead and carry no derived slug.
type MenuItem struct {
	ID             int64
	TitleEn        string
	TitleBn        string
	Slug           sql.NullString
	ParentID       sql.NullInt64
	IsExternalLink bool
	URL            sql.NullString
	Position       int64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Title returns the title for the given locale code, falling back to
// English for unknown locales.
func (m *MenuItem) Title(locale string) string {
	if locale == LocaleBn {
		return m.TitleBn
	}
	return m.TitleEn
}

// IsExternal reports whether the item routes to an external URL and is
// therefore excluded from slug-based composition and resolution.
func (m *MenuItem) IsExternal() bool {
	return m.IsExternalLink || (m.URL.Valid && m.URL.String != "")
}

// IsRoot reports whether the item has no parent.
func (m *MenuItem) IsRoot() bool {
	return !m.ParentID.Valid
}
