// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Page statuses
const (
	PageStatusDraft     = "draft"
	PageStatusPublished = "published"
	PageStatusArchived  = "archived"
)

// ValidPageStatuses contains all valid page status values.
var ValidPageStatuses = []string{PageStatusDraft, PageStatusPublished, PageStatusArchived}

// IsValidPageStatus checks if a status value is valid.
func IsValidPageStatus(status string) bool {
	for _, s := range ValidPageStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Page represents a CMS page. Its slug lives in a namespace independent
// from the menu tree but is conventionally expected to match a menu
// item's slug for public navigation.
type Page struct {
	ID          int64
	Name        string
	TitleEn     string
	TitleBn     string
	Slug        string
	LayoutID    sql.NullInt64
	TemplateEn  sql.NullString
	TemplateBn  sql.NullString
	Status      string
	IsActive    bool
	CreatedBy   sql.NullInt64
	UpdatedBy   sql.NullInt64
	ScheduledAt sql.NullTime
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPublished returns true if the page is published.
func (p *Page) IsPublished() bool {
	return p.Status == PageStatusPublished
}

// IsVisible reports whether the page may be served publicly.
func (p *Page) IsVisible() bool {
	return p.IsActive && p.IsPublished()
}

// Layout represents a page layout skeleton referenced by pages.
type Layout struct {
	ID        int64
	Name      string
	Key       string
	Content   sql.NullString
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
