// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/navstruct/navcms/internal/cache"
	"github.com/navstruct/navcms/internal/model"
	"github.com/navstruct/navcms/internal/store"
	"github.com/navstruct/navcms/internal/util"
)

// ResolvedLayout is the layout shell attached to a resolved page.
type ResolvedLayout struct {
	Key     string `json:"key"`
	Content string `json:"content"`
}

// ResolvedPage is the public payload for a published page. Template
// values are pointers so a missing locale template serializes as an
// explicit null rather than an empty string.
type ResolvedPage struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Slug        string             `json:"slug"`
	Title       map[string]string  `json:"title"`
	Template    map[string]*string `json:"template"`
	Layout      *ResolvedLayout    `json:"layout,omitempty"`
	PublishedAt *time.Time         `json:"publishedAt,omitempty"`
}

// PageService manages page content and resolves public page lookups.
type PageService struct {
	db              *sql.DB
	queries         *store.Queries
	requireMenuSlug bool
	pageCache       *cache.PageCache
	logger          *slog.Logger
}

// PageServiceOptions configures a PageService.
type PageServiceOptions struct {
	// RequireMenuSlug rejects page slugs that no menu item carries.
	RequireMenuSlug bool
	PageCache       *cache.PageCache
	Logger          *slog.Logger
}

// NewPageService creates a PageService.
func NewPageService(db *sql.DB, opts PageServiceOptions) *PageService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PageService{
		db:              db,
		queries:         store.New(db),
		requireMenuSlug: opts.RequireMenuSlug,
		pageCache:       opts.PageCache,
		logger:          logger,
	}
}

// ResolveBySlug finds the published, active page for a public URL
// slug. Matching is lenient about leading and trailing slashes, so
// "about", "/about", "about/", and "/about/" all resolve to the same
// page.
func (s *PageService) ResolveBySlug(ctx context.Context, rawSlug string) (ResolvedPage, error) {
	normalized := util.NormalizeSlugPath(rawSlug)
	if normalized == "" {
		return ResolvedPage{}, NewNotFoundError("page", rawSlug)
	}

	if s.pageCache != nil {
		if payload, ok := s.pageCache.Get(ctx, normalized); ok {
			var resolved ResolvedPage
			if err := json.Unmarshal(payload, &resolved); err == nil {
				return resolved, nil
			}
		}
	}

	page, err := s.queries.GetVisiblePageBySlugVariants(ctx, util.SlugVariants(normalized))
	if errors.Is(err, sql.ErrNoRows) {
		return ResolvedPage{}, NewNotFoundError("page", normalized)
	}
	if err != nil {
		return ResolvedPage{}, err
	}

	resolved := ResolvedPage{
		ID:   page.ID,
		Name: page.Name,
		Slug: normalized,
		Title: map[string]string{
			model.LocaleEn: page.TitleEn,
			model.LocaleBn: page.TitleBn,
		},
		Template: map[string]*string{
			model.LocaleEn: util.PtrFromNullString(page.TemplateEn),
			model.LocaleBn: util.PtrFromNullString(page.TemplateBn),
		},
	}
	if page.PublishedAt.Valid {
		at := page.PublishedAt.Time
		resolved.PublishedAt = &at
	}
	if page.LayoutID.Valid {
		layout, err := s.queries.GetLayout(ctx, page.LayoutID.Int64)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Stale layout reference; serve the page without a shell.
		case err != nil:
			return ResolvedPage{}, err
		case layout.IsActive:
			resolved.Layout = &ResolvedLayout{Key: layout.Key, Content: layout.Content.String}
		}
	}

	if s.pageCache != nil {
		if payload, err := json.Marshal(resolved); err == nil {
			s.pageCache.Set(ctx, normalized, payload)
		}
	}
	return resolved, nil
}

// CreatePageInput holds fields for creating a page.
type CreatePageInput struct {
	Name        string
	TitleEn     string
	TitleBn     string
	Slug        string
	LayoutID    *int64
	TemplateEn  *string
	TemplateBn  *string
	Status      string
	IsActive    *bool
	CreatedBy   *int64
	ScheduledAt *time.Time
}

// UpdatePageInput holds a partial page update.
type UpdatePageInput struct {
	Name           *string
	TitleEn        *string
	TitleBn        *string
	Slug           *string
	SetLayout      bool
	LayoutID       *int64
	TemplateEn     *string
	TemplateBn     *string
	Status         *string
	IsActive       *bool
	UpdatedBy      *int64
	SetScheduledAt bool
	ScheduledAt    *time.Time
}

// Get fetches a page by id, draft or not, for the admin panel.
func (s *PageService) Get(ctx context.Context, id int64) (model.Page, error) {
	page, err := s.queries.GetPage(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Page{}, NewNotFoundError("page", itoa(id))
	}
	return page, err
}

// List returns all pages for the admin panel.
func (s *PageService) List(ctx context.Context) ([]model.Page, error) {
	return s.queries.ListPages(ctx)
}

// Create validates and inserts a new page. The slug is stored in bare
// normalized form without surrounding slashes.
func (s *PageService) Create(ctx context.Context, in CreatePageInput) (model.Page, error) {
	if strings.TrimSpace(in.Name) == "" {
		return model.Page{}, NewValidationError("name", "name is required")
	}
	if err := validateTitles(in.TitleEn, in.TitleBn); err != nil {
		return model.Page{}, err
	}
	slug, err := s.checkSlug(ctx, in.Slug, 0)
	if err != nil {
		return model.Page{}, err
	}
	status := in.Status
	if status == "" {
		status = model.PageStatusDraft
	}
	if !model.IsValidPageStatus(status) {
		return model.Page{}, NewValidationError("status", "unknown status")
	}
	if in.LayoutID != nil {
		if _, err := s.queries.GetLayout(ctx, *in.LayoutID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.Page{}, NewNotFoundError("layout", itoa(*in.LayoutID))
			}
			return model.Page{}, err
		}
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	now := time.Now().UTC()
	var publishedAt sql.NullTime
	if status == model.PageStatusPublished {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}
	var scheduledAt sql.NullTime
	if in.ScheduledAt != nil {
		scheduledAt = sql.NullTime{Time: in.ScheduledAt.UTC(), Valid: true}
	}

	page, err := s.queries.CreatePage(ctx, store.CreatePageParams{
		Name:        in.Name,
		TitleEn:     in.TitleEn,
		TitleBn:     in.TitleBn,
		Slug:        slug,
		LayoutID:    util.NullInt64FromPtr(in.LayoutID),
		TemplateEn:  util.NullStringFromPtr(in.TemplateEn),
		TemplateBn:  util.NullStringFromPtr(in.TemplateBn),
		Status:      status,
		IsActive:    isActive,
		CreatedBy:   util.NullInt64FromPtr(in.CreatedBy),
		ScheduledAt: scheduledAt,
		PublishedAt: publishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Page{}, err
	}

	s.invalidate(ctx)
	return page, nil
}

// Update applies a partial update to a page.
func (s *PageService) Update(ctx context.Context, id int64, in UpdatePageInput) (model.Page, error) {
	existing, err := s.queries.GetPage(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Page{}, NewNotFoundError("page", itoa(id))
	}
	if err != nil {
		return model.Page{}, err
	}

	next := existing
	if in.Name != nil {
		next.Name = *in.Name
	}
	if in.TitleEn != nil {
		next.TitleEn = *in.TitleEn
	}
	if in.TitleBn != nil {
		next.TitleBn = *in.TitleBn
	}
	if in.Slug != nil {
		slug, err := s.checkSlug(ctx, *in.Slug, id)
		if err != nil {
			return model.Page{}, err
		}
		next.Slug = slug
	}
	if in.SetLayout {
		next.LayoutID = util.NullInt64FromPtr(in.LayoutID)
	}
	if in.TemplateEn != nil {
		next.TemplateEn = sql.NullString{String: *in.TemplateEn, Valid: true}
	}
	if in.TemplateBn != nil {
		next.TemplateBn = sql.NullString{String: *in.TemplateBn, Valid: true}
	}
	if in.Status != nil {
		next.Status = *in.Status
	}
	if in.IsActive != nil {
		next.IsActive = *in.IsActive
	}
	if in.UpdatedBy != nil {
		next.UpdatedBy = sql.NullInt64{Int64: *in.UpdatedBy, Valid: true}
	}
	if in.SetScheduledAt {
		if in.ScheduledAt != nil {
			next.ScheduledAt = sql.NullTime{Time: in.ScheduledAt.UTC(), Valid: true}
		} else {
			next.ScheduledAt = sql.NullTime{}
		}
	}

	if strings.TrimSpace(next.Name) == "" {
		return model.Page{}, NewValidationError("name", "name is required")
	}
	if err := validateTitles(next.TitleEn, next.TitleBn); err != nil {
		return model.Page{}, err
	}
	if !model.IsValidPageStatus(next.Status) {
		return model.Page{}, NewValidationError("status", "unknown status")
	}
	if next.LayoutID.Valid {
		if _, err := s.queries.GetLayout(ctx, next.LayoutID.Int64); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.Page{}, NewNotFoundError("layout", itoa(next.LayoutID.Int64))
			}
			return model.Page{}, err
		}
	}

	now := time.Now().UTC()
	if next.Status == model.PageStatusPublished && !existing.IsPublished() {
		next.PublishedAt = sql.NullTime{Time: now, Valid: true}
	}

	if err := s.queries.UpdatePage(ctx, store.UpdatePageParams{
		ID:          id,
		Name:        next.Name,
		TitleEn:     next.TitleEn,
		TitleBn:     next.TitleBn,
		Slug:        next.Slug,
		LayoutID:    next.LayoutID,
		TemplateEn:  next.TemplateEn,
		TemplateBn:  next.TemplateBn,
		Status:      next.Status,
		IsActive:    next.IsActive,
		UpdatedBy:   next.UpdatedBy,
		ScheduledAt: next.ScheduledAt,
		PublishedAt: next.PublishedAt,
		UpdatedAt:   now,
	}); err != nil {
		return model.Page{}, err
	}

	s.invalidate(ctx)
	return s.queries.GetPage(ctx, id)
}

// SetTemplate replaces one locale's template content for a page.
func (s *PageService) SetTemplate(ctx context.Context, id int64, locale, content string) error {
	if !model.IsValidLocale(locale) {
		return NewValidationError("locale", "unknown locale")
	}
	if _, err := s.queries.GetPage(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("page", itoa(id))
		}
		return err
	}
	value := sql.NullString{String: content, Valid: true}
	if err := s.queries.UpdatePageTemplate(ctx, id, locale, value, time.Now().UTC()); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete removes a page.
func (s *PageService) Delete(ctx context.Context, id int64) error {
	if _, err := s.queries.GetPage(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError("page", itoa(id))
		}
		return err
	}
	if err := s.queries.DeletePage(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// PublishDue transitions every draft whose scheduled time has arrived
// to published, returning how many pages were affected.
func (s *PageService) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.queries.PublishDuePages(ctx, now.UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("published scheduled pages",
			"category", model.EventCategoryScheduler, "count", n)
		s.invalidate(ctx)
	}
	return n, nil
}

// checkSlug normalizes and validates a page slug, enforces uniqueness,
// and, when the menu-slug policy is on, requires a matching menu item.
func (s *PageService) checkSlug(ctx context.Context, raw string, excludeID int64) (string, error) {
	slug := util.NormalizeSlugPath(raw)
	if slug == "" || !util.IsValidSlugPath(slug) {
		return "", NewValidationError("slug", "slug must be lowercase segments of letters, digits, and hyphens")
	}
	n, err := s.queries.CountPagesBySlug(ctx, slug, excludeID)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return "", &DuplicateError{Field: "slug", Value: slug}
	}
	if s.requireMenuSlug {
		ok, err := s.queries.MenuSlugExists(ctx, util.SlugVariants(slug))
		if err != nil {
			return "", err
		}
		if !ok {
			return "", NewValidationError("slug", "no menu item exists for this slug")
		}
	}
	return slug, nil
}

func (s *PageService) invalidate(ctx context.Context) {
	if s.pageCache != nil {
		s.pageCache.Invalidate(ctx)
	}
}
