// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/navstruct/navcms/internal/model"
	"github.com/navstruct/navcms/internal/store"
	"github.com/navstruct/navcms/internal/util"
)

// ErrInvalidBundle is returned when a bundle fails validation. The
// accompanying ImportResult carries the individual errors.
var ErrInvalidBundle = errors.New("bundle failed validation")

// Importer replays export bundles into the database.
type Importer struct {
	store  *store.Queries
	db     *sql.DB
	logger *slog.Logger
}

// NewImporter creates a new Importer instance.
func NewImporter(queries *store.Queries, db *sql.DB, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{store: queries, db: db, logger: logger}
}

// ImportFromReader decodes a JSON bundle and imports it.
func (i *Importer) ImportFromReader(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	var data ExportData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding bundle: %w", err)
	}
	return i.Import(ctx, &data, opts)
}

// Validate checks a bundle for structural problems without touching the
// database.
func (i *Importer) Validate(data *ExportData) []ImportError {
	var errs []ImportError

	if data.Version != ExportVersion {
		errs = append(errs, ImportError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported bundle version %d", data.Version),
		})
	}

	menuSlugs := make(map[string]bool)
	for idx, item := range data.MenuItems {
		field := fmt.Sprintf("menuItems[%d]", idx)
		if item.TitleEn == "" || item.TitleBn == "" {
			errs = append(errs, ImportError{Field: field, Message: "both titles are required"})
		}
		if item.Slug != nil {
			if menuSlugs[*item.Slug] {
				errs = append(errs, ImportError{
					Field:   field,
					Message: fmt.Sprintf("duplicate menu slug %q in bundle", *item.Slug),
				})
			}
			menuSlugs[*item.Slug] = true
		}
	}
	// Parent slugs absent from the bundle are not an error here: the
	// import resolves them against the target database, so partial
	// bundles replay onto an existing tree.

	pageSlugs := make(map[string]bool)
	for idx, page := range data.Pages {
		field := fmt.Sprintf("pages[%d]", idx)
		slug := util.NormalizeSlugPath(page.Slug)
		if slug == "" || !util.IsValidSlugPath(slug) {
			errs = append(errs, ImportError{
				Field:   field,
				Message: fmt.Sprintf("invalid page slug %q", page.Slug),
			})
			continue
		}
		if pageSlugs[slug] {
			errs = append(errs, ImportError{
				Field:   field,
				Message: fmt.Sprintf("duplicate page slug %q in bundle", slug),
			})
		}
		pageSlugs[slug] = true
		if !model.IsValidPageStatus(page.Status) {
			errs = append(errs, ImportError{
				Field:   field,
				Message: fmt.Sprintf("invalid page status %q", page.Status),
			})
		}
	}

	return errs
}

// Import validates the bundle and writes its contents in one
// transaction. When validation fails, the returned result carries the
// errors and the error is ErrInvalidBundle.
func (i *Importer) Import(ctx context.Context, data *ExportData, opts ImportOptions) (*ImportResult, error) {
	result := &ImportResult{}

	if errs := i.Validate(data); len(errs) > 0 {
		result.Errors = errs
		return result, ErrInvalidBundle
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	q := i.store.WithTx(tx)
	now := time.Now().UTC()

	if err := i.importMenuItems(ctx, q, data.MenuItems, opts, result, now); err != nil {
		return nil, err
	}
	if err := i.importPages(ctx, q, data.Pages, opts, result, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}

	i.logger.Info("content imported",
		"menuItems", result.MenuItemsCreated,
		"pages", result.PagesCreated,
		"skipped", result.Skipped)
	return result, nil
}

func (i *Importer) importMenuItems(
	ctx context.Context, q *store.Queries, items []ExportMenuItem,
	opts ImportOptions, result *ImportResult, now time.Time,
) error {
	// Parents first: shallower slugs carry fewer path segments.
	ordered := make([]ExportMenuItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(a, b int) bool {
		return slugDepth(ordered[a].Slug) < slugDepth(ordered[b].Slug)
	})

	idBySlug := make(map[string]int64)
	for _, item := range ordered {
		if item.Slug != nil {
			existing, err := q.GetMenuItemBySlug(ctx, *item.Slug)
			if err == nil {
				if !opts.SkipExisting {
					return fmt.Errorf("menu slug %q already exists", *item.Slug)
				}
				idBySlug[*item.Slug] = existing.ID
				result.Skipped++
				continue
			}
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("checking menu slug %q: %w", *item.Slug, err)
			}
		}

		params := store.CreateMenuItemParams{
			TitleEn:        item.TitleEn,
			TitleBn:        item.TitleBn,
			Slug:           util.NullStringFromPtr(item.Slug),
			IsExternalLink: item.IsExternalLink,
			URL:            util.NullStringFromPtr(item.URL),
			Position:       item.Position,
			IsActive:       item.IsActive,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if item.ParentSlug != nil {
			parentID, ok := idBySlug[*item.ParentSlug]
			if !ok {
				// Partial-bundle replay: the parent may already live in
				// the target database.
				parent, err := q.GetMenuItemBySlug(ctx, *item.ParentSlug)
				if errors.Is(err, sql.ErrNoRows) {
					return fmt.Errorf("parent slug %q not imported", *item.ParentSlug)
				}
				if err != nil {
					return fmt.Errorf("resolving parent slug %q: %w", *item.ParentSlug, err)
				}
				parentID = parent.ID
				idBySlug[*item.ParentSlug] = parentID
			}
			params.ParentID = sql.NullInt64{Int64: parentID, Valid: true}
		}

		created, err := q.CreateMenuItem(ctx, params)
		if err != nil {
			return fmt.Errorf("importing menu item %q: %w", item.TitleEn, err)
		}
		if item.Slug != nil {
			idBySlug[*item.Slug] = created.ID
		}
		result.MenuItemsCreated++
	}
	return nil
}

func (i *Importer) importPages(
	ctx context.Context, q *store.Queries, pages []ExportPage,
	opts ImportOptions, result *ImportResult, now time.Time,
) error {
	for _, page := range pages {
		slug := util.NormalizeSlugPath(page.Slug)

		count, err := q.CountPagesBySlug(ctx, slug, 0)
		if err != nil {
			return fmt.Errorf("checking page slug %q: %w", slug, err)
		}
		if count > 0 {
			if !opts.SkipExisting {
				return fmt.Errorf("page slug %q already exists", slug)
			}
			result.Skipped++
			continue
		}

		params := store.CreatePageParams{
			Name:       page.Name,
			TitleEn:    page.TitleEn,
			TitleBn:    page.TitleBn,
			Slug:       slug,
			TemplateEn: util.NullStringFromPtr(page.TemplateEn),
			TemplateBn: util.NullStringFromPtr(page.TemplateBn),
			Status:     page.Status,
			IsActive:   page.IsActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if page.LayoutKey != nil {
			layout, err := q.GetLayoutByKey(ctx, *page.LayoutKey)
			switch {
			case err == nil:
				params.LayoutID = sql.NullInt64{Int64: layout.ID, Valid: true}
			case errors.Is(err, sql.ErrNoRows):
				i.logger.Warn("import dropped unknown layout key",
					"slug", slug, "layoutKey", *page.LayoutKey)
			default:
				return fmt.Errorf("resolving layout %q: %w", *page.LayoutKey, err)
			}
		}
		if page.ScheduledAt != nil {
			params.ScheduledAt = sql.NullTime{Time: page.ScheduledAt.UTC(), Valid: true}
		}

		if _, err := q.CreatePage(ctx, params); err != nil {
			return fmt.Errorf("importing page %q: %w", slug, err)
		}
		result.PagesCreated++
	}
	return nil
}

func slugDepth(slug *string) int {
	if slug == nil {
		return 0
	}
	return strings.Count(*slug, "/")
}
