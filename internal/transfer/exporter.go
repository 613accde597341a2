// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/navstruct/navcms/internal/store"
	"github.com/navstruct/navcms/internal/util"
)

// Exporter builds export bundles from the live database.
type Exporter struct {
	store  *store.Queries
	logger *slog.Logger
}

// NewExporter creates a new Exporter instance.
func NewExporter(queries *store.Queries, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{store: queries, logger: logger}
}

// Export collects all menu items and pages into a bundle.
func (e *Exporter) Export(ctx context.Context) (*ExportData, error) {
	data := &ExportData{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC(),
		MenuItems:  []ExportMenuItem{},
		Pages:      []ExportPage{},
	}

	if err := e.exportMenuItems(ctx, data); err != nil {
		return nil, fmt.Errorf("exporting menu items: %w", err)
	}
	if err := e.exportPages(ctx, data); err != nil {
		return nil, fmt.Errorf("exporting pages: %w", err)
	}

	e.logger.Info("content exported",
		"menuItems", len(data.MenuItems), "pages", len(data.Pages))
	return data, nil
}

// ExportToWriter serializes the bundle as indented JSON.
func (e *Exporter) ExportToWriter(ctx context.Context, w io.Writer) error {
	data, err := e.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (e *Exporter) exportMenuItems(ctx context.Context, data *ExportData) error {
	items, err := e.store.ListMenuItems(ctx)
	if err != nil {
		return err
	}

	slugByID := make(map[int64]string, len(items))
	for _, item := range items {
		if item.Slug.Valid {
			slugByID[item.ID] = item.Slug.String
		}
	}

	for _, item := range items {
		out := ExportMenuItem{
			TitleEn:        item.TitleEn,
			TitleBn:        item.TitleBn,
			Slug:           util.PtrFromNullString(item.Slug),
			IsExternalLink: item.IsExternalLink,
			URL:            util.PtrFromNullString(item.URL),
			Position:       item.Position,
			IsActive:       item.IsActive,
		}
		if item.ParentID.Valid {
			if parentSlug, ok := slugByID[item.ParentID.Int64]; ok {
				out.ParentSlug = &parentSlug
			} else {
				// Slug-less parents cannot be referenced; re-root.
				e.logger.Warn("exporting item without portable parent",
					"id", item.ID, "parentId", item.ParentID.Int64)
			}
		}
		data.MenuItems = append(data.MenuItems, out)
	}
	return nil
}

func (e *Exporter) exportPages(ctx context.Context, data *ExportData) error {
	pages, err := e.store.ListPages(ctx)
	if err != nil {
		return err
	}

	layoutKeys := make(map[int64]string)
	for _, page := range pages {
		out := ExportPage{
			Name:       page.Name,
			TitleEn:    page.TitleEn,
			TitleBn:    page.TitleBn,
			Slug:       page.Slug,
			TemplateEn: util.PtrFromNullString(page.TemplateEn),
			TemplateBn: util.PtrFromNullString(page.TemplateBn),
			Status:     page.Status,
			IsActive:   page.IsActive,
		}
		if page.LayoutID.Valid {
			key, err := e.layoutKey(ctx, page.LayoutID.Int64, layoutKeys)
			if err != nil {
				e.logger.Warn("skipping layout reference",
					"pageId", page.ID, "layoutId", page.LayoutID.Int64, "error", err)
			} else {
				out.LayoutKey = &key
			}
		}
		if page.ScheduledAt.Valid {
			at := page.ScheduledAt.Time
			out.ScheduledAt = &at
		}
		data.Pages = append(data.Pages, out)
	}
	return nil
}

func (e *Exporter) layoutKey(ctx context.Context, id int64, cache map[int64]string) (string, error) {
	if key, ok := cache[id]; ok {
		return key, nil
	}
	layout, err := e.store.GetLayout(ctx, id)
	if err != nil {
		return "", err
	}
	cache[id] = layout.Key
	return layout.Key, nil
}
