// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package transfer_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navstruct/navcms/internal/model"
	"github.com/navstruct/navcms/internal/store"
	"github.com/navstruct/navcms/internal/testutil"
	"github.com/navstruct/navcms/internal/transfer"
)

type env struct {
	db       *sql.DB
	queries  *store.Queries
	exporter *transfer.Exporter
	importer *transfer.Importer
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.TestDB(t)
	q := store.New(db)
	logger := testutil.TestLoggerSilent()
	return &env{
		db:       db,
		queries:  q,
		exporter: transfer.NewExporter(q, logger),
		importer: transfer.NewImporter(q, db, logger),
	}
}

func (e *env) seedContent(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC()

	layout, err := e.queries.CreateLayout(ctx, store.CreateLayoutParams{
		Name: "Default", Key: "default",
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	root, err := e.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		TitleEn: "About", TitleBn: "About bn",
		Slug:     sql.NullString{String: "/about", Valid: true},
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	_, err = e.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		TitleEn: "Team", TitleBn: "Team bn",
		Slug:     sql.NullString{String: "/about/team", Valid: true},
		ParentID: sql.NullInt64{Int64: root.ID, Valid: true},
		Position: 1, IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	_, err = e.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		TitleEn: "Docs", TitleBn: "Docs bn",
		IsExternalLink: true,
		URL:            sql.NullString{String: "https://docs.example.com", Valid: true},
		Position:       2, IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	_, err = e.queries.CreatePage(ctx, store.CreatePageParams{
		Name: "About", TitleEn: "About", TitleBn: "About bn",
		Slug:       "about",
		LayoutID:   sql.NullInt64{Int64: layout.ID, Valid: true},
		TemplateEn: sql.NullString{String: "<main>about</main>", Valid: true},
		Status:     model.PageStatusPublished,
		IsActive:   true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)
}

func TestExportImportRoundTrip(t *testing.T) {
	src := newEnv(t)
	src.seedContent(t)
	ctx := context.Background()

	data, err := src.exporter.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, transfer.ExportVersion, data.Version)
	assert.Len(t, data.MenuItems, 3)
	assert.Len(t, data.Pages, 1)

	dst := newEnv(t)
	now := time.Now().UTC()
	_, err = dst.queries.CreateLayout(ctx, store.CreateLayoutParams{
		Name: "Default", Key: "default",
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	result, err := dst.importer.Import(ctx, data, transfer.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, result.MenuItemsCreated)
	assert.Equal(t, 1, result.PagesCreated)
	assert.Zero(t, result.Skipped)
	assert.Empty(t, result.Errors)

	child, err := dst.queries.GetMenuItemBySlug(ctx, "/about/team")
	require.NoError(t, err)
	require.True(t, child.ParentID.Valid)
	parent, err := dst.queries.GetMenuItem(ctx, child.ParentID.Int64)
	require.NoError(t, err)
	assert.Equal(t, "/about", parent.Slug.String)

	page, err := dst.queries.GetVisiblePageBySlugVariants(ctx, []string{"about"})
	require.NoError(t, err)
	assert.True(t, page.LayoutID.Valid, "layout key should resolve on import")
	assert.Equal(t, "<main>about</main>", page.TemplateEn.String)
}

func TestImportSkipExisting(t *testing.T) {
	e := newEnv(t)
	e.seedContent(t)
	ctx := context.Background()

	data, err := e.exporter.Export(ctx)
	require.NoError(t, err)

	// Replaying into the same database collides on every slug.
	_, err = e.importer.Import(ctx, data, transfer.ImportOptions{})
	require.Error(t, err)

	result, err := e.importer.Import(ctx, data, transfer.ImportOptions{SkipExisting: true})
	require.NoError(t, err)
	// The external item has no slug and is recreated; the rest skip.
	assert.Equal(t, 1, result.MenuItemsCreated)
	assert.Equal(t, 3, result.Skipped)
}

func TestImportValidation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	slug := "/dup"

	data := &transfer.ExportData{
		Version: 99,
		MenuItems: []transfer.ExportMenuItem{
			{TitleEn: "A", TitleBn: "A bn", Slug: &slug},
			{TitleEn: "B", TitleBn: "B bn", Slug: &slug},
			{TitleEn: "", TitleBn: ""},
		},
		Pages: []transfer.ExportPage{
			{Name: "Bad", TitleEn: "Bad", TitleBn: "Bad bn", Slug: "Not A Slug", Status: "published"},
			{Name: "Odd", TitleEn: "Odd", TitleBn: "Odd bn", Slug: "odd", Status: "nonsense"},
		},
	}

	result, err := e.importer.Import(ctx, data, transfer.ImportOptions{})
	require.ErrorIs(t, err, transfer.ErrInvalidBundle)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.Errors)
	assert.Zero(t, result.MenuItemsCreated)

	// Nothing may have been written.
	items, err := e.queries.ListMenuItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestImportResolvesParentFromDatabase(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// The parent exists only in the target instance, not in the bundle.
	root, err := e.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		TitleEn: "About", TitleBn: "About bn",
		Slug:     sql.NullString{String: "/about", Valid: true},
		IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	require.NoError(t, err)

	childSlug := "/about/team"
	parentSlug := "/about"
	result, err := e.importer.Import(ctx, &transfer.ExportData{
		Version: transfer.ExportVersion,
		MenuItems: []transfer.ExportMenuItem{
			{TitleEn: "Team", TitleBn: "Team bn", Slug: &childSlug, ParentSlug: &parentSlug, IsActive: true},
		},
	}, transfer.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.MenuItemsCreated)

	child, err := e.queries.GetMenuItemBySlug(ctx, "/about/team")
	require.NoError(t, err)
	require.True(t, child.ParentID.Valid)
	assert.Equal(t, root.ID, child.ParentID.Int64)
}

func TestImportMissingParentSlug(t *testing.T) {
	e := newEnv(t)
	slug := "/child"
	missing := "/ghost"

	_, err := e.importer.Import(context.Background(), &transfer.ExportData{
		Version: transfer.ExportVersion,
		MenuItems: []transfer.ExportMenuItem{
			{TitleEn: "Child", TitleBn: "Child bn", Slug: &slug, ParentSlug: &missing, IsActive: true},
		},
	}, transfer.ImportOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/ghost")
}

func TestExportToWriterRoundTrip(t *testing.T) {
	e := newEnv(t)
	e.seedContent(t)

	var buf bytes.Buffer
	require.NoError(t, e.exporter.ExportToWriter(context.Background(), &buf))

	var decoded transfer.ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, transfer.ExportVersion, decoded.Version)
	assert.Len(t, decoded.MenuItems, 3)
	assert.Len(t, decoded.Pages, 1)
}
