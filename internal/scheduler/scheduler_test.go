// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/navstruct/navcms/internal/model"
	"github.com/navstruct/navcms/internal/service"
)

func testPageService(t *testing.T) *service.PageService {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE layouts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			layout_key TEXT NOT NULL UNIQUE,
			content TEXT,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE pages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			title_en TEXT NOT NULL,
			title_bn TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			layout_id INTEGER REFERENCES layouts(id) ON DELETE SET NULL,
			template_en TEXT,
			template_bn TEXT,
			status TEXT NOT NULL DEFAULT 'draft',
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_by INTEGER,
			updated_by INTEGER,
			scheduled_at DATETIME,
			published_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);

		CREATE TABLE menu_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title_en TEXT NOT NULL,
			title_bn TEXT NOT NULL,
			slug TEXT UNIQUE,
			parent_id INTEGER,
			is_external_link BOOLEAN NOT NULL DEFAULT 0,
			url TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return service.NewPageService(db, service.PageServiceOptions{Logger: logger})
}

func TestSchedulerTickPublishesAndSweeps(t *testing.T) {
	pages := testPageService(t)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Minute)
	page, err := pages.Create(ctx, service.CreatePageInput{
		Name: "Due", TitleEn: "Due", TitleBn: "Due bn", Slug: "due",
		ScheduledAt: &past,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	templates := service.NewTemplateBuffer(pages)
	if _, err := templates.Begin(ctx, page.ID, model.LocaleEn); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(pages, templates, logger)
	s.runOnce()

	got, err := pages.Get(ctx, page.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != model.PageStatusPublished {
		t.Errorf("Status = %q, want published", got.Status)
	}

	// The open upload is within its TTL and survives the sweep.
	if n := templates.Sweep(time.Now()); n != 0 {
		t.Errorf("fresh upload swept: %d", n)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	pages := testPageService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s := New(pages, service.NewTemplateBuffer(pages), logger)

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
