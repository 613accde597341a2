// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/mattn/go-sqlite3"

	"github.com/navstruct/navcms/internal/service"
)

// testServer wires a full router against an in-memory SQLite database.
func testServer(t *testing.T) (*Handler, http.Handler) {
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
			parent_id INTEGER REFERENCES menu_items(id) ON DELETE SET NULL,
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
	menus := service.NewMenuService(db, service.MenuServiceOptions{
		UniqueTitles: true,
		Logger:       logger,
	})
	pages := service.NewPageService(db, service.PageServiceOptions{Logger: logger})
	templates := service.NewTemplateBuffer(pages)

	h := NewHandler(db, menus, pages, templates, true, logger)
	r := chi.NewRouter()
	h.MountRoutes(r, passthroughAuth)
	return h, r
}

// passthroughAuth stands in for API key auth in handler tests.
func passthroughAuth(next http.Handler) http.Handler {
	return next
}

// doJSON performs a request with a JSON body and decodes the envelope.
func doJSON(t *testing.T, srv http.Handler, method, path string, body any) (int, Response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec.Code, resp
}

// dataAs remarshals the envelope data into a typed value.
func dataAs[T any](t *testing.T, resp Response) T {
	t.Helper()
	var out T
	raw, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("remarshal data: %v", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return out
}
