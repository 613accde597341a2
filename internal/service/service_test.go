// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates an in-memory SQLite database with the core schema.
func testDB(t *testing.T) *sql.DB {
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

	return db
}
