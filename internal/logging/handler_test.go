// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/navstruct/navcms/internal/model"
	"github.com/navstruct/navcms/internal/store"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			category TEXT NOT NULL,
			message TEXT NOT NULL,
			user_id INTEGER,
			metadata TEXT,
			created_at DATETIME NOT NULL
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

func TestEventLogHandlerWritesWarnings(t *testing.T) {
	db := testDB(t)
	inner := slog.NewTextHandler(io.Discard, nil)
	logger := slog.New(NewEventLogHandler(inner, db))

	logger.Info("routine info")
	logger.Warn("something odd", "category", model.EventCategoryMenu, "id", 42)
	logger.Error("something broke")

	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2 (info not persisted)", len(events))
	}

	byMessage := map[string]model.Event{}
	for _, e := range events {
		byMessage[e.Message] = e
	}

	warn, ok := byMessage["something odd"]
	if !ok {
		t.Fatal("warning event missing")
	}
	if warn.Level != model.EventLevelWarning {
		t.Errorf("Level = %q, want warning", warn.Level)
	}
	if warn.Category != model.EventCategoryMenu {
		t.Errorf("Category = %q, want menu", warn.Category)
	}
	if warn.Metadata.String != `{"id":"42"}` {
		t.Errorf("Metadata = %q", warn.Metadata.String)
	}

	fail, ok := byMessage["something broke"]
	if !ok {
		t.Fatal("error event missing")
	}
	if fail.Level != model.EventLevelError {
		t.Errorf("Level = %q, want error", fail.Level)
	}
}

func TestEventLogHandlerInfersCategory(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"menu item relink failed", model.EventCategoryMenu},
		{"page render slow", model.EventCategoryPage},
		{"scheduled publish ran", model.EventCategoryScheduler},
		{"disk almost full", model.EventCategorySystem},
	}

	for _, tt := range tests {
		db := testDB(t)
		inner := slog.NewTextHandler(io.Discard, nil)
		logger := slog.New(NewEventLogHandler(inner, db))

		logger.Warn(tt.message)

		events, err := store.New(db).ListRecentEvents(context.Background(), 1)
		if err != nil {
			t.Fatalf("ListRecentEvents: %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("len(events) = %d, want 1", len(events))
		}
		if events[0].Category != tt.want {
			t.Errorf("category for %q = %q, want %q", tt.message, events[0].Category, tt.want)
		}
	}
}

func TestEventLogHandlerCustomLevel(t *testing.T) {
	db := testDB(t)
	inner := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(NewEventLogHandlerWithLevel(inner, db, slog.LevelInfo))

	logger.Info("now persisted")

	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	if events[0].Level != model.EventLevelInfo {
		t.Errorf("Level = %q, want info", events[0].Level)
	}
}
