// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/navstruct/navcms/internal/model"
)

func TestMenuCacheRoundTrip(t *testing.T) {
	backend := NewMemoryCache(time.Minute, 100)
	defer backend.Close()
	c := NewMenuCache(backend, time.Minute)
	ctx := context.Background()

	if _, ok := c.Get(ctx); ok {
		t.Fatal("expected miss on empty cache")
	}

	items := []model.MenuItem{
		{ID: 1, TitleEn: "About", TitleBn: "About-bn",
			Slug: sql.NullString{String: "/about", Valid: true}, IsActive: true},
		{ID: 2, TitleEn: "Team", TitleBn: "Team-bn",
			Slug:     sql.NullString{String: "/about/team", Valid: true},
			ParentID: sql.NullInt64{Int64: 1, Valid: true}, IsActive: true},
	}
	c.Set(ctx, items)

	got, ok := c.Get(ctx)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Slug.String != "/about" || !got[1].ParentID.Valid {
		t.Errorf("round trip lost fields: %+v", got)
	}

	c.Invalidate(ctx)
	if _, ok := c.Get(ctx); ok {
		t.Error("expected miss after Invalidate")
	}
}

func TestPageCacheRoundTrip(t *testing.T) {
	backend := NewMemoryCache(time.Minute, 100)
	defer backend.Close()
	c := NewPageCache(backend, time.Minute)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "about"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set(ctx, "about", []byte(`{"slug":"about"}`))
	got, ok := c.Get(ctx, "about")
	if !ok || string(got) != `{"slug":"about"}` {
		t.Errorf("Get = %q, %v", got, ok)
	}

	c.Invalidate(ctx)
	if _, ok := c.Get(ctx, "about"); ok {
		t.Error("expected miss after Invalidate")
	}
}
