// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/navstruct/navcms/internal/model"
	"github.com/navstruct/navcms/internal/store"
)

func newPageService(t *testing.T, requireMenuSlug bool) (*PageService, *sql.DB) {
	t.Helper()
	db := testDB(t)
	return NewPageService(db, PageServiceOptions{RequireMenuSlug: requireMenuSlug}), db
}

func TestPageCreateNormalizesSlug(t *testing.T) {
	svc, _ := newPageService(t, false)

	page, err := svc.Create(context.Background(), CreatePageInput{
		Name: "About", TitleEn: "About", TitleBn: "About bn",
		Slug: "/about/", Status: model.PageStatusPublished,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if page.Slug != "about" {
		t.Errorf("Slug = %q, want about", page.Slug)
	}
	if !page.PublishedAt.Valid {
		t.Error("publishing on create should stamp PublishedAt")
	}
}

func TestPageCreateRejectsBadSlug(t *testing.T) {
	svc, _ := newPageService(t, false)
	ctx := context.Background()

	for _, slug := range []string{"", "Has Space", "UPPER", "///"} {
		_, err := svc.Create(ctx, CreatePageInput{
			Name: "P", TitleEn: "P", TitleBn: "P bn", Slug: slug,
		})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Create(slug=%q) err = %v, want ValidationError", slug, err)
		}
	}
}

func TestPageCreateDuplicateSlug(t *testing.T) {
	svc, _ := newPageService(t, false)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreatePageInput{
		Name: "A", TitleEn: "A", TitleBn: "A bn", Slug: "about",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Lenient matching makes "/about/" the same slug as "about".
	_, err := svc.Create(ctx, CreatePageInput{
		Name: "B", TitleEn: "B", TitleBn: "B bn", Slug: "/about/",
	})
	var derr *DuplicateError
	if !errors.As(err, &derr) {
		t.Fatalf("err = %v, want DuplicateError", err)
	}
}

func TestPageCreateRequiresMenuSlug(t *testing.T) {
	svc, db := newPageService(t, true)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreatePageInput{
		Name: "Stray", TitleEn: "Stray", TitleBn: "Stray bn", Slug: "stray",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	// With a menu item carrying the slug (slash-prefixed, as the menu
	// stores it), creation goes through.
	now := time.Now().UTC()
	if _, err := store.New(db).CreateMenuItem(ctx, store.CreateMenuItemParams{
		TitleEn: "Stray", TitleBn: "Stray bn",
		Slug:      sql.NullString{String: "/stray", Valid: true},
		IsActive:  true,
		CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateMenuItem: %v", err)
	}
	if _, err := svc.Create(ctx, CreatePageInput{
		Name: "Stray", TitleEn: "Stray", TitleBn: "Stray bn", Slug: "stray",
	}); err != nil {
		t.Fatalf("Create with menu slug: %v", err)
	}
}

func TestPageResolveBySlugVariants(t *testing.T) {
	svc, _ := newPageService(t, false)
	ctx := context.Background()

	tpl := "hello"
	if _, err := svc.Create(ctx, CreatePageInput{
		Name: "About", TitleEn: "About", TitleBn: "About bn",
		Slug: "about/team", Status: model.PageStatusPublished,
		TemplateEn: &tpl,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, raw := range []string{"about/team", "/about/team", "about/team/", "/about/team/"} {
		resolved, err := svc.ResolveBySlug(ctx, raw)
		if err != nil {
			t.Fatalf("ResolveBySlug(%q): %v", raw, err)
		}
		if resolved.Slug != "about/team" {
			t.Errorf("ResolveBySlug(%q).Slug = %q, want about/team", raw, resolved.Slug)
		}
	}

	resolved, err := svc.ResolveBySlug(ctx, "/about/team/")
	if err != nil {
		t.Fatalf("ResolveBySlug: %v", err)
	}
	if resolved.Template[model.LocaleEn] == nil || *resolved.Template[model.LocaleEn] != "hello" {
		t.Errorf("english template = %v, want hello", resolved.Template[model.LocaleEn])
	}
	if resolved.Template[model.LocaleBn] != nil {
		t.Errorf("bengali template = %v, want nil", resolved.Template[model.LocaleBn])
	}
	if resolved.PublishedAt == nil {
		t.Error("PublishedAt should be set")
	}
}

func TestPageResolveHidesDraftsAndInactive(t *testing.T) {
	svc, _ := newPageService(t, false)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreatePageInput{
		Name: "Draft", TitleEn: "Draft", TitleBn: "Draft bn", Slug: "draft",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	inactive := false
	if _, err := svc.Create(ctx, CreatePageInput{
		Name: "Off", TitleEn: "Off", TitleBn: "Off bn", Slug: "off",
		Status: model.PageStatusPublished, IsActive: &inactive,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, slug := range []string{"draft", "off", "missing", ""} {
		_, err := svc.ResolveBySlug(ctx, slug)
		var nerr *NotFoundError
		if !errors.As(err, &nerr) {
			t.Errorf("ResolveBySlug(%q) err = %v, want NotFoundError", slug, err)
		}
	}
}

func TestPageResolveAttachesLayout(t *testing.T) {
	svc, db := newPageService(t, false)
	ctx := context.Background()
	now := time.Now().UTC()

	layout, err := store.New(db).CreateLayout(ctx, store.CreateLayoutParams{
		Name: "Default", Key: "default",
		Content:   sql.NullString{String: "<main>{{content}}</main>", Valid: true},
		IsActive:  true,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateLayout: %v", err)
	}

	if _, err := svc.Create(ctx, CreatePageInput{
		Name: "Home", TitleEn: "Home", TitleBn: "Home bn", Slug: "home",
		Status: model.PageStatusPublished, LayoutID: &layout.ID,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	resolved, err := svc.ResolveBySlug(ctx, "home")
	if err != nil {
		t.Fatalf("ResolveBySlug: %v", err)
	}
	if resolved.Layout == nil || resolved.Layout.Key != "default" {
		t.Errorf("Layout = %+v, want key default", resolved.Layout)
	}
}

func TestPageUpdateStatusStampsPublishedAt(t *testing.T) {
	svc, _ := newPageService(t, false)
	ctx := context.Background()

	page, err := svc.Create(ctx, CreatePageInput{
		Name: "P", TitleEn: "P", TitleBn: "P bn", Slug: "p",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if page.PublishedAt.Valid {
		t.Fatal("draft should not have PublishedAt")
	}

	published := model.PageStatusPublished
	got, err := svc.Update(ctx, page.ID, UpdatePageInput{Status: &published})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !got.PublishedAt.Valid {
		t.Error("publishing should stamp PublishedAt")
	}
}

func TestPageSetTemplate(t *testing.T) {
	svc, _ := newPageService(t, false)
	ctx := context.Background()

	page, err := svc.Create(ctx, CreatePageInput{
		Name: "P", TitleEn: "P", TitleBn: "P bn", Slug: "p",
		Status: model.PageStatusPublished,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.SetTemplate(ctx, page.ID, model.LocaleBn, "bn body"); err != nil {
		t.Fatalf("SetTemplate: %v", err)
	}
	got, err := svc.Get(ctx, page.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.TemplateBn.String != "bn body" {
		t.Errorf("TemplateBn = %q, want bn body", got.TemplateBn.String)
	}

	if err := svc.SetTemplate(ctx, page.ID, "fr", "nope"); err == nil {
		t.Error("unknown locale should be rejected")
	}
}

func TestPageDelete(t *testing.T) {
	svc, _ := newPageService(t, false)
	ctx := context.Background()

	page, err := svc.Create(ctx, CreatePageInput{
		Name: "P", TitleEn: "P", TitleBn: "P bn", Slug: "p",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := svc.Delete(ctx, page.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, page.ID); err == nil {
		t.Error("deleted page still fetchable")
	}

	var nerr *NotFoundError
	if err := svc.Delete(ctx, page.ID); !errors.As(err, &nerr) {
		t.Errorf("second Delete err = %v, want NotFoundError", err)
	}
}

func TestPagePublishDue(t *testing.T) {
	svc, _ := newPageService(t, false)
	ctx := context.Background()
	now := time.Now().UTC()

	past := now.Add(-time.Minute)
	if _, err := svc.Create(ctx, CreatePageInput{
		Name: "Due", TitleEn: "Due", TitleBn: "Due bn", Slug: "due",
		ScheduledAt: &past,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	future := now.Add(time.Hour)
	if _, err := svc.Create(ctx, CreatePageInput{
		Name: "Later", TitleEn: "Later", TitleBn: "Later bn", Slug: "later",
		ScheduledAt: &future,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := svc.PublishDue(ctx, now)
	if err != nil {
		t.Fatalf("PublishDue: %v", err)
	}
	if n != 1 {
		t.Errorf("published %d pages, want 1", n)
	}

	if _, err := svc.ResolveBySlug(ctx, "due"); err != nil {
		t.Errorf("due page should now resolve: %v", err)
	}
	if _, err := svc.ResolveBySlug(ctx, "later"); err == nil {
		t.Error("future page should not resolve yet")
	}
}
