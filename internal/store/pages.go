// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/navstruct/navcms/internal/model"
)

const pageColumns = `id, name, title_en, title_bn, slug, layout_id, template_en,
	template_bn, status, is_active, created_by, updated_by, scheduled_at,
	published_at, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (model.Page, error) {
	var p model.Page
	err := row.Scan(
		&p.ID, &p.Name, &p.TitleEn, &p.TitleBn, &p.Slug, &p.LayoutID, &p.TemplateEn,
		&p.TemplateBn, &p.Status, &p.IsActive, &p.CreatedBy, &p.UpdatedBy,
		&p.ScheduledAt, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// CreatePageParams holds fields for inserting a page.
type CreatePageParams struct {
	Name        string
	TitleEn     string
	TitleBn     string
	Slug        string
	LayoutID    sql.NullInt64
	TemplateEn  sql.NullString
	TemplateBn  sql.NullString
	Status      string
	IsActive    bool
	CreatedBy   sql.NullInt64
	ScheduledAt sql.NullTime
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePage inserts a page and returns the stored row.
func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (model.Page, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO pages (name, title_en, title_bn, slug, layout_id, template_en,
			template_bn, status, is_active, created_by, updated_by, scheduled_at,
			published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.TitleEn, arg.TitleBn, arg.Slug, arg.LayoutID, arg.TemplateEn,
		arg.TemplateBn, arg.Status, arg.IsActive, arg.CreatedBy, arg.CreatedBy,
		arg.ScheduledAt, arg.PublishedAt, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return model.Page{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Page{}, err
	}
	return q.GetPage(ctx, id)
}

// GetPage fetches a page by id.
func (q *Queries) GetPage(ctx context.Context, id int64) (model.Page, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	return scanPage(row)
}

// GetVisiblePageBySlugVariants fetches the published, active page whose
// stored slug matches any of the given representation variants.
func (q *Queries) GetVisiblePageBySlugVariants(ctx context.Context, variants []string) (model.Page, error) {
	query := `SELECT ` + pageColumns + ` FROM pages
		WHERE status = ? AND is_active = 1 AND slug IN (?` +
		repeatPlaceholder(len(variants)-1) + `)`
	args := make([]any, 0, len(variants)+1)
	args = append(args, model.PageStatusPublished)
	for _, v := range variants {
		args = append(args, v)
	}
	row := q.db.QueryRowContext(ctx, query, args...)
	return scanPage(row)
}

// ListPages returns all pages ordered by id.
func (q *Queries) ListPages(ctx context.Context) ([]model.Page, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []model.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// ListPublishedPageSlugs returns the slugs of all published, active
// pages. The menu renderer uses this as a lookup set when attaching hrefs.
func (q *Queries) ListPublishedPageSlugs(ctx context.Context) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT slug FROM pages WHERE status = ? AND is_active = 1`,
		model.PageStatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		slugs = append(slugs, s)
	}
	return slugs, rows.Err()
}

// CountPagesBySlug counts pages holding the given slug, excluding one id.
func (q *Queries) CountPagesBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pages WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n, err
}

// UpdatePageParams holds fields for a full-row page update.
type UpdatePageParams struct {
	ID          int64
	Name        string
	TitleEn     string
	TitleBn     string
	Slug        string
	LayoutID    sql.NullInt64
	TemplateEn  sql.NullString
	TemplateBn  sql.NullString
	Status      string
	IsActive    bool
	UpdatedBy   sql.NullInt64
	ScheduledAt sql.NullTime
	PublishedAt sql.NullTime
	UpdatedAt   time.Time
}

// UpdatePage updates every mutable field of a page.
func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE pages
		SET name = ?, title_en = ?, title_bn = ?, slug = ?, layout_id = ?,
			template_en = ?, template_bn = ?, status = ?, is_active = ?,
			updated_by = ?, scheduled_at = ?, published_at = ?, updated_at = ?
		WHERE id = ?`,
		arg.Name, arg.TitleEn, arg.TitleBn, arg.Slug, arg.LayoutID,
		arg.TemplateEn, arg.TemplateBn, arg.Status, arg.IsActive,
		arg.UpdatedBy, arg.ScheduledAt, arg.PublishedAt, arg.UpdatedAt, arg.ID,
	)
	return err
}

// UpdatePageTemplate rewrites one locale's template content.
func (q *Queries) UpdatePageTemplate(ctx context.Context, id int64, locale string, content sql.NullString, updatedAt time.Time) error {
	column := "template_en"
	if locale == model.LocaleBn {
		column = "template_bn"
	}
	_, err := q.db.ExecContext(ctx,
		`UPDATE pages SET `+column+` = ?, updated_at = ? WHERE id = ?`,
		content, updatedAt, id)
	return err
}

// DeletePage removes a page row.
func (q *Queries) DeletePage(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	return err
}

// PublishDuePages flips draft pages whose scheduled time has passed to
// published. Returns the number of pages published.
func (q *Queries) PublishDuePages(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE pages
		SET status = ?, published_at = ?, updated_at = ?
		WHERE status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?`,
		model.PageStatusPublished, now, now, model.PageStatusDraft, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
