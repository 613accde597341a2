// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/navstruct/navcms/internal/model"
)

const menuItemColumns = `id, title_en, title_bn, slug, parent_id, is_external_link,
	url, position, is_active, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...any) error }) (model.MenuItem, error) {
	var m model.MenuItem
	err := row.Scan(
		&m.ID, &m.TitleEn, &m.TitleBn, &m.Slug, &m.ParentID, &m.IsExternalLink,
		&m.URL, &m.Position, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func (q *Queries) scanMenuItems(rows *sql.Rows) ([]model.MenuItem, error) {
	defer rows.Close()
	var items []model.MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// CreateMenuItemParams holds fields for inserting a menu item.
type CreateMenuItemParams struct {
	TitleEn        string
	TitleBn        string
	Slug           sql.NullString
	ParentID       sql.NullInt64
	IsExternalLink bool
	URL            sql.NullString
	Position       int64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateMenuItem inserts a menu item and returns the stored row.
func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (model.MenuItem, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO menu_items (title_en, title_bn, slug, parent_id, is_external_link,
			url, position, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.TitleEn, arg.TitleBn, arg.Slug, arg.ParentID, arg.IsExternalLink,
		arg.URL, arg.Position, arg.IsActive, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return model.MenuItem{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.MenuItem{}, err
	}
	return q.GetMenuItem(ctx, id)
}

// GetMenuItem fetches a menu item by id.
func (q *Queries) GetMenuItem(ctx context.Context, id int64) (model.MenuItem, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE id = ?`, id)
	return scanMenuItem(row)
}

// GetMenuItemBySlug fetches a menu item by exact slug.
func (q *Queries) GetMenuItemBySlug(ctx context.Context, slug string) (model.MenuItem, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE slug = ?`, slug)
	return scanMenuItem(row)
}

// ListMenuItems returns all menu items ordered by position, then id.
func (q *Queries) ListMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return q.scanMenuItems(rows)
}

// ListActiveMenuItems returns all active menu items ordered by position, then id.
func (q *Queries) ListActiveMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE is_active = 1 ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	return q.scanMenuItems(rows)
}

// ListMenuItemChildren returns the direct children of a menu item
// ordered by position, then id.
func (q *Queries) ListMenuItemChildren(ctx context.Context, parentID int64) ([]model.MenuItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE parent_id = ? ORDER BY position, id`,
		parentID)
	if err != nil {
		return nil, err
	}
	return q.scanMenuItems(rows)
}

// CountMenuItemsBySlug counts items holding the given slug, excluding
// one id (0 to exclude none). Used for duplicate detection before writes.
func (q *Queries) CountMenuItemsBySlug(ctx context.Context, slug string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM menu_items WHERE slug = ? AND id != ?`, slug, excludeID).Scan(&n)
	return n, err
}

// CountActiveMenuItemsByTitle counts active items sharing either
// localized title, excluding one id. Scoped to active records: inactive
// items do not block title reuse.
func (q *Queries) CountActiveMenuItemsByTitle(ctx context.Context, titleEn, titleBn string, excludeID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM menu_items
		WHERE is_active = 1 AND (title_en = ? OR title_bn = ?) AND id != ?`,
		titleEn, titleBn, excludeID).Scan(&n)
	return n, err
}

// UpdateMenuItemParams holds fields for a full-row menu item update.
type UpdateMenuItemParams struct {
	ID             int64
	TitleEn        string
	TitleBn        string
	Slug           sql.NullString
	ParentID       sql.NullInt64
	IsExternalLink bool
	URL            sql.NullString
	Position       int64
	IsActive       bool
	UpdatedAt      time.Time
}

// UpdateMenuItem updates every mutable field of a menu item.
func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE menu_items
		SET title_en = ?, title_bn = ?, slug = ?, parent_id = ?, is_external_link = ?,
			url = ?, position = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		arg.TitleEn, arg.TitleBn, arg.Slug, arg.ParentID, arg.IsExternalLink,
		arg.URL, arg.Position, arg.IsActive, arg.UpdatedAt, arg.ID,
	)
	return err
}

// RelinkMenuItemParams holds fields for reparenting and re-slugging a
// single item during cascade updates.
type RelinkMenuItemParams struct {
	ID        int64
	ParentID  sql.NullInt64
	Slug      sql.NullString
	UpdatedAt time.Time
}

// RelinkMenuItem rewrites an item's parent and slug. The cascade
// updater uses it for child relinking after a deletion.
func (q *Queries) RelinkMenuItem(ctx context.Context, arg RelinkMenuItemParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE menu_items SET parent_id = ?, slug = ?, updated_at = ? WHERE id = ?`,
		arg.ParentID, arg.Slug, arg.UpdatedAt, arg.ID)
	return err
}

// UpdateMenuItemSlug rewrites only an item's slug. Used when cascading
// a slug prefix change down a subtree.
func (q *Queries) UpdateMenuItemSlug(ctx context.Context, id int64, slug sql.NullString, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE menu_items SET slug = ?, updated_at = ? WHERE id = ?`,
		slug, updatedAt, id)
	return err
}

// UpdateMenuItemPosition sets an item's sibling ordering position.
func (q *Queries) UpdateMenuItemPosition(ctx context.Context, id, position int64, updatedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE menu_items SET position = ?, updated_at = ? WHERE id = ?`,
		position, updatedAt, id)
	return err
}

// DeleteMenuItem removes a menu item row.
func (q *Queries) DeleteMenuItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	return err
}

// MenuSlugExists reports whether any menu item stores the slug in one
// of its representation variants.
func (q *Queries) MenuSlugExists(ctx context.Context, variants []string) (bool, error) {
	if len(variants) == 0 {
		return false, nil
	}
	query := `SELECT COUNT(*) FROM menu_items WHERE slug IN (?` +
		repeatPlaceholder(len(variants)-1) + `)`
	args := make([]any, len(variants))
	for i, v := range variants {
		args[i] = v
	}
	var n int64
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// repeatPlaceholder returns n copies of ", ?" for IN clauses.
func repeatPlaceholder(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += ", ?"
	}
	return s
}
