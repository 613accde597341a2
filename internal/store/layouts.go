// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/navstruct/navcms/internal/model"
)

const layoutColumns = `id, name, layout_key, content, is_active, created_at, updated_at`

func scanLayout(row interface{ Scan(...any) error }) (model.Layout, error) {
	var l model.Layout
	err := row.Scan(&l.ID, &l.Name, &l.Key, &l.Content, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// CreateLayoutParams holds fields for inserting a layout.
type CreateLayoutParams struct {
	Name      string
	Key       string
	Content   sql.NullString
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateLayout inserts a layout and returns the stored row.
func (q *Queries) CreateLayout(ctx context.Context, arg CreateLayoutParams) (model.Layout, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO layouts (name, layout_key, content, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.Key, arg.Content, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.Layout{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Layout{}, err
	}
	return q.GetLayout(ctx, id)
}

// GetLayout fetches a layout by id.
func (q *Queries) GetLayout(ctx context.Context, id int64) (model.Layout, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+layoutColumns+` FROM layouts WHERE id = ?`, id)
	return scanLayout(row)
}

// GetLayoutByKey fetches a layout by its unique key.
func (q *Queries) GetLayoutByKey(ctx context.Context, key string) (model.Layout, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+layoutColumns+` FROM layouts WHERE layout_key = ?`, key)
	return scanLayout(row)
}

// ListLayouts returns all layouts ordered by name.
func (q *Queries) ListLayouts(ctx context.Context) ([]model.Layout, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+layoutColumns+` FROM layouts ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var layouts []model.Layout
	for rows.Next() {
		l, err := scanLayout(rows)
		if err != nil {
			return nil, err
		}
		layouts = append(layouts, l)
	}
	return layouts, rows.Err()
}
