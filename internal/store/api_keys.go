// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/navstruct/navcms/internal/model"
)

const apiKeyColumns = `id, name, key_hash, key_prefix, last_used_at, expires_at,
	is_active, created_at, updated_at`

func scanAPIKey(row interface{ Scan(...any) error }) (model.APIKey, error) {
	var k model.APIKey
	err := row.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.LastUsedAt,
		&k.ExpiresAt, &k.IsActive, &k.CreatedAt, &k.UpdatedAt)
	return k, err
}

// CreateAPIKeyParams holds fields for inserting an API key.
type CreateAPIKeyParams struct {
	Name      string
	KeyHash   string
	KeyPrefix string
	ExpiresAt sql.NullTime
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateAPIKey inserts an API key and returns the stored row.
func (q *Queries) CreateAPIKey(ctx context.Context, arg CreateAPIKeyParams) (model.APIKey, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO api_keys (name, key_hash, key_prefix, expires_at, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.Name, arg.KeyHash, arg.KeyPrefix, arg.ExpiresAt, arg.IsActive,
		arg.CreatedAt, arg.UpdatedAt)
	if err != nil {
		return model.APIKey{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.APIKey{}, err
	}
	row := q.db.QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE id = ?`, id)
	return scanAPIKey(row)
}

// GetAPIKeyByHash fetches an API key by its hash.
func (q *Queries) GetAPIKeyByHash(ctx context.Context, keyHash string) (model.APIKey, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE key_hash = ?`, keyHash)
	return scanAPIKey(row)
}

// TouchAPIKey records when a key was last used.
func (q *Queries) TouchAPIKey(ctx context.Context, id int64, usedAt time.Time) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE api_keys SET last_used_at = ? WHERE id = ?`, usedAt, id)
	return err
}
