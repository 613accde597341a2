// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/navstruct/navcms/internal/auth"
	"github.com/navstruct/navcms/internal/model"
)

const (
	seedAdminEmail    = "admin@example.com"
	seedAdminPassword = "admin123"
	seedLayoutKey     = "default"
)

// Seed inserts baseline records when enabled: a default layout, an
// admin editor, and an initial API key whose raw value is logged once.
// Records that already exist are left alone, so seeding is safe to
// re-run.
func Seed(ctx context.Context, db *sql.DB, logger *slog.Logger, enabled bool) error {
	if !enabled {
		return nil
	}
	q := New(db)
	now := time.Now().UTC()

	if _, err := q.GetLayout(ctx, 1); errors.Is(err, sql.ErrNoRows) {
		_, err := q.CreateLayout(ctx, CreateLayoutParams{
			Name: "Default",
			Key:  seedLayoutKey,
			Content: sql.NullString{
				String: "<!doctype html><html><body>{{content}}</body></html>",
				Valid:  true,
			},
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("seeding layout: %w", err)
		}
		logger.Info("seeded default layout", "key", seedLayoutKey)
	}

	if _, err := q.GetUserByEmail(ctx, seedAdminEmail); errors.Is(err, sql.ErrNoRows) {
		hash, err := auth.HashPassword(seedAdminPassword)
		if err != nil {
			return fmt.Errorf("hashing seed password: %w", err)
		}
		_, err = q.CreateUser(ctx, CreateUserParams{
			Name:         "Admin",
			Email:        seedAdminEmail,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return fmt.Errorf("seeding admin user: %w", err)
		}
		logger.Warn("seeded admin user with default password, change it",
			"email", seedAdminEmail)
	}

	var keys int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM api_keys`).Scan(&keys); err != nil {
		return fmt.Errorf("counting api keys: %w", err)
	}
	if keys == 0 {
		rawKey, prefix, err := model.GenerateAPIKey()
		if err != nil {
			return fmt.Errorf("generating seed api key: %w", err)
		}
		_, err = q.CreateAPIKey(ctx, CreateAPIKeyParams{
			Name:      "Initial key",
			KeyHash:   model.HashAPIKey(rawKey),
			KeyPrefix: prefix,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("seeding api key: %w", err)
		}
		// Shown once; only the hash is stored.
		logger.Info("seeded initial API key", "prefix", prefix, "key", rawKey)
	}

	return nil
}
