// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/hex"
	"time"
)

// APIKey represents an API authentication key. Only the SHA-256 hash of
// the raw key is stored.
type APIKey struct {
	ID         int64
	Name       string
	KeyHash    string
	KeyPrefix  string
	LastUsedAt sql.NullTime
	ExpiresAt  sql.NullTime
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsExpired reports whether the key has an expiry in the past.
func (k *APIKey) IsExpired(now time.Time) bool {
	return k.ExpiresAt.Valid && now.After(k.ExpiresAt.Time)
}

// GenerateAPIKey generates a new random API key.
// Returns the raw key (shown to the user once) and the key prefix.
func GenerateAPIKey() (rawKey string, prefix string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", err
	}

	rawKey = base64.URLEncoding.EncodeToString(bytes)
	prefix = rawKey[:8]

	return rawKey, prefix, nil
}

// HashAPIKey creates a SHA-256 hash of the API key for storage.
func HashAPIKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}
