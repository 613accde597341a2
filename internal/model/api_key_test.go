// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"testing"
	"time"
)

func TestGenerateAPIKey(t *testing.T) {
	raw, prefix, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}
	if len(raw) < 32 {
		t.Errorf("raw key too short: %d chars", len(raw))
	}
	if prefix != raw[:8] {
		t.Errorf("prefix = %q, want first 8 chars of %q", prefix, raw)
	}

	raw2, _, err := GenerateAPIKey()
	if err != nil {
		t.Fatalf("GenerateAPIKey: %v", err)
	}
	if raw == raw2 {
		t.Error("two generated keys are identical")
	}
}

func TestHashAPIKey(t *testing.T) {
	h1 := HashAPIKey("secret")
	h2 := HashAPIKey("secret")
	if h1 != h2 {
		t.Error("hash is not deterministic")
	}
	if h1 == HashAPIKey("other") {
		t.Error("different keys produced same hash")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
}

func TestAPIKeyIsExpired(t *testing.T) {
	now := time.Now()

	k := APIKey{}
	if k.IsExpired(now) {
		t.Error("key without expiry should not expire")
	}

	k.ExpiresAt = sql.NullTime{Time: now.Add(-time.Hour), Valid: true}
	if !k.IsExpired(now) {
		t.Error("key expired an hour ago should be expired")
	}

	k.ExpiresAt = sql.NullTime{Time: now.Add(time.Hour), Valid: true}
	if k.IsExpired(now) {
		t.Error("key expiring in an hour should not be expired")
	}
}
