// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"time"
)

const pageKeyPrefix = "page:"

// PageCache caches resolved page payloads keyed by normalized slug.
// Resolution is read-only, so entries stay valid until any page or menu
// mutation invalidates the whole namespace.
type PageCache struct {
	cache Cache
	ttl   time.Duration
}

// NewPageCache creates a page cache on the given backend.
func NewPageCache(c Cache, ttl time.Duration) *PageCache {
	return &PageCache{cache: c, ttl: ttl}
}

// Get returns the cached payload for a normalized slug, or ok=false.
func (c *PageCache) Get(ctx context.Context, slug string) ([]byte, bool) {
	data, err := c.cache.Get(ctx, pageKeyPrefix+slug)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores the payload for a normalized slug.
func (c *PageCache) Set(ctx context.Context, slug string, payload []byte) {
	_ = c.cache.Set(ctx, pageKeyPrefix+slug, payload, c.ttl)
}

// Invalidate drops every cached page. Mutations are rare relative to
// reads, so clearing the namespace is simpler than tracking which
// slugs a structural change touched.
func (c *PageCache) Invalidate(ctx context.Context) {
	_ = c.cache.Clear(ctx)
}
