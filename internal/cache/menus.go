// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/navstruct/navcms/internal/model"
)

const menuItemsKey = "menu:active"

// MenuCache caches the flat list of active menu items that tree
// rendering and the public list endpoint start from. Any structural
// menu mutation invalidates it.
type MenuCache struct {
	cache Cache
	ttl   time.Duration
}

// NewMenuCache creates a menu cache on the given backend.
func NewMenuCache(c Cache, ttl time.Duration) *MenuCache {
	return &MenuCache{cache: c, ttl: ttl}
}

// Get returns the cached active menu items, or ok=false on a miss.
func (c *MenuCache) Get(ctx context.Context) ([]model.MenuItem, bool) {
	data, err := c.cache.Get(ctx, menuItemsKey)
	if err != nil {
		return nil, false
	}
	var items []model.MenuItem
	if err := json.Unmarshal(data, &items); err != nil {
		// Corrupt entry; drop it and treat as a miss.
		_ = c.cache.Delete(ctx, menuItemsKey)
		return nil, false
	}
	return items, true
}

// Set stores the active menu items.
func (c *MenuCache) Set(ctx context.Context, items []model.MenuItem) {
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	_ = c.cache.Set(ctx, menuItemsKey, data, c.ttl)
}

// Invalidate drops the cached items.
func (c *MenuCache) Invalidate(ctx context.Context) {
	_ = c.cache.Delete(ctx, menuItemsKey)
}
