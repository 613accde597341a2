// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Options configures cache construction.
type Options struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL string
	// Prefix namespaces Redis keys.
	Prefix string
	// DefaultTTL applies when a Set call passes no TTL.
	DefaultTTL time.Duration
	// MaxSize bounds the in-memory backend's entry count.
	MaxSize int
}

// New builds a Cache from options: Redis when configured and reachable,
// otherwise the in-memory backend. A Redis connection failure logs a
// warning and falls back rather than refusing to start.
func New(opts Options, logger *slog.Logger) Cache {
	if opts.RedisURL != "" {
		c, err := NewRedisCache(opts.RedisURL, opts.Prefix, opts.DefaultTTL)
		if err == nil {
			return c
		}
		if logger != nil {
			logger.Warn("redis cache unavailable, falling back to memory",
				"error", err)
		}
	}
	return NewMemoryCache(opts.DefaultTTL, opts.MaxSize)
}
