// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/navstruct/navcms/internal/model"
)

const (
	// maxTemplateChunk bounds a single uploaded chunk.
	maxTemplateChunk = 256 << 10
	// maxTemplateSize bounds the assembled template body.
	maxTemplateSize = 4 << 20
	// templateUploadTTL is how long an open upload may sit idle.
	templateUploadTTL = 15 * time.Minute
)

type templateUpload struct {
	pageID    int64
	locale    string
	chunks    map[int]string
	size      int
	expiresAt time.Time
}

// TemplateBuffer accumulates chunked template uploads. Large template
// bodies arrive split across several requests; each upload is keyed by
// an opaque token and committed atomically onto its page. Abandoned
// uploads expire and are reaped by Sweep.
type TemplateBuffer struct {
	mu      sync.Mutex
	uploads map[string]*templateUpload
	pages   *PageService
	ttl     time.Duration
}

// NewTemplateBuffer creates a buffer that commits onto the given
// page service.
func NewTemplateBuffer(pages *PageService) *TemplateBuffer {
	return &TemplateBuffer{
		uploads: make(map[string]*templateUpload),
		pages:   pages,
		ttl:     templateUploadTTL,
	}
}

// Begin opens a chunked upload for one page's locale template and
// returns the upload token.
func (b *TemplateBuffer) Begin(ctx context.Context, pageID int64, locale string) (string, error) {
	if !model.IsValidLocale(locale) {
		return "", NewValidationError("locale", "unknown locale")
	}
	if _, err := b.pages.Get(ctx, pageID); err != nil {
		return "", err
	}

	token := uuid.NewString()
	b.mu.Lock()
	b.uploads[token] = &templateUpload{
		pageID:    pageID,
		locale:    locale,
		chunks:    make(map[int]string),
		expiresAt: time.Now().Add(b.ttl),
	}
	b.mu.Unlock()
	return token, nil
}

// Append stores one chunk at the given index. Chunks may arrive out of
// order; re-sending an index replaces the earlier chunk.
func (b *TemplateBuffer) Append(token string, index int, data string) error {
	if index < 0 {
		return NewValidationError("index", "chunk index must not be negative")
	}
	if len(data) > maxTemplateChunk {
		return NewValidationError("data", "chunk exceeds maximum size")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	up, ok := b.uploads[token]
	if !ok || time.Now().After(up.expiresAt) {
		return NewNotFoundError("template upload", token)
	}
	up.size += len(data) - len(up.chunks[index])
	if up.size > maxTemplateSize {
		return NewValidationError("data", "assembled template exceeds maximum size")
	}
	up.chunks[index] = data
	up.expiresAt = time.Now().Add(b.ttl)
	return nil
}

// Commit assembles the chunks in index order, writes the template onto
// the page, and discards the upload. Chunk indexes must be contiguous
// from zero.
func (b *TemplateBuffer) Commit(ctx context.Context, token string) error {
	b.mu.Lock()
	up, ok := b.uploads[token]
	if !ok || time.Now().After(up.expiresAt) {
		b.mu.Unlock()
		return NewNotFoundError("template upload", token)
	}

	indexes := make([]int, 0, len(up.chunks))
	for i := range up.chunks {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	for i, idx := range indexes {
		if idx != i {
			b.mu.Unlock()
			return NewValidationError("index", "chunk sequence has gaps")
		}
	}

	var sb strings.Builder
	sb.Grow(up.size)
	for _, idx := range indexes {
		sb.WriteString(up.chunks[idx])
	}
	delete(b.uploads, token)
	b.mu.Unlock()

	return b.pages.SetTemplate(ctx, up.pageID, up.locale, sb.String())
}

// Abort discards an open upload.
func (b *TemplateBuffer) Abort(token string) {
	b.mu.Lock()
	delete(b.uploads, token)
	b.mu.Unlock()
}

// Sweep drops uploads that have sat idle past their TTL and returns
// how many were removed.
func (b *TemplateBuffer) Sweep(now time.Time) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	for token, up := range b.uploads {
		if now.After(up.expiresAt) {
			delete(b.uploads, token)
			removed++
		}
	}
	return removed
}
