// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	_ "embed"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
)

//go:embed docs.md
var docsMarkdown []byte

var (
	docsOnce sync.Once
	docsHTML []byte
	docsErr  error
)

// ServeDocs handles GET /api/v1/docs, rendering the embedded API
// reference. The markdown is converted once and reused.
func (h *Handler) ServeDocs(w http.ResponseWriter, _ *http.Request) {
	docsOnce.Do(func() {
		var buf bytes.Buffer
		docsErr = goldmark.Convert(docsMarkdown, &buf)
		docsHTML = buf.Bytes()
	})
	if docsErr != nil {
		http.Error(w, "Failed to render documentation", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(docsHTML)
}
