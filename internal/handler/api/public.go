// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/navstruct/navcms/internal/i18n"
)

// ResolvePage handles GET /public/pages/*. The wildcard tail is the
// raw page slug; leading and trailing slashes are tolerated, so
// /public/pages/about/team/ serves the page stored as "about/team".
// Both locales are returned; Content-Language names the one negotiated
// from Accept-Language.
func (h *Handler) ResolvePage(w http.ResponseWriter, r *http.Request) {
	rawSlug := chi.URLParam(r, "*")

	resolved, err := h.pages.ResolveBySlug(r.Context(), rawSlug)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Language", i18n.Negotiate(r.Header.Get("Accept-Language")))
	WriteSuccess(w, "", resolved)
}
