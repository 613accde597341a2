// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/navstruct/navcms/internal/transfer"
)

// ExportContent handles GET /api/v1/transfer/export, streaming the
// full content bundle as a JSON download.
func (h *Handler) ExportContent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="navcms-export.json"`)
	if err := h.exporter.ExportToWriter(r.Context(), w); err != nil {
		h.logger.Error("export failed", "error", err)
	}
}

// ImportContent handles POST /api/v1/transfer/import. The request body
// is an export bundle; ?skipExisting=true skips colliding slugs instead
// of failing the import.
func (h *Handler) ImportContent(w http.ResponseWriter, r *http.Request) {
	opts := transfer.ImportOptions{
		SkipExisting: r.URL.Query().Get("skipExisting") == "true",
	}

	result, err := h.importer.ImportFromReader(r.Context(), r.Body, opts)
	if err != nil {
		if errors.Is(err, transfer.ErrInvalidBundle) {
			WriteJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Message: err.Error(),
				Data:    result,
			})
			return
		}
		h.logger.Error("import failed", "error", err)
		if h.dev {
			WriteBadRequest(w, err.Error())
		} else {
			WriteBadRequest(w, "import failed")
		}
		return
	}
	h.menus.FlushCache(r.Context())
	WriteSuccess(w, "Content imported", result)
}
