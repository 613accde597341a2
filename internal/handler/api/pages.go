// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/navstruct/navcms/internal/model"
	"github.com/navstruct/navcms/internal/service"
	"github.com/navstruct/navcms/internal/util"
)

// PageResponse represents a page in API responses.
type PageResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	TitleEn     string     `json:"titleEn"`
	TitleBn     string     `json:"titleBn"`
	Slug        string     `json:"slug"`
	LayoutID    *int64     `json:"layoutId"`
	TemplateEn  *string    `json:"templateEn"`
	TemplateBn  *string    `json:"templateBn"`
	Status      string     `json:"status"`
	IsActive    bool       `json:"isActive"`
	CreatedBy   *int64     `json:"createdBy,omitempty"`
	UpdatedBy   *int64     `json:"updatedBy,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func pageToResponse(p model.Page) PageResponse {
	resp := PageResponse{
		ID:         p.ID,
		Name:       p.Name,
		TitleEn:    p.TitleEn,
		TitleBn:    p.TitleBn,
		Slug:       p.Slug,
		LayoutID:   util.PtrFromNullInt64(p.LayoutID),
		TemplateEn: util.PtrFromNullString(p.TemplateEn),
		TemplateBn: util.PtrFromNullString(p.TemplateBn),
		Status:     p.Status,
		IsActive:   p.IsActive,
		CreatedBy:  util.PtrFromNullInt64(p.CreatedBy),
		UpdatedBy:  util.PtrFromNullInt64(p.UpdatedBy),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if p.ScheduledAt.Valid {
		at := p.ScheduledAt.Time
		resp.ScheduledAt = &at
	}
	if p.PublishedAt.Valid {
		at := p.PublishedAt.Time
		resp.PublishedAt = &at
	}
	return resp
}

// CreatePageRequest represents the request body for creating a page.
type CreatePageRequest struct {
	Name        string     `json:"name"`
	TitleEn     string     `json:"titleEn"`
	TitleBn     string     `json:"titleBn"`
	Slug        string     `json:"slug"`
	LayoutID    *int64     `json:"layoutId"`
	TemplateEn  *string    `json:"templateEn"`
	TemplateBn  *string    `json:"templateBn"`
	Status      string     `json:"status"`
	IsActive    *bool      `json:"isActive"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

// CreatePage handles POST /api/v1/pages/create.
func (h *Handler) CreatePage(w http.ResponseWriter, r *http.Request) {
	var req CreatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	page, err := h.pages.Create(r.Context(), service.CreatePageInput{
		Name:        req.Name,
		TitleEn:     req.TitleEn,
		TitleBn:     req.TitleBn,
		Slug:        req.Slug,
		LayoutID:    req.LayoutID,
		TemplateEn:  req.TemplateEn,
		TemplateBn:  req.TemplateBn,
		Status:      req.Status,
		IsActive:    req.IsActive,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteCreated(w, "Page created", pageToResponse(page))
}

// UpdatePageRequest represents a partial page update.
type UpdatePageRequest struct {
	Name        *string    `json:"name"`
	TitleEn     *string    `json:"titleEn"`
	TitleBn     *string    `json:"titleBn"`
	Slug        *string    `json:"slug"`
	LayoutID    *int64     `json:"layoutId"`
	TemplateEn  *string    `json:"templateEn"`
	TemplateBn  *string    `json:"templateBn"`
	Status      *string    `json:"status"`
	IsActive    *bool      `json:"isActive"`
	ScheduledAt *time.Time `json:"scheduledAt"`
}

// UpdatePage handles PATCH /api/v1/pages/update/{id}.
func (h *Handler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}
	var req UpdatePageRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	page, err := h.pages.Update(r.Context(), id, service.UpdatePageInput{
		Name:           req.Name,
		TitleEn:        req.TitleEn,
		TitleBn:        req.TitleBn,
		Slug:           req.Slug,
		SetLayout:      req.LayoutID != nil,
		LayoutID:       req.LayoutID,
		TemplateEn:     req.TemplateEn,
		TemplateBn:     req.TemplateBn,
		Status:         req.Status,
		IsActive:       req.IsActive,
		SetScheduledAt: req.ScheduledAt != nil,
		ScheduledAt:    req.ScheduledAt,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, "Page updated", pageToResponse(page))
}

// GetPage handles GET /api/v1/pages/get/{id}.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}
	page, err := h.pages.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, "", pageToResponse(page))
}

// ListPages handles GET /api/v1/pages/list.
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	pages, err := h.pages.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	out := make([]PageResponse, 0, len(pages))
	for _, p := range pages {
		out = append(out, pageToResponse(p))
	}
	WriteSuccess(w, "", out)
}

// DeletePage handles DELETE /api/v1/pages/delete/{id}.
func (h *Handler) DeletePage(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}
	if err := h.pages.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, "Page deleted", nil)
}

// BeginTemplateUploadRequest opens a chunked template upload.
type BeginTemplateUploadRequest struct {
	Locale string `json:"locale"`
}

// BeginTemplateUpload handles POST /api/v1/pages/template/begin/{id}.
func (h *Handler) BeginTemplateUpload(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid page ID")
		return
	}
	var req BeginTemplateUploadRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	token, err := h.templates.Begin(r.Context(), id, req.Locale)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteCreated(w, "Template upload opened", map[string]string{"token": token})
}

// AppendTemplateChunkRequest carries one template chunk.
type AppendTemplateChunkRequest struct {
	Token string `json:"token"`
	Index int    `json:"index"`
	Data  string `json:"data"`
}

// AppendTemplateChunk handles POST /api/v1/pages/template/append.
func (h *Handler) AppendTemplateChunk(w http.ResponseWriter, r *http.Request) {
	var req AppendTemplateChunkRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := h.templates.Append(req.Token, req.Index, req.Data); err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, "Chunk accepted", nil)
}

// CommitTemplateUploadRequest finalizes a chunked template upload.
type CommitTemplateUploadRequest struct {
	Token string `json:"token"`
}

// CommitTemplateUpload handles POST /api/v1/pages/template/commit.
func (h *Handler) CommitTemplateUpload(w http.ResponseWriter, r *http.Request) {
	var req CommitTemplateUploadRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := h.templates.Commit(r.Context(), req.Token); err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, "Template committed", nil)
}
