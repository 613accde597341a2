// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/navstruct/navcms/internal/i18n"
	"github.com/navstruct/navcms/internal/model"
	"github.com/navstruct/navcms/internal/service"
	"github.com/navstruct/navcms/internal/util"
)

// MenuItemResponse represents a menu item in API responses.
type MenuItemResponse struct {
	ID             int64     `json:"id"`
	TitleEn        string    `json:"titleEn"`
	TitleBn        string    `json:"titleBn"`
	Slug           *string   `json:"slug"`
	ParentID       *int64    `json:"parentId"`
	IsExternalLink bool      `json:"isExternalLink"`
	URL            *string   `json:"url"`
	Order          int64     `json:"order"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func menuItemToResponse(m model.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:             m.ID,
		TitleEn:        m.TitleEn,
		TitleBn:        m.TitleBn,
		Slug:           util.PtrFromNullString(m.Slug),
		ParentID:       util.PtrFromNullInt64(m.ParentID),
		IsExternalLink: m.IsExternalLink,
		URL:            util.PtrFromNullString(m.URL),
		Order:          m.Position,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// LocalizedTitle is the nested title shape some clients send.
type LocalizedTitle struct {
	En string `json:"en"`
	Bn string `json:"bn"`
}

// CreateMenuItemRequest represents the request body for creating a menu
// item. Titles may arrive flat (titleEn/titleBn) or nested under title.
type CreateMenuItemRequest struct {
	TitleEn        string          `json:"titleEn"`
	TitleBn        string          `json:"titleBn"`
	Title          *LocalizedTitle `json:"title,omitempty"`
	ParentID       *int64          `json:"parentId"`
	IsExternalLink bool            `json:"isExternalLink"`
	URL            string          `json:"url"`
	Order          int64           `json:"order"`
	IsActive       *bool           `json:"isActive"`
}

// CreateMenuItem handles POST /api/v1/menu/create.
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req CreateMenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Title != nil {
		if req.TitleEn == "" {
			req.TitleEn = req.Title.En
		}
		if req.TitleBn == "" {
			req.TitleBn = req.Title.Bn
		}
	}

	item, err := h.menus.Create(r.Context(), service.CreateMenuItemInput{
		TitleEn:        req.TitleEn,
		TitleBn:        req.TitleBn,
		ParentID:       req.ParentID,
		IsExternalLink: req.IsExternalLink,
		URL:            req.URL,
		Position:       req.Order,
		IsActive:       req.IsActive,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteCreated(w, "Menu item created", menuItemToResponse(item))
}

// UpdateMenuItemRequest represents a partial menu item update. parentId
// and url are raw so that an explicit null (clear) can be told apart
// from an absent field (leave unchanged).
type UpdateMenuItemRequest struct {
	TitleEn        *string         `json:"titleEn"`
	TitleBn        *string         `json:"titleBn"`
	Title          *LocalizedTitle `json:"title,omitempty"`
	ParentID       json.RawMessage `json:"parentId,omitempty"`
	IsExternalLink *bool           `json:"isExternalLink"`
	URL            json.RawMessage `json:"url,omitempty"`
	Order          *int64          `json:"order"`
	IsActive       *bool           `json:"isActive"`
}

var jsonNull = []byte("null")

// UpdateMenuItem handles PATCH /api/v1/menu/update/{id}.
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid menu item ID")
		return
	}

	var req UpdateMenuItemRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}

	in := service.UpdateMenuItemInput{
		TitleEn:        req.TitleEn,
		TitleBn:        req.TitleBn,
		IsExternalLink: req.IsExternalLink,
		Position:       req.Order,
		IsActive:       req.IsActive,
	}
	if req.Title != nil {
		if in.TitleEn == nil {
			in.TitleEn = &req.Title.En
		}
		if in.TitleBn == nil {
			in.TitleBn = &req.Title.Bn
		}
	}
	if len(req.ParentID) > 0 {
		in.SetParent = true
		if !bytes.Equal(req.ParentID, jsonNull) {
			var parentID int64
			if err := json.Unmarshal(req.ParentID, &parentID); err != nil {
				WriteBadRequest(w, "parentId must be a number or null")
				return
			}
			in.ParentID = &parentID
		}
	}
	if len(req.URL) > 0 {
		in.SetURL = true
		if !bytes.Equal(req.URL, jsonNull) {
			var u string
			if err := json.Unmarshal(req.URL, &u); err != nil {
				WriteBadRequest(w, "url must be a string or null")
				return
			}
			in.URL = &u
		}
	}

	item, err := h.menus.Update(r.Context(), id, in)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, "Menu item updated", menuItemToResponse(item))
}

// DeleteMenuItem handles DELETE /api/v1/menu/delete-menu-item/{id}.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid menu item ID")
		return
	}
	if err := h.menus.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, "Menu item deleted", nil)
}

// UpdateMenuOrderRequest represents the request body for reordering.
type UpdateMenuOrderRequest struct {
	Items []int64 `json:"items"`
}

// UpdateMenuOrder handles PATCH /api/v1/menu/update-menu-order. Each
// item receives its index in the submitted list as its order.
func (h *Handler) UpdateMenuOrder(w http.ResponseWriter, r *http.Request) {
	var req UpdateMenuOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := h.menus.Reorder(r.Context(), req.Items); err != nil {
		h.writeServiceError(w, err)
		return
	}
	WriteSuccess(w, "Menu order updated", nil)
}

// ListMenuItems handles GET /api/v1/menu/list (admin, includes
// inactive items).
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.menus.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	out := make([]MenuItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, menuItemToResponse(item))
	}
	WriteSuccess(w, "", out)
}

// PublicMenuItems handles GET /api/v1/menu/public/get-menu-items,
// returning the flat list of active items ordered by position.
func (h *Handler) PublicMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.menus.ListActive(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	out := make([]MenuItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, menuItemToResponse(item))
	}
	WriteSuccess(w, "", out)
}

// PublicMenuTree handles GET /api/v1/menu/public/get-menu-tree,
// returning the rendered navigation forest with published-page hrefs.
func (h *Handler) PublicMenuTree(w http.ResponseWriter, r *http.Request) {
	tree, err := h.menus.RenderPublicTree(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Language", i18n.Negotiate(r.Header.Get("Accept-Language")))
	WriteSuccess(w, "", tree)
}
