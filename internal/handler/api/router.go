// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches all API routes to r. authMW guards the admin
// endpoints; the public menu and page endpoints stay open.
func (h *Handler) MountRoutes(r chi.Router, authMW func(http.Handler) http.Handler) {
	r.Get("/healthz", h.Health)
	r.Get("/api/v1/docs", h.ServeDocs)

	r.Route("/api/v1/menu", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Post("/create", h.CreateMenuItem)
			r.Patch("/update/{id}", h.UpdateMenuItem)
			r.Delete("/delete-menu-item/{id}", h.DeleteMenuItem)
			r.Patch("/update-menu-order", h.UpdateMenuOrder)
			r.Get("/list", h.ListMenuItems)
		})
		r.Get("/public/get-menu-items", h.PublicMenuItems)
		r.Get("/public/get-menu-tree", h.PublicMenuTree)
	})

	r.Route("/api/v1/pages", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/create", h.CreatePage)
		r.Patch("/update/{id}", h.UpdatePage)
		r.Get("/get/{id}", h.GetPage)
		r.Get("/list", h.ListPages)
		r.Delete("/delete/{id}", h.DeletePage)
		r.Post("/template/begin/{id}", h.BeginTemplateUpload)
		r.Post("/template/append", h.AppendTemplateChunk)
		r.Post("/template/commit", h.CommitTemplateUpload)
	})

	r.Route("/api/v1/transfer", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/export", h.ExportContent)
		r.Post("/import", h.ImportContent)
	})

	r.Get("/public/pages/*", h.ResolvePage)
}
