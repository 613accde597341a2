// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON REST handlers for menu and page
// management.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/navstruct/navcms/internal/service"
	"github.com/navstruct/navcms/internal/store"
	"github.com/navstruct/navcms/internal/transfer"
)

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	db        *sql.DB
	menus     *service.MenuService
	pages     *service.PageService
	templates *service.TemplateBuffer
	exporter  *transfer.Exporter
	importer  *transfer.Importer
	dev       bool
	logger    *slog.Logger
}

// NewHandler creates a new API handler. When dev is true, internal
// error detail is included in 500 responses.
func NewHandler(db *sql.DB, menus *service.MenuService, pages *service.PageService, templates *service.TemplateBuffer, dev bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	queries := store.New(db)
	return &Handler{
		db:        db,
		menus:     menus,
		pages:     pages,
		templates: templates,
		exporter:  transfer.NewExporter(queries, logger),
		importer:  transfer.NewImporter(queries, db, logger),
		dev:       dev,
		logger:    logger,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, Response{Success: false, Message: message})
}

// WriteBadRequest writes a 400 Bad Request response.
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// writeServiceError maps service error types onto HTTP statuses.
// Unrecognized errors become opaque 500s; the detail is logged, and
// echoed to the client only in development.
func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var (
		verr *service.ValidationError
		derr *service.DuplicateError
		cerr *service.CycleError
		nerr *service.NotFoundError
	)
	switch {
	case errors.As(err, &verr):
		WriteBadRequest(w, verr.Error())
	case errors.As(err, &derr):
		WriteError(w, http.StatusConflict, derr.Error())
	case errors.As(err, &cerr):
		WriteBadRequest(w, cerr.Error())
	case errors.As(err, &nerr):
		WriteNotFound(w, nerr.Error())
	default:
		h.logger.Error("request failed", "error", err)
		if h.dev {
			WriteError(w, http.StatusInternalServerError, err.Error())
		} else {
			WriteError(w, http.StatusInternalServerError, "Internal server error")
		}
	}
}

// parseIDParam extracts the {id} URL parameter.
func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// decodeJSON decodes a request body, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// Health reports liveness, including a database ping.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	WriteSuccess(w, "ok", nil)
}
