// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication and
// request handling.
package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/navstruct/navcms/internal/model"
	"github.com/navstruct/navcms/internal/store"
)

// ContextKey is the type for request context keys set by middleware.
type ContextKey string

// ContextKeyAPIKey is the context key for API key data.
const ContextKeyAPIKey ContextKey = "api_key"

// APIError represents a JSON error response for the API.
type APIError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	apiErr := APIError{}
	apiErr.Error.Code = code
	apiErr.Error.Message = message

	_ = json.NewEncoder(w).Encode(apiErr)
}

// validateAPIKey parses the Authorization header and validates the API
// key. The second return value reports whether an error response was
// already written.
func validateAPIKey(w http.ResponseWriter, r *http.Request, queries *store.Queries) (*model.APIKey, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Missing Authorization header")
		return nil, true
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid Authorization header format. Use: Bearer <api_key>")
		return nil, true
	}

	rawKey := parts[1]
	if rawKey == "" {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "API key is empty")
		return nil, true
	}

	keyHash := model.HashAPIKey(rawKey)
	apiKey, err := queries.GetAPIKeyByHash(r.Context(), keyHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
		} else {
			slog.Error("failed to validate API key", "error", err)
			WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to validate API key")
		}
		return nil, true
	}

	if !apiKey.IsActive {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "API key is inactive")
		return nil, true
	}
	if apiKey.IsExpired(time.Now()) {
		WriteAPIError(w, http.StatusUnauthorized, "unauthorized", "API key has expired")
		return nil, true
	}

	return &apiKey, false
}

// APIKeyAuth creates middleware that validates API key authentication.
// It checks the Authorization header for a Bearer token.
func APIKeyAuth(db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey, errorWritten := validateAPIKey(w, r, queries)
			if errorWritten {
				return
			}

			touchAPIKey(queries, apiKey.ID)
			ctx := context.WithValue(r.Context(), ContextKeyAPIKey, *apiKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAPIKey retrieves the API key from the request context.
// Returns nil if no API key is in context.
func GetAPIKey(r *http.Request) *model.APIKey {
	apiKey, ok := r.Context().Value(ContextKeyAPIKey).(model.APIKey)
	if !ok {
		return nil
	}
	return &apiKey
}

// touchAPIKey updates the last used timestamp in a background goroutine.
func touchAPIKey(queries *store.Queries, keyID int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queries.TouchAPIKey(ctx, keyID, time.Now().UTC())
	}()
}
