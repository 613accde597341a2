// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTimeoutPassesThroughFastHandler(t *testing.T) {
	handler := Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("done"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", rec.Code)
	}
	if rec.Body.String() != "done" {
		t.Errorf("body = %q, want done", rec.Body.String())
	}
}

func TestTimeoutCutsOffSlowHandler(t *testing.T) {
	release := make(chan struct{})
	handler := Timeout(20*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer close(release)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	var apiErr APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("timeout body is not the error envelope: %q", rec.Body.String())
	}
	if apiErr.Error.Code != "timeout" {
		t.Errorf("error code = %q, want timeout", apiErr.Error.Code)
	}
}

func TestTimeoutDiscardsLateWrites(t *testing.T) {
	rec := httptest.NewRecorder()
	tw := &timeoutResponseWriter{ResponseWriter: rec}

	if !tw.timeout() {
		t.Fatal("timeout should claim an untouched response")
	}
	if n, err := tw.Write([]byte("late")); err != nil || n != 4 {
		t.Fatalf("Write after timeout = (%d, %v), want (4, nil)", n, err)
	}
	tw.WriteHeader(http.StatusOK)

	if rec.Body.Len() != 0 {
		t.Errorf("late body leaked: %q", rec.Body.String())
	}
}

func TestTimeoutDoesNotOverwriteStartedResponse(t *testing.T) {
	handler := Timeout(20*time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		<-r.Context().Done()
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (already committed)", rec.Code)
	}
}
