// Copyright (c) 2026 NavCMS Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout aborts requests that outrun d with a 503 in the API error
// envelope. The wrapped handler keeps running until the context
// cancellation reaches it; anything it writes after the deadline is
// discarded.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			tw := &timeoutResponseWriter{ResponseWriter: w}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(tw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if tw.timeout() {
					WriteAPIError(w, http.StatusServiceUnavailable,
						"timeout", "request timed out")
				}
			}
		})
	}
}

// timeoutResponseWriter arbitrates between the handler goroutine and
// the timeout path. Whichever side writes first owns the response.
type timeoutResponseWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	started  bool
	timedOut bool
}

func (tw *timeoutResponseWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.started || tw.timedOut {
		return
	}
	tw.started = true
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timeoutResponseWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.timedOut {
		return len(b), nil
	}
	if !tw.started {
		tw.started = true
		tw.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return tw.ResponseWriter.Write(b)
}

// timeout claims the response for the deadline error. It reports false
// when the handler already started writing, in which case the partial
// response stands.
func (tw *timeoutResponseWriter) timeout() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.started {
		return false
	}
	tw.timedOut = true
	return true
}
