/*
middleware.go - request instrumentation and throttling

PURPOSE:
  Two pieces of glue around every handler:

  1. Instrument: times each request, exposes the duration via the
     X-Response-Time-Ms header and the Timer (read back by the
     performance endpoint), and appends an audit row to the sqlite
     journal.
  2. RateLimit: a process-wide token bucket; excess requests get 429
     without touching the pipeline.

SEE ALSO:
  - performance.go: reads Timer and the journal
  - store/sqlite: the journal itself
*/
package api

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/warp/roundup-engine/store/sqlite"
)

// RequestTimer remembers the duration of the most recently completed
// request. Safe for concurrent use.
type RequestTimer struct {
	mu     sync.Mutex
	lastMs float64
}

// Record stores the duration of a completed request.
func (t *RequestTimer) Record(ms float64) {
	t.mu.Lock()
	t.lastMs = ms
	t.mu.Unlock()
}

// LastMs returns the duration of the most recently completed request.
func (t *RequestTimer) LastMs() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastMs
}

// timingWriter injects the response-time header at WriteHeader time,
// before the status line is flushed.
type timingWriter struct {
	http.ResponseWriter
	start       time.Time
	status      int
	wroteHeader bool
}

func (tw *timingWriter) WriteHeader(code int) {
	if !tw.wroteHeader {
		elapsed := float64(time.Since(tw.start).Nanoseconds()) / 1e6
		tw.Header().Set("X-Response-Time-Ms", fmt.Sprintf("%.4f", elapsed))
		tw.status = code
		tw.wroteHeader = true
	}
	tw.ResponseWriter.WriteHeader(code)
}

func (tw *timingWriter) Write(b []byte) (int, error) {
	if !tw.wroteHeader {
		tw.WriteHeader(http.StatusOK)
	}
	return tw.ResponseWriter.Write(b)
}

// Instrument wraps a handler with timing and audit journaling.
func (h *Handler) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tw := &timingWriter{ResponseWriter: w, start: time.Now(), status: http.StatusOK}
		next.ServeHTTP(tw, r)

		elapsedMs := float64(time.Since(tw.start).Nanoseconds()) / 1e6
		h.Timer.Record(elapsedMs)

		if h.Audit == nil {
			return
		}
		err := h.Audit.RecordRequest(r.Context(), sqlite.AuditEntry{
			Method:     r.Method,
			Path:       r.URL.Path,
			Status:     tw.status,
			DurationMs: elapsedMs,
		})
		if err != nil {
			h.log.Warn("Failed to journal request", "path", r.URL.Path, "error", err)
		}
	})
}

// RateLimit rejects requests above the shared token bucket's rate.
func RateLimit(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "Too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
