/*
performance.go - process metrics endpoints

PURPOSE:
  Live snapshot of the running process plus the recent request
  journal. The snapshot samples process-wide counters only; it never
  touches pipeline state.

RESPONSE SHAPE (GET /performance):
  {
      "time":    "X.XXXX ms",   // most recently completed request
      "memory":  "XXX.XX MB",   // current heap allocation
      "threads": N              // live goroutines
  }
*/
package api

import (
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"time"
)

type performanceDTO struct {
	Time    string `json:"time"`
	Memory  string `json:"memory"`
	Threads int    `json:"threads"`
}

type auditEntryDTO struct {
	ID         string  `json:"id"`
	Method     string  `json:"method"`
	Path       string  `json:"path"`
	Status     int     `json:"status"`
	DurationMs float64 `json:"durationMs"`
	CreatedAt  string  `json:"createdAt"`
}

// GetPerformance returns a live process snapshot.
// GET /blackrock/challenge/v1/performance
func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	memoryMB := float64(m.Alloc) / (1024 * 1024)

	writeJSON(w, http.StatusOK, performanceDTO{
		Time:    fmt.Sprintf("%.4f ms", h.Timer.LastMs()),
		Memory:  fmt.Sprintf("%.2f MB", memoryMB),
		Threads: runtime.NumGoroutine(),
	})
}

// GetPerformanceHistory returns the most recent audit entries.
// GET /blackrock/challenge/v1/performance/history?limit=N
func (h *Handler) GetPerformanceHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusUnprocessableEntity, "'limit' must be a positive integer", nil)
			return
		}
		limit = n
	}

	entries, err := h.Audit.RecentRequests(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read request history", err)
		return
	}

	dtos := make([]auditEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = auditEntryDTO{
			ID:         e.ID,
			Method:     e.Method,
			Path:       e.Path,
			Status:     e.Status,
			DurationMs: e.DurationMs,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}
