/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:      Request logging
  2. Recoverer:   Panic recovery (500 instead of crash)
  3. RequestID:   Unique ID per request for tracing
  4. CORS:        Cross-origin requests for frontend clients
  5. Instrument:  Timing header + audit journal (middleware.go)
  6. RateLimit:   Process-wide token bucket

ROUTE GROUPS (base /blackrock/challenge/v1):
  /transactions:parse       Raw expense enrichment
  /transactions:validator   Duplicate/negative screening
  /transactions:filter      Temporal rule classification
  /returns:nps              Pension-profile projection
  /returns:index            Index-profile projection
  /performance              Process snapshot
  /performance/history      Request audit journal

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// BasePath is the URL prefix shared by every route.
const BasePath = "/blackrock/challenge/v1"

// NewRouter creates a new router with all routes configured. A nil
// limiter disables throttling.
func NewRouter(h *Handler, limiter *rate.Limiter) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	}))
	r.Use(h.Instrument)
	if limiter != nil {
		r.Use(RateLimit(limiter))
	}

	r.Route(BasePath, func(r chi.Router) {
		// Transaction pipeline
		r.Post("/transactions:parse", h.ParseTransactions)
		r.Post("/transactions:validator", h.ValidateTransactions)
		r.Post("/transactions:filter", h.FilterTransactions)

		// Growth projections
		r.Post("/returns:nps", h.ReturnsNPS)
		r.Post("/returns:index", h.ReturnsIndex)

		// Operational
		r.Get("/performance", h.GetPerformance)
		r.Get("/performance/history", h.GetPerformanceHistory)
	})

	return r
}
