/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the round-up investment engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env / environment configuration
  2. Parse command-line flags (flags win over environment)
  3. Initialize structured logging
  4. Open the SQLite audit journal
  5. Create API handler and router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default from PORT, else 8080)
  -db      SQLite journal path (default from DB_PATH, else ":memory:")

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the journal
  4. Exit

EXAMPLES:
  # Run with a persistent journal
  ./server -db="./data/roundup.db"

  # Run on a different port
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment configuration
  - store/sqlite/sqlite.go: Audit journal
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/warp/roundup-engine/api"
	"github.com/warp/roundup-engine/config"
	"github.com/warp/roundup-engine/logger"
	"github.com/warp/roundup-engine/store/sqlite"
)

func main() {
	cfg := config.Load()

	// Flags override the environment
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite journal path")
	flag.Parse()

	logger.Init(cfg.LogLevel)
	log := logger.L

	// Audit journal
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Error("Failed to open audit journal", "path", *dbPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// Handler and router
	handler := api.NewHandler(store, cfg.ReturnsCacheTTL)
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	router := api.NewRouter(handler, limiter)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", fmt.Sprintf("http://localhost:%d%s", *port, api.BasePath))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped")
}
