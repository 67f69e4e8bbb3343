// Package config centralizes application configuration.
//
// Values come from environment variables, optionally seeded from a
// .env file (joho/godotenv). Every knob has a default that works for
// local development, so a bare `go run ./cmd/server` starts a usable
// instance with an in-memory audit store.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the service.
type AppConfig struct {
	// Core settings
	Port     int
	DBPath   string // sqlite path for the request audit journal; ":memory:" supported
	LogLevel string

	// Request throttling (token bucket, requests per second + burst)
	RateLimitRPS   float64
	RateLimitBurst int

	// TTL for memoized returns responses; 0 disables the cache
	ReturnsCacheTTL time.Duration
}

// Load reads configuration from the environment, trying .env in the
// current and parent directory first.
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		if err = godotenv.Load("../.env"); err != nil {
			log.Println("No .env file found; relying on OS environment variables")
		}
	}

	return &AppConfig{
		Port:            getEnvInt("PORT", 8080),
		DBPath:          getEnv("DB_PATH", ":memory:"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 50),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 100),
		ReturnsCacheTTL: getEnvDuration("RETURNS_CACHE_TTL", time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("Warning: %s=%q is not a number, using %g", key, v, fallback)
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Warning: %s=%q is not a duration, using %s", key, v, fallback)
		return fallback
	}
	return d
}
