/*
Copyright (C) 2026 Sepur Labs

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Database backend selection for the attempt history store.
type DatabaseBackend string

const (
	DatabaseSQLite   DatabaseBackend = "sqlite"
	DatabasePostgres DatabaseBackend = "postgres"
	DatabaseMySQL    DatabaseBackend = "mysql"
)

// Config covers process level configuration read from environment variables.
// Per-run booking data lives in the YAML profile instead.
type Config struct {
	Environment string
	SiteURL     string

	// Browser
	Headless    bool
	BrowserBin  string // optional chromium binary override
	PageTimeout time.Duration

	// Release scheduler
	PollInterval time.Duration

	// Status / metrics endpoint, served while a run is active
	StatusEnabled bool
	StatusBind    string

	// Attempt history store
	HistoryBackend DatabaseBackend
	HistoryDSN     string
}

// Load reads environment variables, applies defaults, and validates the
// result.
func Load() (*Config, error) {
	cfg := &Config{
		Environment: getEnv("SEPUR_ENV", "development"),
		SiteURL:     getEnv("SEPUR_SITE_URL", "https://booking.kai.id/"),

		Headless:    getEnvBool("SEPUR_HEADLESS", false),
		BrowserBin:  getEnv("SEPUR_BROWSER_BIN", ""),
		PageTimeout: time.Duration(getEnvInt("SEPUR_PAGE_TIMEOUT_SECONDS", 30)) * time.Second,

		PollInterval: time.Duration(getEnvInt("SEPUR_POLL_INTERVAL_MS", 1000)) * time.Millisecond,

		StatusEnabled: getEnvBool("SEPUR_STATUS_ENABLED", true),
		StatusBind:    getEnv("SEPUR_STATUS_BIND", "127.0.0.1:9100"),

		HistoryBackend: DatabaseBackend(getEnv("SEPUR_HISTORY_BACKEND", string(DatabaseSQLite))),
		HistoryDSN:     getEnv("SEPUR_HISTORY_DSN", "sepurbot_history.db"),
	}

	switch cfg.HistoryBackend {
	case DatabaseSQLite, DatabasePostgres, DatabaseMySQL:
	default:
		return nil, fmt.Errorf("unknown history backend: %s", cfg.HistoryBackend)
	}
	if cfg.PageTimeout <= 0 {
		return nil, fmt.Errorf("page timeout must be positive")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive")
	}
	if cfg.StatusEnabled && cfg.StatusBind == "" {
		return nil, fmt.Errorf("status endpoint enabled but SEPUR_STATUS_BIND is empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
