// Package store selects the core.Store implementation named by configuration.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/JonMunkholm/conventory/internal/config"
	"github.com/JonMunkholm/conventory/internal/core"
	"github.com/JonMunkholm/conventory/internal/store/memory"
	"github.com/JonMunkholm/conventory/internal/store/postgres"
	"github.com/JonMunkholm/conventory/internal/store/sqlite"
)

// Open connects the configured driver. The returned close function releases
// the store's resources and is non-nil when err is nil.
func Open(ctx context.Context, cfg config.StoreConfig) (core.Store, func() error, error) {
	switch strings.ToLower(cfg.Driver) {
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		slog.Info("connected to database", "driver", config.DriverPostgres, "name", databaseName(cfg.URL))
		return s, func() error { s.Close(); return nil }, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite: %w", err)
		}
		slog.Info("opened database", "driver", config.DriverSQLite, "path", cfg.SQLitePath)
		return s, s.Close, nil

	case config.DriverMemory:
		slog.Warn("using in-memory store; data is lost on exit")
		return memory.New(), func() error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// databaseName extracts the database name for logging without credentials.
func databaseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
