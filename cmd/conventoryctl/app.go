package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/conventory/internal/config"
	"github.com/JonMunkholm/conventory/internal/core"
	"github.com/JonMunkholm/conventory/internal/logging"
	"github.com/JonMunkholm/conventory/internal/store"
)

// errRowErrors reports an import that completed with per-row problems.
var errRowErrors = errors.New("import finished with row errors")

type storeOpener func(ctx context.Context, cfg config.StoreConfig) (core.Store, func() error, error)

type app struct {
	out    io.Writer
	errOut io.Writer

	openStore storeOpener
	cfg       *config.Config

	driver     string
	sqlitePath string
	dbURL      string
	logLevel   string
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut, openStore: store.Open}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "conventoryctl",
		Short: "Import and export inventory CSV files",
		Long: `conventoryctl runs the inventory CSV engine against the store configured
through the environment (STORE_DRIVER, DATABASE_URL, SQLITE_PATH) or flags.

Imports resolve category and location names against the tenant's existing
records, creating missing ones, and report problems per row.`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.driver, "store", "", "store driver: postgres, sqlite, memory (default from STORE_DRIVER)")
	flags.StringVar(&a.sqlitePath, "sqlite-path", "", "SQLite database file (default from SQLITE_PATH)")
	flags.StringVar(&a.dbURL, "database-url", "", "PostgreSQL connection string (default from DATABASE_URL)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error (default from LOG_LEVEL)")

	root.AddCommand(a.importCommand(), a.exportCommand(), a.templateCommand())
	return root
}

// setup loads configuration, applies flag overrides and configures logging
// on stderr so command output stays clean.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Parse()
	if err != nil {
		return err
	}
	if a.driver != "" {
		cfg.Store.Driver = strings.ToLower(a.driver)
	}
	if a.sqlitePath != "" {
		cfg.Store.SQLitePath = a.sqlitePath
	}
	if a.dbURL != "" {
		cfg.Store.URL = a.dbURL
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.SetDefault(logging.New(a.errOut, cfg.Logging.Level, cfg.Logging.Format))
	a.cfg = cfg
	return nil
}

// withService opens the store, runs fn and closes the store.
func (a *app) withService(ctx context.Context, fn func(*core.Service) error) (err error) {
	st, closeStore, err := a.openStore(ctx, a.cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeStore(); cerr != nil && err == nil {
			err = fmt.Errorf("close store: %w", cerr)
		}
	}()

	return fn(core.NewService(st, core.ServiceConfig{
		MaxFileSize:   a.cfg.Import.MaxFileSize,
		MaxConcurrent: 1,
		MaxWait:       a.cfg.Import.MaxWaitTime,
		Timeout:       a.cfg.Import.Timeout,
	}))
}

// writeOutput writes text to path, or to stdout when path is empty or "-".
func (a *app) writeOutput(path, text string) error {
	if path == "" || path == "-" {
		_, err := io.WriteString(a.out, text)
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
