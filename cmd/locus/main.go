// Package main is the entry point for the locus CLI: the ranking API server
// and offline ranking, weighting and import commands.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Locus/internal/config"
	"github.com/MikeSquared-Agency/Locus/internal/hermes"
	"github.com/MikeSquared-Agency/Locus/internal/store"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "locus",
		Short: "Rank municipalities against personal preferences",
		Long: `locus turns a household's preferences into AHP criterion weights and
ranks candidate locations by weighted, normalized attributes.

serve runs the HTTP API; rank, weights and import work offline against the
configured dataset.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "", "path to config file")
	root.AddCommand(newServeCmd(), newRankCmd(), newWeightsCmd(), newImportCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the file named by --config, then LOCUS_* overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func newLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.ToLower(cfg.Format) == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// openStore opens the configured dataset. The csv driver loads the file
// into memory.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverCSV:
		cands, err := store.LoadCSVFile(cfg.Path, csvOptions(cfg))
		if err != nil {
			return nil, err
		}
		logger.Info("loaded dataset", "path", cfg.Path, "candidates", len(cands))
		return store.NewMemoryStore(cands), nil
	case config.DriverSQLite:
		s, err := store.NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		logger.Info("opened sqlite dataset", "path", cfg.Path)
		return s, nil
	case config.DriverPostgres:
		s, err := store.NewPostgresStore(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("connected to database")
		return s, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// connectHermes opens the event bus connection described by cfg.Hermes.
func connectHermes(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*hermes.NATSClient, error) {
	maxAge, err := cfg.Hermes.MaxAge()
	if err != nil {
		return nil, err
	}
	return hermes.NewNATSClient(ctx, hermes.Options{
		URL:          cfg.Hermes.URL,
		Name:         cfg.Hermes.ClientName,
		StreamMaxAge: maxAge,
	}, logger)
}

func csvOptions(cfg config.StoreConfig) store.CSVOptions {
	return store.CSVOptions{
		CodeColumn: cfg.CodeColumn,
		NameColumn: cfg.NameColumn,
		Comma:      cfg.CSVComma(),
	}
}

// applyDatasetFlags lets --data and --sqlite override the configured store.
func applyDatasetFlags(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("data"); v != "" {
		cfg.Store.Driver = config.DriverCSV
		cfg.Store.Path = v
	}
	if v, _ := cmd.Flags().GetString("sqlite"); v != "" {
		cfg.Store.Driver = config.DriverSQLite
		cfg.Store.Path = v
	}
}

func addDatasetFlags(cmd *cobra.Command) {
	cmd.Flags().String("data", "", "candidate CSV file (overrides store config)")
	cmd.Flags().String("sqlite", "", "candidate SQLite database (overrides store config)")
}
