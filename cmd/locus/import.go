package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Locus/internal/config"
	"github.com/MikeSquared-Agency/Locus/internal/hermes"
	"github.com/MikeSquared-Agency/Locus/internal/store"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Load a candidate CSV into the SQLite or Postgres store",
		Long: `import upserts every row of a candidate CSV by code. When hermes.url is
set, a locus.dataset.imported event tells running servers to refresh.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	cmd.Flags().String("sqlite", "", "target SQLite database (overrides store config)")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("sqlite"); v != "" {
		cfg.Store.Driver = config.DriverSQLite
		cfg.Store.Path = v
	}
	if cfg.Store.Driver == config.DriverCSV {
		return fmt.Errorf("the csv store is read-only; import into sqlite or postgres")
	}
	logger := newLogger(cfg.Logging, os.Stderr)
	ctx := context.Background()

	cands, err := store.LoadCSVFile(args[0], csvOptions(cfg.Store))
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	imp, ok := st.(store.Importer)
	if !ok {
		return fmt.Errorf("store driver %s does not support import", cfg.Store.Driver)
	}
	n, err := imp.ImportCandidates(ctx, cands)
	if err != nil {
		return err
	}
	logger.Info("dataset imported", "source", args[0], "count", n, "driver", cfg.Store.Driver)
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d candidates\n", n)

	if cfg.Hermes.URL != "" {
		hc, err := connectHermes(ctx, cfg, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, import not announced", "error", err)
			return nil
		}
		defer hc.Close()
		evt := hermes.DatasetImportedEvent{Source: args[0], Count: n, Timestamp: time.Now().UTC()}
		if err := hermes.PublishDatasetImported(hc, evt); err != nil {
			logger.Warn("failed to publish dataset event", "error", err)
		}
	}
	return nil
}
