package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Locus/internal/api"
	"github.com/MikeSquared-Agency/Locus/internal/config"
	"github.com/MikeSquared-Agency/Locus/internal/hermes"
	"github.com/MikeSquared-Agency/Locus/internal/metrics"
	"github.com/MikeSquared-Agency/Locus/internal/ranking"
	"github.com/MikeSquared-Agency/Locus/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the ranking API and metrics servers",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Logging, os.Stdout)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Dataset
	st, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to open dataset", "error", err)
		return err
	}
	defer st.Close()

	// Hermes (optional)
	var hermesClient hermes.Client
	if cfg.Hermes.URL != "" {
		hc, err := connectHermes(ctx, cfg, logger)
		if err != nil {
			logger.Warn("failed to connect to hermes, running without events", "error", err)
		} else {
			hermesClient = hc
			defer hc.Close()
			logger.Info("connected to hermes")
		}
	}

	settings, err := ranking.SettingsFromConfig(cfg)
	if err != nil {
		return err
	}
	m := metrics.New()
	svc := ranking.NewService(st, hermesClient, m, settings, logger)

	if hermesClient != nil {
		err := hermes.OnDatasetImported(hermesClient, logger, func(evt hermes.DatasetImportedEvent) {
			reloadDataset(cfg, st, evt, logger)
		})
		if err != nil {
			logger.Warn("failed to subscribe to dataset events", "error", err)
		}
	}

	router := api.NewRouter(svc, st, cfg.Server.AdminToken, cfg.Server.RateLimit, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: api.NewMetricsRouter(m),
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port, "criteria", len(settings.Criteria))
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
	return nil
}

// reloadDataset swaps an in-memory dataset for the current file after an
// import elsewhere. Database-backed stores already see the new rows.
func reloadDataset(cfg *config.Config, st store.Store, evt hermes.DatasetImportedEvent, logger *slog.Logger) {
	mem, ok := st.(*store.MemoryStore)
	if !ok || cfg.Store.Driver != config.DriverCSV {
		logger.Info("dataset imported", "source", evt.Source, "count", evt.Count)
		return
	}
	cands, err := store.LoadCSVFile(cfg.Store.Path, csvOptions(cfg.Store))
	if err != nil {
		logger.Error("dataset reload failed", "path", cfg.Store.Path, "error", err)
		return
	}
	n := mem.Replace(cands)
	logger.Info("dataset reloaded", "path", cfg.Store.Path, "candidates", n, "source", evt.Source)
}
