package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeSquared-Agency/Locus/internal/config"
	"github.com/MikeSquared-Agency/Locus/internal/hermes"
	"github.com/MikeSquared-Agency/Locus/internal/store"
)

func TestReloadDatasetDropsRemovedCandidates(t *testing.T) {
	cfgPath, dataPath := writeFixtures(t)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.Store.Path = dataPath
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cands, err := store.LoadCSVFile(dataPath, csvOptions(cfg.Store))
	require.NoError(t, err)
	mem := store.NewMemoryStore(cands)

	require.NoError(t, os.WriteFile(dataPath, []byte("codigo,Nombre,aire,precio\n2,Dos,5,1400\n4,Cuatro,7,3000\n"), 0o644))
	reloadDataset(cfg, mem, hermes.DatasetImportedEvent{Source: "test", Count: 2, Timestamp: time.Now()}, logger)

	all, err := mem.ListCandidates(context.Background(), store.CandidateFilter{})
	require.NoError(t, err)
	codes := make([]string, len(all))
	for i, c := range all {
		codes[i] = c.Code
	}
	assert.Equal(t, []string{"2", "4"}, codes)
	assert.Equal(t, 1400.0, all[0].Attributes["precio"])
}

func TestReloadDatasetKeepsTableOnBadFile(t *testing.T) {
	cfgPath, _ := writeFixtures(t)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.Store.Path = filepath.Join(t.TempDir(), "missing.csv")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mem := store.NewMemoryStore([]store.Candidate{{Code: "1"}})
	reloadDataset(cfg, mem, hermes.DatasetImportedEvent{Source: "test"}, logger)

	all, err := mem.ListCandidates(context.Background(), store.CandidateFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
