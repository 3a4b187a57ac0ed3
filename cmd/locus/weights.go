package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Locus/internal/metrics"
	"github.com/MikeSquared-Agency/Locus/internal/ranking"
	"github.com/MikeSquared-Agency/Locus/internal/store"
)

func newWeightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Derive criterion weights without ranking",
		Example: `  locus weights --importance 8,5,3,3,2,6,9
  locus weights --mode pairwise --comparisons 3,5,1,1,1,1,... --json`,
		RunE: runWeights,
	}
	addPreferenceFlags(cmd)
	cmd.Flags().Bool("json", false, "print the weighting as JSON")
	return cmd
}

func runWeights(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	settings, err := ranking.SettingsFromConfig(cfg)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Logging, os.Stderr)
	svc := ranking.NewService(store.NewMemoryStore(nil), nil, metrics.New(), settings, logger)

	wt, err := svc.Weights(preferenceRequest(cmd))
	if err != nil {
		return err
	}
	return writeWeighting(cmd, cmd.OutOrStdout(), wt)
}

func writeWeighting(cmd *cobra.Command, w io.Writer, wt *ranking.Weighting) error {
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(wt)
	}
	printWeighting(w, wt)
	for _, msg := range wt.Warnings {
		io.WriteString(w, "warning: "+msg+"\n")
	}
	return nil
}
