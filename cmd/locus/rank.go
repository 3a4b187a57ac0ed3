package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Locus/internal/export"
	"github.com/MikeSquared-Agency/Locus/internal/metrics"
	"github.com/MikeSquared-Agency/Locus/internal/ranking"
	"github.com/MikeSquared-Agency/Locus/internal/scoring"
)

func newRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the dataset offline",
		Long: `rank weights the criteria from --importance, --ranks or --comparisons,
scores every candidate and prints the table. With --out the full table is
written as CSV or Excel instead.`,
		Example: `  locus rank --data municipalities.csv --importance 8,5,3,3,2,6,9
  locus rank --mode pairwise --comparisons 3,5,1,1,1,1,...
  locus rank --sqlite locus.db --importance 8,5,3,3,2,6,9 --out ranking.xlsx`,
		RunE: runRank,
	}
	addDatasetFlags(cmd)
	addPreferenceFlags(cmd)
	cmd.Flags().Int("limit", 0, "rows to print (0 uses scoring.max_results, -1 prints all)")
	cmd.Flags().Float64("min-population", 0, "drop candidates below this population")
	cmd.Flags().Float64("max-population", 0, "drop candidates above this population (0 is unbounded)")
	cmd.Flags().Bool("sensitivity", false, "report how stable the top rows are under weight changes")
	cmd.Flags().String("out", "", "write the ranking to a .csv or .xlsx file")
	cmd.Flags().String("format", "", "export format: csv or xlsx (default from --out extension)")
	cmd.Flags().Bool("json", false, "print the result as JSON")
	return cmd
}

func addPreferenceFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "", "preference mode: ranking or pairwise (default from config)")
	cmd.Flags().Float64Slice("importance", nil, "importance per criterion on the configured scale, higher is more important")
	cmd.Flags().Float64Slice("ranks", nil, "rank code per criterion, 1 is most important, 0 is no importance")
	cmd.Flags().Float64Slice("comparisons", nil, "upper-triangle pairwise ratios, row by row")
}

func preferenceRequest(cmd *cobra.Command) ranking.Request {
	var req ranking.Request
	req.Mode, _ = cmd.Flags().GetString("mode")
	req.Importance, _ = cmd.Flags().GetFloat64Slice("importance")
	req.Ranks, _ = cmd.Flags().GetFloat64Slice("ranks")
	req.Comparisons, _ = cmd.Flags().GetFloat64Slice("comparisons")
	return req
}

func runRank(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyDatasetFlags(cmd, cfg)
	logger := newLogger(cfg.Logging, os.Stderr)
	ctx := context.Background()

	st, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	settings, err := ranking.SettingsFromConfig(cfg)
	if err != nil {
		return err
	}
	svc := ranking.NewService(st, nil, metrics.New(), settings, logger)

	req := preferenceRequest(cmd)
	req.Limit, _ = cmd.Flags().GetInt("limit")
	req.Sensitivity, _ = cmd.Flags().GetBool("sensitivity")
	minPop, _ := cmd.Flags().GetFloat64("min-population")
	maxPop, _ := cmd.Flags().GetFloat64("max-population")
	if minPop > 0 || maxPop > 0 {
		if maxPop == 0 {
			maxPop = math.MaxFloat64
		}
		req.Population = &ranking.Range{Min: minPop, Max: maxPop}
	}

	out, _ := cmd.Flags().GetString("out")
	if out != "" {
		req.Limit = -1
	}

	res, err := svc.Rank(ctx, req)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	if out != "" {
		formatFlag, _ := cmd.Flags().GetString("format")
		if formatFlag == "" {
			formatFlag = strings.TrimPrefix(filepath.Ext(out), ".")
		}
		format, err := export.ParseFormat(formatFlag)
		if err != nil {
			return err
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := export.Write(f, format, reportFor(res)); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %d candidates to %s\n", len(res.Candidates), out)
		return nil
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printRanking(cmd.OutOrStdout(), res)
	return nil
}

func reportFor(res *ranking.Result) export.Report {
	return export.Report{
		Candidates:       res.Candidates,
		Criteria:         scoring.CriterionIDs(res.Weighting.Criteria),
		Weights:          res.Weighting.Weights,
		ConsistencyRatio: res.Weighting.ConsistencyRatio,
		Projected:        res.Weighting.Projected,
		Fallback:         res.Weighting.Fallback,
	}
}

func printRanking(w io.Writer, res *ranking.Result) {
	printWeighting(w, &res.Weighting)
	fmt.Fprintln(w)

	if res.Empty {
		fmt.Fprintln(w, "no candidates match the filters")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCODE\tNAME\tSCORE\tDISPLAY")
	for _, c := range res.Candidates {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.4f\t%.1f\n", c.Rank, c.Code, c.Name, c.Score, c.DisplayScore)
	}
	tw.Flush()
	if len(res.Candidates) < res.Total {
		fmt.Fprintf(w, "... %d of %d shown\n", len(res.Candidates), res.Total)
	}

	if r := res.Sensitivity; r != nil {
		fmt.Fprintf(w, "\nsensitivity: %s (top %d overlap %d/%d, perturbed %s by ±%.0f%%)\n",
			r.Verdict, r.TopN, r.OverlapPlus, r.OverlapMinus, strings.Join(r.Perturbed, ","), r.Delta*100)
	}
}

func printWeighting(w io.Writer, wt *ranking.Weighting) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CRITERION\tWEIGHT")
	for _, c := range wt.Criteria {
		fmt.Fprintf(tw, "%s\t%.4f\n", c.ID, wt.Weights[c.ID])
	}
	tw.Flush()
	fmt.Fprintf(w, "mode=%s cr=%.4f projected=%t fallback=%t\n", wt.Mode, wt.ConsistencyRatio, wt.Projected, wt.Fallback)
}
