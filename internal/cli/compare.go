package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/flowdiff/flowdiff/pkg/compare"
	"github.com/flowdiff/flowdiff/pkg/observability"
)

// compareOpts holds the command-line flags shared by the compare subcommands.
type compareOpts struct {
	output string // result file path (stdout if empty)
	stats  string // optional path for the detailed statistics report
}

// newCompareCmd creates the compare command with its two subcommands. Both
// take a baseline file and a comparison file and write fixed-format result
// lines consumed by downstream explanation tooling.
func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two workload snapshots",
		Long: `Compare two workload snapshots for behavior changes.

Examples:
  flowdiff compare categories baseline_counts.txt current_counts.txt
  flowdiff compare edges baseline_latency.txt current_latency.txt -o results.txt`,
	}

	cmd.AddCommand(newCompareCategoriesCmd())
	cmd.AddCommand(newCompareEdgesCmd())
	return cmd
}

func newCompareCategoriesCmd() *cobra.Command {
	var opts compareOpts

	cmd := &cobra.Command{
		Use:   "categories <baseline-counts> <comparison-counts>",
		Short: "Test whether per-category request counts shifted",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompareCategories(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "summary output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.stats, "stats", "", "write the per-category statistics report to this file")
	return cmd
}

func runCompareCategories(ctx context.Context, basePath, compPath string, opts *compareOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s0, err := compare.ReadCountTable(basePath)
	if err != nil {
		return err
	}
	s1, err := compare.ReadCountTable(compPath)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded %d baseline and %d comparison categories", len(s0), len(s1))

	counts, err := compare.AlignCounts(s0, s1)
	if err != nil {
		return err
	}

	observability.Comparison().OnCategoriesStart(ctx, len(counts))
	prog := newProgress(logger)
	start := time.Now()
	res := compare.CompareCategories(counts, cfg.Options())
	observability.Comparison().OnCategoriesComplete(ctx, len(counts), res.Reject, time.Since(start), nil)
	prog.done(fmt.Sprintf("Compared %d categories (dropped %d low-count)", len(counts), res.Dropped))
	if res.DF == 0 {
		logger.Warn("Fewer than two categories survived filtering; no test was run")
	}
	logger.Infof("reject=%v p=%.4f df=%d", res.Reject, res.PValue, res.DF)

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := compare.WriteCategorySummary(out, res); err != nil {
		return err
	}

	if opts.stats != "" {
		if err := compare.ExportCategoryStats(opts.stats, res); err != nil {
			return err
		}
		logger.Infof("Wrote statistics report to %s", opts.stats)
	}
	return nil
}

func newCompareEdgesCmd() *cobra.Command {
	var opts compareOpts

	cmd := &cobra.Command{
		Use:   "edges <baseline-latencies> <comparison-latencies>",
		Short: "Test each edge position for latency distribution changes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompareEdges(cmd.Context(), args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "result output file (stdout if empty)")
	return cmd
}

func runCompareEdges(ctx context.Context, basePath, compPath string, opts *compareOpts) error {
	logger := loggerFromContext(ctx)
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	s0, err := compare.ReadSampleTable(basePath)
	if err != nil {
		return err
	}
	s1, err := compare.ReadSampleTable(compPath)
	if err != nil {
		return err
	}
	logger.Debugf("Loaded latency samples for %d baseline and %d comparison rows", len(s0), len(s1))

	rows := s0.MaxRow()
	if m := s1.MaxRow(); m > rows {
		rows = m
	}
	observability.Comparison().OnEdgesStart(ctx, rows)
	prog := newProgress(logger)
	start := time.Now()
	results := compare.CompareEdges(s0, s1, cfg.Options())
	rejected := 0
	for _, r := range results {
		if r.Reject {
			rejected++
		}
	}
	observability.Comparison().OnEdgesComplete(ctx, len(results), rejected, time.Since(start), nil)
	prog.done(fmt.Sprintf("Compared %d edge rows, %d rejected", len(results), rejected))

	out, err := openOutput(opts.output)
	if err != nil {
		return err
	}
	defer out.Close()
	return compare.WriteEdgeResults(out, results)
}
