package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/bibsplit/internal/output"
	"github.com/jackzampolin/bibsplit/internal/pipeline"
	"github.com/jackzampolin/bibsplit/internal/svcctx"
)

var (
	batchOutDir  string
	batchWorkers int
)

var batchCmd = &cobra.Command{
	Use:   "batch <inputs...>",
	Short: "Split many documents in parallel",
	Long: `Split several documents concurrently into one output directory.

Each input becomes <out>/<name>.<format>; list.txt.gz becomes list.csv.
The first failing document cancels the batch.

Examples:
  bibsplit batch scans/*.txt --out records/
  bibsplit batch -o json --workers 8 vol1.txt vol2.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mgr := svcctx.ConfigFrom(ctx)
		logger := svcctx.LoggerFrom(ctx)

		if err := applySplitFlags(cmd, mgr); err != nil {
			return err
		}
		cfg := mgr.Get()
		opts, err := cfg.PipelineOptions(logger)
		if err != nil {
			return err
		}

		outDir := batchOutDir
		if outDir == "" {
			outDir = cfg.Batch.OutputDir
		}
		if outDir == "" {
			h := svcctx.HomeFrom(ctx)
			if err := h.EnsureExists(); err != nil {
				return err
			}
			outDir = h.ExportsDir()
		}
		workers := batchWorkers
		if workers <= 0 {
			workers = cfg.Batch.MaxWorkers
		}

		res, err := pipeline.RunBatch(ctx, pipeline.BatchRequest{
			Inputs:     args,
			OutputDir:  outDir,
			MaxWorkers: workers,
			Options:    opts,
			Logger:     logger,
		})
		if err != nil {
			return err
		}
		return output.Report(cmd.OutOrStdout(), output.ParseReportFormat(outputFormat), res)
	},
}

func init() {
	addSplitFlags(batchCmd)
	batchCmd.Flags().StringVar(&batchOutDir, "out", "", "output directory (default: batch.output_dir or ~/.bibsplit/exports)")
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "w", 0, "documents split concurrently (default: batch.max_workers)")
	rootCmd.AddCommand(batchCmd)
}
