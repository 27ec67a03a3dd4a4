package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/bibsplit/internal/config"
	"github.com/jackzampolin/bibsplit/internal/pipeline"
	"github.com/jackzampolin/bibsplit/internal/svcctx"
)

var watchCmd = &cobra.Command{
	Use:   "watch <input> <output>",
	Short: "Re-split a document whenever it changes",
	Long: `Split a document, then split it again every time the file changes,
until interrupted. Useful while correcting OCR text by hand.

Changes to the config file are picked up on the next run.

Examples:
  bibsplit watch list.txt list.csv`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mgr := svcctx.ConfigFrom(ctx)
		logger := svcctx.LoggerFrom(ctx)

		if err := applySplitFlags(cmd, mgr); err != nil {
			return err
		}
		if mgr.File() != "" {
			mgr.WatchConfig(func(err error) {
				logger.Warn("config reload failed, keeping previous config", "error", err)
			})
			mgr.OnChange(func(cfg *config.Config) {
				logger.Info("config reloaded", "file", mgr.File())
			})
		}

		// A reload that cannot be converted keeps the last good options.
		current, err := mgr.Get().PipelineOptions(logger)
		if err != nil {
			return err
		}
		options := func() pipeline.Options {
			if opts, err := mgr.Get().PipelineOptions(logger); err == nil {
				current = opts
			}
			return current
		}

		return pipeline.Watch(ctx, pipeline.WatchRequest{
			Input:   args[0],
			Output:  args[1],
			Options: options,
			Logger:  logger,
		})
	},
}

func init() {
	addSplitFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
