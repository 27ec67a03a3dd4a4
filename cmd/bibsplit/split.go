package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bibsplit/internal/pipeline"
	"github.com/jackzampolin/bibsplit/internal/source"
	"github.com/jackzampolin/bibsplit/internal/svcctx"
)

var splitCmd = &cobra.Command{
	Use:   "split [input] [output]",
	Short: "Split one document into records",
	Long: `Split one OCR'd bibliography into records.

Input and output default to stdin and stdout ("-"). Gzip and zstd input is
decompressed automatically. A summary is printed to stderr.

Examples:
  bibsplit split list.txt list.csv
  bibsplit split --format jsonl list.txt.gz > list.jsonl
  bibsplit split --gap 20 --no-section < list.txt`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		mgr := svcctx.ConfigFrom(ctx)
		logger := svcctx.LoggerFrom(ctx)

		if err := applySplitFlags(cmd, mgr); err != nil {
			return err
		}
		opts, err := mgr.Get().PipelineOptions(logger)
		if err != nil {
			return err
		}

		input, target := source.Stdin, source.Stdin
		if len(args) > 0 {
			input = args[0]
		}
		if len(args) > 1 {
			target = args[1]
		}

		var res *pipeline.Result
		if target == source.Stdin {
			in, err := source.Open(input)
			if err != nil {
				return err
			}
			defer in.Close()
			res, err = pipeline.Run(ctx, in, cmd.OutOrStdout(), opts)
			if err != nil {
				return err
			}
		} else {
			res, err = pipeline.SplitFile(ctx, input, target, opts)
			if err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.ErrOrStderr(),
			"%d records, %d missing, %d absorbed, %d regressive, %d noparse (digest %s)\n",
			res.Records, res.Placeholders, res.Absorbed, res.Regressive, res.NoParse, res.Digest)
		return nil
	},
}

func init() {
	addSplitFlags(splitCmd)
	rootCmd.AddCommand(splitCmd)
}
