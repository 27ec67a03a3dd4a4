package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/bibsplit/internal/config"
	"github.com/jackzampolin/bibsplit/internal/output"
)

// Split flags shared by split, batch and watch.
var (
	gapTolerance int
	recordFormat string
	endMarker    string
	noSection    bool
	noTitles     bool
)

func addSplitFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&gapTolerance, "gap", "k", 0, "largest numbering jump filled with MISSING placeholders")
	cmd.Flags().StringVarP(&recordFormat, "format", "f", "", "record format: csv, jsonl or yaml")
	cmd.Flags().StringVar(&endMarker, "end-marker", "", `stop at the first line starting with this marker (default "#END")`)
	cmd.Flags().BoolVar(&noSection, "no-section", false, `read every line instead of <div class="titles"> sections`)
	cmd.Flags().BoolVar(&noTitles, "no-titles", false, "do not split title and author")
}

// applySplitFlags copies explicitly set flags over the loaded configuration.
func applySplitFlags(cmd *cobra.Command, mgr *config.Manager) error {
	format, err := output.ParseFormat(recordFormat)
	if err != nil {
		return err
	}
	overrides := []struct {
		flag  string
		key   string
		value any
	}{
		{"gap", "split.gap_tolerance", gapTolerance},
		{"format", "split.format", string(format)},
		{"end-marker", "split.end_marker", endMarker},
		{"no-section", "section.enabled", !noSection},
		{"no-titles", "split.titles", !noTitles},
	}
	for _, o := range overrides {
		if !cmd.Flags().Changed(o.flag) {
			continue
		}
		if err := mgr.Set(o.key, o.value); err != nil {
			return err
		}
	}
	return nil
}
