package config

import (
	"io"
	"log/slog"
	"strings"

	"github.com/jackzampolin/bibsplit/internal/lines"
	"github.com/jackzampolin/bibsplit/internal/output"
	"github.com/jackzampolin/bibsplit/internal/pipeline"
	"github.com/jackzampolin/bibsplit/internal/reconstruct"
)

// Config holds bibsplit configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Split   SplitCfg   `mapstructure:"split" yaml:"split" json:"split"`
	Section SectionCfg `mapstructure:"section" yaml:"section" json:"section"`
	Batch   BatchCfg   `mapstructure:"batch" yaml:"batch" json:"batch"`
	Log     LogCfg     `mapstructure:"log" yaml:"log" json:"log"`
}

// SplitCfg configures record reconstruction.
type SplitCfg struct {
	GapTolerance int    `mapstructure:"gap_tolerance" yaml:"gap_tolerance" json:"gap_tolerance"` // Largest jump filled with placeholders
	EndMarker    string `mapstructure:"end_marker" yaml:"end_marker" json:"end_marker"`          // Empty reads to EOF
	Normalize    bool   `mapstructure:"normalize" yaml:"normalize" json:"normalize"`             // NFC-normalize lines
	Titles       bool   `mapstructure:"titles" yaml:"titles" json:"titles"`                      // Split title and author
	Format       string `mapstructure:"format" yaml:"format" json:"format"`                      // csv, jsonl or yaml
	Digest       string `mapstructure:"digest" yaml:"digest" json:"digest"`                      // xxh3 or blake2b
}

// SectionCfg selects the part of a document holding the list.
type SectionCfg struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	Start   string `mapstructure:"start" yaml:"start" json:"start"`
	End     string `mapstructure:"end" yaml:"end" json:"end"`
}

// BatchCfg configures multi-document runs.
type BatchCfg struct {
	MaxWorkers int    `mapstructure:"max_workers" yaml:"max_workers" json:"max_workers"`
	OutputDir  string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"` // Empty uses {home}/exports
}

// LogCfg configures logging.
type LogCfg struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`    // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format" json:"format"` // text or json
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Split: SplitCfg{
			GapTolerance: reconstruct.DefaultGapTolerance,
			EndMarker:    lines.DefaultEndMarker,
			Normalize:    true,
			Titles:       true,
			Format:       string(output.DefaultFormat),
			Digest:       output.DigestXXH3,
		},
		Section: SectionCfg{
			Enabled: true,
			Start:   lines.DefaultSectionStart,
			End:     lines.DefaultSectionEnd,
		},
		Batch: BatchCfg{
			MaxWorkers: pipeline.DefaultMaxWorkers,
		},
		Log: LogCfg{
			Level:  "info",
			Format: "text",
		},
	}
}

// defaultValues flattens DefaultConfig into viper keys. Every leaf needs a
// default for environment overrides of nested keys to be picked up.
func defaultValues() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"split.gap_tolerance": d.Split.GapTolerance,
		"split.end_marker":    d.Split.EndMarker,
		"split.normalize":     d.Split.Normalize,
		"split.titles":        d.Split.Titles,
		"split.format":        d.Split.Format,
		"split.digest":        d.Split.Digest,
		"section.enabled":     d.Section.Enabled,
		"section.start":       d.Section.Start,
		"section.end":         d.Section.End,
		"batch.max_workers":   d.Batch.MaxWorkers,
		"batch.output_dir":    d.Batch.OutputDir,
		"log.level":           d.Log.Level,
		"log.format":          d.Log.Format,
	}
}

// PipelineOptions converts the split and section settings into run options.
func (c *Config) PipelineOptions(logger *slog.Logger) (pipeline.Options, error) {
	format, err := output.ParseFormat(c.Split.Format)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		GapTolerance: c.Split.GapTolerance,
		EndMarker:    c.Split.EndMarker,
		Normalize:    c.Split.Normalize,
		SplitTitles:  c.Split.Titles,
		Format:       format,
		Digest:       c.Split.Digest,
		Logger:       logger,
	}
	if c.Section.Enabled {
		section, err := lines.NewSection(c.Section.Start, c.Section.End)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Section = section
	}
	return opts, nil
}

// SlogLevel parses the configured level. Unknown levels are info.
func (l LogCfg) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger writing to w.
func (l LogCfg) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.SlogLevel()}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
