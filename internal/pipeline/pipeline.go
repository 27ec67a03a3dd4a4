// Package pipeline runs documents through the full split: source lines,
// section extraction, numbering, boundary reconstruction, title/author
// splitting and record output.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jackzampolin/bibsplit/internal/lines"
	"github.com/jackzampolin/bibsplit/internal/output"
	"github.com/jackzampolin/bibsplit/internal/reconstruct"
	"github.com/jackzampolin/bibsplit/internal/source"
	"github.com/jackzampolin/bibsplit/internal/titles"
)

// Options controls a single run. The zero value reconstructs every line of
// the input with the default gap tolerance and no other processing.
type Options struct {
	GapTolerance int
	// EndMarker stops reading at the first line starting with it; empty reads to EOF.
	EndMarker string
	Normalize bool
	// Section limits the input to marked sections; nil keeps every line.
	Section     *lines.Section
	SplitTitles bool
	Format      output.Format
	Digest      string
	Logger      *slog.Logger
}

// DefaultOptions returns the standard options: the #END marker,
// <div class="titles"> sections, title splitting and CSV output.
func DefaultOptions() Options {
	return Options{
		GapTolerance: reconstruct.DefaultGapTolerance,
		EndMarker:    lines.DefaultEndMarker,
		Normalize:    true,
		Section:      lines.DefaultSection(),
		SplitTitles:  true,
		Format:       output.DefaultFormat,
		Digest:       output.DigestXXH3,
	}
}

// Result summarizes a run.
type Result struct {
	Input        string        `json:"input,omitempty" yaml:"input,omitempty"`
	Output       string        `json:"output,omitempty" yaml:"output,omitempty"`
	Format       output.Format `json:"format" yaml:"format"`
	Records      int           `json:"records" yaml:"records"`
	Placeholders int           `json:"placeholders" yaml:"placeholders"`
	Absorbed     int           `json:"absorbed" yaml:"absorbed"`
	Regressive   int           `json:"regressive" yaml:"regressive"`
	Dropped      int           `json:"dropped" yaml:"dropped"`
	NoParse      int           `json:"noparse" yaml:"noparse"`
	Digest       string        `json:"digest" yaml:"digest"`
}

// Run splits the document read from in and writes its records to out.
// Context cancellation is checked between records.
func Run(ctx context.Context, in io.Reader, out io.Writer, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	format := opts.Format
	if format == "" {
		format = output.DefaultFormat
	}

	digest, err := output.NewDigest(out, opts.Digest)
	if err != nil {
		return nil, err
	}
	w, err := output.New(digest, format)
	if err != nil {
		return nil, err
	}

	lr := source.NewLineReader(in)
	src := lr.All()
	if opts.Section != nil {
		src = opts.Section.Lines(src)
	}
	nb := &lines.Numberer{EndMarker: opts.EndMarker, Normalize: opts.Normalize}
	rc := reconstruct.New(reconstruct.Config{GapTolerance: opts.GapTolerance, Logger: logger})

	result := &Result{Format: format}
	for rec := range rc.Records(nb.Lines(src)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if opts.SplitTitles && !titles.Split(rec) && !rec.IsPlaceholder() {
			result.NoParse++
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush output: %w", err)
	}

	stats := rc.Stats()
	result.Records = stats.Records
	result.Placeholders = stats.Placeholders
	result.Absorbed = stats.Absorbed
	result.Regressive = stats.Regressive
	result.Dropped = stats.Dropped
	result.Digest = digest.Sum()

	logger.Debug("split complete",
		"records", result.Records,
		"placeholders", result.Placeholders,
		"absorbed", result.Absorbed,
		"noparse", result.NoParse)
	return result, nil
}
