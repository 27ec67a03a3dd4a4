package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jackzampolin/bibsplit/internal/output"
	"github.com/jackzampolin/bibsplit/internal/source"
)

// DefaultMaxWorkers is the number of documents split concurrently.
const DefaultMaxWorkers = 4

// Sentinel errors for batch runs.
var (
	ErrNoInputs        = errors.New("no input documents")
	ErrNoOutputDir     = errors.New("output directory is required")
	ErrStdinInBatch    = errors.New("stdin cannot be part of a batch")
	ErrDuplicateOutput = errors.New("inputs map to the same output file")
)

// BatchRequest describes a set of documents split into one directory.
type BatchRequest struct {
	Inputs     []string
	OutputDir  string
	MaxWorkers int
	Options    Options
	Logger     *slog.Logger
}

// BatchResult summarizes a batch. Documents are in input order.
type BatchResult struct {
	RunID     string        `json:"run_id" yaml:"run_id"`
	Documents []*Result     `json:"documents" yaml:"documents"`
	Records   int           `json:"records" yaml:"records"`
	Elapsed   time.Duration `json:"elapsed" yaml:"elapsed"`
}

// RunBatch splits every input into OutputDir, at most MaxWorkers at a time.
// The first failure cancels the remaining documents and is returned.
func RunBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	if len(req.Inputs) == 0 {
		return nil, ErrNoInputs
	}
	if req.OutputDir == "" {
		return nil, ErrNoOutputDir
	}
	format := req.Options.Format
	if format == "" {
		format = output.DefaultFormat
	}

	targets := make([]string, len(req.Inputs))
	seen := make(map[string]string, len(req.Inputs))
	for i, in := range req.Inputs {
		if in == source.Stdin {
			return nil, ErrStdinInBatch
		}
		targets[i] = OutputPath(req.OutputDir, in, format)
		if prev, ok := seen[targets[i]]; ok {
			return nil, fmt.Errorf("%w: %s and %s", ErrDuplicateOutput, prev, in)
		}
		seen[targets[i]] = in
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	workers := req.MaxWorkers
	if workers <= 0 {
		workers = DefaultMaxWorkers
	}
	logger := req.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	logger = logger.With("component", "batch", "run_id", runID)
	logger.Info("batch starting", "documents", len(req.Inputs), "workers", workers)

	start := time.Now()
	results := make([]*Result, len(req.Inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range req.Inputs {
		g.Go(func() error {
			opts := req.Options
			opts.Format = format
			opts.Logger = logger.With("input", in)
			res, err := SplitFile(gctx, in, targets[i], opts)
			if err != nil {
				return fmt.Errorf("%s: %w", in, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("batch failed", "error", err)
		return nil, err
	}

	batch := &BatchResult{RunID: runID, Documents: results, Elapsed: time.Since(start)}
	for _, r := range results {
		batch.Records += r.Records
	}
	logger.Info("batch complete", "records", batch.Records, "elapsed", batch.Elapsed)
	return batch, nil
}

// SplitFile splits the document at input into the file at target. The
// output is written to a temporary file next to target and renamed into
// place, so target never holds a partial result.
func SplitFile(ctx context.Context, input, target string, opts Options) (*Result, error) {
	in, err := source.Open(input)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	res, err := Run(ctx, in, tmp, opts)
	if err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", err)
	}

	// Renames can fail transiently while another process holds target open.
	err = retry.Do(
		func() error { return os.Rename(tmp.Name(), target) },
		retry.Context(ctx),
		retry.Attempts(5),
		retry.Delay(20*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to move output into place: %w", err)
	}

	res.Input = input
	res.Output = target
	return res, nil
}

// OutputPath names the output file for input in dir: the input's base name
// without compression and text extensions, plus the format's extension.
func OutputPath(dir, input string, format output.Format) string {
	base := filepath.Base(input)
	for _, ext := range []string{".gz", ".zst"} {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" {
		base = "records"
	}
	return filepath.Join(dir, base+format.Ext())
}
