package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultSettle is how long Watch waits after the last change to the input
// before splitting it again.
const DefaultSettle = 200 * time.Millisecond

// ErrNoWatchTarget is returned when Watch is given no input or output.
var ErrNoWatchTarget = errors.New("watch needs an input file and an output file")

// WatchRequest describes a document that is split again whenever it changes.
type WatchRequest struct {
	Input  string
	Output string
	// Options is called before every run so that configuration reloads apply.
	Options func() Options
	Settle  time.Duration
	Logger  *slog.Logger
	// OnRun, if set, receives the outcome of every run.
	OnRun func(*Result, error)
}

// Watch splits the input once, then again after each change, until ctx is
// done. Failed runs are reported and do not stop the watch. The directory
// holding the input is watched so editors that replace the file by rename
// are followed.
func Watch(ctx context.Context, req WatchRequest) error {
	if req.Input == "" || req.Output == "" {
		return ErrNoWatchTarget
	}
	logger := req.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "watch", "input", req.Input)
	settle := req.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	optsFn := req.Options
	if optsFn == nil {
		optsFn = DefaultOptions
	}

	input, err := filepath.Abs(req.Input)
	if err != nil {
		return fmt.Errorf("failed to resolve input: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(input), err)
	}

	run := func() {
		opts := optsFn()
		opts.Logger = logger
		res, err := SplitFile(ctx, req.Input, req.Output, opts)
		if err != nil {
			logger.Error("split failed", "error", err)
		} else {
			logger.Info("split complete", "records", res.Records, "digest", res.Digest)
		}
		if req.OnRun != nil {
			req.OnRun(res, err)
		}
	}
	run()

	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != input {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				logger.Debug("input changed", "op", event.Op.String())
				timer.Reset(settle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		case <-timer.C:
			run()
		}
	}
}
