package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackzampolin/bibsplit/internal/config"
	"github.com/jackzampolin/bibsplit/internal/output"
	"github.com/jackzampolin/bibsplit/internal/pipeline"
	"github.com/jackzampolin/bibsplit/internal/source"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	// Interrupts cancel the running split, batch or watch.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	os.Exit(exitCode(rootCmd.ExecuteContext(ctx)))
}

// exitCode maps a command error to the process exit status: 2 for bad
// configuration or arguments, 130 after an interrupt, 1 for anything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, output.ErrUnknownFormat),
		errors.Is(err, output.ErrUnknownDigest),
		errors.Is(err, source.ErrEmptyPath),
		errors.Is(err, pipeline.ErrNoInputs),
		errors.Is(err, pipeline.ErrNoOutputDir),
		errors.Is(err, pipeline.ErrStdinInBatch),
		errors.Is(err, pipeline.ErrDuplicateOutput):
		return exitUsage
	default:
		return exitFailure
	}
}
