// Package svcctx carries the services built by the root command to its
// subcommands through the command context.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/jackzampolin/bibsplit/internal/config"
	"github.com/jackzampolin/bibsplit/internal/home"
)

// Services holds the core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Config *config.Manager
	Logger *slog.Logger
	Home   *home.Dir
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.Config
	}
	return nil
}

// LoggerFrom extracts the logger from context, falling back to slog.Default.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil && s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}
