// Package home locates the bibsplit home directory, which holds the user
// config file and the exports directory batch runs write into when no
// output directory is given.
package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// EnvVar overrides the default location when no path is given.
	EnvVar = "BIBSPLIT_HOME"

	// DefaultDirName is created under the user's home directory.
	DefaultDirName = ".bibsplit"

	// ExportsDirName is the subdirectory batch runs export to by default.
	ExportsDirName = "exports"

	// ConfigFileName is the config file read from the home directory.
	ConfigFileName = "config.yaml"
)

// Dir is a resolved bibsplit home directory. It may not exist yet.
type Dir struct {
	path string
}

// New resolves the home directory: path if set, else $BIBSPLIT_HOME, else
// ~/.bibsplit.
func New(path string) (*Dir, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		userHome, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve bibsplit home (set --home or %s): %w", EnvVar, err)
		}
		path = filepath.Join(userHome, DefaultDirName)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) Path() string { return d.path }

func (d *Dir) ConfigPath() string { return filepath.Join(d.path, ConfigFileName) }

// ExportsDir is where batch writes record files when --out and
// batch.output_dir are both unset.
func (d *Dir) ExportsDir() string { return filepath.Join(d.path, ExportsDirName) }

// EnsureExists creates the exports directory and with it the home directory.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.ExportsDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create bibsplit exports directory %s: %w", d.ExportsDir(), err)
	}
	return nil
}

// Exists reports whether the home directory is present.
func (d *Dir) Exists() bool {
	info, err := os.Stat(d.path)
	return err == nil && info.IsDir()
}

// ConfigExists reports whether a config file has been written to the home
// directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}
