package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bibsplit/internal/config"
	"github.com/jackzampolin/bibsplit/internal/home"
	"github.com/jackzampolin/bibsplit/internal/svcctx"
	"github.com/jackzampolin/bibsplit/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "bibsplit",
	Short: "Split OCR'd bibliographies into numbered records",
	Long: `bibsplit turns the OCR text of a printed, sequentially numbered
bibliography into one record per entry.

Lines starting with an item number ("12.", "12а.", "12—14.") open a new
record; every other line continues the current one. Numbers skipped by a
small jump are emitted as MISSING placeholders, while markers that jump too
far ahead or go backwards are kept as text (years, print runs).

Output is CSV by default: start line, end line, number, title, author and
the remaining text.`,
	Version:      version.GitRelease,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.bibsplit/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "bibsplit home directory (default: ~/.bibsplit)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "report format: yaml or json",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)",
	)

	// Load services before any command runs
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}

		mgr, err := config.NewManager(cfgFile, h.Path())
		if err != nil {
			return err
		}
		if logLevel != "" {
			if err := mgr.Set("log.level", logLevel); err != nil {
				return err
			}
		}

		logger := mgr.Get().Log.NewLogger(os.Stderr)
		cmd.SetContext(svcctx.WithServices(cmd.Context(), &svcctx.Services{
			Config: mgr,
			Logger: logger,
			Home:   h,
		}))
		return nil
	}

	rootCmd.AddCommand(versionCmd)
}
