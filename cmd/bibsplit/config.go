package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/bibsplit/internal/config"
	"github.com/jackzampolin/bibsplit/internal/home"
	"github.com/jackzampolin/bibsplit/internal/output"
	"github.com/jackzampolin/bibsplit/internal/svcctx"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration",
	Long: `Write the default configuration to --config, or to ~/.bibsplit/config.yaml.
An existing file is kept unless --force is given.`,
	// Skips loading the configuration, which may be the broken file being replaced.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			h, err := home.New(homeDir)
			if err != nil {
				return err
			}
			if err := h.EnsureExists(); err != nil {
				return err
			}
			path = h.ConfigPath()
		}

		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := svcctx.ConfigFrom(cmd.Context())
		if f := mgr.File(); f != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "# from %s\n", f)
		}
		return output.Report(cmd.OutOrStdout(), output.ParseReportFormat(outputFormat), mgr.Get())
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
