package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/bibsplit/internal/output"
	"github.com/jackzampolin/bibsplit/version"
)

type versionInfo struct {
	Release string `json:"release" yaml:"release"`
	Go      string `json:"go" yaml:"go"`
	Commit  string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return output.Report(cmd.OutOrStdout(), output.ParseReportFormat(outputFormat), versionInfo{
			Release: version.GitRelease,
			Go:      version.GoInfo,
			Commit:  version.GitCommit,
			Date:    version.GitCommitDate,
		})
	},
}
