package output

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ReportFormat is the format of command results printed for humans and
// scripts, as opposed to the record stream.
type ReportFormat string

const (
	ReportYAML ReportFormat = "yaml"
	ReportJSON ReportFormat = "json"
)

// ParseReportFormat resolves the --output flag. Unknown values fall back to
// YAML.
func ParseReportFormat(s string) ReportFormat {
	if s == string(ReportJSON) {
		return ReportJSON
	}
	return ReportYAML
}

// Report writes data to w in the given format.
func Report(w io.Writer, format ReportFormat, data any) error {
	switch format {
	case ReportJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(data)
	case ReportYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown report format: %s", format)
	}
}
