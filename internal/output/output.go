// Package output writes reconstructed records as CSV, JSON lines or YAML.
package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/jackzampolin/bibsplit/internal/record"
)

// Format is a record output format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// DefaultFormat is used when no format is given.
const DefaultFormat = FormatCSV

// Formats lists the supported formats.
var Formats = []Format{FormatCSV, FormatJSONL, FormatYAML}

// ErrUnknownFormat is returned for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat resolves a format name. The empty name is the default format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return DefaultFormat, nil
	case FormatCSV, FormatJSONL, FormatYAML:
		return f, nil
	case "json", "ndjson":
		return FormatJSONL, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// Writer writes records one at a time. Close flushes buffered output but
// does not close the underlying writer.
type Writer interface {
	Write(rec *record.Record) error
	Close() error
}

// New creates a Writer for format on w.
func New(w io.Writer, format Format) (Writer, error) {
	switch format {
	case FormatCSV:
		return &csvWriter{w: csv.NewWriter(w)}, nil
	case FormatJSONL:
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return &jsonlWriter{enc: enc}, nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return &yamlWriter{enc: enc}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// csvWriter writes the flat serialized row: start, end, fields, tail.
type csvWriter struct {
	w *csv.Writer
}

func (c *csvWriter) Write(rec *record.Record) error {
	if err := c.w.Write(rec.Serialize()); err != nil {
		return fmt.Errorf("failed to write csv row: %w", err)
	}
	return nil
}

func (c *csvWriter) Close() error {
	c.w.Flush()
	return c.w.Error()
}

type jsonlWriter struct {
	enc *json.Encoder
}

func (j *jsonlWriter) Write(rec *record.Record) error {
	if err := j.enc.Encode(rec.Row()); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return nil
}

func (j *jsonlWriter) Close() error { return nil }

// yamlWriter emits one YAML document per record.
type yamlWriter struct {
	enc *yaml.Encoder
}

func (y *yamlWriter) Write(rec *record.Record) error {
	if err := y.enc.Encode(rec.Row()); err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return nil
}

func (y *yamlWriter) Close() error { return y.enc.Close() }
