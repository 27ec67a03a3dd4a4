package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jackzampolin/bibsplit/internal/lines"
	"github.com/jackzampolin/bibsplit/internal/output"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid config")

//go:embed config.schema.json
var schemaJSON []byte

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("failed to load config schema: %w", err)
	}
	return compiler.Compile("config.schema.json")
})

// Validate checks c against the config schema and compiles the section
// patterns. Format aliases such as json or yml are rewritten to their
// canonical names first. Failures wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	if format, err := output.ParseFormat(c.Split.Format); err == nil {
		c.Split.Format = string(format)
	}

	schema, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile config schema: %w", err)
	}

	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config for validation: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to decode config for validation: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.Section.Enabled {
		if _, err := lines.NewSection(c.Section.Start, c.Section.End); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	return nil
}
