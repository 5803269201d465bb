package recorder

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes a recorder in configuration. Loaded from YAML so a
// simulation run can pick its recording setup without code changes.
type Config struct {
	// Sink is the output sink name: "stdout", "stderr", a file name, or
	// empty to disable recording.
	Sink string `yaml:"sink"`

	// Format selects the encoding: "json" (default), "bson", or "sqlite".
	// The sqlite format is constructed by the store package, not here.
	Format string `yaml:"format"`

	// Indent is the text encoding's spaces per nesting level.
	Indent *int `yaml:"indent,omitempty"`

	// SortKeys controls lexical key ordering in the text encoding.
	SortKeys *bool `yaml:"sort_keys,omitempty"`
}

// ValidFormats lists the accepted format names.
var ValidFormats = []string{"json", "bson", "sqlite"}

// LoadConfig reads a recorder configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration's format name and indent.
func (c *Config) Validate() error {
	valid := false
	for _, f := range ValidFormats {
		if c.Format == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid format %q: must be one of %v", c.Format, ValidFormats)
	}
	if c.Indent != nil && *c.Indent < 0 {
		return fmt.Errorf("invalid indent %d: must be non-negative", *c.Indent)
	}
	return nil
}

// Options translates the configuration into recorder options.
func (c *Config) Options() []Option {
	var opts []Option
	if c.Indent != nil {
		opts = append(opts, WithIndent(*c.Indent))
	}
	if c.SortKeys != nil {
		opts = append(opts, WithSortKeys(*c.SortKeys))
	}
	return opts
}

// New builds a recorder from the configuration. The "sqlite" format lives
// in the store package to keep the dependency direction one-way; asking
// for it here is an error.
func (c *Config) New(meta MetadataSource, opts ...Option) (CaseRecorder, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	all := append(c.Options(), opts...)
	switch c.Format {
	case "json":
		return NewJSONRecorder(c.Sink, meta, all...), nil
	case "bson":
		return NewBSONRecorder(c.Sink, meta, all...), nil
	default:
		return nil, fmt.Errorf("format %q is not constructed by the recorder package", c.Format)
	}
}
