package logger

import (
	"fmt"
	"slices"
)

// Config contains logging configuration.
type Config struct {
	// ServiceName tags every entry; filled from the service config when empty.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	Level       string `yaml:"level" mapstructure:"level"`
	Format      string `yaml:"format" mapstructure:"format"`
	Output      string `yaml:"output" mapstructure:"output"`
	NoColor     bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp   bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller      bool   `yaml:"caller" mapstructure:"caller"`
}

// ApplyDefaults applies default values to logging configuration.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = FormatConsole
	}
	if c.Output == "" {
		c.Output = "stdout"
	}
	c.Timestamp = true
}

var (
	validLevels  = []string{"trace", "debug", "info", "warn", "error", "fatal"}
	validFormats = []string{"json", FormatConsole, FormatPretty}
	validOutputs = []string{"stdout", "stderr"}
)

// Validate checks level, format and output against the supported values.
func (c *Config) Validate() error {
	for _, f := range []struct {
		key, val string
		allowed  []string
	}{
		{"logging.level", c.Level, validLevels},
		{"logging.format", c.Format, validFormats},
		{"logging.output", c.Output, validOutputs},
	} {
		if !slices.Contains(f.allowed, f.val) {
			return fmt.Errorf("%s must be one of %v (got: %s)", f.key, f.allowed, f.val)
		}
	}
	return nil
}
