// Package observability bootstraps OpenTelemetry tracing and metrics over
// OTLP/HTTP and provides server-side request metrics and health reporting.
//
//	shutdown, err := observability.Setup(ctx, cfg.Telemetry, observability.ServiceInfo{Name: "dataproxy"})
//	defer shutdown(ctx)
package observability

import (
	"time"

	"github.com/kbukum/dataproxy/validation"
)

const (
	defaultEndpoint = "localhost:4318"
	defaultInterval = 15 * time.Second
)

// Config configures telemetry export.
type Config struct {
	// Enabled turns on the OTLP exporters. When false, the global no-op
	// providers stay in place.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// Endpoint is the OTLP HTTP endpoint host:port.
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// SampleRate is the trace sampling ratio between 0 and 1.
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = defaultEndpoint
	}
	if c.Interval <= 0 {
		c.Interval = defaultInterval
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.Validate(c)
}

// ServiceInfo identifies the emitting service in exported resources.
type ServiceInfo struct {
	Name        string
	Version     string
	Environment string
}
