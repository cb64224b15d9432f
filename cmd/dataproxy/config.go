package main

import (
	"fmt"
	"time"

	"github.com/kbukum/dataproxy/config"
	"github.com/kbukum/dataproxy/observability"
	"github.com/kbukum/dataproxy/resourceserver"
	"github.com/kbukum/dataproxy/transport"
	"github.com/kbukum/dataproxy/validation"
)

const serviceName = "dataproxy"

// cliConfig is read from config.yml, .env and the environment, then
// overridden by flags.
type cliConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Proxy     proxyConfig           `yaml:"proxy" mapstructure:"proxy"`
	Transport transport.Config      `yaml:"transport" mapstructure:"transport"`
	Telemetry observability.Config  `yaml:"telemetry" mapstructure:"telemetry"`
	Serve     resourceserver.Config `yaml:"serve" mapstructure:"serve"`
}

type proxyConfig struct {
	// BaseURI is the service root; collections are addressed below it.
	BaseURI  string `yaml:"base_uri" mapstructure:"base_uri" validate:"omitempty,http_url"`
	Codec    string `yaml:"codec" mapstructure:"codec" validate:"omitempty,oneof=json yaml toml"`
	Strategy string `yaml:"strategy" mapstructure:"strategy" validate:"omitempty,oneof=direct detached"`
	// Output is the codec used to print results.
	Output string `yaml:"output" mapstructure:"output" validate:"omitempty,oneof=json yaml toml"`
}

// flagOverrides holds flag values; empty values leave the config untouched.
type flagOverrides struct {
	baseURI  string
	codec    string
	strategy string
	driver   string
	output   string
	timeout  time.Duration
}

func defaultConfig() cliConfig {
	var cfg cliConfig
	cfg.Name = serviceName
	cfg.Logging.Output = "stderr"
	cfg.Logging.Level = "warn"
	return cfg
}

// loadConfig resolves the configuration for one invocation.
func loadConfig(file string, flags flagOverrides) (cliConfig, error) {
	cfg := defaultConfig()
	var opts []config.LoaderOption
	if file != "" {
		opts = append(opts, config.WithConfigFile(file))
	}
	if err := config.LoadConfig(serviceName, &cfg, opts...); err != nil {
		return cfg, err
	}

	if flags.baseURI != "" {
		cfg.Proxy.BaseURI = flags.baseURI
	}
	if flags.codec != "" {
		cfg.Proxy.Codec = flags.codec
	}
	if flags.strategy != "" {
		cfg.Proxy.Strategy = flags.strategy
	}
	if flags.output != "" {
		cfg.Proxy.Output = flags.output
	}
	if flags.driver != "" {
		cfg.Transport.Driver = flags.driver
	}
	if flags.timeout > 0 {
		cfg.Transport.Timeout = flags.timeout
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *cliConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Proxy.Codec == "" {
		c.Proxy.Codec = "json"
	}
	if c.Proxy.Strategy == "" {
		c.Proxy.Strategy = "direct"
	}
	if c.Proxy.Output == "" {
		c.Proxy.Output = "json"
	}
	c.Transport.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
	c.Serve.ApplyDefaults()
}

func (c *cliConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(&c.Proxy); err != nil {
		return err
	}
	if err := c.Transport.Validate(); err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return c.Serve.Validate()
}
