package transport

import (
	"maps"
	"time"

	"github.com/kbukum/dataproxy/validation"
	"github.com/kbukum/dataproxy/version"
)

const (
	defaultTimeout      = 30 * time.Second
	defaultRetryWaitMin = 100 * time.Millisecond
	defaultRetryWaitMax = 2 * time.Second
)

// Config configures every transport driver.
type Config struct {
	// Driver selects the implementation: http (default), resty or retryable.
	Driver string `yaml:"driver" mapstructure:"driver" validate:"omitempty,oneof=http resty retryable"`

	// Timeout bounds each request including reading the body. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// Headers are sent with every request; per-request headers win.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// HTTP2 enables HTTP/2 over TLS for the http driver.
	HTTP2 bool `yaml:"http2" mapstructure:"http2"`

	// RetryMax is the number of retries of the retryable driver.
	RetryMax     int           `yaml:"retry_max" mapstructure:"retry_max" validate:"gte=0"`
	RetryWaitMin time.Duration `yaml:"retry_wait_min" mapstructure:"retry_wait_min" validate:"gte=0"`
	RetryWaitMax time.Duration `yaml:"retry_wait_max" mapstructure:"retry_wait_max" validate:"gte=0"`

	TLS  *TLSConfig  `yaml:"tls" mapstructure:"tls"`
	Auth *AuthConfig `yaml:"auth" mapstructure:"auth"`
}

// ApplyDefaults fills in zero-value fields and the default User-Agent.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = DriverHTTP
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.RetryWaitMin <= 0 {
		c.RetryWaitMin = defaultRetryWaitMin
	}
	if c.RetryWaitMax <= 0 {
		c.RetryWaitMax = defaultRetryWaitMax
	}
	if _, ok := c.Headers["User-Agent"]; !ok {
		c.Headers = maps.Clone(c.Headers)
		if c.Headers == nil {
			c.Headers = make(map[string]string, 1)
		}
		c.Headers["User-Agent"] = version.UserAgent()
	}
}

// Validate checks field constraints and the TLS and auth sections.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := validation.New().
		Custom(c.RetryWaitMax <= 0 || c.RetryWaitMin <= c.RetryWaitMax, "retry_wait_min", "must not exceed retry_wait_max").
		Err(); err != nil {
		return err
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}
