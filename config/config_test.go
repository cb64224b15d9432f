package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool  { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("expected debug logging in development, got %q", cfg.Logging.Level)
		}
		if cfg.Logging.ServiceName != "svc" {
			t.Errorf("expected logging service name 'svc', got %q", cfg.Logging.ServiceName)
		}
	})

	t.Run("production keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "svc", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
		if cfg.Logging.Level != "info" {
			t.Errorf("expected info logging, got %q", cfg.Logging.Level)
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	valid := func(env string) ServiceConfig {
		cfg := ServiceConfig{Name: "svc", Environment: env}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr string
	}{
		{"valid development", valid("development"), ""},
		{"valid production", valid("production"), ""},
		{"missing name", ServiceConfig{Environment: "production"}, "config.name is required"},
		{"invalid environment", ServiceConfig{Name: "svc", Environment: "qa"}, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

type testConfig struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Transport     struct {
		BaseURI  string        `mapstructure:"base_uri"`
		Timeout  time.Duration `mapstructure:"timeout"`
		RetryMax int           `mapstructure:"retry_max"`
	} `mapstructure:"transport"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: dataproxy
environment: staging
transport:
  base_uri: http://localhost:8080/customers
  timeout: 5s
  retry_max: 2
`)

	var cfg testConfig
	if err := LoadConfig("dataproxy", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Name != "dataproxy" {
		t.Errorf("expected name 'dataproxy', got %q", cfg.Name)
	}
	if cfg.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Environment)
	}
	if cfg.Transport.Timeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.Transport.Timeout)
	}
	if cfg.Transport.RetryMax != 2 {
		t.Errorf("expected retry_max 2, got %d", cfg.Transport.RetryMax)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yml", `
name: dataproxy
transport:
  base_uri: http://file/customers
`)
	t.Setenv("TRANSPORT_BASE_URI", "http://env/customers")

	var cfg testConfig
	if err := LoadConfig("dataproxy", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Transport.BaseURI != "http://env/customers" {
		t.Errorf("expected env override, got %q", cfg.Transport.BaseURI)
	}
}

func TestLoadConfigEnvFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yml", "name: dataproxy\n")
	envPath := writeFile(t, dir, ".env", "TRANSPORT_TIMEOUT=750ms\n")
	t.Cleanup(func() { os.Unsetenv("TRANSPORT_TIMEOUT") })

	var cfg testConfig
	if err := LoadConfig("dataproxy", &cfg, WithConfigFile(cfgPath), WithEnvFile(envPath)); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Transport.Timeout != 750*time.Millisecond {
		t.Errorf("expected 750ms from .env, got %v", cfg.Transport.Timeout)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("dataproxy", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadConfigNothingFound(t *testing.T) {
	var cfg testConfig
	err := LoadConfig("dataproxy", &cfg, WithFileSystem(&mockFS{files: map[string]bool{}}))
	if err != nil {
		t.Fatalf("expected success with no files, got %v", err)
	}
}

func TestResolveWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/dataproxy/config.yml": true,
		"./config.yml":               true,
		"./.env":                     true,
	}}
	files := Resolve("dataproxy", LoaderConfig{FileSystem: fs})
	if files.ConfigFile != "./cmd/dataproxy/config.yml" {
		t.Errorf("expected cmd config to win, got %q", files.ConfigFile)
	}
	if files.EnvFile != "./.env" {
		t.Errorf("expected ./.env, got %q", files.EnvFile)
	}
}

func TestResolveExplicitPaths(t *testing.T) {
	files := Resolve("dataproxy", LoaderConfig{
		FileSystem: &mockFS{},
		ConfigFile: "/etc/dp.yml",
		EnvFile:    "/etc/dp.env",
	})
	if files.ConfigFile != "/etc/dp.yml" || files.EnvFile != "/etc/dp.env" {
		t.Errorf("explicit paths should be kept, got %+v", files)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	got := envKeyVariants("TRANSPORT_RETRY_MAX")
	for _, want := range []string{"transport_retry_max", "transport.retry.max", "transport.retry_max"} {
		if !slices.Contains(got, want) {
			t.Errorf("expected variant %q in %v", want, got)
		}
	}
	if v := envKeyVariants("NAME"); len(v) != 1 || v[0] != "name" {
		t.Errorf("single-part key should map to itself, got %v", v)
	}
}

func TestLoaderOptions(t *testing.T) {
	var lc LoaderConfig
	WithFileSystem(&mockFS{})(&lc)
	WithConfigFile("/path/config.yml")(&lc)
	WithEnvFile("/path/.env")(&lc)
	if lc.FileSystem == nil || lc.ConfigFile != "/path/config.yml" || lc.EnvFile != "/path/.env" {
		t.Errorf("options not applied: %+v", lc)
	}
}
