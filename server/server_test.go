package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kbukum/dataproxy/logger"
	"github.com/kbukum/dataproxy/observability"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()
	if c.Port != 8080 || c.ReadTimeout != 15*time.Second || c.IdleTimeout != 60*time.Second {
		t.Errorf("unexpected defaults %+v", c)
	}
	if c.MaxBodyBytes() != 10<<20 {
		t.Errorf("expected 10MB, got %d", c.MaxBodyBytes())
	}
	if c.Addr() != ":8080" {
		t.Errorf("unexpected addr %q", c.Addr())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Port: 80, MaxBodySize: "1MB"}, false},
		{"port too large", Config{Port: 70000}, true},
		{"negative timeout", Config{ReadTimeout: -time.Second}, true},
		{"bad size", Config{MaxBodySize: "big"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"512", 512},
		{"100B", 100},
		{"4kb", 4096},
		{"10MB", 10 << 20},
		{" 2 GB ", 2 << 30},
	}
	for _, tc := range tests {
		got, err := ParseSize(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseSize(%q) = %d, %v; want %d", tc.in, got, err, tc.want)
		}
	}
	for _, bad := range []string{"MB", "-1KB", "ten"} {
		if _, err := ParseSize(bad); err == nil {
			t.Errorf("ParseSize(%q) should fail", bad)
		}
	}
}

type downChecker struct{}

func (downChecker) CheckHealth(context.Context) observability.Health {
	return observability.Health{Name: "db", Status: observability.HealthStatusDown}
}

func TestDefaultEndpoints(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	s := New(cfg, logger.Nop())
	s.ApplyDefaults("svc")

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var health map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &health); err != nil {
		t.Fatal(err)
	}
	if health["service"] != "svc" || health["status"] != "up" {
		t.Errorf("unexpected health body %v", health)
	}

	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/info", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("middleware should stamp a request id")
	}
	var info map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info["service"] != "svc" || info["version"] != "dev" || info["user_agent"] != "dataproxy/dev" {
		t.Errorf("unexpected info body %v", info)
	}
}

func TestHealth_DownComponent(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	s := New(cfg, logger.Nop())
	s.RegisterDefaultEndpoints("svc", downChecker{})

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rr.Code)
	}
}
