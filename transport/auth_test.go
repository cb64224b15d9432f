package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	if err != nil {
		t.Fatal(err)
	}
	return req
}

func TestBearerAuth(t *testing.T) {
	req := newRequest(t)
	if err := BearerAuth("my-token").Authorize(req); err != nil {
		t.Fatal(err)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("got %q, want %q", got, "Bearer my-token")
	}
}

func TestBasicAuth(t *testing.T) {
	req := newRequest(t)
	_ = BasicAuth("user", "pass").Authorize(req)
	u, p, ok := req.BasicAuth()
	if !ok || u != "user" || p != "pass" {
		t.Errorf("basic auth not set correctly: user=%q pass=%q ok=%v", u, p, ok)
	}
}

func TestAPIKeyAuth(t *testing.T) {
	req := newRequest(t)
	_ = APIKeyAuth("secret-key", "").Authorize(req)
	if got := req.Header.Get("X-API-Key"); got != "secret-key" {
		t.Errorf("got %q, want %q", got, "secret-key")
	}

	req = newRequest(t)
	_ = APIKeyAuth("secret-key", "X-Custom-Key").Authorize(req)
	if got := req.Header.Get("X-Custom-Key"); got != "secret-key" {
		t.Errorf("got %q, want %q", got, "secret-key")
	}
}

func TestJWTAuth_TokenClaims(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := &JWTAuth{
		Secret:   []byte("s3cret"),
		Issuer:   "dataproxy",
		Subject:  "cli",
		Audience: []string{"customers"},
		TTL:      time.Hour,
		now:      func() time.Time { return fixed },
	}
	signed, err := a.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims.Issuer != "dataproxy" || claims.Subject != "cli" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if !claims.ExpiresAt.Time.Equal(fixed.Add(time.Hour)) {
		t.Errorf("expected expiry one hour after issue, got %v", claims.ExpiresAt)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestJWTAuth_FreshTokenPerRequest(t *testing.T) {
	a := &JWTAuth{Secret: []byte("k")}
	first, _ := a.Token()
	second, _ := a.Token()
	if first == second {
		t.Error("each request should carry a distinct token")
	}
}

func TestAuthConfig_BuildAndValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *AuthConfig
		wantErr bool
		header  string
	}{
		{"nil", nil, false, ""},
		{"none", &AuthConfig{Type: AuthNone}, false, ""},
		{"bearer", &AuthConfig{Type: AuthBearer, Token: "t"}, false, "Bearer t"},
		{"bearer missing token", &AuthConfig{Type: AuthBearer}, true, ""},
		{"basic missing user", &AuthConfig{Type: AuthBasic}, true, ""},
		{"api key missing key", &AuthConfig{Type: AuthAPIKey}, true, ""},
		{"jwt", &AuthConfig{Type: AuthJWT, JWTSecret: "k"}, false, "Bearer "},
		{"jwt missing secret", &AuthConfig{Type: AuthJWT}, true, ""},
		{"unknown", &AuthConfig{Type: "oauth"}, true, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			auth := tc.cfg.Build()
			if tc.header == "" {
				if auth != nil {
					t.Errorf("expected no authenticator, got %T", auth)
				}
				return
			}
			req := newRequest(t)
			if err := auth.Authorize(req); err != nil {
				t.Fatal(err)
			}
			if got := req.Header.Get("Authorization"); !strings.HasPrefix(got, tc.header) {
				t.Errorf("expected Authorization prefix %q, got %q", tc.header, got)
			}
		})
	}
}

func TestDrivers_ApplyAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	for _, driver := range Drivers() {
		t.Run(driver, func(t *testing.T) {
			f := newFactory(t, Config{Driver: driver, Auth: &AuthConfig{Type: AuthBearer, Token: "tok"}})
			tr, _ := f.NewTransport()
			defer tr.Close()
			resp, err := tr.Send(context.Background(), Request{Method: http.MethodGet, URI: srv.URL})
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected credentials to be sent, got %d", resp.StatusCode)
			}
		})
	}
}
