package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Authenticator decorates outbound requests with credentials.
type Authenticator interface {
	Authorize(req *http.Request) error
}

// AuthFunc adapts a function to Authenticator.
type AuthFunc func(req *http.Request) error

// Authorize calls f.
func (f AuthFunc) Authorize(req *http.Request) error { return f(req) }

// BearerAuth sends a static bearer token.
func BearerAuth(token string) Authenticator {
	return AuthFunc(func(req *http.Request) error {
		req.Header.Set("Authorization", "Bearer "+token)
		return nil
	})
}

// BasicAuth sends HTTP basic credentials.
func BasicAuth(username, password string) Authenticator {
	return AuthFunc(func(req *http.Request) error {
		req.SetBasicAuth(username, password)
		return nil
	})
}

// APIKeyAuth sends key in the named header, X-API-Key when header is empty.
func APIKeyAuth(key, header string) Authenticator {
	if header == "" {
		header = "X-API-Key"
	}
	return AuthFunc(func(req *http.Request) error {
		req.Header.Set(header, key)
		return nil
	})
}

// JWTAuth mints a short-lived HS256 token for every request.
type JWTAuth struct {
	Secret   []byte
	Issuer   string
	Subject  string
	Audience []string
	TTL      time.Duration

	now func() time.Time
}

// Authorize signs a fresh token and sets it as the bearer credential.
func (a *JWTAuth) Authorize(req *http.Request) error {
	token, err := a.Token()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return nil
}

// Token returns a signed token valid for TTL (one minute when unset).
func (a *JWTAuth) Token() (string, error) {
	now := time.Now
	if a.now != nil {
		now = a.now
	}
	ttl := a.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	issued := now()
	claims := jwt.RegisteredClaims{
		Issuer:    a.Issuer,
		Subject:   a.Subject,
		Audience:  a.Audience,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.Secret)
	if err != nil {
		return "", fmt.Errorf("transport/auth: sign token: %w", err)
	}
	return signed, nil
}

// Auth types accepted by AuthConfig.Type.
const (
	AuthNone   = "none"
	AuthBearer = "bearer"
	AuthBasic  = "basic"
	AuthAPIKey = "api_key"
	AuthJWT    = "jwt"
)

// AuthConfig selects and configures an Authenticator from configuration.
type AuthConfig struct {
	Type     string `yaml:"type" mapstructure:"type" validate:"omitempty,oneof=none bearer basic api_key jwt"`
	Token    string `yaml:"token" mapstructure:"token"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Key      string `yaml:"key" mapstructure:"key"`
	Header   string `yaml:"header" mapstructure:"header"`

	JWTSecret   string        `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	JWTIssuer   string        `yaml:"jwt_issuer" mapstructure:"jwt_issuer"`
	JWTSubject  string        `yaml:"jwt_subject" mapstructure:"jwt_subject"`
	JWTAudience []string      `yaml:"jwt_audience" mapstructure:"jwt_audience"`
	JWTTTL      time.Duration `yaml:"jwt_ttl" mapstructure:"jwt_ttl"`
}

// Validate checks that the credentials required by Type are present.
func (c *AuthConfig) Validate() error {
	if c == nil {
		return nil
	}
	switch c.Type {
	case "", AuthNone:
	case AuthBearer:
		if c.Token == "" {
			return fmt.Errorf("transport/auth: bearer auth requires token")
		}
	case AuthBasic:
		if c.Username == "" {
			return fmt.Errorf("transport/auth: basic auth requires username")
		}
	case AuthAPIKey:
		if c.Key == "" {
			return fmt.Errorf("transport/auth: api_key auth requires key")
		}
	case AuthJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("transport/auth: jwt auth requires jwt_secret")
		}
	default:
		return fmt.Errorf("transport/auth: unknown auth type %q", c.Type)
	}
	return nil
}

// Build returns the configured Authenticator, or nil for none.
func (c *AuthConfig) Build() Authenticator {
	if c == nil {
		return nil
	}
	switch c.Type {
	case AuthBearer:
		return BearerAuth(c.Token)
	case AuthBasic:
		return BasicAuth(c.Username, c.Password)
	case AuthAPIKey:
		return APIKeyAuth(c.Key, c.Header)
	case AuthJWT:
		return &JWTAuth{
			Secret:   []byte(c.JWTSecret),
			Issuer:   c.JWTIssuer,
			Subject:  c.JWTSubject,
			Audience: c.JWTAudience,
			TTL:      c.JWTTTL,
		}
	default:
		return nil
	}
}
