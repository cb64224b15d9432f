// Package resourceserver serves in-memory REST collections that behave the
// way the proxy expects a real service to: 400 for bad bodies, 404 for
// missing items, 409 for stale versions and 501 for writes to read-only
// collections. Bodies are negotiated as JSON, YAML or TOML.
//
//	GET    /:resource        list in insertion order
//	POST   /:resource        insert, assigning a uuid when no ID is given
//	GET    /:resource/:id    fetch one
//	PUT    /:resource/:id    replace, checking Version
//	DELETE /:resource/:id    remove
package resourceserver

import (
	"context"
	"net/http"

	"github.com/kbukum/dataproxy/logger"
	"github.com/kbukum/dataproxy/server"
)

const serviceName = "resourceserver"

// Config configures the resource server.
type Config struct {
	Server server.Config `yaml:"server" mapstructure:"server"`
	// ReadOnly names collections whose writes answer 501.
	ReadOnly []string `yaml:"read_only" mapstructure:"read_only"`
	// Seed preloads collections by name.
	Seed map[string][]Document `yaml:"seed" mapstructure:"seed"`
}

// ApplyDefaults fills in the server defaults.
func (c *Config) ApplyDefaults() {
	c.Server.ApplyDefaults()
}

// Validate checks the server section.
func (c *Config) Validate() error {
	return c.Server.Validate()
}

// Server is the resource server.
type Server struct {
	host  *server.Server
	store *Store
}

// New builds a server with the standard middleware, /health, /info and the
// collection routes.
func New(cfg Config, log *logger.Logger) (*Server, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Get(serviceName)
	}

	store := NewStore(cfg.ReadOnly...)
	for name, docs := range cfg.Seed {
		if err := store.Seed(name, docs...); err != nil {
			return nil, err
		}
	}

	host := server.New(cfg.Server, log)
	host.ApplyDefaults(serviceName, store)

	h := &handler{store: store, log: log.WithComponent(serviceName)}
	h.register(host.GinEngine())

	return &Server{host: host, store: store}, nil
}

// Store returns the backing store.
func (s *Server) Store() *Store { return s.store }

// Handler returns the root handler for httptest.
func (s *Server) Handler() http.Handler { return s.host.Handler() }

// Start binds and serves in the background.
func (s *Server) Start(ctx context.Context) error { return s.host.Start(ctx) }

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error { return s.host.Stop(ctx) }

// Addr returns the bound address once started.
func (s *Server) Addr() string { return s.host.Addr() }
