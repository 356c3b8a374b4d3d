// Package signserver implements the sign-in server the launcher talks
// to: account registration and login, character slots, and session
// token issuing over HTTP+JSON.
package signserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mhfrontier/launcher/pkg/datastore"
	"github.com/mhfrontier/launcher/pkg/protocol"
)

// Config holds sign server configuration.
type Config struct {
	Addr          string        `env:"ADDR"`           // HTTP bind address (e.g. ":8080")
	DBPath        string        `env:"DB"`             // SQLite database path
	TokenSecret   string        `env:"TOKEN_SECRET"`   // HS256 signing secret (empty = ephemeral)
	TokenTTL      time.Duration `env:"TOKEN_TTL"`      // session token lifetime
	MaxCharacters int           `env:"MAX_CHARACTERS"` // character slots per account
	DefaultRights uint32        `env:"DEFAULT_RIGHTS"` // course bitmask for new accounts
	EventFile     string        `env:"EVENT_FILE"`     // YAML event/notification config (optional)
	LogLevel      string        `env:"LOG_LEVEL"`
	LogFormat     string        `env:"LOG_FORMAT"`
}

// Dependencies holds external dependencies for the server. The server
// assumes ownership of Store and closes it on shutdown.
type Dependencies struct {
	Store datastore.Store
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:          ":8080",
		DBPath:        "signserver.db",
		TokenTTL:      24 * time.Hour,
		MaxCharacters: 3,
		DefaultRights: 6, // Hunter Life + Extra
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// ConfigFromEnv returns the defaults overridden by MHFSIGN_* environment
// variables.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "MHFSIGN_"}); err != nil {
		return Config{}, fmt.Errorf("signserver: parse environment: %w", err)
	}
	return cfg, nil
}

// Server is the sign-in server.
type Server struct {
	cfg     Config
	store   datastore.Store
	metrics *Metrics
	tokens  *TokenIssuer
	event   *Event
	httpSrv *http.Server
	now     func() time.Time
}

// New creates a new Server instance. When no token secret is configured
// Run generates an ephemeral one.
func New(cfg Config, deps Dependencies) *Server {
	s := &Server{
		cfg:     cfg,
		store:   deps.Store,
		metrics: NewMetrics(),
		event:   &Event{},
		now:     time.Now,
	}
	if cfg.TokenSecret != "" {
		s.tokens = NewTokenIssuer(cfg.TokenSecret, cfg.TokenTTL)
	}
	return s
}

// Metrics returns the server metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.PathLogin, s.handleLogin)
	mux.HandleFunc(protocol.PathRegister, s.handleRegister)
	mux.HandleFunc(protocol.PathCharacterCreate, s.handleCharacterCreate)
	mux.HandleFunc(protocol.PathCharacterDelete, s.handleCharacterDelete)
	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}
