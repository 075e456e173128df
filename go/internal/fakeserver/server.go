// Package fakeserver is an in-memory implementation of the soccer manager REST
// API used for local development and end-to-end tests.
package fakeserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Config for the fake server
type Config struct {
	Secret   string
	TokenTTL time.Duration
	// Seed makes generated teams reproducible
	Seed int64
}

// DefaultConfig returns settings suitable for local development
func DefaultConfig() Config {
	return Config{
		Secret:   "soccer-manager-dev-secret",
		TokenTTL: 24 * time.Hour,
		Seed:     1,
	}
}

// Server serves the REST API from memory
type Server struct {
	state    *state
	tokens   *tokens
	validate *validator.Validate
	clock    clockwork.Clock
}

// New creates a server with a real clock
func New(cfg Config) *Server {
	return NewWithClock(cfg, clockwork.NewRealClock())
}

// NewWithClock creates a server whose token expiry follows clock
func NewWithClock(cfg Config, clock clockwork.Clock) *Server {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultConfig().TokenTTL
	}
	if cfg.Secret == "" {
		cfg.Secret = DefaultConfig().Secret
	}
	return &Server{
		state:    newState(cfg.Seed),
		tokens:   newTokens(cfg.Secret, cfg.TokenTTL, clock),
		validate: newValidator(),
		clock:    clock,
	}
}

// Router returns the API routes without middleware
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Post("/auth/token", s.handleLogin)
	r.Post("/users", s.handleRegister)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Use(s.requireUser)
			r.Get("/", s.handleGetUser)
			r.Patch("/", s.handleUpdateUser)
			r.Delete("/", s.handleDeleteUser)
		})

		r.Get("/transfers", s.handleListTransfers)

		r.Route("/teams/{teamId}", func(r chi.Router) {
			r.Use(s.requireTeam)
			r.Get("/", s.handleGetTeam)
			r.Patch("/", s.handleUpdateTeam)
			r.Patch("/players/{playerId}", s.handleUpdatePlayer)
			r.Post("/transfers", s.handleCreateTransfer)
			r.Patch("/transfers/{transferId}", s.handleUpdateTransfer)
			r.Delete("/transfers/{transferId}", s.handleDeleteTransfer)
		})
	})

	return r
}

// Handler wraps the router with CORS and HTTP/2 cleartext support
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	return h2c.NewHandler(c.Handler(s.Router()), &http2.Server{})
}
