// Package fakeapi is an in-memory clinic backend. It serves the same HTTP
// contract as the real API and backs the mock-server command and the tests.
package fakeapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/clinic-console/internal/config"
	"github.com/jrsteele09/clinic-console/token"
	"github.com/jrsteele09/clinic-console/users"
	fakeuserrepo "github.com/jrsteele09/clinic-console/users/repofake"
	"github.com/rs/zerolog/log"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     chi.Router
	handler http.HandlerFunc
	routes  []string
	config  config.Config
	issuer  *token.Issuer
	users   users.UserRepo
	data    *store
}

// New builds a seeded server. The token issuer is derived from the mock
// signing secret and token expiry of the configuration.
func New(cfg config.Config) (*Server, error) {
	signer, err := token.NewHMACSigner(cfg.GetMockSigningSecret())
	if err != nil {
		return nil, fmt.Errorf("[fakeapi New] failed to create token signer: %w", err)
	}
	return NewWithIssuer(cfg, token.NewIssuer(signer, cfg.GetMockTokenExpiry()))
}

func NewWithIssuer(cfg config.Config, issuer *token.Issuer) (*Server, error) {
	s := &Server{
		env:    cfg.GetEnv(),
		mux:    chi.NewRouter(),
		config: cfg,
		issuer: issuer,
		users:  fakeuserrepo.NewFakeUserRepo(),
		data:   newStore(),
	}

	if err := s.seed(); err != nil {
		return nil, fmt.Errorf("[fakeapi New] failed to seed data: %w", err)
	}

	s.initRoutes()
	s.handler = ChainMiddleware(s.mux.ServeHTTP, s.APIMiddleware()...)
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}

// Issuer exposes the token issuer so tests can mint tokens directly.
func (s *Server) Issuer() *token.Issuer {
	return s.issuer
}

// Routes returns every registered "METHOD /pattern" pair, sorted by pattern.
func (s *Server) Routes() []string {
	out := append([]string(nil), s.routes...)
	sort.Slice(out, func(i, j int) bool {
		pi, pj := strings.SplitN(out[i], " ", 2)[1], strings.SplitN(out[j], " ", 2)[1]
		if pi != pj {
			return pi < pj
		}
		return out[i] < out[j]
	})
	return out
}

func (s *Server) RegisterRouteFunc(method, pattern string, handler http.HandlerFunc) {
	s.routes = append(s.routes, method+" "+pattern)
	s.mux.Method(method, pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.Routes() {
		parts := strings.SplitN(route, " ", 2)
		logRoute(parts[0], parts[1])
	}
}

func logRoute(method, path string) {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	color, ok := methodColors[method]
	if !ok {
		color = Gray
	}
	log.Debug().Msgf("[%s] %s", color+paddedMethod+ResetColor, path)
}
