package fakeapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/clinic-console/internal/errors"
	"github.com/jrsteele09/clinic-console/users"
	"github.com/rs/zerolog/log"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeyUser stores the authenticated *users.User
	ContextKeyUser ContextKey = "user"
)

func currentUser(r *http.Request) *users.User {
	u, _ := r.Context().Value(ContextKeyUser).(*users.User)
	return u
}

// RequireAuth validates the Bearer access token and loads its user.
func (s *Server) RequireAuth() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				writeJSONError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			claims, err := s.issuer.Verify(parts[1])
			if err != nil {
				msg := "Invalid token"
				if errors.Is(err, errors.ErrTokenExpired) {
					msg = "Token expired"
				}
				log.Debug().Err(err).Str("request_id", r.Header.Get(requestIDHeader)).Msg("rejected bearer token")
				writeJSONError(w, http.StatusUnauthorized, msg)
				return
			}

			user, err := s.users.GetByID(claims.Subject)
			if err != nil || !user.IsActive {
				writeJSONError(w, http.StatusUnauthorized, "User no longer has access")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next(w, r.WithContext(ctx))
		}
	}
}

// RequireRole rejects users outside the given roles with 403.
// Should be chained after RequireAuth to ensure the user is present
func (s *Server) RequireRole(roles ...users.RoleType) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !currentUser(r).HasRole(roles...) {
				writeJSONError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next(w, r)
		}
	}
}

func (s *Server) RequireAdmin() func(http.HandlerFunc) http.HandlerFunc {
	return s.RequireRole(users.RoleAdmin)
}

// RequireClinician admits the roles allowed to write clinical data.
func (s *Server) RequireClinician() func(http.HandlerFunc) http.HandlerFunc {
	return s.RequireRole(users.RoleAdmin, users.RoleDoctor)
}
