// Package guard decides whether the current session may enter a console route.
// Role checks here only steer navigation; the backend enforces access.
package guard

import (
	"slices"

	"github.com/jrsteele09/clinic-console/users"
)

// Outcome is the result of a route decision.
type Outcome string

const (
	OutcomeAllow                Outcome = "allow"
	OutcomeRedirectLogin        Outcome = "redirect-login"
	OutcomeRedirectUnauthorized Outcome = "redirect-unauthorized"
	OutcomePending              Outcome = "pending"  // Role not known yet, wait for the profile
	OutcomeNotFound             Outcome = "not-found" // Only produced by Router
)

// Input is everything a decision depends on.
type Input struct {
	IsAuthenticated bool
	Role            users.RoleType   // Empty when the user record has not loaded
	ProfilePending  bool             // A profile fetch is in flight
	Required        []users.RoleType // Empty means any authenticated user
	Location        string           // The location being entered
}

// Decision tells the caller where to go. For redirect-login, From carries the
// originally requested location so it can be restored after login.
type Decision struct {
	Outcome  Outcome
	Location string
	From     string
}

// Decide is a pure function of its input.
func Decide(in Input) Decision {
	if !in.IsAuthenticated {
		return Decision{Outcome: OutcomeRedirectLogin, Location: RouteLogin, From: in.Location}
	}

	if len(in.Required) > 0 {
		switch {
		case in.Role == "" && in.ProfilePending:
			return Decision{Outcome: OutcomePending, Location: in.Location}
		case in.Role != "" && !slices.Contains(in.Required, in.Role):
			return Decision{Outcome: OutcomeRedirectUnauthorized, Location: RouteUnauthorized}
		}
	}

	return Decision{Outcome: OutcomeAllow, Location: in.Location}
}
