package sessions

import (
	"github.com/jrsteele09/clinic-console/users"
)

// Session is the identity the console acts as.
// IsAuthenticated is true exactly when Token is non-empty.
type Session struct {
	User            *users.User `json:"user,omitempty"`
	Token           string      `json:"token,omitempty"`
	IsAuthenticated bool        `json:"isAuthenticated"`
}

// Role returns the role of the session user, empty when no user is known.
func (s Session) Role() users.RoleType {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

func (s Session) clone() Session {
	s.User = s.User.Clone()
	return s
}
