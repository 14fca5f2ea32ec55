package token

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/clinic-console/internal/errors"
	"github.com/jrsteele09/clinic-console/internal/utils"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Claims is the subset of a bearer token the console cares about.
type Claims struct {
	Subject  string    `json:"sub,omitempty"`
	Email    string    `json:"email,omitempty"`
	Role     string    `json:"role,omitempty"`
	IssuedAt time.Time `json:"iat,omitempty"`
	Expiry   time.Time `json:"exp,omitempty"` // Zero when the token carries no exp claim
	ID       string    `json:"jti,omitempty"`
}

// Expired reports whether the token has an expiry at or before now.
func (c Claims) Expired(now time.Time) bool {
	return !c.Expiry.IsZero() && !now.Before(c.Expiry)
}

// Inspect reads the claims of a JWT without verifying its signature.
// The backend remains the authority on validity; the console only uses the
// claims to skip sending tokens it already knows are expired.
func Inspect(raw string) (Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Claims{}, errors.ErrInvalidToken
	}

	parsed, _, err := jwtlib.NewParser().ParseUnverified(raw, jwtlib.MapClaims{})
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}
	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("%w: error extracting claims", errors.ErrInvalidToken)
	}
	return claimsFromMap(mapClaims)
}

func claimsFromMap(m jwtlib.MapClaims) (Claims, error) {
	var c Claims

	sub, err := m.GetSubject()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}
	c.Subject = sub

	if exp, err := m.GetExpirationTime(); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	} else if exp != nil {
		c.Expiry = exp.Time
	}
	if iat, err := m.GetIssuedAt(); err == nil && iat != nil {
		c.IssuedAt = iat.Time
	}

	c.Email, _ = utils.ToString(m["email"])
	c.Role, _ = utils.ToString(m["role"])
	c.ID, _ = utils.ToString(m["jti"])
	return c, nil
}
