package token

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/clinic-console/internal/errors"
	"github.com/jrsteele09/clinic-console/users"
)

// Issuer creates and verifies the access tokens handed out by the mock backend.
type Issuer struct {
	signer Signer
	expiry time.Duration
}

func NewIssuer(signer Signer, expiry time.Duration) *Issuer {
	return &Issuer{signer: signer, expiry: expiry}
}

// Issue creates a signed access token for the user.
func (i *Issuer) Issue(user *users.User) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"sub":   user.ID,                  // Users unique ID
		"email": user.Email,               // Shown by whoami without a round trip
		"role":  string(user.Role),        // Role hint for the client route guard
		"iat":   now.Unix(),               // Issued At
		"exp":   now.Add(i.expiry).Unix(), // Expiry
		"jti":   uuid.New().String(),      // Unique token ID
	}

	signed, err := i.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
func (i *Issuer) Verify(raw string) (Claims, error) {
	if strings.TrimSpace(raw) == "" {
		return Claims{}, errors.ErrInvalidToken
	}

	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwtlib.WithTimeFunc(NowTimeFunc),
		jwtlib.WithExpirationRequired(),
	)
	parsed, err := parser.Parse(raw, i.signer.GetVerificationKey)
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, errors.ErrTokenExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", errors.ErrInvalidToken, err)
	}

	mapClaims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("%w: error extracting claims", errors.ErrInvalidToken)
	}
	return claimsFromMap(mapClaims)
}
