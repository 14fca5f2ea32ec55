package errors

import (
	"errors"
	"fmt"
)

// Common error types for the clinic console
var (
	// Session errors
	ErrSessionCorrupted = errors.New("persisted session corrupted")
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidToken     = errors.New("invalid token")

	// Dispatcher errors, one per error kind returned by the backend
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient role")
	ErrNetwork         = errors.New("network error")
	ErrValidation      = errors.New("validation failed")
	ErrServer          = errors.New("server error")
	ErrDecode          = errors.New("unable to decode response")

	// Descriptor errors
	ErrMissingParam = errors.New("missing path parameter")

	// User repository errors
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")

	// General errors
	ErrNotFound = errors.New("not found")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
