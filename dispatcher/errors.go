package dispatcher

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/clinic-console/internal/errors"
)

// Kind classifies a failed request.
type Kind string

const (
	KindAuthentication Kind = "authentication" // 401
	KindAuthorization  Kind = "authorization"  // 403
	KindNetwork        Kind = "network"        // No response
	KindValidation     Kind = "validation"     // Any other 4xx
	KindServer         Kind = "server"         // 5xx or an unreadable success body
)

// Error is returned for every failed query or mutation.
type Error struct {
	Kind     Kind
	Status   int               // HTTP status, zero for network errors
	Message  string
	Fields   map[string]string // Per-field messages of a validation error
	Redirect string            // Where the console should navigate, if anywhere
	cause    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap lets errors.Is match the sentinel of the kind and the underlying cause.
func (e *Error) Unwrap() []error {
	out := []error{e.Kind.sentinel()}
	if e.cause != nil {
		out = append(out, e.cause)
	}
	return out
}

func (k Kind) sentinel() error {
	switch k {
	case KindAuthentication:
		return errors.ErrUnauthenticated
	case KindAuthorization:
		return errors.ErrForbidden
	case KindNetwork:
		return errors.ErrNetwork
	case KindValidation:
		return errors.ErrValidation
	default:
		return errors.ErrServer
	}
}

type errorBody struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

func errorFromResponse(status int, body []byte) *Error {
	e := &Error{Status: status}
	switch {
	case status == http.StatusUnauthorized:
		e.Kind = KindAuthentication
	case status == http.StatusForbidden:
		e.Kind = KindAuthorization
	case status >= 500:
		e.Kind = KindServer
	default:
		e.Kind = KindValidation
	}
	if status == http.StatusNotFound {
		e.cause = errors.ErrNotFound
	}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		e.Message = parsed.Message
		if e.Message == "" {
			e.Message = parsed.Error
		}
		e.Fields = parseFields(parsed.Errors)
	}
	if e.Message == "" {
		e.Message = strings.ToLower(http.StatusText(status))
	}
	return e
}

// parseFields accepts {"field":"msg"} and [{"field":"f","message":"msg"}].
func parseFields(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var byName map[string]string
	if err := json.Unmarshal(raw, &byName); err == nil && len(byName) > 0 {
		return byName
	}
	var list []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &list); err != nil || len(list) == 0 {
		return nil
	}
	fields := make(map[string]string, len(list))
	for _, f := range list {
		fields[f.Field] = f.Message
	}
	return fields
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), cause: err}
}

func decodeError(status int, err error) *Error {
	return &Error{Kind: KindServer, Status: status, Message: err.Error(), cause: fmt.Errorf("%w: %v", errors.ErrDecode, err)}
}
