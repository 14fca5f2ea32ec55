package sessions

import "context"

// Keys under which the session is persisted.
const (
	UserKey  = "user"
	TokenKey = "token"
)

// Repo is the durable key/value storage the session survives restarts in.
type Repo interface {
	// Get returns the value stored under key and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// Remove deletes the given keys, ignoring ones that do not exist
	Remove(ctx context.Context, keys ...string) error
}
