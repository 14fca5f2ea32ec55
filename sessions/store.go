package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/clinic-console/internal/errors"
	"github.com/jrsteele09/clinic-console/token"
	"github.com/jrsteele09/clinic-console/users"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const repoTimeout = 5 * time.Second

// Store holds the single client-side session. Reads are served from memory;
// every change is written through to the Repo before listeners are told.
type Store struct {
	mu        sync.RWMutex
	session   Session
	repo      Repo
	listeners map[int]func(Session)
	nextID    int
}

// Open builds a Store from whatever the Repo holds. A stored session that
// cannot be decoded, is incomplete or carries an expired JWT yields a logged
// out store and is removed from the Repo.
func Open(ctx context.Context, repo Repo) (*Store, error) {
	s := &Store{repo: repo, listeners: make(map[int]func(Session))}

	session, err := s.load(ctx)
	if err != nil {
		if !errors.Is(err, errors.ErrSessionCorrupted) && !errors.Is(err, errors.ErrTokenExpired) {
			return nil, fmt.Errorf("failed to read session: %w", err)
		}
		log.Warn().Err(err).Msg("discarding persisted session")
		if rmErr := repo.Remove(ctx, UserKey, TokenKey); rmErr != nil {
			log.Err(rmErr).Msg("failed to remove persisted session")
		}
		session = Session{}
	}
	s.session = session
	return s, nil
}

func (s *Store) load(ctx context.Context) (Session, error) {
	rawToken, hasToken, err := s.repo.Get(ctx, TokenKey)
	if err != nil {
		return Session{}, err
	}
	rawUser, hasUser, err := s.repo.Get(ctx, UserKey)
	if err != nil {
		return Session{}, err
	}

	if !hasToken && !hasUser {
		return Session{}, nil
	}
	rawToken = strings.TrimSpace(rawToken)
	if !hasToken || !hasUser || rawToken == "" {
		return Session{}, fmt.Errorf("%w: user and token must be stored together", errors.ErrSessionCorrupted)
	}

	var user users.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		return Session{}, fmt.Errorf("%w: %v", errors.ErrSessionCorrupted, err)
	}
	if user.ID == "" {
		return Session{}, fmt.Errorf("%w: stored user has no id", errors.ErrSessionCorrupted)
	}

	// Opaque tokens cannot be inspected and are kept as they are.
	if claims, err := token.Inspect(rawToken); err == nil && claims.Expired(token.NowTimeFunc()) {
		return Session{}, errors.ErrTokenExpired
	}

	return Session{User: &user, Token: rawToken, IsAuthenticated: true}, nil
}

// SetCredentials replaces the session with an authenticated one.
func (s *Store) SetCredentials(user *users.User, rawToken string) {
	next := Session{User: user.Clone(), Token: rawToken, IsAuthenticated: rawToken != ""}
	s.apply(func(Session) Session { return next }, func(ctx context.Context, next Session) error {
		if err := s.writeUser(ctx, next.User); err != nil {
			return err
		}
		if rawToken == "" {
			return s.repo.Remove(ctx, TokenKey)
		}
		return s.repo.Set(ctx, TokenKey, rawToken)
	})
}

// UpdateUser replaces the user, keeping the token.
func (s *Store) UpdateUser(user *users.User) {
	updated := user.Clone()
	s.apply(func(current Session) Session {
		current.User = updated
		return current
	}, func(ctx context.Context, next Session) error {
		return s.writeUser(ctx, next.User)
	})
}

// Logout clears the session. Calling it while logged out is harmless.
func (s *Store) Logout() {
	s.apply(func(Session) Session { return Session{} }, func(ctx context.Context, _ Session) error {
		return s.repo.Remove(ctx, UserKey, TokenKey)
	})
}

func (s *Store) writeUser(ctx context.Context, user *users.User) error {
	if user == nil {
		return s.repo.Remove(ctx, UserKey)
	}
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.repo.Set(ctx, UserKey, string(data))
}

func (s *Store) apply(change func(Session) Session, persist func(ctx context.Context, next Session) error) {
	s.mu.Lock()
	next := change(s.session)
	s.session = next
	ctx, cancel := context.WithTimeout(context.Background(), repoTimeout)
	err := persist(ctx, next)
	cancel()
	listeners := make([]func(Session), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	if err != nil {
		log.Err(err).Bool("authenticated", next.IsAuthenticated).Msg("failed to persist session")
	}
	for _, l := range listeners {
		l(next.clone())
	}
}

// Subscribe registers fn to be called after every session change.
// The returned function removes the registration.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.clone()
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.IsAuthenticated
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *Store) User() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User.Clone()
}

func (s *Store) Role() users.RoleType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Role()
}

// BearerToken returns the session token as an oauth2 bearer token, or nil
// when logged out. Expiry is taken from the JWT claims when available.
func (s *Store) BearerToken() *oauth2.Token {
	raw := s.Token()
	if raw == "" {
		return nil
	}
	tok := &oauth2.Token{AccessToken: raw, TokenType: "Bearer"}
	if claims, err := token.Inspect(raw); err == nil {
		tok.Expiry = claims.Expiry
	}
	return tok
}
