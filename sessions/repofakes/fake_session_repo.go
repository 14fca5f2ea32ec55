package fakesessionrepo

import (
	"context"
	"errors"
	"sync"

	"github.com/jrsteele09/clinic-console/sessions"
)

var _ sessions.Repo = (*FakeSessionRepo)(nil)

// FakeSessionRepo keeps the session in memory. Failing can be set to make
// every call return an error.
type FakeSessionRepo struct {
	values  map[string]string
	lock    sync.RWMutex
	Failing bool
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{
		values: make(map[string]string),
	}
}

var errUnavailable = errors.New("session storage unavailable")

func (sr *FakeSessionRepo) Get(_ context.Context, key string) (string, bool, error) {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	if sr.Failing {
		return "", false, errUnavailable
	}
	v, ok := sr.values[key]
	return v, ok, nil
}

func (sr *FakeSessionRepo) Set(_ context.Context, key, value string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if sr.Failing {
		return errUnavailable
	}
	sr.values[key] = value
	return nil
}

func (sr *FakeSessionRepo) Remove(_ context.Context, keys ...string) error {
	sr.lock.Lock()
	defer sr.lock.Unlock()

	if sr.Failing {
		return errUnavailable
	}
	for _, k := range keys {
		delete(sr.values, k)
	}
	return nil
}

// Values returns a copy of everything stored.
func (sr *FakeSessionRepo) Values() map[string]string {
	sr.lock.RLock()
	defer sr.lock.RUnlock()

	out := make(map[string]string, len(sr.values))
	for k, v := range sr.values {
		out[k] = v
	}
	return out
}
