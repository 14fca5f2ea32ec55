// Package cache holds query results keyed by request and tagged by the
// entities they contain, so writes can mark dependent reads stale.
package cache

import (
	"encoding/json"
	"sort"
	"sync"
	"time"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type record struct {
	entry         Entry
	pendingTags   []Tag  // Tags known before the response arrives
	appliedSeq    uint64 // Ticket whose outcome the entry currently reflects
	latestSeq     uint64 // Most recently issued ticket
	invalidatedAt uint64 // Clock value of the last matching invalidation
}

// Cache is safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*record
	clock     uint64
	clearedAt uint64
}

func New() *Cache {
	return &Cache{entries: make(map[string]*record)}
}

// Lookup returns a copy of the entry for key.
func (c *Cache) Lookup(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return rec.entry.clone(), true
}

// Begin records that a request for key has been issued and moves the entry
// to pending, keeping any previous data. tags are the tags known up front and
// make the in-flight request visible to invalidation.
func (c *Cache) Begin(key string, tags []Tag) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clock++
	rec, ok := c.entries[key]
	if !ok {
		rec = &record{entry: Entry{Key: key}}
		c.entries[key] = rec
	}
	rec.latestSeq = c.clock
	rec.pendingTags = append([]Tag(nil), tags...)
	rec.entry.Status = StatusPending
	return Ticket{Key: key, Seq: c.clock}
}

// Complete stores a successful response. It returns false when the response
// was discarded because a later request already landed or the cache was
// cleared after the request was issued.
func (c *Cache) Complete(t Ticket, data json.RawMessage, tags []Tag) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.current(t)
	if !ok {
		return Entry{}, false
	}

	rec.appliedSeq = t.Seq
	rec.entry.Data = data
	rec.entry.Tags = append([]Tag(nil), tags...)
	rec.entry.FetchedAt = NowTimeFunc()
	rec.entry.Err = nil

	switch {
	case rec.invalidatedAt > t.Seq:
		rec.entry.Status = StatusStale
	case rec.latestSeq > t.Seq:
		rec.entry.Status = StatusPending
	default:
		rec.entry.Status = StatusReady
	}
	return rec.entry.clone(), true
}

// Fail records a failed request. Previous data is retained.
func (c *Cache) Fail(t Ticket, err error) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.current(t)
	if !ok {
		return Entry{}, false
	}

	rec.appliedSeq = t.Seq
	rec.entry.Err = err
	if rec.latestSeq == t.Seq {
		rec.entry.Status = StatusError
	}
	return rec.entry.clone(), true
}

func (c *Cache) current(t Ticket) (*record, bool) {
	if t.Seq <= c.clearedAt {
		return nil, false
	}
	rec, ok := c.entries[t.Key]
	if !ok || rec.appliedSeq > t.Seq {
		return nil, false
	}
	return rec, true
}

// Invalidate marks every entry carrying a matching tag. Ready entries become
// stale; requests in flight will land stale. It returns the affected keys.
func (c *Cache) Invalidate(tags ...Tag) []string {
	if len(tags) == 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clock++
	var keys []string
	for key, rec := range c.entries {
		if !matchesAny(tags, rec.entry.Tags) && !matchesAny(tags, rec.pendingTags) {
			continue
		}
		rec.invalidatedAt = c.clock
		if rec.entry.Status == StatusReady {
			rec.entry.Status = StatusStale
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clear drops every entry. Responses to requests issued before Clear are discarded.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clock++
	c.clearedAt = c.clock
	c.entries = make(map[string]*record)
}

func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
