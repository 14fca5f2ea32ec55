package cache

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state of an Entry.
//
//	(absent) -> pending -> ready | error
//	ready -> stale (invalidated) -> pending (refetch)
//	error -> pending (retry)
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusStale   Status = "stale"
	StatusError   Status = "error"
)

// Entry is the cached result of one query.
type Entry struct {
	Key       string
	Data      json.RawMessage // Last successful response body, kept through stale, pending and error
	Tags      []Tag
	FetchedAt time.Time
	Status    Status
	Err       error // Set when Status is error
}

func (e Entry) HasData() bool {
	return len(e.Data) > 0
}

func (e Entry) clone() Entry {
	e.Tags = append([]Tag(nil), e.Tags...)
	return e
}

// Ticket identifies one request issued for a key. Sequence numbers are
// strictly increasing across the whole cache.
type Ticket struct {
	Key string
	Seq uint64
}
