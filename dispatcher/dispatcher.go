// Package dispatcher turns query and mutation descriptors into HTTP calls,
// caching reads by request, sharing in-flight reads and invalidating cached
// reads by tag after successful writes.
package dispatcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/clinic-console/cache"
	"github.com/jrsteele09/clinic-console/guard"
	"github.com/jrsteele09/clinic-console/internal/metrics"
	"github.com/jrsteele09/clinic-console/sessions"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

var tracer = otel.Tracer("clinic-console/dispatcher")

const (
	RequestIDHeader = "X-Request-ID"
	maxBodyBytes    = 10 << 20
)

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result is what a query returns. On failure Data holds the last good
// response, if there was one.
type Result struct {
	Key       string
	Data      json.RawMessage
	Status    cache.Status
	FetchedAt time.Time
	FromCache bool
}

func (r Result) HasData() bool {
	return len(r.Data) > 0
}

// Decode unmarshals Data into v.
func (r Result) Decode(v any) error {
	if !r.HasData() {
		return fmt.Errorf("no data for %s", r.Key)
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return decodeError(0, err)
	}
	return nil
}

func resultFrom(e cache.Entry, fromCache bool) Result {
	return Result{Key: e.Key, Data: e.Data, Status: e.Status, FetchedAt: e.FetchedAt, FromCache: fromCache}
}

// Redirect is a navigation signal raised by an auth failure.
type Redirect struct {
	Outcome  guard.Outcome
	Location string
	Cause    *Error
}

type Option func(*Dispatcher)

func WithHTTPClient(client Doer) Option {
	return func(d *Dispatcher) { d.client = client }
}

func WithMetrics(m *metrics.DispatcherMetrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

func WithCache(c *cache.Cache) Option {
	return func(d *Dispatcher) { d.cache = c }
}

type Dispatcher struct {
	baseURL string
	client  Doer
	session *sessions.Store
	cache   *cache.Cache
	metrics *metrics.DispatcherMetrics
	group   singleflight.Group

	mu        sync.Mutex
	lastToken string
	observers map[int]func(Redirect)
	subs      map[int]*subscription
	nextID    int
}

// New builds a Dispatcher sending requests to baseURL with the session's
// bearer token. The cache is dropped whenever the session token changes and
// whenever the session becomes logged out.
func New(baseURL string, session *sessions.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		client:    &http.Client{Timeout: 10 * time.Second},
		session:   session,
		cache:     cache.New(),
		lastToken: session.Token(),
		observers: make(map[int]func(Redirect)),
		subs:      make(map[int]*subscription),
	}
	for _, opt := range opts {
		opt(d)
	}

	session.Subscribe(func(s sessions.Session) {
		d.mu.Lock()
		changed := s.Token != d.lastToken
		d.lastToken = s.Token
		d.mu.Unlock()
		if changed || !s.IsAuthenticated {
			d.Reset()
		}
	})
	return d
}

func (d *Dispatcher) Cache() *cache.Cache {
	return d.cache
}

// Query returns the cached result for q and params when it is ready, and
// otherwise fetches it. Concurrent callers for the same key share one request.
func (d *Dispatcher) Query(ctx context.Context, q Query, params Params) (Result, error) {
	key, err := q.Key(params)
	if err != nil {
		return Result{}, err
	}

	entry, ok := d.cache.Lookup(key)
	switch {
	case !ok:
		d.metrics.ObserveLookup(q.Name, "miss")
	case entry.Status == cache.StatusReady:
		d.metrics.ObserveLookup(q.Name, "hit")
		return resultFrom(entry, true), nil
	default:
		d.metrics.ObserveLookup(q.Name, string(entry.Status))
	}
	return d.fetch(ctx, q, params, key)
}

// Refetch issues a new request for q and params even when one is in flight.
func (d *Dispatcher) Refetch(ctx context.Context, q Query, params Params) (Result, error) {
	key, err := q.Key(params)
	if err != nil {
		return Result{}, err
	}
	d.group.Forget(key)
	return d.fetch(ctx, q, params, key)
}

// Lookup returns the cached result without fetching.
func (d *Dispatcher) Lookup(q Query, params Params) (Result, bool) {
	key, err := q.Key(params)
	if err != nil {
		return Result{}, false
	}
	entry, ok := d.cache.Lookup(key)
	if !ok {
		return Result{}, false
	}
	return resultFrom(entry, true), true
}

// Pending reports whether a request for q and params is in flight.
func (d *Dispatcher) Pending(q Query, params Params) bool {
	key, err := q.Key(params)
	if err != nil {
		return false
	}
	entry, ok := d.cache.Lookup(key)
	return ok && entry.Status == cache.StatusPending
}

type fetchResult struct {
	entry cache.Entry
}

func (d *Dispatcher) fetch(ctx context.Context, q Query, params Params, key string) (Result, error) {
	// The shared request outlives callers that give up waiting.
	shared := context.WithoutCancel(ctx)
	ch := d.group.DoChan(key, func() (any, error) {
		entry, err := d.load(shared, q, params, key)
		return fetchResult{entry: entry}, err
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case res := <-ch:
		fr, _ := res.Val.(fetchResult)
		return resultFrom(fr.entry, false), res.Err
	}
}

func (d *Dispatcher) load(ctx context.Context, q Query, params Params, key string) (cache.Entry, error) {
	full := q.withDefaults(params)
	ticket := d.cache.Begin(key, resolveTags(q.Provides, full, nil))

	body, err := d.do(ctx, q.Name, http.MethodGet, key, nil, false)
	if err != nil {
		d.metrics.ObserveFetch(q.Name, "error")
		entry, ok := d.cache.Fail(ticket, err)
		if !ok {
			d.metrics.ObserveDiscarded(q.Name)
			entry, _ = d.cache.Lookup(key)
		}
		return entry, err
	}

	d.metrics.ObserveFetch(q.Name, "ok")
	entry, ok := d.cache.Complete(ticket, body, resolveTags(q.Provides, full, body))
	if !ok {
		d.metrics.ObserveDiscarded(q.Name)
		log.Debug().Str("endpoint", q.Name).Str("key", key).Msg("discarding superseded response")
		if current, found := d.cache.Lookup(key); found && current.HasData() {
			return current, nil
		}
		return cache.Entry{Key: key, Data: body, Status: cache.StatusReady, FetchedAt: time.Now()}, nil
	}
	return entry, nil
}

// Mutate sends a write. On success every cached read carrying one of the
// mutation's tags is marked stale and active subscriptions to them refetch.
// Mutations are never retried.
func (d *Dispatcher) Mutate(ctx context.Context, m Mutation, params Params, body any) (json.RawMessage, error) {
	target, err := m.Target(params)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("encode %s request: %w", m.Name, err)
		}
	}

	resp, err := d.do(ctx, m.Name, m.Method, target, payload, m.Public)
	if err != nil {
		d.metrics.ObserveMutation(m.Name, "error")
		return nil, err
	}
	d.metrics.ObserveMutation(m.Name, "ok")

	d.Invalidate(resolveTags(m.Invalidates, params, resp)...)
	return resp, nil
}

// Invalidate marks cached reads carrying any of tags stale and refreshes
// subscriptions to them.
func (d *Dispatcher) Invalidate(tags ...cache.Tag) []string {
	keys := d.cache.Invalidate(tags...)
	for _, k := range keys {
		d.group.Forget(k)
	}
	d.metrics.ObserveInvalidated(len(keys))
	if len(keys) > 0 {
		log.Debug().Strs("keys", keys).Msg("invalidated cached reads")
		d.refreshSubscriptions(keys)
	}
	return keys
}

// Reset drops every cached read. Requests already in flight complete but
// their responses are not stored.
func (d *Dispatcher) Reset() {
	for _, k := range d.cache.Keys() {
		d.group.Forget(k)
	}
	d.cache.Clear()
}

// OnRedirect registers fn to receive navigation signals. The returned
// function removes the registration.
func (d *Dispatcher) OnRedirect(fn func(Redirect)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.observers[id] = fn
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		delete(d.observers, id)
	}
}

func (d *Dispatcher) redirect(r Redirect) {
	d.mu.Lock()
	observers := make([]func(Redirect), 0, len(d.observers))
	for _, o := range d.observers {
		observers = append(observers, o)
	}
	d.mu.Unlock()

	for _, o := range observers {
		o(r)
	}
}

func (d *Dispatcher) do(ctx context.Context, name, method, target string, payload []byte, public bool) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "dispatcher."+name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("clinic.target", target),
	)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+target, reader)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("build %s request: %w", name, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, uuid.New().String())
	var sentToken string
	if tok := d.session.BearerToken(); tok != nil {
		sentToken = tok.AccessToken
		tok.SetAuthHeader(req)
	}

	start := time.Now()
	resp, err := d.client.Do(req)
	d.metrics.ObserveLatency(name, method, time.Since(start).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		log.Err(err).Str("endpoint", name).Str("target", target).Msg("request failed")
		return nil, networkError(err)
	}
	defer func() { _ = resp.Body.Close() }()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		span.RecordError(err)
		return nil, networkError(err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := errorFromResponse(resp.StatusCode, data)
		span.RecordError(apiErr)
		span.SetStatus(codes.Error, string(apiErr.Kind))
		if !public {
			d.handleAuthFailure(apiErr, sentToken)
		}
		return nil, apiErr
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return json.RawMessage("null"), nil
	}
	if !json.Valid(data) {
		apiErr := decodeError(resp.StatusCode, fmt.Errorf("response of %s is not JSON", name))
		span.RecordError(apiErr)
		return nil, apiErr
	}
	return data, nil
}

// handleAuthFailure reacts to 401 and 403 responses. A 401 only ends the
// session whose token the request carried; a later login is left alone.
func (d *Dispatcher) handleAuthFailure(e *Error, sentToken string) {
	switch e.Kind {
	case KindAuthentication:
		if sentToken != d.session.Token() {
			log.Debug().Int("status", e.Status).Msg("ignoring 401 for a replaced session token")
			return
		}
		e.Redirect = guard.RouteLogin
		log.Warn().Int("status", e.Status).Msg("session rejected by backend, logging out")
		d.session.Logout()
		d.redirect(Redirect{Outcome: guard.OutcomeRedirectLogin, Location: guard.RouteLogin, Cause: e})
	case KindAuthorization:
		e.Redirect = guard.RouteUnauthorized
		d.redirect(Redirect{Outcome: guard.OutcomeRedirectUnauthorized, Location: guard.RouteUnauthorized, Cause: e})
	}
}
