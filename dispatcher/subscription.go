package dispatcher

import (
	"context"
	"slices"
	"sync"
	"time"
)

type subscription struct {
	key    string
	query  Query
	params Params
	ctx    context.Context
	fn     func(Result, error)

	mu            sync.Mutex
	active        bool
	lastFetchedAt time.Time
}

func (s *subscription) deliver(res Result, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || s.ctx.Err() != nil {
		return
	}
	// A slower earlier fetch must not overwrite a newer result.
	if err == nil && res.FetchedAt.Before(s.lastFetchedAt) {
		return
	}
	if err == nil {
		s.lastFetchedAt = res.FetchedAt
	}
	s.fn(res, err)
}

func (s *subscription) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// Subscribe keeps a query live: fn receives the initial result and a fresh
// one every time the query is invalidated. Calls to fn are serialised. After
// the returned function is called or ctx is done, fn is not called again.
// fn must not call the returned function itself; cancel ctx instead.
func (d *Dispatcher) Subscribe(ctx context.Context, q Query, params Params, fn func(Result, error)) (func(), error) {
	key, err := q.Key(params)
	if err != nil {
		return nil, err
	}

	sub := &subscription{key: key, query: q, params: params, ctx: ctx, fn: fn, active: true}

	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.subs[id] = sub
	d.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.subs, id)
			d.mu.Unlock()
			sub.stop()
		})
	}
	stopAfter := context.AfterFunc(ctx, unsubscribe)

	go d.refresh(sub)
	return func() {
		stopAfter()
		unsubscribe()
	}, nil
}

func (d *Dispatcher) refresh(sub *subscription) {
	res, err := d.Query(sub.ctx, sub.query, sub.params)
	if sub.ctx.Err() != nil {
		return
	}
	sub.deliver(res, err)
}

func (d *Dispatcher) refreshSubscriptions(keys []string) {
	d.mu.Lock()
	var due []*subscription
	for _, sub := range d.subs {
		if slices.Contains(keys, sub.key) {
			due = append(due, sub)
		}
	}
	d.mu.Unlock()

	for _, sub := range due {
		go d.refresh(sub)
	}
}
