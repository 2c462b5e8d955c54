package feed

import (
	"context"
	"errors"
	"sync"
)

type State string

const (
	Idle    State = "idle"
	Loading State = "loading"
	Ready   State = "ready"
	Failed  State = "failed"
)

var (
	ErrClosed  = errors.New("view closed")
	ErrNoFetch = errors.New("nothing to retry")
)

type Fetch[T any] func(ctx context.Context) (T, error)

// Snapshot is what a page renders.
type Snapshot[T any] struct {
	State State `json:"state"`
	Data  T     `json:"data"`
	Err   error `json:"-"`
}

// View holds one loadable collection. Only the newest load of a live view
// commits its result. Data handed out by Load and Snapshot is shared and must
// be treated as read only.
type View[T any] struct {
	mu     sync.Mutex
	state  State
	data   T
	err    error
	gen    uint64
	closed bool
	last   Fetch[T]
}

func NewView[T any]() *View[T] {
	return &View[T]{state: Idle}
}

// Load runs fetch and commits its result. A load overtaken by a newer one
// still returns what it fetched but leaves the view untouched.
func (v *View[T]) Load(ctx context.Context, fetch Fetch[T]) (T, error) {
	var zero T

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return zero, ErrClosed
	}
	v.gen++
	gen := v.gen
	v.state = Loading
	v.err = nil
	v.last = fetch
	v.mu.Unlock()

	data, err := fetch(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.closed:
		return zero, ErrClosed
	case gen != v.gen:
		return data, err
	case err != nil:
		v.state = Failed
		v.err = err
		return zero, err
	}
	v.state = Ready
	v.data = data
	return data, nil
}

// Retry re-runs the last fetch.
func (v *View[T]) Retry(ctx context.Context) (T, error) {
	v.mu.Lock()
	fetch := v.last
	v.mu.Unlock()
	if fetch == nil {
		var zero T
		return zero, ErrNoFetch
	}
	return v.Load(ctx, fetch)
}

// Mutate replaces loaded data with fn's result, e.g. after a confirmed
// upvote. fn must build a new value rather than edit the one it is given.
// It does nothing unless the view is ready.
func (v *View[T]) Mutate(fn func(T) T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || v.state != Ready {
		return
	}
	v.data = fn(v.data)
}

func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot[T]{State: v.state, Data: v.data, Err: v.err}
}

func (v *View[T]) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}
