// Package toggle implements optimistic boolean toggles keyed by item id.
package toggle

import (
	"context"
	"errors"
	"sync"
)

var ErrPending = errors.New("a change for this item is already in progress")

// Item is the per-item reducer state. While Pending, Value already shows the
// target and From holds the value to roll back to.
type Item struct {
	Value   bool `json:"value"`
	Pending bool `json:"pending"`
	From    bool `json:"-"`
}

// Toggle starts a change. It reports false when a change is already pending.
func (i Item) Toggle() (Item, bool) {
	if i.Pending {
		return i, false
	}
	return Item{Value: !i.Value, Pending: true, From: i.Value}, true
}

func (i Item) Confirm() Item {
	return Item{Value: i.Value}
}

func (i Item) Rollback() Item {
	if !i.Pending {
		return i
	}
	return Item{Value: i.From}
}

// Call sends the target value for one item to the server.
type Call func(ctx context.Context, id string, value bool) error

type Set struct {
	mu       sync.Mutex
	items    map[string]Item
	onChange func(id string, value bool)
}

func NewSet(initial map[string]bool) *Set {
	s := &Set{items: map[string]Item{}}
	for id, v := range initial {
		s.items[id] = Item{Value: v}
	}
	return s
}

// OnChange registers fn to run after every confirmed change.
func (s *Set) OnChange(fn func(id string, value bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Reset replaces the settled values. Pending items keep their in-flight state.
func (s *Set) Reset(values map[string]bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[string]Item, len(values))
	for id, v := range values {
		next[id] = Item{Value: v}
	}
	for id, it := range s.items {
		if it.Pending {
			next[id] = it
		}
	}
	s.items = next
}

// Ensure seeds id with v unless the item is already known.
func (s *Set) Ensure(id string, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		s.items[id] = Item{Value: v}
	}
}

func (s *Set) Value(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id].Value
}

func (s *Set) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id].Pending
}

func (s *Set) States() map[string]Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Item, len(s.items))
	for id, it := range s.items {
		out[id] = it
	}
	return out
}

// Flip toggles id optimistically and issues exactly one call with the new
// value. On failure the item goes back to its previous value and the call's
// error is returned.
func (s *Set) Flip(ctx context.Context, id string, call Call) (bool, error) {
	s.mu.Lock()
	next, ok := s.items[id].Toggle()
	if !ok {
		s.mu.Unlock()
		return next.Value, ErrPending
	}
	s.items[id] = next
	s.mu.Unlock()

	err := call(ctx, id, next.Value)

	s.mu.Lock()
	cur := s.items[id]
	if err != nil {
		cur = cur.Rollback()
	} else {
		cur = cur.Confirm()
	}
	s.items[id] = cur
	onChange := s.onChange
	s.mu.Unlock()

	if err != nil {
		return cur.Value, err
	}
	if onChange != nil {
		onChange(id, cur.Value)
	}
	return cur.Value, nil
}
