// Package session holds the signed-in user for one application load.
package session

import (
	"context"
	"slices"
	"sync"

	"github.com/tagmyidea/tagmyidea-web/pkg/db"
	"github.com/tagmyidea/tagmyidea-web/pkg/models"
)

type UserFetcher interface {
	FetchCurrentUser(ctx context.Context) (*models.User, error)
}

type Session struct {
	client  UserFetcher
	storage db.Storage

	mu        sync.RWMutex
	user      *models.User
	loading   bool
	listeners []func(*models.User)
}

func New(client UserFetcher, storage db.Storage) *Session {
	return &Session{
		client:  client,
		storage: storage,
		loading: true,
	}
}

// Init loads the current user when a token is stored. A failure leaves the
// session signed out; the error is returned only so callers can log it.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var (
		user *models.User
		err  error
	)
	token, ok, serr := s.storage.Get(db.TokenKey)
	switch {
	case serr != nil:
		err = serr
	case ok && token != "":
		user, err = s.client.FetchCurrentUser(ctx)
	}
	if err != nil {
		user = nil
	}

	s.mu.Lock()
	s.user = user
	s.loading = false
	s.mu.Unlock()

	s.notify()
	return err
}

// SignIn stores a token handed back by the sign-in redirect and loads its user.
func (s *Session) SignIn(ctx context.Context, token string) error {
	if err := s.storage.Set(db.TokenKey, token); err != nil {
		return err
	}
	return s.Init(ctx)
}

func (s *Session) Refresh(ctx context.Context) error {
	return s.Init(ctx)
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

func (s *Session) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) Logout() error {
	err := s.storage.Remove(db.TokenKey)

	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	s.notify()
	return err
}

// UpdateProfile merges patch into the local user. It does not contact the server.
func (s *Session) UpdateProfile(patch models.ProfilePatch) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	s.user.Apply(patch)
	s.mu.Unlock()

	s.notify()
}

// SetFollowing records a confirmed follow or unfollow of id locally.
func (s *Session) SetFollowing(id string, following bool) {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return
	}
	has := slices.Contains(s.user.Following, id)
	switch {
	case following && !has:
		s.user.Following = append(s.user.Following, id)
	case !following && has:
		s.user.Following = slices.DeleteFunc(s.user.Following, func(v string) bool { return v == id })
	default:
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.notify()
}

// Subscribe registers fn to be called with the new user after every change.
func (s *Session) Subscribe(fn func(*models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) notify() {
	s.mu.RLock()
	user := s.user.Clone()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(user.Clone())
	}
}
