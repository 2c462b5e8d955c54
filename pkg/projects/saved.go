package projects

import (
	"context"
	"sync"

	"github.com/tagmyidea/tagmyidea-web/pkg/client"
	"github.com/tagmyidea/tagmyidea-web/pkg/models"
	"github.com/tagmyidea/tagmyidea-web/pkg/session"
	"github.com/tagmyidea/tagmyidea-web/pkg/toggle"
)

// Saves is the save toggle of the signed-in user.
type Saves struct {
	gw   Gateway
	sess *session.Session
	set  *toggle.Set

	mu    sync.Mutex
	owner string
}

func savedStates(u *models.User) map[string]bool {
	states := map[string]bool{}
	if u == nil {
		return states
	}
	for _, p := range u.SaveIdeas {
		states[p.Id] = true
	}
	return states
}

func NewSaves(gw Gateway, sess *session.Session) *Saves {
	u := sess.User()
	s := &Saves{
		gw:    gw,
		sess:  sess,
		set:   toggle.NewSet(savedStates(u)),
		owner: userId(u),
	}
	sess.Subscribe(func(u *models.User) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if id := userId(u); id != s.owner {
			s.owner = id
			s.set.Reset(savedStates(u))
		}
	})
	return s
}

// Seed gives every idea in ideas a state, taken from the user's saved ideas.
func (s *Saves) Seed(ideas []models.ProjectIdea) {
	me := s.sess.User()
	for _, p := range ideas {
		s.set.Ensure(p.Id, me != nil && me.HasSaved(p.Id))
	}
}

func (s *Saves) Value(id string) bool {
	return s.set.Value(id)
}

func (s *Saves) Toggle(ctx context.Context, ideaId string) (bool, error) {
	if s.sess.User() == nil {
		return false, client.ErrMissingToken
	}
	return s.set.Flip(ctx, ideaId, s.gw.UpdateSavedIdeas)
}

// Saved lists the user's saved ideas as the server has them.
func (s *Saves) Saved(ctx context.Context) ([]Card, error) {
	me := s.sess.User()
	if me == nil {
		return nil, client.ErrMissingToken
	}
	ideas, err := s.gw.FetchSavedIdeas(ctx, me.Id)
	if err != nil {
		return nil, err
	}
	for _, p := range ideas {
		s.set.Ensure(p.Id, true)
	}
	return Cards(ideas, s.set.Value), nil
}
