package users

import (
	"context"
	"errors"

	"github.com/tagmyidea/tagmyidea-web/pkg/client"
	"github.com/tagmyidea/tagmyidea-web/pkg/models"
	"github.com/tagmyidea/tagmyidea-web/pkg/session"
	"github.com/tagmyidea/tagmyidea-web/pkg/toggle"
)

var ErrSelfFollow = errors.New("you cannot follow yourself")

type Gateway interface {
	FetchUser(ctx context.Context, id string) (*models.User, error)
	FetchUserList(ctx context.Context, ids []string) ([]models.SimpleProfile, error)
	Follow(ctx context.Context, id string) error
	Unfollow(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) error
}

// FollowingStates maps every id user follows to true, and every profile in
// profiles the user does not follow to false.
func FollowingStates(user *models.User, profiles []models.SimpleProfile) map[string]bool {
	states := map[string]bool{}
	if user == nil {
		return states
	}
	for _, id := range user.Following {
		states[id] = true
	}
	for _, p := range profiles {
		if _, ok := states[p.Id]; !ok {
			states[p.Id] = false
		}
	}
	return states
}

// Follows is the follow toggle of the signed-in user. Confirmed changes are
// written back into the session, and the set follows the session.
type Follows struct {
	gw   Gateway
	sess *session.Session
	set  *toggle.Set
}

func NewFollows(gw Gateway, sess *session.Session) *Follows {
	f := &Follows{
		gw:   gw,
		sess: sess,
		set:  toggle.NewSet(FollowingStates(sess.User(), nil)),
	}
	f.set.OnChange(sess.SetFollowing)
	sess.Subscribe(func(u *models.User) {
		f.set.Reset(FollowingStates(u, nil))
	})
	return f
}

// Seed makes sure every profile in profiles has a state.
func (f *Follows) Seed(profiles []models.SimpleProfile) {
	for _, p := range profiles {
		f.set.Ensure(p.Id, false)
	}
}

func (f *Follows) IsFollowing(id string) bool {
	return f.set.Value(id)
}

func (f *Follows) States() map[string]bool {
	out := map[string]bool{}
	for id, it := range f.set.States() {
		out[id] = it.Value
	}
	return out
}

// Toggle follows or unfollows id and returns the resulting state.
func (f *Follows) Toggle(ctx context.Context, id string) (bool, error) {
	me := f.sess.User()
	if me == nil {
		return false, client.ErrMissingToken
	}
	if me.Id == id {
		return false, ErrSelfFollow
	}
	return f.set.Flip(ctx, id, func(ctx context.Context, id string, follow bool) error {
		if follow {
			return f.gw.Follow(ctx, id)
		}
		return f.gw.Unfollow(ctx, id)
	})
}
