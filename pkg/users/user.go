package users

import (
	"context"

	"github.com/tagmyidea/tagmyidea-web/pkg/client"
	"github.com/tagmyidea/tagmyidea-web/pkg/feed"
	"github.com/tagmyidea/tagmyidea-web/pkg/models"
	"github.com/tagmyidea/tagmyidea-web/pkg/session"
)

type Profile struct {
	User        *models.User        `json:"user"`
	Own         bool                `json:"own"`
	Followers   int                 `json:"followers"`
	Following   int                 `json:"following"`
	IsFollowing bool                `json:"isFollowing"`
	Form        *models.ProfileForm `json:"form,omitempty"`
	Editing     bool                `json:"editing"`
}

// LoadProfile shows the signed-in user when id is empty or their own id,
// and fetches anyone else by id.
func LoadProfile(ctx context.Context, gw Gateway, sess *session.Session, id string) (*Profile, error) {
	me := sess.User()

	if id == "" || (me != nil && me.Id == id) {
		if me == nil {
			return nil, client.ErrMissingToken
		}
		form := models.ProfileFormFor(me)
		return &Profile{
			User:      me,
			Own:       true,
			Followers: len(me.Followers),
			Following: len(me.Following),
			Form:      &form,
		}, nil
	}

	user, err := gw.FetchUser(ctx, id)
	if err != nil {
		return nil, err
	}
	p := &Profile{
		User:      user,
		Followers: len(user.Followers),
		Following: len(user.Following),
	}
	if me != nil {
		p.IsFollowing = me.IsFollowing(id)
	}
	return p, nil
}

// Connections resolves ids to profiles and keeps those matching query.
// No request is made for an empty list.
func Connections(ctx context.Context, gw Gateway, ids []string, query string) ([]models.SimpleProfile, error) {
	if len(ids) == 0 {
		return []models.SimpleProfile{}, nil
	}
	list, err := gw.FetchUserList(ctx, ids)
	if err != nil {
		return nil, err
	}
	return feed.FilterProfiles(list, query), nil
}
