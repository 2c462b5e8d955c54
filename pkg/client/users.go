package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tagmyidea/tagmyidea-web/pkg/models"
)

func (c *Client) FetchCurrentUser(ctx context.Context) (*models.User, error) {
	body, err := c.send(ctx, call{
		method:   http.MethodGet,
		path:     "/user/fetch-logged-user",
		resource: "user",
	})
	if err != nil {
		return nil, report("fetch current user", err)
	}
	u, err := decodeUser(body)
	return u, report("fetch current user", err)
}

func (c *Client) FetchUser(ctx context.Context, id string) (*models.User, error) {
	body, err := c.send(ctx, call{
		method:   http.MethodGet,
		path:     "/user/fetch-user/" + url.PathEscape(id),
		resource: "user",
	})
	if err != nil {
		return nil, report("fetch user", err)
	}
	u, err := decodeUser(body)
	return u, report("fetch user", err)
}

func (c *Client) UpdateProfile(ctx context.Context, update models.ProfileUpdate) error {
	_, err := c.send(ctx, call{
		method:   http.MethodPut,
		path:     "/user/update",
		body:     update,
		resource: "user",
	})
	return report("update profile", err)
}

// FetchUserList resolves a list of user ids into profiles.
func (c *Client) FetchUserList(ctx context.Context, ids []string) ([]models.SimpleProfile, error) {
	if ids == nil {
		ids = []string{}
	}
	list, err := json.Marshal(ids)
	if err != nil {
		return nil, err
	}

	body, err := c.send(ctx, call{
		method:   http.MethodGet,
		path:     "/user/fetch-list",
		query:    url.Values{"list": {string(list)}},
		resource: "user list",
	})
	if err != nil {
		return nil, report("fetch user list", err)
	}

	raw, err := envelope(body, "list")
	if err != nil {
		return nil, report("fetch user list", err)
	}

	var profiles []models.SimpleProfile
	if err := decode(raw, &profiles); err != nil {
		return nil, report("fetch user list", err)
	}
	for _, p := range profiles {
		if err := models.Validate(p); err != nil {
			return nil, report("fetch user list", fmt.Errorf("%w: %v", ErrBadResponse, err))
		}
	}
	if profiles == nil {
		profiles = []models.SimpleProfile{}
	}
	return profiles, nil
}

func (c *Client) Follow(ctx context.Context, id string) error {
	body, err := c.send(ctx, call{
		method:   http.MethodPost,
		path:     "/user/follow",
		body:     map[string]string{"followId": id},
		resource: "user",
	})
	if err != nil {
		return report("follow", err)
	}
	return report("follow", ack(body, true))
}

func (c *Client) Unfollow(ctx context.Context, id string) error {
	body, err := c.send(ctx, call{
		method:   http.MethodPost,
		path:     "/user/unfollow",
		body:     map[string]string{"unfollowId": id},
		resource: "user",
	})
	if err != nil {
		return report("unfollow", err)
	}
	return report("unfollow", ack(body, true))
}

func decodeUser(body []byte) (*models.User, error) {
	raw, err := envelope(body, "user")
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := decode(raw, &u); err != nil {
		return nil, err
	}
	if err := models.Validate(u); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return &u, nil
}
