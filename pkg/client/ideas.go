package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tagmyidea/tagmyidea-web/pkg/models"
)

// FetchFeed returns the signed-in user's feed. The backend answers either
// with an array or with an object holding an "ideas" array.
func (c *Client) FetchFeed(ctx context.Context) ([]models.ProjectIdea, error) {
	body, err := c.send(ctx, call{
		method:   http.MethodGet,
		path:     "/user/feed",
		resource: "feed",
	})
	if err != nil {
		return nil, report("fetch feed", err)
	}

	raw, err := envelope(body, "feed")
	if err != nil {
		return nil, report("fetch feed", err)
	}

	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		raw, err = envelope(raw, "ideas")
		if err != nil {
			return nil, report("fetch feed", err)
		}
	}

	ideas, err := decodeIdeas(raw)
	return ideas, report("fetch feed", err)
}

// Upvote asks the server to count a vote and returns the count it reports.
func (c *Client) Upvote(ctx context.Context, ideaId string) (int64, error) {
	body, err := c.send(ctx, call{
		method:   http.MethodPost,
		path:     "/idea/upvote",
		body:     map[string]string{"ideaId": ideaId},
		resource: "idea",
	})
	if err != nil {
		return 0, report("upvote", err)
	}

	if raw, err := envelope(body, "upvotes"); err == nil {
		var count int64
		if err := decode(raw, &count); err != nil {
			return 0, report("upvote", err)
		}
		return count, nil
	}

	raw, err := envelope(body, "idea")
	if err != nil {
		return 0, report("upvote", err)
	}
	var idea models.ProjectIdea
	if err := decode(raw, &idea); err != nil {
		return 0, report("upvote", err)
	}
	return idea.Upvotes, nil
}

func (c *Client) CreateIdea(ctx context.Context, idea models.IdeaForm) error {
	_, err := c.send(ctx, call{
		method:   http.MethodPost,
		path:     "/idea/create",
		body:     map[string]models.IdeaForm{"idea": idea},
		resource: "idea",
	})
	return report("create idea", err)
}

func (c *Client) FetchSavedIdeas(ctx context.Context, userId string) ([]models.ProjectIdea, error) {
	body, err := c.send(ctx, call{
		method:   http.MethodGet,
		path:     "/user/get-saved-ideas/" + url.PathEscape(userId),
		resource: "saved ideas",
	})
	if err != nil {
		return nil, report("fetch saved ideas", err)
	}

	raw, err := envelope(body, "savedIdeas")
	if err != nil {
		return nil, report("fetch saved ideas", err)
	}

	ideas, err := decodeIdeas(raw)
	return ideas, report("fetch saved ideas", err)
}

func (c *Client) UpdateSavedIdeas(ctx context.Context, ideaId string, save bool) error {
	body, err := c.send(ctx, call{
		method: http.MethodPut,
		path:   "/user/update-saved-ideas",
		body: struct {
			IdeaId string `json:"ideaId"`
			Save   bool   `json:"save"`
		}{ideaId, save},
		resource: "idea",
	})
	if err != nil {
		return report("update saved ideas", err)
	}
	return report("update saved ideas", ack(body, false))
}

func decodeIdeas(raw []byte) ([]models.ProjectIdea, error) {
	var ideas []models.ProjectIdea
	if err := decode(raw, &ideas); err != nil {
		return nil, err
	}
	for i := range ideas {
		ideas[i].Normalize()
		if err := models.Validate(ideas[i]); err != nil {
			return nil, fmt.Errorf("%w: idea %d: %v", ErrBadResponse, i, err)
		}
	}
	if ideas == nil {
		ideas = []models.ProjectIdea{}
	}
	return ideas, nil
}
