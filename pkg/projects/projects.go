package projects

import (
	"context"

	"github.com/tagmyidea/tagmyidea-web/pkg/feed"
	"github.com/tagmyidea/tagmyidea-web/pkg/models"
)

// PreviewSize is how many tech stack entries a card shows.
const PreviewSize = 4

type Gateway interface {
	FetchFeed(ctx context.Context) ([]models.ProjectIdea, error)
	Upvote(ctx context.Context, ideaId string) (int64, error)
	CreateIdea(ctx context.Context, idea models.IdeaForm) error
	FetchSavedIdeas(ctx context.Context, userId string) ([]models.ProjectIdea, error)
	UpdateSavedIdeas(ctx context.Context, ideaId string, save bool) error
}

// Card is an idea as a list renders it.
type Card struct {
	models.ProjectIdea
	Preview []string `json:"techStackPreview"`
	More    int      `json:"techStackMore"`
	Saved   bool     `json:"saved"`
}

func NewCard(p models.ProjectIdea, saved bool) Card {
	preview, more := feed.TechStackPreview(p.TechStack, PreviewSize)
	return Card{
		ProjectIdea: p,
		Preview:     preview,
		More:        more,
		Saved:       saved,
	}
}

func Cards(ideas []models.ProjectIdea, saved func(id string) bool) []Card {
	cards := make([]Card, 0, len(ideas))
	for _, p := range ideas {
		cards = append(cards, NewCard(p, saved(p.Id)))
	}
	return cards
}
