package projects

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/tagmyidea/tagmyidea-web/pkg/feed"
	"github.com/tagmyidea/tagmyidea-web/pkg/models"
	"github.com/tagmyidea/tagmyidea-web/pkg/session"
)

type Hero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	SignIn   string `json:"signIn"`
}

type EmptyState struct {
	Message string `json:"message"`
	Action  string `json:"action"`
}

type Query struct {
	Filter feed.Filter
	Sort   feed.Sort
	// Retry re-runs the last feed request, e.g. after a failed load.
	Retry bool
}

type Home struct {
	SignedIn   bool        `json:"signedIn"`
	Hero       *Hero       `json:"hero,omitempty"`
	Heading    string      `json:"heading,omitempty"`
	Count      int         `json:"count"`
	Ideas      []Card      `json:"ideas,omitempty"`
	Categories []string    `json:"categories,omitempty"`
	Filter     feed.Filter `json:"filter"`
	Sort       feed.Sort   `json:"sort"`
	Empty      *EmptyState `json:"empty,omitempty"`
}

// Feed is the home feed of the signed-in user. Switching users drops the
// loaded feed along with any load still in flight for the previous user.
type Feed struct {
	gw    Gateway
	sess  *session.Session
	saves *Saves

	mu    sync.Mutex
	owner string
	view  *feed.View[[]models.ProjectIdea]
}

func NewFeed(gw Gateway, sess *session.Session, saves *Saves) *Feed {
	f := &Feed{
		gw:    gw,
		sess:  sess,
		saves: saves,
		owner: userId(sess.User()),
		view:  feed.NewView[[]models.ProjectIdea](),
	}
	sess.Subscribe(func(u *models.User) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if id := userId(u); id != f.owner {
			f.owner = id
			f.view.Close()
			f.view = feed.NewView[[]models.ProjectIdea]()
		}
	})
	return f
}

func (f *Feed) current() *feed.View[[]models.ProjectIdea] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

// Home renders the landing page. Signed out visitors get the hero and no
// feed request is made.
func (f *Feed) Home(ctx context.Context, q Query, signIn string, now time.Time) (*Home, error) {
	q.Filter = feed.NewFilter(q.Filter.Difficulty, q.Filter.Category)
	if q.Sort == "" {
		q.Sort = feed.SortLatest
	}

	if f.sess.User() == nil {
		return &Home{
			Hero: &Hero{
				Title:    "Find your next project idea",
				Subtitle: "Browse ideas by difficulty, save the ones you like and share your own.",
				SignIn:   signIn,
			},
			Filter: q.Filter,
			Sort:   q.Sort,
		}, nil
	}

	ideas, err := f.load(ctx, q.Retry)
	if err != nil {
		return nil, err
	}
	f.saves.Seed(ideas)

	shown := feed.Sorted(feed.Apply(ideas, q.Filter), q.Sort, now)
	home := &Home{
		SignedIn:   true,
		Heading:    fmt.Sprintf("Your Feed (%d ideas)", len(shown)),
		Count:      len(shown),
		Ideas:      Cards(shown, f.saves.Value),
		Categories: feed.Categories(ideas),
		Filter:     q.Filter,
		Sort:       q.Sort,
	}
	if len(ideas) == 0 {
		home.Empty = &EmptyState{
			Message: "No ideas in your feed yet",
			Action:  "/create",
		}
	}
	return home, nil
}

func (f *Feed) load(ctx context.Context, retry bool) ([]models.ProjectIdea, error) {
	view := f.current()
	if retry {
		ideas, err := view.Retry(ctx)
		if !errors.Is(err, feed.ErrNoFetch) {
			return ideas, err
		}
	}
	return view.Load(ctx, f.gw.FetchFeed)
}

// Search looks through the loaded feed, loading it first if needed.
func (f *Feed) Search(ctx context.Context, query string) ([]Card, error) {
	view := f.current()
	snap := view.Snapshot()
	ideas := snap.Data
	if snap.State != feed.Ready {
		var err error
		if ideas, err = view.Load(ctx, f.gw.FetchFeed); err != nil {
			return nil, err
		}
	}
	return Cards(feed.SearchIdeas(ideas, query), f.saves.Value), nil
}

// Upvote records a vote and takes the server's count as the new one.
func (f *Feed) Upvote(ctx context.Context, ideaId string) (int64, error) {
	count, err := f.gw.Upvote(ctx, ideaId)
	if err != nil {
		return 0, err
	}
	f.current().Mutate(func(ideas []models.ProjectIdea) []models.ProjectIdea {
		ideas = slices.Clone(ideas)
		for i := range ideas {
			if ideas[i].Id == ideaId {
				ideas[i].Upvotes = count
			}
		}
		return ideas
	})
	return count, nil
}

func userId(u *models.User) string {
	if u == nil {
		return ""
	}
	return u.Id
}
