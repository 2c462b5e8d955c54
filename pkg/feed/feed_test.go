package feed

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tagmyidea/tagmyidea-web/pkg/models"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func ago(days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

func sample() []models.ProjectIdea {
	return []models.ProjectIdea{
		{Id: "a", Title: "Todo CLI", Tags: models.TagEasy, Category: "tools", Upvotes: 10, CreatedAt: ago(10), TechStack: []string{"Go"}},
		{Id: "b", Title: "Chat app", Description: "realtime rooms", Tags: models.TagMedium, Category: "web", Upvotes: 30, CreatedAt: ago(30), TechStack: []string{"React", "WebSocket"}},
		{Id: "c", Title: "Compiler", Tags: models.TagHard, Category: "tools", Upvotes: 5, CreatedAt: ago(1)},
		{Id: "d", Title: "Blog", Tags: models.TagEasy, Upvotes: 2, CreatedAt: ago(2)},
	}
}

func ids(ideas []models.ProjectIdea) []string {
	out := make([]string, len(ideas))
	for i, p := range ideas {
		out[i] = p.Id
	}
	return out
}

func TestDifficultyFilter(t *testing.T) {
	ideas := sample()
	for _, d := range []string{All, "easy", "medium", "hard"} {
		t.Run(d, func(t *testing.T) {
			got := Apply(ideas, NewFilter(d, ""))
			if d == All {
				assert.Equal(t, ideas, got)
				return
			}
			want := 0
			for _, p := range ideas {
				if string(p.Tags) == d {
					want++
				}
			}
			assert.Len(t, got, want)
			for _, p := range got {
				assert.Equal(t, d, string(p.Tags))
			}
		})
	}
}

func TestCategoryFilter(t *testing.T) {
	got := Apply(sample(), Filter{Difficulty: "easy", Category: "tools"})
	assert.Equal(t, []string{"a"}, ids(got))

	assert.Equal(t, []string{"tools", "web"}, Categories(sample()))
	assert.True(t, NewFilter("", "").Valid())
	assert.False(t, NewFilter("extreme", "").Valid())
}

func TestSorted(t *testing.T) {
	ideas := sample()
	assert.Equal(t, []string{"c", "d", "a", "b"}, ids(Sorted(ideas, SortLatest, now)))
	assert.Equal(t, []string{"b", "a", "c", "d"}, ids(Sorted(ideas, SortPopular, now)))
	// c: 5/day, d: 1/day, a: 1/day, b: 1/day; ties stay in input order
	assert.Equal(t, []string{"c", "a", "b", "d"}, ids(Sorted(ideas, SortTrending, now)))

	// input untouched
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(ideas))
	assert.Equal(t, SortLatest, ParseSort("nonsense"))
}

func TestTechStackPreview(t *testing.T) {
	shown, more := TechStackPreview([]string{"a", "b", "c", "d", "e", "f"}, 4)
	assert.Equal(t, []string{"a", "b", "c", "d"}, shown)
	assert.Equal(t, 2, more)

	shown, more = TechStackPreview([]string{"a"}, 4)
	assert.Equal(t, []string{"a"}, shown)
	assert.Zero(t, more)
}

func TestProfiles(t *testing.T) {
	list := []models.SimpleProfile{{Id: "1", Username: "Ada"}, {Id: "2", Username: "grace"}}
	assert.Len(t, FilterProfiles(list, "  "), 2)
	assert.Equal(t, "1", FilterProfiles(list, "aDa")[0].Id)
	assert.Empty(t, SearchProfiles(list, ""))
	assert.Len(t, SearchProfiles(list, "a"), 2)
}

func TestSearchIdeas(t *testing.T) {
	assert.Equal(t, []string{"b"}, ids(SearchIdeas(sample(), "REALTIME")))
	assert.Equal(t, []string{"b"}, ids(SearchIdeas(sample(), "websocket")))
	assert.Empty(t, SearchIdeas(sample(), " "))

	assert.Equal(t, TypeUser, ParseSearchType("1"))
	assert.Equal(t, TypeIdea, ParseSearchType("0"))
	assert.Equal(t, TypeIdea, ParseSearchType(""))
}

func TestViewLoad(t *testing.T) {
	v := NewView[[]string]()
	assert.Equal(t, Idle, v.Snapshot().State)

	data, err := v.Load(context.Background(), func(context.Context) ([]string, error) {
		return []string{"x"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, data)
	assert.Equal(t, Ready, v.Snapshot().State)

	v.Mutate(func(d []string) []string { return append(slices.Clone(d), "y") })
	assert.Equal(t, []string{"x", "y"}, v.Snapshot().Data)
	assert.Equal(t, []string{"x"}, data)
}

func TestViewRetry(t *testing.T) {
	v := NewView[int]()
	_, err := v.Retry(context.Background())
	assert.ErrorIs(t, err, ErrNoFetch)

	calls := 0
	boom := errors.New("boom")
	_, err = v.Load(context.Background(), func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 7, nil
	})
	assert.ErrorIs(t, err, boom)
	snap := v.Snapshot()
	assert.Equal(t, Failed, snap.State)
	assert.ErrorIs(t, snap.Err, boom)

	n, err := v.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, Ready, v.Snapshot().State)
}

func TestViewDropsLateResults(t *testing.T) {
	v := NewView[string]()
	release := make(chan struct{})
	done := make(chan error)

	go func() {
		_, err := v.Load(context.Background(), func(context.Context) (string, error) {
			<-release
			return "late", nil
		})
		done <- err
	}()

	require.Eventually(t, func() bool { return v.Snapshot().State == Loading }, time.Second, time.Millisecond)
	v.Close()
	close(release)

	assert.ErrorIs(t, <-done, ErrClosed)
	assert.Equal(t, "", v.Snapshot().Data)

	_, err := v.Load(context.Background(), func(context.Context) (string, error) { return "x", nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestViewOverlappingLoads(t *testing.T) {
	v := NewView[string]()
	release := make(chan struct{})
	type result struct {
		data string
		err  error
	}
	done := make(chan result)

	go func() {
		data, err := v.Load(context.Background(), func(context.Context) (string, error) {
			<-release
			return "old", nil
		})
		done <- result{data, err}
	}()
	require.Eventually(t, func() bool { return v.Snapshot().State == Loading }, time.Second, time.Millisecond)

	data, err := v.Load(context.Background(), func(context.Context) (string, error) { return "new", nil })
	require.NoError(t, err)
	assert.Equal(t, "new", data)
	close(release)

	old := <-done
	require.NoError(t, old.err)
	assert.Equal(t, "old", old.data)
	snap := v.Snapshot()
	assert.Equal(t, Ready, snap.State)
	assert.Equal(t, "new", snap.Data)
}
