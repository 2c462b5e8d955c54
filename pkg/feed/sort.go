package feed

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/tagmyidea/tagmyidea-web/pkg/models"
)

type Sort string

const (
	SortLatest   Sort = "latest"
	SortPopular  Sort = "popular"
	SortTrending Sort = "trending"
)

func ParseSort(s string) Sort {
	switch Sort(s) {
	case SortPopular, SortTrending:
		return Sort(s)
	default:
		return SortLatest
	}
}

// Sorted returns a sorted copy of ideas. Ties keep their original order.
func Sorted(ideas []models.ProjectIdea, by Sort, now time.Time) []models.ProjectIdea {
	out := slices.Clone(ideas)
	switch by {
	case SortPopular:
		slices.SortStableFunc(out, func(a, b models.ProjectIdea) int {
			return cmp.Compare(b.Upvotes, a.Upvotes)
		})
	case SortTrending:
		slices.SortStableFunc(out, func(a, b models.ProjectIdea) int {
			return cmp.Compare(trendScore(b, now), trendScore(a, now))
		})
	default:
		slices.SortStableFunc(out, func(a, b models.ProjectIdea) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return out
}

// trendScore is upvotes per day of age, with anything younger than a day counted as one day.
func trendScore(p models.ProjectIdea, now time.Time) float64 {
	days := math.Max(now.Sub(p.CreatedAt).Hours()/24, 1)
	return float64(p.Upvotes) / days
}

// TechStackPreview returns at most n entries and how many were left out.
func TechStackPreview(stack []string, n int) ([]string, int) {
	if len(stack) <= n {
		return slices.Clone(stack), 0
	}
	return slices.Clone(stack[:n]), len(stack) - n
}
