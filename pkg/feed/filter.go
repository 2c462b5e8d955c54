// Package feed derives what list views show from fetched collections.
// Everything here works on the full collection held by the client.
package feed

import (
	"slices"
	"strings"

	"github.com/tagmyidea/tagmyidea-web/pkg/models"
)

// All disables a filter.
const All = "all"

type Filter struct {
	Difficulty string `json:"difficulty"`
	Category   string `json:"category"`
}

func NewFilter(difficulty, category string) Filter {
	if difficulty == "" {
		difficulty = All
	}
	if category == "" {
		category = All
	}
	return Filter{Difficulty: difficulty, Category: category}
}

func (f Filter) Valid() bool {
	return f.Difficulty == All || models.Tag(f.Difficulty).Valid()
}

func (f Filter) Match(p models.ProjectIdea) bool {
	if f.Difficulty != All && string(p.Tags) != f.Difficulty {
		return false
	}
	if f.Category != All && p.Category != f.Category {
		return false
	}
	return true
}

// Apply returns the ideas matching f, in their original order.
func Apply(ideas []models.ProjectIdea, f Filter) []models.ProjectIdea {
	f = NewFilter(f.Difficulty, f.Category)
	out := make([]models.ProjectIdea, 0, len(ideas))
	for _, p := range ideas {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists distinct non-empty categories in first-seen order.
func Categories(ideas []models.ProjectIdea) []string {
	out := []string{}
	for _, p := range ideas {
		if p.Category != "" && !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}

// FilterProfiles keeps profiles whose username contains query, ignoring case.
func FilterProfiles(profiles []models.SimpleProfile, query string) []models.SimpleProfile {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.SimpleProfile, 0, len(profiles))
	for _, p := range profiles {
		if q == "" || strings.Contains(strings.ToLower(p.Username), q) {
			out = append(out, p)
		}
	}
	return out
}
