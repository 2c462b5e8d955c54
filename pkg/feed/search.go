package feed

import (
	"strings"

	"github.com/tagmyidea/tagmyidea-web/pkg/models"
)

type SearchType string

const (
	TypeIdea SearchType = "idea"
	TypeUser SearchType = "user"
)

// ParseSearchType accepts the names and the numeric forms the search box emits.
func ParseSearchType(s string) SearchType {
	switch s {
	case "user", "1":
		return TypeUser
	default:
		return TypeIdea
	}
}

// SearchIdeas keeps ideas whose title, description or tech stack contains query.
func SearchIdeas(ideas []models.ProjectIdea, query string) []models.ProjectIdea {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.ProjectIdea, 0, len(ideas))
	if q == "" {
		return out
	}
	for _, p := range ideas {
		if ideaContains(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func ideaContains(p models.ProjectIdea, q string) bool {
	if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, t := range p.TechStack {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// SearchProfiles is FilterProfiles, except a blank query matches nothing.
func SearchProfiles(profiles []models.SimpleProfile, query string) []models.SimpleProfile {
	if strings.TrimSpace(query) == "" {
		return []models.SimpleProfile{}
	}
	return FilterProfiles(profiles, query)
}
