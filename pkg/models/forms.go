package models

import (
	"slices"
	"strings"
)

type IdeaForm struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	HowToBuild  string   `json:"howToBuild" validate:"required"`
	Tags        Tag      `json:"tags" validate:"required,oneof=easy medium hard"`
	TechStack   []string `json:"techStack" validate:"dive,required"`
}

func NewIdeaForm() IdeaForm {
	return IdeaForm{Tags: TagEasy, TechStack: []string{}}
}

// AddTech appends a trimmed technology unless it is blank or already listed.
func (f *IdeaForm) AddTech(tech string) bool {
	var ok bool
	f.TechStack, ok = addUnique(f.TechStack, tech)
	return ok
}

func (f *IdeaForm) RemoveTech(tech string) {
	f.TechStack = remove(f.TechStack, tech)
}

// Clean trims text fields and rebuilds the tech stack without blanks or duplicates.
func (f *IdeaForm) Clean() {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.HowToBuild = strings.TrimSpace(f.HowToBuild)
	stack := f.TechStack
	f.TechStack = []string{}
	for _, t := range stack {
		f.AddTech(t)
	}
}

type ProfileForm struct {
	Username string   `json:"username" validate:"required"`
	Bio      string   `json:"bio"`
	Photo    string   `json:"photo"`
	Links    []string `json:"links" validate:"dive,required"`
}

// ProfileFormFor prefills the edit form from u.
func ProfileFormFor(u *User) ProfileForm {
	links := slices.Clone(u.Links)
	if links == nil {
		links = []string{}
	}
	return ProfileForm{
		Username: u.Username,
		Bio:      u.Bio,
		Photo:    u.Photo,
		Links:    links,
	}
}

func (f *ProfileForm) AddLink(link string) bool {
	var ok bool
	f.Links, ok = addUnique(f.Links, link)
	return ok
}

func (f *ProfileForm) RemoveLink(link string) {
	f.Links = remove(f.Links, link)
}

func (f *ProfileForm) Clean() {
	f.Username = strings.TrimSpace(f.Username)
	f.Bio = strings.TrimSpace(f.Bio)
	f.Photo = strings.TrimSpace(f.Photo)
	links := f.Links
	f.Links = []string{}
	for _, l := range links {
		f.AddLink(l)
	}
}

// Update builds the full profile body the backend expects from u and the form.
func (f ProfileForm) Update(u *User) ProfileUpdate {
	return ProfileUpdate{
		Id:         u.Id,
		Email:      u.Email,
		DateJoined: u.DateJoined,
		Followers:  u.Followers,
		Following:  u.Following,
		Username:   f.Username,
		Bio:        f.Bio,
		Photo:      f.Photo,
		Links:      f.Links,
	}
}

func (f ProfileForm) Patch() ProfilePatch {
	return ProfilePatch{
		Username: &f.Username,
		Bio:      &f.Bio,
		Photo:    &f.Photo,
		Links:    slices.Clone(f.Links),
	}
}

func addUnique(list []string, s string) ([]string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || slices.Contains(list, s) {
		return list, false
	}
	return append(list, s), true
}

func remove(list []string, s string) []string {
	return slices.DeleteFunc(slices.Clone(list), func(v string) bool { return v == s })
}
