package models

import (
	"encoding/json"
	"slices"
	"time"
)

type Tag string

const (
	TagEasy   Tag = "easy"
	TagMedium Tag = "medium"
	TagHard   Tag = "hard"
)

var Tags = []Tag{TagEasy, TagMedium, TagHard}

func (t Tag) Valid() bool {
	return slices.Contains(Tags, t)
}

type Author struct {
	Id       string `json:"_id"`
	Username string `json:"username"`
	Photo    string `json:"photo"`
}

type ProjectIdea struct {
	Id            string    `json:"_id" validate:"required"`
	Title         string    `json:"title" validate:"required"`
	Description   string    `json:"description"`
	HowToBuild    string    `json:"howToBuild"`
	Tags          Tag       `json:"tags" validate:"oneof=easy medium hard"`
	TechStack     []string  `json:"techStack"`
	Upvotes       int64     `json:"upvotes" validate:"gte=0"`
	CreatedAt     time.Time `json:"createdAt"`
	EstimatedTime string    `json:"estimatedTime,omitempty"`
	Category      string    `json:"category,omitempty"`
	UserId        string    `json:"userId"`
	Username      string    `json:"username"`
	Photo         string    `json:"photo"`
	Author        *Author   `json:"author,omitempty"`
}

// Normalize folds a nested author into the denormalized author fields.
func (p *ProjectIdea) Normalize() {
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	if p.Author == nil {
		return
	}
	if p.UserId == "" {
		p.UserId = p.Author.Id
	}
	if p.Username == "" {
		p.Username = p.Author.Username
	}
	if p.Photo == "" {
		p.Photo = p.Author.Photo
	}
	p.Author = nil
}

type User struct {
	Id          string        `json:"id" validate:"required"`
	Username    string        `json:"username" validate:"required"`
	Email       string        `json:"email"`
	Bio         string        `json:"bio,omitempty"`
	Photo       string        `json:"photo,omitempty"`
	Links       []string      `json:"links"`
	DateJoined  *time.Time    `json:"dateJoined,omitempty"`
	Followers   []string      `json:"followers"`
	Following   []string      `json:"following"`
	IdeasPosted []ProjectIdea `json:"ideasPosted" validate:"dive"`
	SaveIdeas   []ProjectIdea `json:"saveIdeas" validate:"dive"`
}

// UnmarshalJSON accepts both "id" and the backend's "_id".
func (u *User) UnmarshalJSON(b []byte) error {
	type alias User
	aux := struct {
		*alias
		MongoId string `json:"_id"`
	}{alias: (*alias)(u)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if u.Id == "" {
		u.Id = aux.MongoId
	}
	for i := range u.IdeasPosted {
		u.IdeasPosted[i].Normalize()
	}
	for i := range u.SaveIdeas {
		u.SaveIdeas[i].Normalize()
	}
	return nil
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Links = slices.Clone(u.Links)
	c.Followers = slices.Clone(u.Followers)
	c.Following = slices.Clone(u.Following)
	c.IdeasPosted = slices.Clone(u.IdeasPosted)
	c.SaveIdeas = slices.Clone(u.SaveIdeas)
	return &c
}

func (u *User) IsFollowing(id string) bool {
	return slices.Contains(u.Following, id)
}

func (u *User) HasSaved(ideaId string) bool {
	return slices.ContainsFunc(u.SaveIdeas, func(p ProjectIdea) bool { return p.Id == ideaId })
}

// ProfilePatch is a partial user; nil fields are left unchanged.
type ProfilePatch struct {
	Username *string
	Bio      *string
	Photo    *string
	Links    []string
}

func (u *User) Apply(p ProfilePatch) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Photo != nil {
		u.Photo = *p.Photo
	}
	if p.Links != nil {
		u.Links = slices.Clone(p.Links)
	}
}

type SimpleProfile struct {
	Id       string `json:"_id" validate:"required"`
	Username string `json:"username" validate:"required"`
	Photo    string `json:"photo,omitempty"`
}

// ProfileUpdate is the body of PUT /user/update.
type ProfileUpdate struct {
	Id         string     `json:"id"`
	Email      string     `json:"email"`
	DateJoined *time.Time `json:"dateJoined,omitempty"`
	Followers  []string   `json:"followers"`
	Following  []string   `json:"following"`
	Username   string     `json:"username"`
	Bio        string     `json:"bio"`
	Photo      string     `json:"photo"`
	Links      []string   `json:"links"`
}
