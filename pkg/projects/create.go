package projects

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tagmyidea/tagmyidea-web/pkg/models"
	"github.com/tagmyidea/tagmyidea-web/pkg/util"
)

var ErrSubmitting = errors.New("idea is already being submitted")

type Draft struct {
	Form       models.IdeaForm `json:"form"`
	Tags       []models.Tag    `json:"tags"`
	Submitting bool            `json:"submitting"`
}

// Composer submits new ideas, one at a time.
type Composer struct {
	gw Gateway

	mu         sync.Mutex
	submitting bool
}

func NewComposer(gw Gateway) *Composer {
	return &Composer{gw: gw}
}

func (c *Composer) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Draft{
		Form:       models.NewIdeaForm(),
		Tags:       models.Tags,
		Submitting: c.submitting,
	}
}

// Submit returns where to navigate once the idea is created.
func (c *Composer) Submit(ctx context.Context, form models.IdeaForm) (string, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return "", ErrSubmitting
	}
	c.submitting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	form.Clean()
	if err := models.Validate(form); err != nil {
		return "", err
	}
	if err := c.gw.CreateIdea(ctx, form); err != nil {
		return "", err
	}

	util.LogMessage(fmt.Sprintf("New idea posted: %s", form.Title))
	return "/", nil
}
