package users

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tagmyidea/tagmyidea-web/pkg/client"
	"github.com/tagmyidea/tagmyidea-web/pkg/models"
	"github.com/tagmyidea/tagmyidea-web/pkg/session"
	"github.com/tagmyidea/tagmyidea-web/pkg/util"
)

var ErrSubmitting = errors.New("profile update already in progress")

// Editor submits profile edits. Nothing changes locally until the server accepts.
type Editor struct {
	gw   Gateway
	sess *session.Session

	mu         sync.Mutex
	submitting bool
	editing    bool
}

func NewEditor(gw Gateway, sess *session.Session) *Editor {
	return &Editor{gw: gw, sess: sess}
}

func (e *Editor) Edit() {
	e.mu.Lock()
	e.editing = true
	e.mu.Unlock()
}

func (e *Editor) Cancel() {
	e.mu.Lock()
	e.editing = false
	e.mu.Unlock()
}

func (e *Editor) Editing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing
}

func (e *Editor) Submitting() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.submitting
}

func (e *Editor) Save(ctx context.Context, form models.ProfileForm) (*models.User, error) {
	e.mu.Lock()
	if e.submitting {
		e.mu.Unlock()
		return nil, ErrSubmitting
	}
	e.submitting = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.submitting = false
		e.mu.Unlock()
	}()

	me := e.sess.User()
	if me == nil {
		return nil, client.ErrMissingToken
	}

	form.Clean()
	if err := models.Validate(form); err != nil {
		return nil, err
	}

	if err := e.gw.UpdateProfile(ctx, form.Update(me)); err != nil {
		return nil, err
	}

	e.sess.UpdateProfile(form.Patch())
	e.Cancel()

	util.LogMessage(fmt.Sprintf("%s updated their profile", form.Username))

	return e.sess.User(), nil
}
