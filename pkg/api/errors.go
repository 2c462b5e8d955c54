package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/tagmyidea/tagmyidea-web/pkg/client"
	"github.com/tagmyidea/tagmyidea-web/pkg/feed"
	"github.com/tagmyidea/tagmyidea-web/pkg/models"
	"github.com/tagmyidea/tagmyidea-web/pkg/projects"
	"github.com/tagmyidea/tagmyidea-web/pkg/toggle"
	"github.com/tagmyidea/tagmyidea-web/pkg/uploads"
	"github.com/tagmyidea/tagmyidea-web/pkg/users"
	"github.com/tagmyidea/tagmyidea-web/pkg/util"
)

type Error struct {
	err      string
	code     int
	retry    bool
	redirect string
}

var (
	NotFound            = Error{err: "Resource not found", code: http.StatusNotFound}
	InternalServerError = Error{err: "Something went wrong", code: http.StatusInternalServerError, retry: true}
	Unauthorized        = Error{err: "Please sign in to continue", code: http.StatusUnauthorized, redirect: "/login"}
	InvalidForm         = Error{err: "Invalid form", code: http.StatusBadRequest}
	Unavailable         = Error{err: "Photo uploads are not configured", code: http.StatusServiceUnavailable}
)

type errorResp struct {
	Error    string `json:"error"`
	Retry    bool   `json:"retry"`
	Redirect string `json:"redirect,omitempty"`
}

func SendError(w http.ResponseWriter, err Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.code)
	json.NewEncoder(w).Encode(errorResp{Error: err.err, Retry: err.retry, Redirect: err.redirect})
}

// errorFor maps a failure from the lower layers to what the page is shown.
func errorFor(err error) Error {
	var (
		serr *client.ServerError
		verr *models.ValidationError
	)
	switch {
	case errors.Is(err, client.ErrMissingToken):
		return Unauthorized
	case errors.Is(err, client.ErrUnauthorized):
		return Error{err: err.Error(), code: http.StatusUnauthorized, redirect: "/login"}
	case errors.Is(err, client.ErrNotFound):
		return Error{err: err.Error(), code: http.StatusNotFound}
	case errors.As(err, &serr):
		return Error{err: serr.Message, code: http.StatusBadGateway, retry: true}
	case errors.Is(err, client.ErrNetwork):
		return Error{err: client.ErrNetwork.Error(), code: http.StatusServiceUnavailable, retry: true}
	case errors.Is(err, client.ErrBadResponse):
		return Error{err: client.ErrBadResponse.Error(), code: http.StatusBadGateway, retry: true}
	case errors.As(err, &verr):
		return Error{err: verr.Error(), code: http.StatusBadRequest}
	case errors.Is(err, util.ErrInvalidForm):
		return InvalidForm
	case errors.Is(err, users.ErrSelfFollow):
		return Error{err: err.Error(), code: http.StatusBadRequest}
	case errors.Is(err, toggle.ErrPending), errors.Is(err, projects.ErrSubmitting), errors.Is(err, users.ErrSubmitting):
		return Error{err: err.Error(), code: http.StatusConflict}
	case errors.Is(err, feed.ErrClosed):
		return Error{err: "This page changed while loading", code: http.StatusConflict, retry: true}
	case errors.Is(err, uploads.ErrUnsupported):
		return Error{err: err.Error(), code: http.StatusUnsupportedMediaType}
	case errors.Is(err, uploads.ErrTooLarge):
		return Error{err: err.Error(), code: http.StatusRequestEntityTooLarge}
	}
	return InternalServerError
}

// fail writes err to the page. A rejected token also signs the session out.
func (s *Server) fail(w http.ResponseWriter, err error) {
	e := errorFor(err)

	switch {
	case errors.Is(err, client.ErrUnauthorized):
		if lerr := s.sess.Logout(); lerr != nil {
			slog.Warn("Failed to clear session", "err", lerr)
		}
	case e.code == http.StatusInternalServerError:
		sentry.CaptureException(err)
	}

	SendError(w, e)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		sentry.CaptureException(err)
	}
}
