package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/tagmyidea/tagmyidea-web/pkg/uploads"
	"github.com/tagmyidea/tagmyidea-web/pkg/util"
)

// maxUploadBody leaves room for the multipart envelope around the photo.
const maxUploadBody = uploads.MaxPhotoSize + 64<<10

func (s *Server) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	if s.store == nil || s.index == nil {
		SendError(w, Unavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(uploads.MaxPhotoSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			SendError(w, Error{err: "Image exceeds 2 mb", code: http.StatusRequestEntityTooLarge})
			return
		}
		SendError(w, InvalidForm)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if err != http.ErrMissingFile {
			sentry.CaptureException(err)
		}
		SendError(w, InvalidForm)
		return
	}
	defer file.Close()

	me := currentUser(r)
	obj, err := uploads.IngestPhoto(r.Context(), s.store, s.index, s.bucket, header.Filename, file, me.Id)
	if err != nil {
		s.fail(w, err)
		return
	}

	util.LogMessage(fmt.Sprintf("%s uploaded a profile photo (%s)", me.Username, obj.Id))
	writeJSON(w, map[string]string{"id": obj.Id, "photo": "/uploads/" + obj.Id})
}

func (s *Server) download(w http.ResponseWriter, r *http.Request) {
	if s.store == nil || s.index == nil {
		SendError(w, NotFound)
		return
	}
	uploads.Download(s.store, s.index, chi.URLParam(r, "id"), w, r)
}
