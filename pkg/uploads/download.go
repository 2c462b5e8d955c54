package uploads

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/getsentry/sentry-go"
	"github.com/tagmyidea/tagmyidea-web/pkg/db"
)

func Download(store Store, index *sql.DB, id string, w http.ResponseWriter, r *http.Request) {
	file, err := db.GetFile(index, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			sentry.CaptureException(err)
		}
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	if r.Header.Get("If-None-Match") == file.Id {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	obj, size, err := store.Get(r.Context(), file.Bucket, file.Hash)
	if err != nil {
		sentry.CaptureException(err)
		http.Error(w, "Failed to get file", http.StatusInternalServerError)
		return
	}
	defer obj.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s", file.Id))
	w.Header().Set("Content-Type", file.Mime)
	w.Header().Set("Content-Length", strconv.FormatInt(size, 10))
	w.Header().Set("ETag", file.Id)
	w.Header().Set("Cache-Control", "public, max-age=31536000")

	if _, err := io.Copy(w, obj); err != nil {
		sentry.CaptureException(err)
	}
}
