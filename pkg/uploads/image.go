package uploads

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/tagmyidea/tagmyidea-web/pkg/db"
)

// MaxPhotoSize is the largest profile photo accepted, in bytes.
const MaxPhotoSize = 2 << 20

var (
	ErrUnsupported = errors.New("unsupported file type")
	ErrTooLarge    = errors.New("file too large")
)

var photoTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// IngestPhoto stores an uploaded profile photo under its content hash and
// indexes it under a fresh id.
func IngestPhoto(ctx context.Context, store Store, index *sql.DB, bucket, filename string, r io.Reader, uploader string) (db.File, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPhotoSize+1))
	if err != nil {
		return db.File{}, err
	}
	if len(data) > MaxPhotoSize {
		return db.File{}, ErrTooLarge
	}

	mime := http.DetectContentType(data)
	if !slices.Contains(photoTypes, mime) {
		return db.File{}, ErrUnsupported
	}

	f := db.File{
		Id:       uuid.NewString(),
		Bucket:   bucket,
		Hash:     FileHash(data),
		Filename: filename,
		Mime:     mime,
		Uploader: uploader,
	}

	size, err := store.Put(ctx, f.Bucket, f.Hash, bytes.NewReader(data), int64(len(data)), f.Mime)
	if err != nil {
		return db.File{}, err
	}
	f.Size = &size

	if err := f.Index(index); err != nil {
		return db.File{}, err
	}

	return f, nil
}
