package db

import (
	"database/sql"
	"time"
)

type File struct {
	Id       string
	Bucket   string
	Hash     string
	Filename string
	Mime     string
	Uploader string
	UploadTs *int64
	Size     *int64
}

// Insert file into uploads index
func (f *File) Index(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO uploads (id, bucket, hash, filename, mime, uploader, upload_ts, size) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		f.Id,
		f.Bucket,
		f.Hash,
		f.Filename,
		f.Mime,
		f.Uploader,
		time.Now().Unix(),
		f.Size,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func GetFile(db *sql.DB, id string) (File, error) {
	row := db.QueryRow("SELECT id, bucket, hash, filename, mime, uploader, upload_ts, size FROM uploads WHERE id = ?", id)

	var file File
	if err := row.Scan(&file.Id, &file.Bucket, &file.Hash, &file.Filename, &file.Mime, &file.Uploader, &file.UploadTs, &file.Size); err != nil {
		return File{}, err
	}

	return file, nil
}
