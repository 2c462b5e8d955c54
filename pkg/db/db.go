package db

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

var Db *sql.DB

func InitDB(path string) error {
	hdb, err := Open(path)
	if err != nil {
		return err
	}

	Db = hdb

	return nil
}

// Open opens the sqlite database at path and creates the client tables.
func Open(path string) (*sql.DB, error) {
	hdb, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := hdb.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, err
	}

	tx, err := hdb.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err = tx.Exec(`CREATE TABLE IF NOT EXISTS storage (
		key TEXT NOT NULL PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		return nil, err
	}

	if _, err = tx.Exec(`CREATE TABLE IF NOT EXISTS uploads (
		id TEXT NOT NULL PRIMARY KEY,
		bucket TEXT NOT NULL,
		hash TEXT NOT NULL,
		filename TEXT NOT NULL,
		mime TEXT NOT NULL,
		uploader TEXT NOT NULL,
		upload_ts INTEGER NOT NULL,
		size INTEGER
	)`); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return hdb, nil
}
