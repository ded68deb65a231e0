// Package store persists the core's durable state — favorites, recents,
// tags and launch profiles — in SQLite.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound reports a delete or lookup that matched no record.
var ErrNotFound = errors.New("not found")

const schemaSQL = `
CREATE TABLE IF NOT EXISTS favorites (
	path TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS recents (
	path            TEXT PRIMARY KEY,
	last_opened_utc INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
	path    TEXT NOT NULL,
	tag_key TEXT NOT NULL,
	tag     TEXT NOT NULL,
	color   TEXT NOT NULL DEFAULT '#0a84ff',
	PRIMARY KEY (path, tag_key)
);

CREATE TABLE IF NOT EXISTS profiles (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	command     TEXT,
	working_dir TEXT,
	terminal    TEXT,
	windows     INTEGER NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_tags_path ON tags(path);
CREATE INDEX IF NOT EXISTS idx_recents_opened ON recents(last_opened_utc);
`

// DB wraps a sql.DB with state operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the state database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
