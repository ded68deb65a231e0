package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/veidt/termnav/internal/models"
)

// recentsCap bounds how many recent entries survive a touch; the oldest
// beyond the cap are trimmed in the same transaction.
const recentsCap = 100

// ListFavorites returns every favorite path, sorted ascending.
func (db *DB) ListFavorites() ([]string, error) {
	rows, err := db.conn.Query(`SELECT path FROM favorites ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("store: list favorites: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AddFavorite inserts path; adding an existing favorite is a no-op.
func (db *DB) AddFavorite(path string) error {
	_, err := db.conn.Exec(`INSERT INTO favorites (path) VALUES (?) ON CONFLICT(path) DO NOTHING`, path)
	if err != nil {
		return fmt.Errorf("store: add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes path; removing an absent favorite is a no-op.
func (db *DB) RemoveFavorite(path string) error {
	_, err := db.conn.Exec(`DELETE FROM favorites WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("store: remove favorite: %w", err)
	}
	return nil
}

// ListRecents returns recent entries, newest first.
func (db *DB) ListRecents() ([]models.RecentEntry, error) {
	rows, err := db.conn.Query(`SELECT path, last_opened_utc FROM recents ORDER BY last_opened_utc DESC, path`)
	if err != nil {
		return nil, fmt.Errorf("store: list recents: %w", err)
	}
	defer rows.Close()

	out := []models.RecentEntry{}
	for rows.Next() {
		var e models.RecentEntry
		if err := rows.Scan(&e.Path, &e.LastOpenedUTC); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// TouchRecent upserts the recency timestamp for path and trims entries
// beyond the cap, atomically.
func (db *DB) TouchRecent(path string, now time.Time) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO recents (path, last_opened_utc) VALUES (?, ?)
		ON CONFLICT(path) DO UPDATE SET last_opened_utc = excluded.last_opened_utc
	`, path, now.Unix())
	if err != nil {
		return fmt.Errorf("store: touch recent: %w", err)
	}

	_, err = tx.Exec(`
		DELETE FROM recents WHERE path NOT IN (
			SELECT path FROM recents ORDER BY last_opened_utc DESC LIMIT ?
		)
	`, recentsCap)
	if err != nil {
		return fmt.Errorf("store: trim recents: %w", err)
	}

	return tx.Commit()
}

// ListTags returns every tag record, ordered by path then label.
func (db *DB) ListTags() ([]models.TaggedPath, error) {
	return db.queryTags(`SELECT path, tag, color FROM tags ORDER BY path, tag_key`)
}

// TagsFor returns the tag records attached to path.
func (db *DB) TagsFor(path string) ([]models.TaggedPath, error) {
	return db.queryTags(`SELECT path, tag, color FROM tags WHERE path = ? ORDER BY tag_key`, path)
}

func (db *DB) queryTags(query string, args ...any) ([]models.TaggedPath, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query tags: %w", err)
	}
	defer rows.Close()

	out := []models.TaggedPath{}
	for rows.Next() {
		var t models.TaggedPath
		if err := rows.Scan(&t.Path, &t.Tag, &t.Color); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// UpsertTag inserts or replaces the record keyed by (path, lowercased tag):
// re-adding under a different label case replaces both label and color.
func (db *DB) UpsertTag(path, tag, color string) error {
	_, err := db.conn.Exec(`
		INSERT INTO tags (path, tag_key, tag, color) VALUES (?, ?, ?, ?)
		ON CONFLICT(path, tag_key) DO UPDATE SET
			tag   = excluded.tag,
			color = excluded.color
	`, path, strings.ToLower(tag), tag, color)
	if err != nil {
		return fmt.Errorf("store: upsert tag: %w", err)
	}
	return nil
}

// DeleteTag removes the record keyed by (path, lowercased tag).
func (db *DB) DeleteTag(path, tag string) error {
	_, err := db.conn.Exec(`DELETE FROM tags WHERE path = ? AND tag_key = ?`, path, strings.ToLower(tag))
	if err != nil {
		return fmt.Errorf("store: delete tag: %w", err)
	}
	return nil
}

// ListProfiles returns every profile, ordered case-insensitively by name.
func (db *DB) ListProfiles() ([]models.LaunchProfile, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, command, working_dir, terminal, windows
		FROM profiles ORDER BY LOWER(name), id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list profiles: %w", err)
	}
	defer rows.Close()

	out := []models.LaunchProfile{}
	for rows.Next() {
		var p models.LaunchProfile
		var command, workingDir, terminal sql.NullString
		if err := rows.Scan(&p.ID, &p.Name, &command, &workingDir, &terminal, &p.Windows); err != nil {
			return nil, err
		}
		p.Command = fromNull(command)
		p.WorkingDir = fromNull(workingDir)
		p.Terminal = fromNull(terminal)
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertProfile inserts or replaces the profile with p.ID.
func (db *DB) UpsertProfile(p models.LaunchProfile) error {
	_, err := db.conn.Exec(`
		INSERT INTO profiles (id, name, command, working_dir, terminal, windows)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name        = excluded.name,
			command     = excluded.command,
			working_dir = excluded.working_dir,
			terminal    = excluded.terminal,
			windows     = excluded.windows
	`, p.ID, p.Name, toNull(p.Command), toNull(p.WorkingDir), toNull(p.Terminal), p.Windows)
	if err != nil {
		return fmt.Errorf("store: upsert profile: %w", err)
	}
	return nil
}

// DeleteProfile removes exactly the profile with the given id; deleting an
// unknown id is ErrNotFound.
func (db *DB) DeleteProfile(id string) error {
	res, err := db.conn.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: delete profile: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("store: profile %s: %w", id, ErrNotFound)
	}
	return nil
}

func toNull(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func fromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
