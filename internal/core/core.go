// Package core implements the navigation operations natively; it is the
// engine behind the termnav-core binary and owns the durable store.
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/veidt/termnav/internal/models"
	"github.com/veidt/termnav/internal/store"
)

// DefaultTagColor is applied when a tag is added without a color.
const DefaultTagColor = "#0a84ff"

// projectMarkers are checked in order against every ancestor; the first hit
// per ancestor wins.
var projectMarkers = []string{".git", "package.json", "Cargo.toml", "go.mod", "bunfig.toml"}

// Profiles persist window counts in a wider range than a single launch
// allows; the launch-time clamp is the UI's concern.
const (
	minProfileWindows = 1
	maxProfileWindows = 10
)

// Service owns the durable store and the filesystem operations exposed over
// the wire contract.
type Service struct {
	db   *store.DB
	home string
}

// New returns a Service backed by db.
func New(db *store.DB) *Service {
	home, _ := os.UserHomeDir()
	return &Service{db: db, home: home}
}

// Normalize expands a leading home shorthand, makes the path absolute and
// resolves symlinks when possible.
func (s *Service) Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("core: empty path")
	}

	expanded := trimmed
	if s.home != "" {
		if trimmed == "~" {
			expanded = s.home
		} else if rest, ok := strings.CutPrefix(trimmed, "~/"); ok {
			expanded = filepath.Join(s.home, rest)
		}
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("core: resolve %s: %w", raw, err)
	}
	if resolved, evalErr := filepath.EvalSymlinks(abs); evalErr == nil {
		return resolved, nil
	}
	return abs, nil
}

// ListDirectory enumerates the immediate children of path, sorted ascending
// by case-insensitive name.
func (s *Service) ListDirectory(path string) ([]models.DirectoryEntry, error) {
	norm, err := s.Normalize(path)
	if err != nil {
		return nil, err
	}
	dirents, err := os.ReadDir(norm)
	if err != nil {
		return nil, fmt.Errorf("core: list %s: %w", norm, err)
	}

	entries := make([]models.DirectoryEntry, 0, len(dirents))
	for _, d := range dirents {
		entry := models.DirectoryEntry{
			Name:  d.Name(),
			Path:  filepath.Join(norm, d.Name()),
			IsDir: d.IsDir(),
		}
		if info, infoErr := d.Info(); infoErr == nil {
			mod := info.ModTime().Unix()
			entry.ModDate = &mod
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
	return entries, nil
}

// DetectProjects walks from path to the filesystem root and reports every
// ancestor carrying a project marker.
func (s *Service) DetectProjects(path string) ([]models.ProjectRoot, error) {
	norm, err := s.Normalize(path)
	if err != nil {
		return nil, err
	}

	roots := []models.ProjectRoot{}
	for dir := norm; ; {
		for _, marker := range projectMarkers {
			if _, statErr := os.Stat(filepath.Join(dir, marker)); statErr == nil {
				roots = append(roots, models.ProjectRoot{Path: dir, Marker: marker})
				break
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return roots, nil
}

// ListFavorites returns the stored favorites.
func (s *Service) ListFavorites() ([]string, error) {
	return s.db.ListFavorites()
}

// AddFavorite stores the normalized path as a favorite.
func (s *Service) AddFavorite(path string) error {
	norm, err := s.Normalize(path)
	if err != nil {
		return err
	}
	return s.db.AddFavorite(norm)
}

// RemoveFavorite drops the normalized path from the favorites.
func (s *Service) RemoveFavorite(path string) error {
	norm, err := s.Normalize(path)
	if err != nil {
		return err
	}
	return s.db.RemoveFavorite(norm)
}

// ListRecents returns recently opened directories, newest first.
func (s *Service) ListRecents() ([]models.RecentEntry, error) {
	return s.db.ListRecents()
}

// TouchRecent upserts the recency timestamp for the normalized path.
func (s *Service) TouchRecent(path string) error {
	norm, err := s.Normalize(path)
	if err != nil {
		return err
	}
	return s.db.TouchRecent(norm, time.Now())
}

// ListTags returns every stored tag record.
func (s *Service) ListTags() ([]models.TaggedPath, error) {
	return s.db.ListTags()
}

// TagsFor returns the tags attached to the normalized path.
func (s *Service) TagsFor(path string) ([]models.TaggedPath, error) {
	norm, err := s.Normalize(path)
	if err != nil {
		return nil, err
	}
	return s.db.TagsFor(norm)
}

// AddTag upserts a tag on the normalized path; an empty color falls back to
// the default.
func (s *Service) AddTag(path, tag, color string) error {
	norm, err := s.Normalize(path)
	if err != nil {
		return err
	}
	if strings.TrimSpace(tag) == "" {
		return fmt.Errorf("core: tag label required")
	}
	if color == "" {
		color = DefaultTagColor
	}
	return s.db.UpsertTag(norm, tag, color)
}

// RemoveTag deletes a tag from the normalized path.
func (s *Service) RemoveTag(path, tag string) error {
	norm, err := s.Normalize(path)
	if err != nil {
		return err
	}
	return s.db.DeleteTag(norm, tag)
}

// ListProfiles returns every stored profile, ordered by name.
func (s *Service) ListProfiles() ([]models.LaunchProfile, error) {
	return s.db.ListProfiles()
}

// SaveProfile upserts a profile: by id when one is supplied, otherwise under
// a freshly generated id.
func (s *Service) SaveProfile(id *string, name string, command, workingDir, terminal *string, windows int) (models.LaunchProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.LaunchProfile{}, fmt.Errorf("core: profile name required")
	}

	profileID := ""
	if id != nil {
		profileID = *id
	}
	if profileID == "" {
		profileID = uuid.NewString()
	} else if _, parseErr := uuid.Parse(profileID); parseErr != nil {
		return models.LaunchProfile{}, fmt.Errorf("core: invalid profile id %q: %w", profileID, parseErr)
	}

	if windows < minProfileWindows {
		windows = minProfileWindows
	}
	if windows > maxProfileWindows {
		windows = maxProfileWindows
	}

	profile := models.LaunchProfile{
		ID:         profileID,
		Name:       name,
		Command:    command,
		WorkingDir: workingDir,
		Terminal:   terminal,
		Windows:    windows,
	}
	if err := s.db.UpsertProfile(profile); err != nil {
		return models.LaunchProfile{}, err
	}
	return profile, nil
}

// DeleteProfile removes exactly the profile with the given id.
func (s *Service) DeleteProfile(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("core: invalid profile id %q: %w", id, err)
	}
	return s.db.DeleteProfile(id)
}
