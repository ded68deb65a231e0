package gateway

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/veidt/termnav/internal/apperr"
	"github.com/veidt/termnav/internal/models"
)

// Local fulfills the contract without an external process, for when the core
// binary cannot be discovered. Directory listing and search hit the
// filesystem directly. Tags and profiles live in process memory only and are
// lost on restart. Favorites, recents and project detection have no local
// store at all: listings come back empty and mutations are accepted as
// no-ops, so callers must not assume those mutations had any effect.
type Local struct {
	home string

	mu       sync.Mutex
	tags     []models.TaggedPath
	profiles []models.LaunchProfile

	// walk is swappable so tests can observe traversal.
	walk func(root string, fn fs.WalkDirFunc) error
}

// NewLocal returns an in-process fallback gateway.
func NewLocal() *Local {
	home, _ := os.UserHomeDir()
	return &Local{home: home, walk: filepath.WalkDir}
}

// Normalize expands a leading home-directory shorthand and nothing else: no
// symlink resolution, no dot-segment collapsing. This is a deliberately
// weaker guarantee than the core's full canonicalization.
func (l *Local) Normalize(_ context.Context, raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", apperr.CommandFailed("empty path")
	}
	if l.home != "" {
		if trimmed == "~" {
			return l.home, nil
		}
		if rest, ok := strings.CutPrefix(trimmed, "~/"); ok {
			return filepath.Join(l.home, rest), nil
		}
	}
	return trimmed, nil
}

// ListDirectory enumerates the immediate children of path, skipping hidden
// entries, sorted ascending by case-insensitive name.
func (l *Local) ListDirectory(ctx context.Context, path string) ([]models.DirectoryEntry, error) {
	norm, err := l.Normalize(ctx, path)
	if err != nil {
		return nil, err
	}
	dirents, err := os.ReadDir(norm)
	if err != nil {
		return nil, apperr.CommandFailedf("list %s: %v", norm, err)
	}

	entries := make([]models.DirectoryEntry, 0, len(dirents))
	for _, d := range dirents {
		if strings.HasPrefix(d.Name(), ".") {
			continue
		}
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

// ListFavorites always returns an empty set: the fallback has no durable
// cross-session store.
func (l *Local) ListFavorites(context.Context) ([]string, error) {
	return []string{}, nil
}

func (l *Local) AddFavorite(context.Context, string) error { return nil }

func (l *Local) RemoveFavorite(context.Context, string) error { return nil }

func (l *Local) ListRecents(context.Context) ([]models.RecentEntry, error) {
	return []models.RecentEntry{}, nil
}

func (l *Local) TouchRecent(context.Context, string) error { return nil }

func (l *Local) DetectProjects(context.Context, string) ([]models.ProjectRoot, error) {
	return []models.ProjectRoot{}, nil
}

func (l *Local) ListTags(context.Context) ([]models.TaggedPath, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.TaggedPath, len(l.tags))
	copy(out, l.tags)
	return out, nil
}

func (l *Local) TagsFor(_ context.Context, path string) ([]models.TaggedPath, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := []models.TaggedPath{}
	for _, t := range l.tags {
		if t.Path == path {
			out = append(out, t)
		}
	}
	return out, nil
}

// AddTag upserts by the composite (path, case-insensitive tag) key: a label
// differing only in case replaces the stored label and color.
func (l *Local) AddTag(_ context.Context, path, tag, color string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, t := range l.tags {
		if t.Path == path && strings.EqualFold(t.Tag, tag) {
			l.tags[i].Tag = tag
			l.tags[i].Color = color
			return nil
		}
	}
	l.tags = append(l.tags, models.TaggedPath{Path: path, Tag: tag, Color: color})
	return nil
}

func (l *Local) RemoveTag(_ context.Context, path, tag string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.tags[:0]
	for _, t := range l.tags {
		if t.Path == path && strings.EqualFold(t.Tag, tag) {
			continue
		}
		kept = append(kept, t)
	}
	l.tags = kept
	return nil
}

func (l *Local) ListProfiles(context.Context) ([]models.LaunchProfile, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.LaunchProfile, len(l.profiles))
	copy(out, l.profiles)
	return out, nil
}

// SaveProfile upserts by id when one is supplied, otherwise generates a new
// id. Windows is stored exactly as given; clamping is a launch-time concern.
func (l *Local) SaveProfile(_ context.Context, req SaveProfileRequest) (models.LaunchProfile, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.LaunchProfile{}, apperr.CommandFailed("profile name required")
	}

	id := ""
	if req.ID != nil {
		id = *req.ID
	}
	if id == "" {
		id = uuid.NewString()
	}
	profile := models.LaunchProfile{
		ID:         id,
		Name:       name,
		Command:    req.Command,
		WorkingDir: req.WorkingDir,
		Terminal:   req.Terminal,
		Windows:    req.Windows,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i, p := range l.profiles {
		if p.ID == id {
			l.profiles[i] = profile
			return profile, nil
		}
	}
	l.profiles = append(l.profiles, profile)
	return profile, nil
}

func (l *Local) DeleteProfile(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, p := range l.profiles {
		if p.ID == id {
			l.profiles = append(l.profiles[:i], l.profiles[i+1:]...)
			return nil
		}
	}
	return apperr.CommandFailedf("profile not found: %s", id)
}

var errWalkDone = errors.New("walk done")

// Search walks the subtree under start and collects directories whose
// root-relative path contains the query case-insensitively, stopping as soon
// as limit matches are found. A blank query returns immediately without
// touching the filesystem. Score carries no relevance signal here: it is
// derived from the query length alone, and callers must not treat fallback
// ordering as ranked.
func (l *Local) Search(ctx context.Context, start, query string, limit int) ([]models.SearchResult, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []models.SearchResult{}, nil
	}
	if limit < 1 {
		limit = 1
	}
	root, err := l.Normalize(ctx, start)
	if err != nil {
		return nil, err
	}

	placeholder := int64(len(needle))
	results := []models.SearchResult{}
	walkErr := l.walk(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // unreadable subtree, keep going
		}
		if path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		if strings.Contains(strings.ToLower(rel), needle) {
			results = append(results, models.SearchResult{
				Path:  path,
				Name:  d.Name(),
				Score: placeholder,
			})
			if len(results) >= limit {
				return errWalkDone
			}
		}
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, errWalkDone) {
		return nil, apperr.CommandFailedf("search %s: %v", root, walkErr)
	}
	return results, nil
}
