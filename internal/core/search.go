package core

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/veidt/termnav/internal/models"
)

const (
	// searchMaxDepth bounds the walk below the start directory.
	searchMaxDepth = 5
	// candidateFactor bounds how many directories are collected before
	// fuzzy ranking; the walk stops early once limit*candidateFactor
	// candidates are in hand.
	candidateFactor = 50
)

var errWalkDone = errors.New("walk done")

type searchCandidate struct {
	path string
	name string
}

// Search walks the tree under start, fuzzy-matches directory names against
// query and returns up to limit results, best score first.
func (s *Service) Search(query, start string, limit int) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("core: query required")
	}
	if limit <= 0 {
		limit = 20
	}

	root, err := s.Normalize(start)
	if err != nil {
		return nil, err
	}

	maxCandidates := limit * candidateFactor
	candidates := []searchCandidate{}
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil // unreadable subtrees are skipped, not fatal
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && strings.Count(rel, string(filepath.Separator)) >= searchMaxDepth {
			return fs.SkipDir
		}
		candidates = append(candidates, searchCandidate{path: path, name: d.Name()})
		if len(candidates) >= maxCandidates {
			return errWalkDone
		}
		return nil
	})
	if walkErr != nil && !errors.Is(walkErr, errWalkDone) {
		return nil, fmt.Errorf("core: search %s: %w", root, walkErr)
	}

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.name
	}

	results := []models.SearchResult{}
	for _, m := range fuzzy.Find(query, names) {
		c := candidates[m.Index]
		results = append(results, models.SearchResult{
			Path:  c.path,
			Name:  c.name,
			Score: int64(m.Score),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
