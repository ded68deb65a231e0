// Package models defines the value records that cross the core process
// boundary. All types are constructed fresh on every gateway call and never
// mutated in place; JSON field names follow the core's snake_case wire
// convention.
package models

import (
	"path/filepath"
	"strings"
)

// DirectoryEntry is one immediate child of a listed directory.
type DirectoryEntry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
	// ModDate is the modification time in epoch seconds, nil when unknown.
	ModDate *int64 `json:"mod_date,omitempty"`
}

// SortKind returns the grouping label used when ordering entries by kind:
// "Folder" for directories, the lowercase extension for files, or "Document"
// when the file has no extension.
func (e DirectoryEntry) SortKind() string {
	if e.IsDir {
		return "Folder"
	}
	ext := strings.TrimPrefix(filepath.Ext(e.Name), ".")
	if ext == "" {
		return "Document"
	}
	return strings.ToLower(ext)
}

// RecentEntry records when a directory was last opened. Uniqueness of paths
// is owned by the producing store, not by this type.
type RecentEntry struct {
	Path          string `json:"path"`
	LastOpenedUTC int64  `json:"last_opened_utc"`
}

// ProjectRoot is an ancestor directory recognized as a project checkout,
// together with the marker file or directory that triggered detection.
type ProjectRoot struct {
	Path   string `json:"path"`
	Marker string `json:"marker"`
}

// TaggedPath labels a path with a colored tag. Identity is the composite
// (path, case-insensitive tag) pair: re-adding the same pair replaces the
// color instead of duplicating the record. Color is free-form text, expected
// to be #RRGGBB but not validated here.
type TaggedPath struct {
	Path  string `json:"path"`
	Tag   string `json:"tag"`
	Color string `json:"color"`
}

// Key returns the composite identity of the tag record.
func (t TaggedPath) Key() string {
	return t.Path + "\x00" + strings.ToLower(t.Tag)
}

// LaunchProfile is a saved terminal launch configuration. ID is generated
// once and stays stable across edits; Name is user-facing and carries no
// identity. Windows is persisted exactly as given and clamped to the
// launchable range only at launch time.
type LaunchProfile struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Command    *string `json:"command,omitempty"`
	WorkingDir *string `json:"working_dir,omitempty"`
	Terminal   *string `json:"terminal,omitempty"`
	Windows    int     `json:"windows"`
}

// SearchResult is one search hit. Ordering semantics belong to whichever
// gateway implementation produced the result.
type SearchResult struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	Score int64  `json:"score"`
}
