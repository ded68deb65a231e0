// Package gateway exposes every navigation and state operation behind a
// single capability contract, fulfilled either by the external core process
// (Proc) or by an in-process fallback (Local). The implementation is chosen
// once at startup based on binary discovery and never re-evaluated per call.
package gateway

import (
	"context"

	"github.com/veidt/termnav/internal/models"
)

// SaveProfileRequest carries the inputs of a profile upsert. A nil or empty
// ID creates a new profile; otherwise the matching record is updated.
type SaveProfileRequest struct {
	ID         *string
	Name       string
	Command    *string
	WorkingDir *string
	Terminal   *string
	Windows    int
}

// Gateway is the capability contract for path, favorite, recent, tag,
// profile and search operations. Every call is atomic from the caller's
// view: it either returns its result or fails with exactly one of the
// apperr kinds, with no partial mutation left behind.
type Gateway interface {
	// Normalize canonicalizes a raw path string. The fallback only expands a
	// leading home shorthand; full canonicalization is delegated to the core.
	Normalize(ctx context.Context, raw string) (string, error)

	// ListDirectory returns the immediate children of path.
	ListDirectory(ctx context.Context, path string) ([]models.DirectoryEntry, error)

	ListFavorites(ctx context.Context) ([]string, error)
	AddFavorite(ctx context.Context, path string) error
	RemoveFavorite(ctx context.Context, path string) error

	// ListRecents returns recently opened directories, newest first.
	ListRecents(ctx context.Context) ([]models.RecentEntry, error)
	// TouchRecent upserts the recency timestamp for path.
	TouchRecent(ctx context.Context, path string) error

	// DetectProjects reports project roots among path and its ancestors.
	DetectProjects(ctx context.Context, path string) ([]models.ProjectRoot, error)

	ListTags(ctx context.Context) ([]models.TaggedPath, error)
	TagsFor(ctx context.Context, path string) ([]models.TaggedPath, error)
	// AddTag upserts by the composite (path, case-insensitive tag) key.
	AddTag(ctx context.Context, path, tag, color string) error
	RemoveTag(ctx context.Context, path, tag string) error

	ListProfiles(ctx context.Context) ([]models.LaunchProfile, error)
	SaveProfile(ctx context.Context, req SaveProfileRequest) (models.LaunchProfile, error)
	// DeleteProfile removes exactly the profile with the given id.
	DeleteProfile(ctx context.Context, id string) error

	// Search returns at most limit results for query under start.
	Search(ctx context.Context, start, query string, limit int) ([]models.SearchResult, error)
}

// Verify both implementations satisfy the contract at compile time.
var (
	_ Gateway = (*Proc)(nil)
	_ Gateway = (*Local)(nil)
)
