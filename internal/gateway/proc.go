package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/veidt/termnav/internal/apperr"
	"github.com/veidt/termnav/internal/models"
)

// Proc fulfills the contract by spawning the external core binary once per
// call: argv in, stdout and stderr fully captured, exit code classified.
// There is no persistent connection, no retry and no partial result. With a
// zero timeout a hung core blocks the calling context indefinitely; that is
// the documented default, not a bug.
type Proc struct {
	binary  string
	timeout time.Duration
}

// NewProc discovers the core binary and returns a process-delegating
// gateway. Discovery runs exactly once, here; a failed discovery is
// apperr.ErrBinaryNotFound and the caller should construct a Local gateway
// instead. A positive timeout bounds every core invocation and surfaces
// apperr.ErrTimeout on expiry.
func NewProc(explicit, envOverride string, timeout time.Duration) (*Proc, error) {
	bin, err := DiscoverCoreBinary(explicit, envOverride)
	if err != nil {
		return nil, err
	}
	return &Proc{binary: bin, timeout: timeout}, nil
}

// Binary returns the resolved core binary path.
func (p *Proc) Binary() string { return p.binary }

// run spawns one core invocation and returns its raw stdout.
func (p *Proc) run(ctx context.Context, args ...string) ([]byte, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return stdout.Bytes(), nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("gateway: core %s: %w", args[0], apperr.ErrTimeout)
	}
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		msg = fmt.Sprintf("core %s failed: %v", args[0], err)
	}
	return nil, apperr.CommandFailed(msg)
}

// runJSON decodes a structured stdout payload into out.
func (p *Proc) runJSON(ctx context.Context, out any, args ...string) error {
	raw, err := p.run(ctx, args...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("gateway: core %s: %w", args[0], apperr.ErrDecodeFailed)
	}
	return nil
}

// runOK decodes the core's mutation acknowledgment.
func (p *Proc) runOK(ctx context.Context, args ...string) error {
	var ack struct {
		Status string `json:"status"`
	}
	return p.runJSON(ctx, &ack, args...)
}

func (p *Proc) Normalize(ctx context.Context, raw string) (string, error) {
	out, err := p.run(ctx, "normalize", raw)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (p *Proc) ListDirectory(ctx context.Context, path string) ([]models.DirectoryEntry, error) {
	var entries []models.DirectoryEntry
	if err := p.runJSON(ctx, &entries, "list", path); err != nil {
		return nil, err
	}
	return entries, nil
}

func (p *Proc) ListFavorites(ctx context.Context) ([]string, error) {
	var favorites []string
	if err := p.runJSON(ctx, &favorites, "favorites", "list"); err != nil {
		return nil, err
	}
	return favorites, nil
}

func (p *Proc) AddFavorite(ctx context.Context, path string) error {
	return p.runOK(ctx, "favorites", "add", path)
}

func (p *Proc) RemoveFavorite(ctx context.Context, path string) error {
	return p.runOK(ctx, "favorites", "remove", path)
}

func (p *Proc) ListRecents(ctx context.Context) ([]models.RecentEntry, error) {
	var recents []models.RecentEntry
	if err := p.runJSON(ctx, &recents, "recents", "list"); err != nil {
		return nil, err
	}
	return recents, nil
}

func (p *Proc) TouchRecent(ctx context.Context, path string) error {
	return p.runOK(ctx, "recents", "touch", path)
}

func (p *Proc) DetectProjects(ctx context.Context, path string) ([]models.ProjectRoot, error) {
	var roots []models.ProjectRoot
	if err := p.runJSON(ctx, &roots, "projects", path); err != nil {
		return nil, err
	}
	return roots, nil
}

func (p *Proc) ListTags(ctx context.Context) ([]models.TaggedPath, error) {
	var tags []models.TaggedPath
	if err := p.runJSON(ctx, &tags, "tags", "list"); err != nil {
		return nil, err
	}
	return tags, nil
}

func (p *Proc) TagsFor(ctx context.Context, path string) ([]models.TaggedPath, error) {
	var tags []models.TaggedPath
	if err := p.runJSON(ctx, &tags, "tags", "for", path); err != nil {
		return nil, err
	}
	return tags, nil
}

func (p *Proc) AddTag(ctx context.Context, path, tag, color string) error {
	args := []string{"tags", "add", path, tag}
	if color != "" {
		args = append(args, "--color", color)
	}
	return p.runOK(ctx, args...)
}

func (p *Proc) RemoveTag(ctx context.Context, path, tag string) error {
	return p.runOK(ctx, "tags", "remove", path, tag)
}

func (p *Proc) ListProfiles(ctx context.Context) ([]models.LaunchProfile, error) {
	var profiles []models.LaunchProfile
	if err := p.runJSON(ctx, &profiles, "profiles", "list"); err != nil {
		return nil, err
	}
	return profiles, nil
}

// SaveProfile emits optional flags only when the corresponding input is
// present and non-empty; a zero-or-negative window count omits --windows.
func (p *Proc) SaveProfile(ctx context.Context, req SaveProfileRequest) (models.LaunchProfile, error) {
	args := []string{"profiles", "save", req.Name}
	if req.ID != nil && *req.ID != "" {
		args = append(args, "--id", *req.ID)
	}
	if req.Command != nil && *req.Command != "" {
		args = append(args, "--command", *req.Command)
	}
	if req.WorkingDir != nil && *req.WorkingDir != "" {
		args = append(args, "--working-dir", *req.WorkingDir)
	}
	if req.Terminal != nil && *req.Terminal != "" {
		args = append(args, "--terminal", *req.Terminal)
	}
	if req.Windows > 0 {
		args = append(args, "--windows", strconv.Itoa(req.Windows))
	}

	var profile models.LaunchProfile
	if err := p.runJSON(ctx, &profile, args...); err != nil {
		return models.LaunchProfile{}, err
	}
	return profile, nil
}

func (p *Proc) DeleteProfile(ctx context.Context, id string) error {
	return p.runOK(ctx, "profiles", "delete", id)
}

func (p *Proc) Search(ctx context.Context, start, query string, limit int) ([]models.SearchResult, error) {
	args := []string{"search", query}
	if start != "" {
		args = append(args, "--start", start)
	}
	if limit > 0 {
		args = append(args, "--limit", strconv.Itoa(limit))
	}

	var results []models.SearchResult
	if err := p.runJSON(ctx, &results, args...); err != nil {
		return nil, err
	}
	return results, nil
}
