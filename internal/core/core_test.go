package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/veidt/termnav/internal/testutil"
)

func testService(t *testing.T) *Service {
	t.Helper()
	return New(testutil.TestStore(t))
}

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestNormalizeExpandsHome(t *testing.T) {
	s := testService(t)
	s.home = "/home/tester"

	got, err := s.Normalize("~/projects")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "/home/tester/projects" {
		t.Errorf("got %q", got)
	}

	got, err = s.Normalize("~")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "/home/tester" {
		t.Errorf("got %q", got)
	}

	if _, err := s.Normalize("   "); err == nil {
		t.Error("blank path must be rejected")
	}
}

func TestNormalizeResolvesSymlinks(t *testing.T) {
	s := testService(t)
	root := t.TempDir()
	mkdirs(t, root, "real")
	link := filepath.Join(root, "link")
	if err := os.Symlink(filepath.Join(root, "real"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	got, err := s.Normalize(link)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want, _ := filepath.EvalSymlinks(filepath.Join(root, "real"))
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestListDirectoryIncludesHiddenAndSorts(t *testing.T) {
	s := testService(t)
	root := t.TempDir()
	mkdirs(t, root, "Zeta", "alpha")
	touch(t, filepath.Join(root, ".env"))
	touch(t, filepath.Join(root, "Makefile"))

	entries, err := s.ListDirectory(root)
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("len = %d, want 4 (hidden entries included)", len(entries))
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	want := []string{".env", "alpha", "Makefile", "Zeta"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}

	for _, e := range entries {
		if e.ModDate == nil {
			t.Errorf("%s: mod date must be populated", e.Name)
		}
	}
	if !entries[1].IsDir || entries[2].IsDir {
		t.Errorf("is_dir flags wrong: %+v", entries)
	}
}

func TestDetectProjectsWalksAncestors(t *testing.T) {
	s := testService(t)
	root := t.TempDir()
	mkdirs(t, root, "repo/pkg/sub", "repo/.git")
	touch(t, filepath.Join(root, "repo", "go.mod"))
	touch(t, filepath.Join(root, "repo", "pkg", "package.json"))

	roots, err := s.DetectProjects(filepath.Join(root, "repo", "pkg", "sub"))
	if err != nil {
		t.Fatalf("DetectProjects: %v", err)
	}
	if len(roots) < 2 {
		t.Fatalf("roots = %+v, want pkg and repo detected", roots)
	}
	// Nearest ancestor first; .git outranks go.mod in the same directory.
	if roots[0].Marker != "package.json" || filepath.Base(roots[0].Path) != "pkg" {
		t.Errorf("roots[0] = %+v", roots[0])
	}
	if roots[1].Marker != ".git" || filepath.Base(roots[1].Path) != "repo" {
		t.Errorf("roots[1] = %+v", roots[1])
	}
}

func TestFavoritesAndRecentsNormalizeInput(t *testing.T) {
	s := testService(t)
	dir := t.TempDir()

	// A trailing slash and a dot segment collapse to the same favorite.
	if err := s.AddFavorite(dir + string(filepath.Separator)); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if err := s.AddFavorite(filepath.Join(dir, ".")); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	favs, err := s.ListFavorites()
	if err != nil {
		t.Fatalf("ListFavorites: %v", err)
	}
	if len(favs) != 1 {
		t.Errorf("favorites = %v, want one normalized entry", favs)
	}

	if err := s.TouchRecent(dir); err != nil {
		t.Fatalf("TouchRecent: %v", err)
	}
	recents, err := s.ListRecents()
	if err != nil {
		t.Fatalf("ListRecents: %v", err)
	}
	if len(recents) != 1 || recents[0].LastOpenedUTC == 0 {
		t.Errorf("recents = %+v", recents)
	}
}

func TestAddTagDefaultsColor(t *testing.T) {
	s := testService(t)
	dir := t.TempDir()

	if err := s.AddTag(dir, "work", ""); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	tags, err := s.TagsFor(dir)
	if err != nil {
		t.Fatalf("TagsFor: %v", err)
	}
	if len(tags) != 1 || tags[0].Color != DefaultTagColor {
		t.Errorf("tags = %+v, want default color", tags)
	}

	if err := s.AddTag(dir, "  ", "#fff"); err == nil {
		t.Error("blank tag label must be rejected")
	}
}

func TestSaveProfileGeneratesIDAndClamps(t *testing.T) {
	s := testService(t)

	p, err := s.SaveProfile(nil, "  build  ", nil, nil, nil, 99)
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if _, parseErr := uuid.Parse(p.ID); parseErr != nil {
		t.Errorf("id %q is not a uuid", p.ID)
	}
	if p.Name != "build" {
		t.Errorf("name = %q, want trimmed", p.Name)
	}
	if p.Windows != maxProfileWindows {
		t.Errorf("windows = %d, want clamped to %d", p.Windows, maxProfileWindows)
	}

	// Saving again under the same id updates in place.
	p2, err := s.SaveProfile(&p.ID, "build", nil, nil, nil, 0)
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	if p2.ID != p.ID || p2.Windows != minProfileWindows {
		t.Errorf("p2 = %+v", p2)
	}
	profiles, _ := s.ListProfiles()
	if len(profiles) != 1 {
		t.Errorf("profiles = %+v, want single updated record", profiles)
	}

	if _, err := s.SaveProfile(nil, "", nil, nil, nil, 1); err == nil {
		t.Error("blank name must be rejected")
	}
	bad := "not-a-uuid"
	if _, err := s.SaveProfile(&bad, "x", nil, nil, nil, 1); err == nil {
		t.Error("malformed id must be rejected")
	}
	if err := s.DeleteProfile("also-not-a-uuid"); err == nil {
		t.Error("malformed id must be rejected on delete")
	}
}

func TestSearchRanksFuzzyMatches(t *testing.T) {
	s := testService(t)
	root := testutil.TestTree(t,
		"projects/termnav/",
		"projects/terraform-modules/",
		"projects/.cache/terminal-junk/",
		"notes/",
		"projects/term-scratch.txt",
	)

	results, err := s.Search("term", root, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %+v, want the two visible term* directories", results)
	}
	for _, r := range results {
		if !strings.HasPrefix(r.Name, "ter") {
			t.Errorf("unexpected match %+v", r)
		}
		if strings.Contains(r.Path, ".cache") {
			t.Errorf("hidden subtree leaked: %+v", r)
		}
	}

	limited, err := s.Search("term", root, 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit not applied: %+v", limited)
	}

	if _, err := s.Search("   ", root, 10); err == nil {
		t.Error("blank query must be rejected")
	}
}

func TestSearchDepthLimit(t *testing.T) {
	s := testService(t)
	root := t.TempDir()
	deep := "a/b/c/d/e/f/g"
	mkdirs(t, root, deep)

	results, err := s.Search("g", root, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for _, r := range results {
		if r.Name == "g" {
			t.Errorf("directory beyond depth limit matched: %+v", r)
		}
	}
}
