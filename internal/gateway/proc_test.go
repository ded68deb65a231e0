package gateway

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/veidt/termnav/internal/apperr"
)

// stubCore installs a shell script standing in for the core binary.
func stubCore(t *testing.T, script string, timeout time.Duration) *Proc {
	t.Helper()
	bin := filepath.Join(t.TempDir(), CoreBinaryName)
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	p, err := NewProc(bin, "", timeout)
	if err != nil {
		t.Fatalf("NewProc: %v", err)
	}
	return p
}

func TestProcListDirectory(t *testing.T) {
	p := stubCore(t, `echo '[{"name":"docs","path":"/x/docs","is_dir":true,"mod_date":1700000000},{"name":"a.txt","path":"/x/a.txt","is_dir":false}]'`, 0)

	entries, err := p.ListDirectory(context.Background(), "/x")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len = %d, want 2", len(entries))
	}
	if !entries[0].IsDir || entries[0].Name != "docs" {
		t.Errorf("entry[0] = %+v", entries[0])
	}
	if entries[0].ModDate == nil || *entries[0].ModDate != 1700000000 {
		t.Errorf("mod_date not decoded: %+v", entries[0].ModDate)
	}
	if entries[1].ModDate != nil {
		t.Errorf("absent mod_date should stay nil: %+v", entries[1].ModDate)
	}
}

func TestProcNormalizeTrimsStdout(t *testing.T) {
	p := stubCore(t, `echo "  /home/user/code  "`, 0)

	got, err := p.Normalize(context.Background(), "~/code")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "/home/user/code" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestProcNonzeroExitIsCommandFailed(t *testing.T) {
	p := stubCore(t, `echo "query required" >&2; exit 1`, 0)

	_, err := p.Search(context.Background(), "/x", "q", 5)
	if !apperr.IsCommandFailed(err) {
		t.Fatalf("err = %v, want CommandError", err)
	}
	if err.Error() != "query required" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestProcEmptyStderrGetsPlaceholder(t *testing.T) {
	p := stubCore(t, `exit 7`, 0)

	_, err := p.ListFavorites(context.Background())
	if !apperr.IsCommandFailed(err) {
		t.Fatalf("err = %v, want CommandError", err)
	}
	if err.Error() == "" {
		t.Error("expected a non-empty diagnostic message")
	}
}

func TestProcGarbageOutputIsDecodeFailed(t *testing.T) {
	p := stubCore(t, `echo "this is not json"`, 0)

	_, err := p.ListRecents(context.Background())
	if !errors.Is(err, apperr.ErrDecodeFailed) {
		t.Errorf("err = %v, want ErrDecodeFailed", err)
	}
	if apperr.IsCommandFailed(err) {
		t.Error("decode failure must stay distinct from CommandError")
	}
}

func TestProcSaveProfileFlagOmission(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	script := `printf '%s\n' "$@" > ` + argsFile + `; echo '{"id":"00000000-0000-0000-0000-000000000001","name":"n","windows":1}'`
	p := stubCore(t, script, 0)

	_, err := p.SaveProfile(context.Background(), SaveProfileRequest{Name: "n", Windows: 0})
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	raw, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatal(err)
	}
	got := string(raw)
	for _, flag := range []string{"--windows", "--command", "--working-dir", "--terminal", "--id"} {
		if strings.Contains(got, flag) {
			t.Errorf("argv %q contains %s for an absent input", got, flag)
		}
	}

	cmd := "make test"
	_, err = p.SaveProfile(context.Background(), SaveProfileRequest{Name: "n", Command: &cmd, Windows: 3})
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	raw, _ = os.ReadFile(argsFile)
	got = string(raw)
	if !strings.Contains(got, "--windows\n3") {
		t.Errorf("argv %q missing --windows 3", got)
	}
	if !strings.Contains(got, "--command\nmake test") {
		t.Errorf("argv %q missing --command", got)
	}
}

func TestProcSearchFlagOmission(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args")
	p := stubCore(t, `printf '%s\n' "$@" > `+argsFile+`; echo '[]'`, 0)

	if _, err := p.Search(context.Background(), "", "query", 0); err != nil {
		t.Fatalf("Search: %v", err)
	}
	raw, _ := os.ReadFile(argsFile)
	if strings.Contains(string(raw), "--start") || strings.Contains(string(raw), "--limit") {
		t.Errorf("argv %q carries flags for default inputs", raw)
	}

	if _, err := p.Search(context.Background(), "/srv", "query", 10); err != nil {
		t.Fatalf("Search: %v", err)
	}
	raw, _ = os.ReadFile(argsFile)
	if !strings.Contains(string(raw), "--start\n/srv") || !strings.Contains(string(raw), "--limit\n10") {
		t.Errorf("argv %q missing explicit flags", raw)
	}
}

func TestProcTimeout(t *testing.T) {
	p := stubCore(t, `sleep 5; echo '[]'`, 50*time.Millisecond)

	_, err := p.ListTags(context.Background())
	if !errors.Is(err, apperr.ErrTimeout) {
		t.Errorf("err = %v, want ErrTimeout", err)
	}
}
