package gateway

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/veidt/termnav/internal/apperr"
)

func writeExec(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDiscoverExplicitBeatsEnv(t *testing.T) {
	dir := t.TempDir()
	explicit := writeExec(t, filepath.Join(dir, "explicit", CoreBinaryName))
	env := writeExec(t, filepath.Join(dir, "env", CoreBinaryName))

	got, err := DiscoverCoreBinary(explicit, env)
	if err != nil {
		t.Fatalf("DiscoverCoreBinary: %v", err)
	}
	if got != explicit {
		t.Errorf("resolved %q, want explicit %q", got, explicit)
	}
}

func TestDiscoverEnvWhenNoExplicit(t *testing.T) {
	dir := t.TempDir()
	env := writeExec(t, filepath.Join(dir, CoreBinaryName))

	got, err := DiscoverCoreBinary("", env)
	if err != nil {
		t.Fatalf("DiscoverCoreBinary: %v", err)
	}
	if got != env {
		t.Errorf("resolved %q, want env %q", got, env)
	}
}

func TestDiscoverDebugBeatsRelease(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	debug := writeExec(t, filepath.Join(dir, "build", "debug", CoreBinaryName))
	writeExec(t, filepath.Join(dir, "build", "release", CoreBinaryName))

	got, err := DiscoverCoreBinary("", "")
	if err != nil {
		t.Fatalf("DiscoverCoreBinary: %v", err)
	}
	// The dev-tree candidates are relative to the working directory.
	abs, _ := filepath.Abs(got)
	if abs != debug {
		t.Errorf("resolved %q, want debug build %q", abs, debug)
	}
}

func TestDiscoverReleaseWhenNoDebug(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	release := writeExec(t, filepath.Join(dir, "build", "release", CoreBinaryName))

	got, err := DiscoverCoreBinary("", "")
	if err != nil {
		t.Fatalf("DiscoverCoreBinary: %v", err)
	}
	abs, _ := filepath.Abs(got)
	if abs != release {
		t.Errorf("resolved %q, want release build %q", abs, release)
	}
}

func TestDiscoverSkipsNonExecutable(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain", CoreBinaryName)
	if err := os.MkdirAll(filepath.Dir(plain), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(plain, []byte("not executable"), 0o644); err != nil {
		t.Fatal(err)
	}
	env := writeExec(t, filepath.Join(dir, "env", CoreBinaryName))

	got, err := DiscoverCoreBinary(plain, env)
	if err != nil {
		t.Fatalf("DiscoverCoreBinary: %v", err)
	}
	if got != env {
		t.Errorf("resolved %q, want env fallback %q", got, env)
	}
}

func TestDiscoverNoneResolved(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := DiscoverCoreBinary("", "")
	if !errors.Is(err, apperr.ErrBinaryNotFound) {
		t.Errorf("err = %v, want ErrBinaryNotFound", err)
	}
}
