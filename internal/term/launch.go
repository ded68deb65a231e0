package term

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/veidt/termnav/internal/apperr"
)

// Runner executes a synthesized automation script. The default runner spawns
// the system script interpreter; tests substitute their own.
type Runner interface {
	Run(ctx context.Context, script string) error
}

// OsascriptRunner executes scripts through the osascript interpreter, the
// script text passed as a single -e argument. Only stderr is consumed, for
// the failure message. The interpreter exiting zero does not guarantee the
// requested UI actions have completed, merely that they were accepted.
type OsascriptRunner struct{}

func (OsascriptRunner) Run(ctx context.Context, script string) error {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "osascript: " + err.Error()
		}
		return apperr.CommandFailed(msg)
	}
	return nil
}

// Launcher synthesizes launch scripts and hands them to a Runner.
type Launcher struct {
	runner Runner
}

// NewLauncher returns a Launcher backed by the given runner; nil selects the
// osascript interpreter.
func NewLauncher(runner Runner) *Launcher {
	if runner == nil {
		runner = OsascriptRunner{}
	}
	return &Launcher{runner: runner}
}

// Launch opens the requested windows. Success carries no payload beyond
// "the requested windows were requested".
func (l *Launcher) Launch(ctx context.Context, req Request) error {
	if strings.TrimSpace(req.Dir) == "" {
		return apperr.CommandFailed("launch: target directory required")
	}
	return l.runner.Run(ctx, BuildScript(req))
}
