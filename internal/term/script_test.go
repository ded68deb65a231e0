package term

import (
	"strings"
	"testing"
)

func TestWindowCountClampedBeforeSynthesis(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 1},
		{-3, 1},
		{99, 5},
		{3, 3},
	}
	for _, tc := range cases {
		script := BuildScript(Request{Kind: KindTerminal, Dir: "/srv", Windows: tc.in})
		if got := strings.Count(script, `do script "`); got != tc.want {
			t.Errorf("windows=%d: %d do script actions, want %d", tc.in, got, tc.want)
		}

		script = BuildScript(Request{Kind: KindITerm, Dir: "/srv", Windows: tc.in})
		if got := strings.Count(script, "write text"); got != tc.want {
			t.Errorf("windows=%d: %d write text actions, want %d", tc.in, got, tc.want)
		}

		script = BuildScript(Request{Kind: KindGhostty, Dir: "/srv", Windows: tc.in})
		if got := strings.Count(script, "do shell script"); got != tc.want {
			t.Errorf("windows=%d: %d shell invocations, want %d", tc.in, got, tc.want)
		}
	}
}

func TestTerminalScriptShape(t *testing.T) {
	script := BuildScript(Request{Kind: KindTerminal, Dir: "/srv/app", Command: "npm test", Windows: 2})

	if !strings.HasPrefix(script, "tell application \"Terminal\"\n\tactivate\n") {
		t.Errorf("script header:\n%s", script)
	}
	if !strings.HasSuffix(script, "end tell") {
		t.Errorf("script footer:\n%s", script)
	}
	if !strings.Contains(script, "cd '/srv/app' && npm test") {
		t.Errorf("command missing from script:\n%s", script)
	}
	if strings.Contains(script, "$SHELL") {
		t.Error("interactive shell fallback should be absent when a command is given")
	}
}

func TestITermScriptShape(t *testing.T) {
	script := BuildScript(Request{Kind: KindITerm, Dir: "/srv", Windows: 2})

	if !strings.Contains(script, "tell application \"iTerm\"") {
		t.Errorf("script:\n%s", script)
	}
	if got := strings.Count(script, "create window with default profile"); got != 2 {
		t.Errorf("%d windows created, want 2", got)
	}
	if !strings.Contains(script, "tell current session of newWindow") {
		t.Errorf("session targeting missing:\n%s", script)
	}
}

func TestGhosttyScriptUsesLaunchFlagsOnly(t *testing.T) {
	script := BuildScript(Request{Kind: KindGhostty, Dir: "/srv", Command: "htop", Windows: 1})

	if strings.Contains(script, "tell application") {
		t.Errorf("ghostty must not script an application session:\n%s", script)
	}
	if !strings.Contains(script, "--working-directory='/srv'") {
		t.Errorf("working directory flag missing:\n%s", script)
	}
	if !strings.Contains(script, "-e 'htop'") {
		t.Errorf("command flag missing:\n%s", script)
	}

	noCmd := BuildScript(Request{Kind: KindGhostty, Dir: "/srv", Windows: 1})
	if strings.Contains(noCmd, "-e ") {
		t.Errorf("command flag present without a command:\n%s", noCmd)
	}
}

func TestParseKind(t *testing.T) {
	cases := map[string]Kind{
		"":        KindTerminal,
		"iterm":   KindITerm,
		"iTerm2":  KindITerm,
		"GHOSTTY": KindGhostty,
		"unknown": KindTerminal,
	}
	for in, want := range cases {
		if got := ParseKind(in); got != want {
			t.Errorf("ParseKind(%q) = %q, want %q", in, got, want)
		}
	}
}
