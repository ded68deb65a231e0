// Package term synthesizes and executes terminal-automation scripts:
// opening N windows or tabs of a chosen terminal application at a target
// directory, optionally running a command instead of an interactive shell.
package term

import "strings"

// Kind selects the terminal application a launch targets. Each kind maps to
// a different automation-script shape.
type Kind string

const (
	// KindTerminal is the generic windowed terminal: the script repeats a
	// "create new document and run command" action per window.
	KindTerminal Kind = "terminal"
	// KindITerm is the tab/session-oriented terminal: the script creates a
	// window with the default profile and writes the command into its
	// current session, once per window.
	KindITerm Kind = "iterm"
	// KindGhostty is the GUI terminal driven purely through launch flags; no
	// persistent automation session object is ever created for it.
	KindGhostty Kind = "ghostty"
)

// ParseKind maps a user-supplied terminal name to a Kind, defaulting to the
// generic windowed terminal.
func ParseKind(s string) Kind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "iterm", "iterm2":
		return KindITerm
	case "ghostty":
		return KindGhostty
	default:
		return KindTerminal
	}
}

const (
	minWindows = 1
	maxWindows = 5
)

// clampWindows bounds a requested window count to the launchable range.
// Persisted profiles may carry counts outside it; the clamp happens here,
// never at save time.
func clampWindows(n int) int {
	if n < minWindows {
		return minWindows
	}
	if n > maxWindows {
		return maxWindows
	}
	return n
}
