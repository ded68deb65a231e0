package term

import (
	"fmt"
	"strings"
)

// Request describes one launch: Windows windows of Kind at Dir, optionally
// running Command instead of an interactive shell.
type Request struct {
	Kind    Kind
	Dir     string
	Command string
	Windows int
}

// shellLine builds the literal shell command executed inside each window:
// cd into the target, then either the requested command or an interactive
// shell. Only the path goes through shell quoting; the command is the user's
// own shell text and passes through untouched.
func shellLine(dir, command string) string {
	line := "cd " + shellQuote(dir)
	if strings.TrimSpace(command) != "" {
		return line + " && " + command
	}
	return line + ` && exec "$SHELL"`
}

// BuildScript synthesizes the automation script for req. The window count is
// clamped to the launchable range here, before any script text is produced.
func BuildScript(req Request) string {
	windows := clampWindows(req.Windows)
	switch req.Kind {
	case KindITerm:
		return buildITermScript(shellLine(req.Dir, req.Command), windows)
	case KindGhostty:
		return buildGhosttyScript(req.Dir, req.Command, windows)
	default:
		return buildTerminalScript(shellLine(req.Dir, req.Command), windows)
	}
}

func buildTerminalScript(line string, windows int) string {
	var b strings.Builder
	b.WriteString("tell application \"Terminal\"\n")
	b.WriteString("\tactivate\n")
	for i := 0; i < windows; i++ {
		fmt.Fprintf(&b, "\tdo script \"%s\"\n", scriptString(line))
	}
	b.WriteString("end tell")
	return b.String()
}

func buildITermScript(line string, windows int) string {
	var b strings.Builder
	b.WriteString("tell application \"iTerm\"\n")
	b.WriteString("\tactivate\n")
	for i := 0; i < windows; i++ {
		b.WriteString("\tset newWindow to (create window with default profile)\n")
		b.WriteString("\ttell current session of newWindow\n")
		fmt.Fprintf(&b, "\t\twrite text \"%s\"\n", scriptString(line))
		b.WriteString("\tend tell\n")
	}
	b.WriteString("end tell")
	return b.String()
}

// buildGhosttyScript drives the terminal through its own launch flags: one
// shell invocation per window, no tell block and no automation session.
func buildGhosttyScript(dir, command string, windows int) string {
	invocation := "open -na Ghostty --args --working-directory=" + shellQuote(dir)
	if strings.TrimSpace(command) != "" {
		invocation += " -e " + shellQuote(command)
	}
	var b strings.Builder
	for i := 0; i < windows; i++ {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "do shell script \"%s\"", scriptString(invocation))
	}
	return b.String()
}
