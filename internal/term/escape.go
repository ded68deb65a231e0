package term

import "strings"

// Two independent escaping layers compose in fixed order: shellQuote first,
// then scriptString around the full shell line. They must never be merged or
// reordered — a path holding both a single and a double quote has to survive
// both layers intact.

// shellQuote wraps s in single quotes for POSIX shell embedding; each
// embedded single quote becomes the '\'' sequence.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// scriptString escapes s for a double-quoted automation-script string
// literal: backslashes first, then double quotes.
func scriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
