// Package apperr defines the error taxonomy shared by the gateway and
// terminal automation layers. None of these errors are retryable.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrBinaryNotFound means no core binary discovery candidate resolved.
	// Callers should switch to the in-process gateway instead of retrying
	// discovery per call.
	ErrBinaryNotFound = errors.New("core binary not found")

	// ErrDecodeFailed means a child process exited zero but its output could
	// not be parsed into the expected shape. Kept distinct from CommandError
	// so callers can tell "the core rejected the request" from "the core
	// responded in an unparseable shape".
	ErrDecodeFailed = errors.New("decode failed")

	// ErrTimeout means a child process exceeded the configured deadline.
	ErrTimeout = errors.New("timeout")
)

// CommandError reports a child process (core or automation interpreter) that
// exited nonzero, or a fallback filesystem failure. Message is the trimmed
// diagnostic text captured from stderr.
type CommandError struct {
	Message string
}

func (e *CommandError) Error() string { return e.Message }

// CommandFailed wraps a diagnostic message in a CommandError. An empty
// message is replaced with a generic placeholder so callers always have
// human-readable text to surface.
func CommandFailed(message string) error {
	if message == "" {
		message = "command failed"
	}
	return &CommandError{Message: message}
}

// CommandFailedf formats a CommandError message.
func CommandFailedf(format string, args ...any) error {
	return &CommandError{Message: fmt.Sprintf(format, args...)}
}

// IsCommandFailed reports whether err is (or wraps) a CommandError.
func IsCommandFailed(err error) bool {
	var ce *CommandError
	return errors.As(err, &ce)
}
