package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoCaptions means every caption provider failed or returned zero lines.
// Not retried automatically; surfaced to the caller as "no data".
var ErrNoCaptions = errors.New("no captions available")

// DecodeError means a model response did not parse into the expected
// shape. Callers on the transcript path recover by persisting raw lines.
type DecodeError struct {
	Stage string // "normalize", "study_guide"
	Raw   string // truncated response snippet for the log
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: decode model response: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// PersistenceError wraps a failed store write. The freshly built artifact
// is still returned to the immediate caller but is not cached.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsRateLimited reports whether err looks like a rate/quota rejection from
// the generation service. The llm client surfaces provider HTTP failures
// as plain errors, so classification is by status text.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "quota") ||
		strings.Contains(msg, "rate limit")
}
