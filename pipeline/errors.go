package pipeline

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/yourusername/go-subgraph-bench/edgelist"
)

// Sentinel errors. Branch on them with errors.Is; stage errors carry the
// file and line context around them.
var (
	// ErrUsage reports a wrong invocation: missing or extra inputs.
	ErrUsage = errors.New("usage error")
	// ErrParse reports a malformed record under the strict parse policy.
	ErrParse = edgelist.ErrMalformed
	// ErrDuplicateUser reports a repeated user id in a source that must be
	// unique-keyed (selection sources and degree tables).
	ErrDuplicateUser = errors.New("duplicate user")
	// ErrInvalidConfig reports sampler parameters that cannot produce a sample.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DuplicateUserError is returned when a unique-keyed source repeats a user.
type DuplicateUserError struct {
	Source string
	Line   int64
	UserID int64
}

func (e *DuplicateUserError) Error() string {
	src := e.Source
	if src == "" {
		src = "input"
	}
	return fmt.Sprintf("%s:%d: user %d already seen", src, e.Line, e.UserID)
}

func (e *DuplicateUserError) Unwrap() error { return ErrDuplicateUser }

// MissingInputError reports an input path that does not exist. It matches
// both ErrUsage and os.ErrNotExist.
type MissingInputError struct {
	Path string
	Err  error
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("input %s: %v", e.Path, e.Err)
}

func (e *MissingInputError) Unwrap() error { return e.Err }

func (e *MissingInputError) Is(target error) bool { return target == ErrUsage }

func invalidConfig(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidConfig, format, args...)
}
