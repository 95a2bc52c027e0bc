package pathspec

import (
	"errors"
	"fmt"
)

var (
	// ErrDirectoryNotFound reports that no directory matched a pattern.
	ErrDirectoryNotFound = errors.New("directory not found")
	// ErrFileNotFound reports that no file matched a keyword lookup.
	ErrFileNotFound = errors.New("file not found")
)

// NotFoundError names the full path that was requested when a lookup missed.
// It unwraps to ErrDirectoryNotFound or ErrFileNotFound.
type NotFoundError struct {
	Kind error
	Path string
}

func (e *NotFoundError) Error() string {
	kind := e.Kind
	if kind == nil {
		kind = ErrDirectoryNotFound
	}
	return fmt.Sprintf("%s: %q", kind, e.Path)
}

func (e *NotFoundError) Unwrap() error {
	if e.Kind == nil {
		return ErrDirectoryNotFound
	}
	return e.Kind
}

// errNoMatch is internal to the search; Resolve converts it into a
// NotFoundError carrying the full requested path.
var errNoMatch = errors.New("no match")
