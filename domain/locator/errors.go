package locator

import "errors"

var (
	// ErrNotFound indicates that no file or shared drive satisfied the
	// selector. Wrapped errors carry the selector that failed.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousPath indicates that a folder segment of a path could
	// not be resolved inside its parent, so the walk stopped early.
	ErrAmbiguousPath = errors.New("folder path could not be resolved")

	// ErrInvalidFolderPath indicates a malformed folder path: fewer than
	// two segments, or an empty segment.
	ErrInvalidFolderPath = errors.New("invalid folder path")
)
