package locator

import "context"

// Directory is the remote listing capability the Locator resolves
// against. This is a port implemented by infrastructure adapters; the
// Locator never talks to the Drive API directly.
//
// Lookup methods return found=false with a nil error when nothing
// matched, so callers can distinguish a miss from a transport failure.
// Listing methods stream candidates in the provider's listing order and
// stop as soon as visit returns stop=true or an error.
type Directory interface {
	// FileByID returns the descriptor for a known file ID.
	FileByID(ctx context.Context, fileID string) (File, bool, error)

	// FirstByName returns the first non-trashed file named exactly name.
	FirstByName(ctx context.Context, name string) (File, bool, error)

	// EachFile visits every non-trashed file visible to the caller.
	EachFile(ctx context.Context, visit func(File) (stop bool, err error)) error

	// DriveByName resolves a shared drive by display name,
	// case-insensitively.
	DriveByName(ctx context.Context, name string) (Drive, bool, error)

	// FolderByName returns the first folder named name directly under
	// parentID within the shared drive driveID.
	FolderByName(ctx context.Context, driveID, parentID, name string) (File, bool, error)

	// EachChild visits the non-trashed direct children of folderID
	// within the shared drive driveID.
	EachChild(ctx context.Context, driveID, folderID string, visit func(File) (stop bool, err error)) error
}
