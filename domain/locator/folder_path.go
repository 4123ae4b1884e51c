package locator

import (
	"fmt"
	"strings"
)

// FolderPath addresses a folder inside a shared drive. The first
// segment names the shared drive, the rest name folders from the drive
// root down, e.g. "FinanceDrive/Reports/2024". A valid path has at
// least two segments and no empty segments.
type FolderPath struct {
	raw     string
	drive   string
	folders []string
}

// ParseFolderPath splits a slash-separated path into a FolderPath.
// It returns ErrInvalidFolderPath when the path has fewer than two
// segments or any segment is empty, before any remote call is made.
func ParseFolderPath(path string) (FolderPath, error) {
	segments := strings.Split(path, "/")
	if len(segments) < 2 {
		return FolderPath{}, fmt.Errorf("%w: %q must name a shared drive and at least one folder", ErrInvalidFolderPath, path)
	}
	for _, segment := range segments {
		if segment == "" {
			return FolderPath{}, fmt.Errorf("%w: %q contains an empty segment", ErrInvalidFolderPath, path)
		}
	}
	return FolderPath{raw: path, drive: segments[0], folders: segments[1:]}, nil
}

// Drive returns the shared drive name, the first path segment.
func (p FolderPath) Drive() string {
	return p.drive
}

// Folders returns the folder segments below the drive, in walk order.
func (p FolderPath) Folders() []string {
	return p.folders
}

// String returns the original slash-separated path.
func (p FolderPath) String() string {
	return p.raw
}
