package drive

import (
	"fmt"
	"strings"
)

const mimeTypeFolder = "application/vnd.google-apps.folder"

// allFilesQuery matches every non-trashed file visible to the caller.
const allFilesQuery = "trashed = false"

// escapeQuery escapes a literal for embedding in a Drive query string.
// Backslashes go first so the quote escapes stay intact.
func escapeQuery(literal string) string {
	escaped := strings.ReplaceAll(literal, `\`, `\\`)
	return strings.ReplaceAll(escaped, `'`, `\'`)
}

// exactNameQuery matches non-trashed files named exactly name.
func exactNameQuery(name string) string {
	return fmt.Sprintf("name = '%s' and trashed = false", escapeQuery(name))
}

// folderQuery matches non-trashed folders named name directly under
// parentID.
func folderQuery(parentID, name string) string {
	return fmt.Sprintf("mimeType = '%s' and name = '%s' and '%s' in parents and trashed = false",
		mimeTypeFolder, escapeQuery(name), escapeQuery(parentID))
}

// childrenQuery matches the non-trashed direct children of folderID.
func childrenQuery(folderID string) string {
	return fmt.Sprintf("'%s' in parents and trashed = false", escapeQuery(folderID))
}
