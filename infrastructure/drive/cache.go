package drive

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dikako/gdrive-downloader/domain/locator"
)

// resolutionCache remembers drive and folder lookups so repeated path
// walks skip remote round-trips. Entries expire after the configured
// TTL. A nil cache never hits and never stores.
type resolutionCache struct {
	drives  *expirable.LRU[string, locator.Drive]
	folders *expirable.LRU[string, string]
}

func newResolutionCache(ttl time.Duration, maxEntries int) *resolutionCache {
	return &resolutionCache{
		drives:  expirable.NewLRU[string, locator.Drive](maxEntries, nil, ttl),
		folders: expirable.NewLRU[string, string](maxEntries, nil, ttl),
	}
}

// Drive lookups are case-insensitive, so the key is folded.
func driveKey(name string) string {
	return strings.ToLower(name)
}

// Folder names may contain any printable character, so the key parts
// are joined with NUL.
func folderCacheKey(driveID, parentID, name string) string {
	return driveID + "\x00" + parentID + "\x00" + name
}

func (c *resolutionCache) drive(name string) (locator.Drive, bool) {
	if c == nil {
		return locator.Drive{}, false
	}
	return c.drives.Get(driveKey(name))
}

func (c *resolutionCache) addDrive(name string, d locator.Drive) {
	if c == nil {
		return
	}
	c.drives.Add(driveKey(name), d)
}

func (c *resolutionCache) folder(driveID, parentID, name string) (string, bool) {
	if c == nil {
		return "", false
	}
	return c.folders.Get(folderCacheKey(driveID, parentID, name))
}

func (c *resolutionCache) addFolder(driveID, parentID, name, folderID string) {
	if c == nil {
		return
	}
	c.folders.Add(folderCacheKey(driveID, parentID, name), folderID)
}

func (c *resolutionCache) purge() {
	if c == nil {
		return
	}
	c.drives.Purge()
	c.folders.Purge()
}
