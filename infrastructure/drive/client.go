package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/dikako/gdrive-downloader/domain/locator"
	"github.com/dikako/gdrive-downloader/domain/transfer"
)

// fileFields is the descriptor projection requested on every lookup.
const fileFields = "id, name, mimeType, size"

// listFields adds the page cursor to the projection for listings.
const listFields = "nextPageToken, files(" + fileFields + ")"

const (
	pageSizeFiles  = 1000
	pageSizeDrives = 100
)

// ListQuery carries the parameters of one file-listing page.
type ListQuery struct {
	Query     string
	Fields    string
	PageSize  int64
	PageToken string
	// DriveID scopes the listing to one shared drive when set.
	DriveID string
}

// API is the slice of the Drive API the client depends on, narrow
// enough to fake in tests.
type API interface {
	// GetFile fetches one file descriptor.
	GetFile(ctx context.Context, fileID string) (*drive.File, error)

	// ListFiles fetches one page of file results.
	ListFiles(ctx context.Context, q ListQuery) (*drive.FileList, error)

	// ListDrives fetches one page of shared drives.
	ListDrives(ctx context.Context, pageToken string) (*drive.DriveList, error)

	// Download opens the raw content stream of a file.
	Download(ctx context.Context, fileID string, acknowledgeAbuse bool) (io.ReadCloser, error)

	// Export opens a converted stream of a Google Workspace document.
	Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error)
}

// googleAPI is the production implementation backed by a drive.Service.
type googleAPI struct {
	service *drive.Service
}

func (g *googleAPI) GetFile(ctx context.Context, fileID string) (*drive.File, error) {
	return g.service.Files.Get(fileID).
		SupportsAllDrives(true).
		Fields(googleapi.Field(fileFields)).
		Context(ctx).
		Do()
}

func (g *googleAPI) ListFiles(ctx context.Context, q ListQuery) (*drive.FileList, error) {
	call := g.service.Files.List().
		Q(q.Query).
		Fields(googleapi.Field(q.Fields)).
		PageSize(q.PageSize).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx)
	if q.PageToken != "" {
		call = call.PageToken(q.PageToken)
	}
	if q.DriveID != "" {
		call = call.DriveId(q.DriveID).Corpora("drive")
	}
	return call.Do()
}

func (g *googleAPI) ListDrives(ctx context.Context, pageToken string) (*drive.DriveList, error) {
	call := g.service.Drives.List().
		PageSize(pageSizeDrives).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	return call.Do()
}

func (g *googleAPI) Download(ctx context.Context, fileID string, acknowledgeAbuse bool) (io.ReadCloser, error) {
	resp, err := g.service.Files.Get(fileID).
		SupportsAllDrives(true).
		AcknowledgeAbuse(acknowledgeAbuse).
		Context(ctx).
		Download()
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (g *googleAPI) Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	resp, err := g.service.Files.Export(fileID, mimeType).
		Context(ctx).
		Download()
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Client talks to Google Drive and implements the locator.Directory and
// transfer.Media ports.
type Client struct {
	api       API
	log       *slog.Logger
	cache     *resolutionCache
	searchCap int
}

// ClientOption is a functional option for configuring Client.
type ClientOption func(*Client)

// WithAPI sets a custom API implementation (for testing).
func WithAPI(api API) ClientOption {
	return func(c *Client) {
		c.api = api
	}
}

// WithLogger sets the logger for lookup and paging events. The default
// discards everything.
func WithLogger(log *slog.Logger) ClientOption {
	return func(c *Client) {
		c.log = log
	}
}

// WithSearchCap bounds how many files a listing scan may visit before
// giving up. Zero scans until the listing is exhausted.
func WithSearchCap(n int) ClientOption {
	return func(c *Client) {
		c.searchCap = n
	}
}

// WithResolutionCache caches drive and folder lookups for ttl, keeping
// at most maxEntries per kind. Cached resolutions can go stale within
// ttl when the remote tree changes; InvalidateResolutionCache drops
// them early.
func WithResolutionCache(ttl time.Duration, maxEntries int) ClientOption {
	return func(c *Client) {
		c.cache = newResolutionCache(ttl, maxEntries)
	}
}

// NewClient creates a client from service account credentials JSON.
// If no custom API was provided, a real Drive service is created with
// read-only scope.
func NewClient(ctx context.Context, credentialsJSON io.Reader, opts ...ClientOption) (*Client, error) {
	c := &Client{log: slog.New(slog.DiscardHandler)}

	for _, opt := range opts {
		opt(c)
	}

	if c.api == nil {
		if credentialsJSON == nil {
			return nil, fmt.Errorf("%w: no credentials provided", ErrAuth)
		}
		data, err := io.ReadAll(credentialsJSON)
		if err != nil {
			return nil, fmt.Errorf("%w: read credentials: %w", ErrAuth, err)
		}
		api, err := newGoogleAPI(ctx, data)
		if err != nil {
			return nil, err
		}
		c.api = api
	}

	return c, nil
}

// NewClientFromFile creates a client from a credentials file on disk.
func NewClientFromFile(ctx context.Context, credentialsPath string, opts ...ClientOption) (*Client, error) {
	f, err := os.Open(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open credentials file %q: %w", ErrAuth, credentialsPath, err)
	}
	defer f.Close()
	return NewClient(ctx, f, opts...)
}

// FileByID implements locator.Directory. A 404 is a miss, not an error.
func (c *Client) FileByID(ctx context.Context, fileID string) (locator.File, bool, error) {
	f, err := c.api.GetFile(ctx, fileID)
	if isNotFound(err) {
		return locator.File{}, false, nil
	}
	if err != nil {
		return locator.File{}, false, fmt.Errorf("get file %q: %w", fileID, err)
	}
	return toFile(f), true, nil
}

// FirstByName implements locator.Directory.
func (c *Client) FirstByName(ctx context.Context, name string) (locator.File, bool, error) {
	list, err := c.api.ListFiles(ctx, ListQuery{
		Query:    exactNameQuery(name),
		Fields:   listFields,
		PageSize: 1,
	})
	if err != nil {
		return locator.File{}, false, fmt.Errorf("list files named %q: %w", name, err)
	}
	if len(list.Files) == 0 {
		return locator.File{}, false, nil
	}
	return toFile(list.Files[0]), true, nil
}

// EachFile implements locator.Directory. Pages are walked in listing
// order until visit stops, the listing is exhausted, or the search cap
// is reached.
func (c *Client) EachFile(ctx context.Context, visit func(locator.File) (bool, error)) error {
	return c.eachPage(ctx, ListQuery{
		Query:    allFilesQuery,
		Fields:   listFields,
		PageSize: pageSizeFiles,
	}, visit)
}

// DriveByName implements locator.Directory. Names compare
// case-insensitively.
func (c *Client) DriveByName(ctx context.Context, name string) (locator.Drive, bool, error) {
	if d, ok := c.cache.drive(name); ok {
		c.log.Debug("resolution cache hit", "drive", name)
		return d, true, nil
	}

	pageToken := ""
	for {
		list, err := c.api.ListDrives(ctx, pageToken)
		if err != nil {
			return locator.Drive{}, false, fmt.Errorf("list shared drives: %w", err)
		}
		for _, d := range list.Drives {
			if strings.EqualFold(d.Name, name) {
				drv := locator.Drive{ID: d.Id, Name: d.Name}
				c.cache.addDrive(name, drv)
				return drv, true, nil
			}
		}
		if list.NextPageToken == "" {
			return locator.Drive{}, false, nil
		}
		pageToken = list.NextPageToken
	}
}

// FolderByName implements locator.Directory.
func (c *Client) FolderByName(ctx context.Context, driveID, parentID, name string) (locator.File, bool, error) {
	if id, ok := c.cache.folder(driveID, parentID, name); ok {
		c.log.Debug("resolution cache hit", "folder", name)
		return locator.File{ID: id, Name: name, MimeType: mimeTypeFolder}, true, nil
	}

	list, err := c.api.ListFiles(ctx, ListQuery{
		Query:    folderQuery(parentID, name),
		Fields:   listFields,
		PageSize: 1,
		DriveID:  driveID,
	})
	if err != nil {
		return locator.File{}, false, fmt.Errorf("list folders named %q: %w", name, err)
	}
	if len(list.Files) == 0 {
		return locator.File{}, false, nil
	}
	folder := toFile(list.Files[0])
	c.cache.addFolder(driveID, parentID, name, folder.ID)
	return folder, true, nil
}

// EachChild implements locator.Directory.
func (c *Client) EachChild(ctx context.Context, driveID, folderID string, visit func(locator.File) (bool, error)) error {
	return c.eachPage(ctx, ListQuery{
		Query:    childrenQuery(folderID),
		Fields:   listFields,
		PageSize: pageSizeFiles,
		DriveID:  driveID,
	}, visit)
}

// eachPage walks a listing page by page. The search cap counts visited
// files across pages; visit errors pass through unwrapped.
func (c *Client) eachPage(ctx context.Context, q ListQuery, visit func(locator.File) (bool, error)) error {
	visited := 0
	for {
		list, err := c.api.ListFiles(ctx, q)
		if err != nil {
			return fmt.Errorf("list files: %w", err)
		}
		for _, f := range list.Files {
			if c.searchCap > 0 && visited >= c.searchCap {
				c.log.Warn("search cap reached, stopping scan", "cap", c.searchCap)
				return nil
			}
			visited++
			stop, err := visit(toFile(f))
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}
		if list.NextPageToken == "" {
			return nil
		}
		q.PageToken = list.NextPageToken
		c.log.Debug("fetching next listing page", "visited", visited)
	}
}

// Metadata implements transfer.Media.
func (c *Client) Metadata(ctx context.Context, fileID string) (locator.File, error) {
	f, err := c.api.GetFile(ctx, fileID)
	if isNotFound(err) {
		return locator.File{}, fmt.Errorf("file %q: %w", fileID, locator.ErrNotFound)
	}
	if err != nil {
		return locator.File{}, fmt.Errorf("get file %q: %w", fileID, err)
	}
	return toFile(f), nil
}

// Download implements transfer.Media.
func (c *Client) Download(ctx context.Context, fileID string, acknowledgeAbuse bool) (io.ReadCloser, error) {
	return c.api.Download(ctx, fileID, acknowledgeAbuse)
}

// Export implements transfer.Media.
func (c *Client) Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	return c.api.Export(ctx, fileID, mimeType)
}

// Drives lists every shared drive visible to the credential.
func (c *Client) Drives(ctx context.Context) ([]locator.Drive, error) {
	var drives []locator.Drive
	pageToken := ""
	for {
		list, err := c.api.ListDrives(ctx, pageToken)
		if err != nil {
			return nil, fmt.Errorf("list shared drives: %w", err)
		}
		for _, d := range list.Drives {
			drives = append(drives, locator.Drive{ID: d.Id, Name: d.Name})
		}
		if list.NextPageToken == "" {
			return drives, nil
		}
		pageToken = list.NextPageToken
	}
}

// InvalidateResolutionCache drops every cached drive and folder
// resolution. It is a no-op when the cache is disabled.
func (c *Client) InvalidateResolutionCache() {
	c.cache.purge()
}

func toFile(f *drive.File) locator.File {
	return locator.File{ID: f.Id, Name: f.Name, MimeType: f.MimeType, Size: f.Size}
}

// isNotFound reports whether err is a Drive 404.
func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// Ensure Client implements the domain ports.
var (
	_ locator.Directory = (*Client)(nil)
	_ transfer.Media    = (*Client)(nil)
)
