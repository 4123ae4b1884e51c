package drive

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"
	"testing"
	"time"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/dikako/gdrive-downloader/domain/locator"
)

// mockAPI serves canned pages and records every call for assertions.
type mockAPI struct {
	filesByID map[string]*drive.File
	getErr    error

	// file-listing pages keyed by query, then by page token
	filePages map[string]map[string]*drive.FileList
	listErr   error

	// drive-listing pages keyed by page token
	drivePages map[string]*drive.DriveList

	content map[string][]byte

	listQueries []ListQuery
	driveCalls  int
	downloads   []downloadCall
	exports     []exportCall
}

type downloadCall struct {
	fileID string
	ack    bool
}

type exportCall struct {
	fileID   string
	mimeType string
}

func (m *mockAPI) GetFile(_ context.Context, fileID string) (*drive.File, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	f, ok := m.filesByID[fileID]
	if !ok {
		return nil, &googleapi.Error{Code: http.StatusNotFound, Message: "notFound"}
	}
	return f, nil
}

func (m *mockAPI) ListFiles(_ context.Context, q ListQuery) (*drive.FileList, error) {
	m.listQueries = append(m.listQueries, q)
	if m.listErr != nil {
		return nil, m.listErr
	}
	byToken, ok := m.filePages[q.Query]
	if !ok {
		return &drive.FileList{}, nil
	}
	page, ok := byToken[q.PageToken]
	if !ok {
		return &drive.FileList{}, nil
	}
	return page, nil
}

func (m *mockAPI) ListDrives(_ context.Context, pageToken string) (*drive.DriveList, error) {
	m.driveCalls++
	page, ok := m.drivePages[pageToken]
	if !ok {
		return &drive.DriveList{}, nil
	}
	return page, nil
}

func (m *mockAPI) Download(_ context.Context, fileID string, acknowledgeAbuse bool) (io.ReadCloser, error) {
	m.downloads = append(m.downloads, downloadCall{fileID: fileID, ack: acknowledgeAbuse})
	return io.NopCloser(bytes.NewReader(m.content[fileID])), nil
}

func (m *mockAPI) Export(_ context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	m.exports = append(m.exports, exportCall{fileID: fileID, mimeType: mimeType})
	return io.NopCloser(bytes.NewReader(m.content[fileID])), nil
}

var _ API = (*mockAPI)(nil)

func newTestClient(t *testing.T, api API, opts ...ClientOption) *Client {
	t.Helper()
	c, err := NewClient(context.Background(), nil, append([]ClientOption{WithAPI(api)}, opts...)...)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return c
}

func TestFileByID(t *testing.T) {
	api := &mockAPI{
		filesByID: map[string]*drive.File{
			"abc": {Id: "abc", Name: "report.csv", MimeType: "text/csv", Size: 512},
		},
	}
	c := newTestClient(t, api)

	got, found, err := c.FileByID(context.Background(), "abc")
	if err != nil {
		t.Fatalf("FileByID returned error: %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}
	want := locator.File{ID: "abc", Name: "report.csv", MimeType: "text/csv", Size: 512}
	if got != want {
		t.Errorf("file = %+v, want %+v", got, want)
	}
}

func TestFileByIDNotFoundIsMiss(t *testing.T) {
	c := newTestClient(t, &mockAPI{})

	_, found, err := c.FileByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("FileByID returned error: %v", err)
	}
	if found {
		t.Error("found = true, want miss for 404")
	}
}

func TestFileByIDServerError(t *testing.T) {
	api := &mockAPI{getErr: &googleapi.Error{Code: http.StatusInternalServerError}}
	c := newTestClient(t, api)

	_, _, err := c.FileByID(context.Background(), "abc")
	if err == nil {
		t.Error("expected error for server failure, got nil")
	}
}

func TestFirstByNameQuery(t *testing.T) {
	query := "name = 'weekly report.csv' and trashed = false"
	api := &mockAPI{
		filePages: map[string]map[string]*drive.FileList{
			query: {"": {Files: []*drive.File{{Id: "abc", Name: "weekly report.csv"}}}},
		},
	}
	c := newTestClient(t, api)

	got, found, err := c.FirstByName(context.Background(), "weekly report.csv")
	if err != nil {
		t.Fatalf("FirstByName returned error: %v", err)
	}
	if !found || got.ID != "abc" {
		t.Errorf("got %+v found=%v, want abc found", got, found)
	}
	if len(api.listQueries) != 1 {
		t.Fatalf("listQueries = %d, want 1", len(api.listQueries))
	}
	q := api.listQueries[0]
	if q.Query != query {
		t.Errorf("query = %q, want %q", q.Query, query)
	}
	if q.PageSize != 1 {
		t.Errorf("page size = %d, want 1", q.PageSize)
	}
	if q.DriveID != "" {
		t.Errorf("drive id = %q, want unscoped", q.DriveID)
	}
}

func TestFirstByNameMiss(t *testing.T) {
	c := newTestClient(t, &mockAPI{})

	_, found, err := c.FirstByName(context.Background(), "absent.csv")
	if err != nil {
		t.Fatalf("FirstByName returned error: %v", err)
	}
	if found {
		t.Error("found = true, want miss")
	}
}

func TestEachFilePaginates(t *testing.T) {
	api := &mockAPI{
		filePages: map[string]map[string]*drive.FileList{
			allFilesQuery: {
				"": {
					Files:         []*drive.File{{Id: "1", Name: "a"}, {Id: "2", Name: "b"}},
					NextPageToken: "p2",
				},
				"p2": {
					Files: []*drive.File{{Id: "3", Name: "c"}},
				},
			},
		},
	}
	c := newTestClient(t, api)

	var names []string
	err := c.EachFile(context.Background(), func(f locator.File) (bool, error) {
		names = append(names, f.Name)
		return false, nil
	})
	if err != nil {
		t.Fatalf("EachFile returned error: %v", err)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
	if len(api.listQueries) != 2 {
		t.Errorf("list calls = %d, want 2 pages", len(api.listQueries))
	}
	if api.listQueries[1].PageToken != "p2" {
		t.Errorf("second page token = %q, want p2", api.listQueries[1].PageToken)
	}
}

func TestEachFileStopsEarly(t *testing.T) {
	api := &mockAPI{
		filePages: map[string]map[string]*drive.FileList{
			allFilesQuery: {
				"": {
					Files:         []*drive.File{{Id: "1", Name: "a"}, {Id: "2", Name: "b"}},
					NextPageToken: "p2",
				},
				"p2": {
					Files: []*drive.File{{Id: "3", Name: "c"}},
				},
			},
		},
	}
	c := newTestClient(t, api)

	visited := 0
	err := c.EachFile(context.Background(), func(f locator.File) (bool, error) {
		visited++
		return f.ID == "1", nil
	})
	if err != nil {
		t.Fatalf("EachFile returned error: %v", err)
	}
	if visited != 1 {
		t.Errorf("visited = %d, want scan to stop at the first file", visited)
	}
	if len(api.listQueries) != 1 {
		t.Errorf("list calls = %d, want no second page after stop", len(api.listQueries))
	}
}

func TestEachFileSearchCap(t *testing.T) {
	api := &mockAPI{
		filePages: map[string]map[string]*drive.FileList{
			allFilesQuery: {
				"": {
					Files: []*drive.File{
						{Id: "1", Name: "a"}, {Id: "2", Name: "b"},
						{Id: "3", Name: "c"}, {Id: "4", Name: "d"},
					},
				},
			},
		},
	}
	c := newTestClient(t, api, WithSearchCap(2))

	visited := 0
	err := c.EachFile(context.Background(), func(locator.File) (bool, error) {
		visited++
		return false, nil
	})
	if err != nil {
		t.Fatalf("EachFile returned error: %v", err)
	}
	if visited != 2 {
		t.Errorf("visited = %d, want cap of 2", visited)
	}
}

func TestEachFileVisitError(t *testing.T) {
	api := &mockAPI{
		filePages: map[string]map[string]*drive.FileList{
			allFilesQuery: {"": {Files: []*drive.File{{Id: "1", Name: "a"}}}},
		},
	}
	c := newTestClient(t, api)

	errVisit := errors.New("visit failed")
	err := c.EachFile(context.Background(), func(locator.File) (bool, error) {
		return false, errVisit
	})
	if !errors.Is(err, errVisit) {
		t.Errorf("error = %v, want visit error passed through", err)
	}
}

func TestDriveByNameIgnoresCaseAndPaginates(t *testing.T) {
	api := &mockAPI{
		drivePages: map[string]*drive.DriveList{
			"": {
				Drives:        []*drive.Drive{{Id: "m1", Name: "Marketing"}},
				NextPageToken: "d2",
			},
			"d2": {
				Drives: []*drive.Drive{{Id: "drv1", Name: "FinanceDrive"}},
			},
		},
	}
	c := newTestClient(t, api)

	got, found, err := c.DriveByName(context.Background(), "financedrive")
	if err != nil {
		t.Fatalf("DriveByName returned error: %v", err)
	}
	if !found || got.ID != "drv1" {
		t.Errorf("got %+v found=%v, want drv1 found", got, found)
	}
	if api.driveCalls != 2 {
		t.Errorf("drive list calls = %d, want 2 pages", api.driveCalls)
	}
}

func TestDriveByNameMiss(t *testing.T) {
	api := &mockAPI{
		drivePages: map[string]*drive.DriveList{
			"": {Drives: []*drive.Drive{{Id: "m1", Name: "Marketing"}}},
		},
	}
	c := newTestClient(t, api)

	_, found, err := c.DriveByName(context.Background(), "NoSuchDrive")
	if err != nil {
		t.Fatalf("DriveByName returned error: %v", err)
	}
	if found {
		t.Error("found = true, want miss")
	}
}

func TestFolderByNameQuery(t *testing.T) {
	query := "mimeType = 'application/vnd.google-apps.folder' and name = 'Reports' and 'drv1' in parents and trashed = false"
	api := &mockAPI{
		filePages: map[string]map[string]*drive.FileList{
			query: {"": {Files: []*drive.File{{Id: "f1", Name: "Reports", MimeType: mimeTypeFolder}}}},
		},
	}
	c := newTestClient(t, api)

	got, found, err := c.FolderByName(context.Background(), "drv1", "drv1", "Reports")
	if err != nil {
		t.Fatalf("FolderByName returned error: %v", err)
	}
	if !found || got.ID != "f1" {
		t.Errorf("got %+v found=%v, want f1 found", got, found)
	}
	q := api.listQueries[0]
	if q.Query != query {
		t.Errorf("query = %q, want %q", q.Query, query)
	}
	if q.DriveID != "drv1" {
		t.Errorf("drive id = %q, want drv1", q.DriveID)
	}
	if q.PageSize != 1 {
		t.Errorf("page size = %d, want 1", q.PageSize)
	}
}

func TestEachChildScopesToDrive(t *testing.T) {
	query := "'f1' in parents and trashed = false"
	api := &mockAPI{
		filePages: map[string]map[string]*drive.FileList{
			query: {"": {Files: []*drive.File{{Id: "10", Name: "report.csv"}}}},
		},
	}
	c := newTestClient(t, api)

	var names []string
	err := c.EachChild(context.Background(), "drv1", "f1", func(f locator.File) (bool, error) {
		names = append(names, f.Name)
		return false, nil
	})
	if err != nil {
		t.Fatalf("EachChild returned error: %v", err)
	}
	if len(names) != 1 || names[0] != "report.csv" {
		t.Errorf("names = %v, want [report.csv]", names)
	}
	if api.listQueries[0].DriveID != "drv1" {
		t.Errorf("drive id = %q, want drv1", api.listQueries[0].DriveID)
	}
}

func TestResolutionCacheSkipsRemoteLookups(t *testing.T) {
	folderQ := folderQuery("drv1", "Reports")
	api := &mockAPI{
		drivePages: map[string]*drive.DriveList{
			"": {Drives: []*drive.Drive{{Id: "drv1", Name: "FinanceDrive"}}},
		},
		filePages: map[string]map[string]*drive.FileList{
			folderQ: {"": {Files: []*drive.File{{Id: "f1", Name: "Reports", MimeType: mimeTypeFolder}}}},
		},
	}
	c := newTestClient(t, api, WithResolutionCache(time.Minute, 16))

	for i := 0; i < 2; i++ {
		if _, found, err := c.DriveByName(context.Background(), "FinanceDrive"); err != nil || !found {
			t.Fatalf("DriveByName #%d: found=%v err=%v", i+1, found, err)
		}
		if _, found, err := c.FolderByName(context.Background(), "drv1", "drv1", "Reports"); err != nil || !found {
			t.Fatalf("FolderByName #%d: found=%v err=%v", i+1, found, err)
		}
	}
	if api.driveCalls != 1 {
		t.Errorf("drive list calls = %d, want second lookup served from cache", api.driveCalls)
	}
	if len(api.listQueries) != 1 {
		t.Errorf("file list calls = %d, want second lookup served from cache", len(api.listQueries))
	}

	c.InvalidateResolutionCache()
	if _, _, err := c.DriveByName(context.Background(), "FinanceDrive"); err != nil {
		t.Fatalf("DriveByName after purge: %v", err)
	}
	if api.driveCalls != 2 {
		t.Errorf("drive list calls = %d, want remote lookup after purge", api.driveCalls)
	}
}

func TestResolutionCacheEntriesExpire(t *testing.T) {
	api := &mockAPI{
		drivePages: map[string]*drive.DriveList{
			"": {Drives: []*drive.Drive{{Id: "drv1", Name: "FinanceDrive"}}},
		},
	}
	c := newTestClient(t, api, WithResolutionCache(20*time.Millisecond, 16))

	for i := 0; i < 2; i++ {
		if _, found, err := c.DriveByName(context.Background(), "FinanceDrive"); err != nil || !found {
			t.Fatalf("DriveByName #%d: found=%v err=%v", i+1, found, err)
		}
	}
	if api.driveCalls != 1 {
		t.Fatalf("drive list calls = %d, want second lookup cached before the ttl", api.driveCalls)
	}

	time.Sleep(60 * time.Millisecond)

	if _, found, err := c.DriveByName(context.Background(), "FinanceDrive"); err != nil || !found {
		t.Fatalf("DriveByName after ttl: found=%v err=%v", found, err)
	}
	if api.driveCalls != 2 {
		t.Errorf("drive list calls = %d, want remote lookup once the entry expired", api.driveCalls)
	}
}

func TestCacheDisabledByDefault(t *testing.T) {
	api := &mockAPI{
		drivePages: map[string]*drive.DriveList{
			"": {Drives: []*drive.Drive{{Id: "drv1", Name: "FinanceDrive"}}},
		},
	}
	c := newTestClient(t, api)

	for i := 0; i < 2; i++ {
		if _, _, err := c.DriveByName(context.Background(), "FinanceDrive"); err != nil {
			t.Fatalf("DriveByName #%d: %v", i+1, err)
		}
	}
	if api.driveCalls != 2 {
		t.Errorf("drive list calls = %d, want every lookup remote without a cache", api.driveCalls)
	}
}

func TestMetadataNotFound(t *testing.T) {
	c := newTestClient(t, &mockAPI{})

	_, err := c.Metadata(context.Background(), "missing")
	if !errors.Is(err, locator.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDownloadForwardsAcknowledgeAbuse(t *testing.T) {
	api := &mockAPI{content: map[string][]byte{"abc": []byte("bytes")}}
	c := newTestClient(t, api)

	rc, err := c.Download(context.Background(), "abc", true)
	if err != nil {
		t.Fatalf("Download returned error: %v", err)
	}
	defer rc.Close()

	if len(api.downloads) != 1 || !api.downloads[0].ack {
		t.Errorf("downloads = %+v, want acknowledge flag forwarded", api.downloads)
	}
}

func TestDrivesListsAllPages(t *testing.T) {
	api := &mockAPI{
		drivePages: map[string]*drive.DriveList{
			"": {
				Drives:        []*drive.Drive{{Id: "m1", Name: "Marketing"}},
				NextPageToken: "d2",
			},
			"d2": {
				Drives: []*drive.Drive{{Id: "drv1", Name: "FinanceDrive"}},
			},
		},
	}
	c := newTestClient(t, api)

	drives, err := c.Drives(context.Background())
	if err != nil {
		t.Fatalf("Drives returned error: %v", err)
	}
	want := []locator.Drive{{ID: "m1", Name: "Marketing"}, {ID: "drv1", Name: "FinanceDrive"}}
	if !reflect.DeepEqual(drives, want) {
		t.Errorf("drives = %v, want %v", drives, want)
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), nil)
	if !errors.Is(err, ErrAuth) {
		t.Errorf("error = %v, want ErrAuth", err)
	}
}

func TestNewClientFromFileMissing(t *testing.T) {
	_, err := NewClientFromFile(context.Background(), "/nonexistent/credentials.json")
	if !errors.Is(err, ErrAuth) {
		t.Errorf("error = %v, want ErrAuth", err)
	}
}

func TestNewClientRejectsBadCredentials(t *testing.T) {
	_, err := NewClient(context.Background(), bytes.NewReader([]byte("not json")))
	if !errors.Is(err, ErrAuth) {
		t.Errorf("error = %v, want ErrAuth", err)
	}
}
