//go:build integration

package steps

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dikako/gdrive-downloader/application/download"
	"github.com/dikako/gdrive-downloader/cmd"
	"github.com/dikako/gdrive-downloader/infrastructure/drive"

	googledrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/cucumber/godog"
)

// fakeDrive is an in-memory drive.API. It answers the four query
// shapes the client issues: corpus scans, exact-name lookups, folder
// resolution inside a parent, and children listings.
type fakeDrive struct {
	corpus   []*googledrive.File            // flat corpus in listing order
	children map[string][]*googledrive.File // parent ID -> children in listing order
	drives   []*googledrive.Drive
	content  map[string]string // file ID -> raw bytes
	exports  map[string]string // file ID -> converted bytes

	downloadAcks []bool
	exportMimes  []string
}

func newFakeDrive() *fakeDrive {
	return &fakeDrive{
		children: make(map[string][]*googledrive.File),
		content:  make(map[string]string),
		exports:  make(map[string]string),
	}
}

var (
	queryNameRe   = regexp.MustCompile(`name = '([^']*)'`)
	queryParentRe = regexp.MustCompile(`'([^']*)' in parents`)
)

func (f *fakeDrive) GetFile(ctx context.Context, fileID string) (*googledrive.File, error) {
	for _, file := range f.corpus {
		if file.Id == fileID {
			return file, nil
		}
	}
	for _, files := range f.children {
		for _, file := range files {
			if file.Id == fileID {
				return file, nil
			}
		}
	}
	return nil, &googleapi.Error{Code: http.StatusNotFound}
}

func (f *fakeDrive) ListFiles(ctx context.Context, q drive.ListQuery) (*googledrive.FileList, error) {
	name := ""
	if m := queryNameRe.FindStringSubmatch(q.Query); m != nil {
		name = m[1]
	}
	parent := ""
	if m := queryParentRe.FindStringSubmatch(q.Query); m != nil {
		parent = m[1]
	}

	switch {
	case parent != "" && name != "":
		// Folder lookup inside a parent
		for _, file := range f.children[parent] {
			if file.MimeType == "application/vnd.google-apps.folder" && file.Name == name {
				return &googledrive.FileList{Files: []*googledrive.File{file}}, nil
			}
		}
		return &googledrive.FileList{}, nil

	case parent != "":
		// Children listing
		return &googledrive.FileList{Files: f.children[parent]}, nil

	case name != "":
		// Exact-name corpus search
		for _, file := range f.corpus {
			if file.Name == name {
				return &googledrive.FileList{Files: []*googledrive.File{file}}, nil
			}
		}
		return &googledrive.FileList{}, nil

	default:
		// Full corpus scan
		return &googledrive.FileList{Files: f.corpus}, nil
	}
}

func (f *fakeDrive) ListDrives(ctx context.Context, pageToken string) (*googledrive.DriveList, error) {
	return &googledrive.DriveList{Drives: f.drives}, nil
}

func (f *fakeDrive) Download(ctx context.Context, fileID string, acknowledgeAbuse bool) (io.ReadCloser, error) {
	f.downloadAcks = append(f.downloadAcks, acknowledgeAbuse)
	body, ok := f.content[fileID]
	if !ok {
		return nil, &googleapi.Error{Code: http.StatusNotFound}
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (f *fakeDrive) Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	f.exportMimes = append(f.exportMimes, mimeType)
	body, ok := f.exports[fileID]
	if !ok {
		return nil, &googleapi.Error{Code: http.StatusNotFound}
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

// driveContext holds the fake corpus and the outcome of the last
// command for download and search scenarios.
type driveContext struct {
	api     *fakeDrive
	destDir string
	output  *strings.Builder
	err     error
}

// SharedDriveContext is reset before each scenario via Before hook
var SharedDriveContext *driveContext

func getDriveContext() *driveContext {
	return SharedDriveContext
}

// service builds the full stack over the fake API.
func (d *driveContext) service() (*download.Service, error) {
	client, err := drive.NewClient(context.Background(), nil, drive.WithAPI(d.api))
	if err != nil {
		return nil, err
	}
	return download.NewService(client, client), nil
}

func InitializeDriveScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "drive-test-*")
		if err != nil {
			return c, err
		}
		SharedDriveContext = &driveContext{
			api:     newFakeDrive(),
			destDir: tempDir,
			output:  &strings.Builder{},
		}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if SharedDriveContext != nil && SharedDriveContext.destDir != "" {
			os.RemoveAll(SharedDriveContext.destDir)
		}
		SharedDriveContext = nil
		return c, nil
	})

	ctx.Step(`^the drive corpus contains files:$`, theDriveCorpusContainsFiles)
	ctx.Step(`^I list the shared drives$`, iListTheSharedDrives)
	ctx.Step(`^a shared drive "([^"]*)" with id "([^"]*)"$`, aSharedDriveWithID)
	ctx.Step(`^a folder "([^"]*)" with id "([^"]*)" under "([^"]*)"$`, aFolderWithIDUnder)
	ctx.Step(`^the folder "([^"]*)" contains files:$`, theFolderContainsFiles)
	ctx.Step(`^the file "([^"]*)" exports as "([^"]*)"$`, theFileExportsAs)
	ctx.Step(`^the command should report "([^"]*)"$`, theCommandShouldReport)
	ctx.Step(`^the destination should have "([^"]*)" containing "([^"]*)"$`, theDestinationShouldHave)
	ctx.Step(`^the operation should fail mentioning "([^"]*)"$`, theOperationShouldFailMentioning)
}

// parseFileTable reads rows of id, name, mimeType, content.
func parseFileTable(d *driveContext, table *godog.Table) ([]*googledrive.File, error) {
	var files []*googledrive.File
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		if len(row.Cells) != 4 {
			return nil, fmt.Errorf("expected 4 columns (id, name, mimeType, content), got %d", len(row.Cells))
		}
		id := row.Cells[0].Value
		content := row.Cells[3].Value
		files = append(files, &googledrive.File{
			Id:       id,
			Name:     row.Cells[1].Value,
			MimeType: row.Cells[2].Value,
			Size:     int64(len(content)),
		})
		if content != "" {
			d.api.content[id] = content
		}
	}
	return files, nil
}

func iListTheSharedDrives() error {
	d := getDriveContext()
	client, err := drive.NewClient(context.Background(), nil, drive.WithAPI(d.api))
	if err != nil {
		return err
	}
	d.err = cmd.RunDrivesWithDependencies(context.Background(), client, d.output)
	if d.err != nil {
		return fmt.Errorf("drives listing failed: %v", d.err)
	}
	return nil
}

func theDriveCorpusContainsFiles(table *godog.Table) error {
	d := getDriveContext()
	files, err := parseFileTable(d, table)
	if err != nil {
		return err
	}
	d.api.corpus = append(d.api.corpus, files...)
	return nil
}

func aSharedDriveWithID(name, id string) error {
	d := getDriveContext()
	d.api.drives = append(d.api.drives, &googledrive.Drive{Id: id, Name: name})
	return nil
}

func aFolderWithIDUnder(name, id, parentID string) error {
	d := getDriveContext()
	d.api.children[parentID] = append(d.api.children[parentID], &googledrive.File{
		Id:       id,
		Name:     name,
		MimeType: "application/vnd.google-apps.folder",
	})
	return nil
}

func theFolderContainsFiles(folderID string, table *godog.Table) error {
	d := getDriveContext()
	files, err := parseFileTable(d, table)
	if err != nil {
		return err
	}
	d.api.children[folderID] = append(d.api.children[folderID], files...)
	return nil
}

func theFileExportsAs(fileID, content string) error {
	d := getDriveContext()
	d.api.exports[fileID] = content
	return nil
}

func theCommandShouldReport(expected string) error {
	d := getDriveContext()
	if d.err != nil {
		return fmt.Errorf("command failed: %v", d.err)
	}
	if !strings.Contains(d.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got %q", expected, d.output.String())
	}
	return nil
}

func theDestinationShouldHave(name, expected string) error {
	d := getDriveContext()
	data, err := os.ReadFile(filepath.Join(d.destDir, name))
	if err != nil {
		return fmt.Errorf("expected file %q in destination: %v", name, err)
	}
	if string(data) != expected {
		return fmt.Errorf("expected %q to contain %q, got %q", name, expected, string(data))
	}
	return nil
}

func theOperationShouldFailMentioning(expected string) error {
	d := getDriveContext()
	if d.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(d.err.Error(), expected) {
		return fmt.Errorf("expected error mentioning %q, got: %v", expected, d.err)
	}
	return nil
}
