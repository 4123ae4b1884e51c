package transfer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/dikako/gdrive-downloader/domain/locator"
)

// fakeMedia serves metadata and content from memory and records which
// stream was requested with which arguments.
type fakeMedia struct {
	files       map[string]locator.File
	content     map[string][]byte
	exports     map[string][]byte
	metadataErr error
	streamErr   error
	copyErr     error
	acks        []bool
	exportMimes []string
}

func (m *fakeMedia) Metadata(_ context.Context, fileID string) (locator.File, error) {
	if m.metadataErr != nil {
		return locator.File{}, m.metadataErr
	}
	f, ok := m.files[fileID]
	if !ok {
		return locator.File{}, errors.New("no such file")
	}
	return f, nil
}

func (m *fakeMedia) Download(_ context.Context, fileID string, acknowledgeAbuse bool) (io.ReadCloser, error) {
	m.acks = append(m.acks, acknowledgeAbuse)
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	return m.stream(m.content[fileID]), nil
}

func (m *fakeMedia) Export(_ context.Context, fileID, mimeType string) (io.ReadCloser, error) {
	m.exportMimes = append(m.exportMimes, mimeType)
	if m.streamErr != nil {
		return nil, m.streamErr
	}
	return m.stream(m.exports[fileID]), nil
}

func (m *fakeMedia) stream(data []byte) io.ReadCloser {
	if m.copyErr != nil {
		return io.NopCloser(&brokenReader{data: data, err: m.copyErr})
	}
	return io.NopCloser(bytes.NewReader(data))
}

// brokenReader yields its data and then fails instead of returning EOF.
type brokenReader struct {
	data []byte
	err  error
	pos  int
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, r.err
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

var _ Media = (*fakeMedia)(nil)

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return data
}

func TestFetchRawWritesRemoteBytes(t *testing.T) {
	media := &fakeMedia{
		files:   map[string]locator.File{"abc": {ID: "abc", Name: "report.csv", MimeType: "text/csv"}},
		content: map[string][]byte{"abc": []byte("id,total\n1,99\n")},
	}
	fetcher := NewFetcher(media)
	dir := t.TempDir()

	name, err := fetcher.FetchRaw(context.Background(), "abc", dir)
	if err != nil {
		t.Fatalf("FetchRaw returned error: %v", err)
	}
	if name != "report.csv" {
		t.Errorf("name = %q, want report.csv", name)
	}
	if got := readFile(t, filepath.Join(dir, "report.csv")); !bytes.Equal(got, media.content["abc"]) {
		t.Errorf("file content = %q, want %q", got, media.content["abc"])
	}
	if len(media.acks) != 1 || media.acks[0] {
		t.Errorf("acks = %v, want a single false", media.acks)
	}
}

func TestFetchRawIgnoresDocumentType(t *testing.T) {
	media := &fakeMedia{
		files:   map[string]locator.File{"doc1": {ID: "doc1", Name: "Meeting Notes", MimeType: "application/vnd.google-apps.document"}},
		content: map[string][]byte{"doc1": []byte("raw")},
	}
	fetcher := NewFetcher(media)
	dir := t.TempDir()

	name, err := fetcher.FetchRaw(context.Background(), "doc1", dir)
	if err != nil {
		t.Fatalf("FetchRaw returned error: %v", err)
	}
	if name != "Meeting Notes" {
		t.Errorf("name = %q, want remote name without extension", name)
	}
	if len(media.exportMimes) != 0 {
		t.Errorf("exportMimes = %v, want no export calls", media.exportMimes)
	}
}

func TestFetchExportsGoogleDocument(t *testing.T) {
	media := &fakeMedia{
		files:   map[string]locator.File{"doc1": {ID: "doc1", Name: "Meeting Notes", MimeType: "application/vnd.google-apps.document"}},
		exports: map[string][]byte{"doc1": []byte("converted-docx-bytes")},
	}
	fetcher := NewFetcher(media)
	dir := t.TempDir()

	name, err := fetcher.Fetch(context.Background(), "doc1", dir, Options{})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if name != "Meeting Notes.docx" {
		t.Errorf("name = %q, want Meeting Notes.docx", name)
	}
	if got := readFile(t, filepath.Join(dir, "Meeting Notes.docx")); !bytes.Equal(got, media.exports["doc1"]) {
		t.Errorf("file content = %q, want exported bytes", got)
	}
	want := "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	if len(media.exportMimes) != 1 || media.exportMimes[0] != want {
		t.Errorf("exportMimes = %v, want [%s]", media.exportMimes, want)
	}
	if len(media.acks) != 0 {
		t.Errorf("acks = %v, want no raw downloads", media.acks)
	}
}

func TestFetchStreamsBinaryRaw(t *testing.T) {
	media := &fakeMedia{
		files:   map[string]locator.File{"vid": {ID: "vid", Name: "service.mp4", MimeType: "video/mp4", Size: 4}},
		content: map[string][]byte{"vid": []byte("mp4!")},
	}
	fetcher := NewFetcher(media)
	dir := t.TempDir()

	name, err := fetcher.Fetch(context.Background(), "vid", dir, Options{AcknowledgeAbuse: true})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if name != "service.mp4" {
		t.Errorf("name = %q, want service.mp4", name)
	}
	if len(media.acks) != 1 || !media.acks[0] {
		t.Errorf("acks = %v, want acknowledge flag forwarded", media.acks)
	}
}

func TestFetchCreatesDestinationDir(t *testing.T) {
	media := &fakeMedia{
		files:   map[string]locator.File{"abc": {ID: "abc", Name: "report.csv"}},
		content: map[string][]byte{"abc": []byte("x")},
	}
	fetcher := NewFetcher(media)
	dir := filepath.Join(t.TempDir(), "out", "nested")

	if _, err := fetcher.Fetch(context.Background(), "abc", dir, Options{}); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "report.csv")); err != nil {
		t.Errorf("expected file inside created directory: %v", err)
	}
}

func TestFetchOverwritesExistingFile(t *testing.T) {
	media := &fakeMedia{
		files:   map[string]locator.File{"abc": {ID: "abc", Name: "report.csv"}},
		content: map[string][]byte{"abc": []byte("fresh")},
	}
	fetcher := NewFetcher(media)
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv")
	if err := os.WriteFile(path, []byte("stale content, longer than fresh"), 0644); err != nil {
		t.Fatalf("seed existing file: %v", err)
	}

	if _, err := fetcher.Fetch(context.Background(), "abc", dir, Options{}); err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if got := readFile(t, path); string(got) != "fresh" {
		t.Errorf("file content = %q, want %q", got, "fresh")
	}
}

func TestFetchDestinationNotCreatable(t *testing.T) {
	media := &fakeMedia{
		files:   map[string]locator.File{"abc": {ID: "abc", Name: "report.csv"}},
		content: map[string][]byte{"abc": []byte("x")},
	}
	fetcher := NewFetcher(media)
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "blocker")
	if err := os.WriteFile(blocker, []byte("file, not dir"), 0644); err != nil {
		t.Fatalf("seed blocking file: %v", err)
	}

	_, err := fetcher.Fetch(context.Background(), "abc", filepath.Join(blocker, "sub"), Options{})
	if !errors.Is(err, ErrTransfer) {
		t.Errorf("error = %v, want ErrTransfer", err)
	}
}

func TestFetchCopyFailure(t *testing.T) {
	media := &fakeMedia{
		files:   map[string]locator.File{"abc": {ID: "abc", Name: "report.csv"}},
		content: map[string][]byte{"abc": []byte("partial")},
		copyErr: errors.New("connection reset"),
	}
	fetcher := NewFetcher(media)

	_, err := fetcher.Fetch(context.Background(), "abc", t.TempDir(), Options{})
	if !errors.Is(err, ErrTransfer) {
		t.Errorf("error = %v, want ErrTransfer", err)
	}
}

func TestFetchMetadataError(t *testing.T) {
	errMeta := errors.New("metadata lookup failed")
	media := &fakeMedia{metadataErr: errMeta}
	fetcher := NewFetcher(media)

	if _, err := fetcher.Fetch(context.Background(), "abc", t.TempDir(), Options{}); !errors.Is(err, errMeta) {
		t.Errorf("error = %v, want wrapped metadata failure", err)
	}
	if _, err := fetcher.FetchRaw(context.Background(), "abc", t.TempDir()); !errors.Is(err, errMeta) {
		t.Errorf("FetchRaw error = %v, want wrapped metadata failure", err)
	}
}

func TestFetchStreamOpenError(t *testing.T) {
	errStream := errors.New("stream refused")
	media := &fakeMedia{
		files:     map[string]locator.File{"abc": {ID: "abc", Name: "report.csv"}},
		streamErr: errStream,
	}
	fetcher := NewFetcher(media)

	if _, err := fetcher.Fetch(context.Background(), "abc", t.TempDir(), Options{}); !errors.Is(err, errStream) {
		t.Errorf("error = %v, want wrapped stream failure", err)
	}
}
