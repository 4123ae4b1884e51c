package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dikako/gdrive-downloader/domain/locator"
)

// Media is the content side of the remote store: metadata lookups and
// byte streams. This is a port implemented by infrastructure adapters.
type Media interface {
	// Metadata returns the current descriptor for fileID.
	Metadata(ctx context.Context, fileID string) (locator.File, error)

	// Download opens the raw content stream of a file.
	Download(ctx context.Context, fileID string, acknowledgeAbuse bool) (io.ReadCloser, error)

	// Export opens a converted stream of a Google Workspace document.
	Export(ctx context.Context, fileID, mimeType string) (io.ReadCloser, error)
}

// Options control how file content is fetched.
type Options struct {
	// AcknowledgeAbuse requests the content of files Drive has flagged
	// as malware or policy-violating instead of failing the download.
	// Drive honors it only for the file owner.
	AcknowledgeAbuse bool
}

// Fetcher materializes remote files on the local filesystem.
type Fetcher struct {
	media Media
	log   *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithLogger sets the logger for transfer progress. The default
// discards everything.
func WithLogger(log *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.log = log
	}
}

// NewFetcher creates a Fetcher over the given Media.
func NewFetcher(media Media, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		media: media,
		log:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads fileID into destDir and returns the local file name.
//
// The descriptor is refetched before every transfer, so the local name
// and the conversion decision always follow the server's current
// metadata. Google Workspace documents are exported to their Office
// equivalent with the matching extension appended; every other type
// streams raw under its remote name. The destination directory is
// created when missing.
//
// An existing file with the same name is overwritten. A copy failure
// can leave a truncated file behind.
func (f *Fetcher) Fetch(ctx context.Context, fileID, destDir string, opts Options) (string, error) {
	if err := f.ensureDir(destDir); err != nil {
		return "", err
	}
	meta, err := f.media.Metadata(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("fetch metadata for file %q: %w", fileID, err)
	}

	name := meta.Name
	var stream io.ReadCloser
	if format, ok := ExportFormatFor(meta.MimeType); ok {
		f.log.Info("exporting document", "name", meta.Name, "as", format.MimeType)
		stream, err = f.media.Export(ctx, fileID, format.MimeType)
		name += format.Extension
	} else {
		f.log.Info("downloading file", "name", meta.Name, "size", meta.Size)
		stream, err = f.media.Download(ctx, fileID, opts.AcknowledgeAbuse)
	}
	if err != nil {
		return "", fmt.Errorf("open content stream for %q: %w", meta.Name, err)
	}
	defer stream.Close()

	if err := f.write(filepath.Join(destDir, name), stream); err != nil {
		return "", err
	}
	f.log.Info("download complete", "name", name, "dir", destDir)
	return name, nil
}

// FetchRaw downloads fileID into destDir without any conversion: the
// bytes land exactly as stored, under the file's remote name, and
// flagged content is never requested. Returns the local file name.
func (f *Fetcher) FetchRaw(ctx context.Context, fileID, destDir string) (string, error) {
	if err := f.ensureDir(destDir); err != nil {
		return "", err
	}
	meta, err := f.media.Metadata(ctx, fileID)
	if err != nil {
		return "", fmt.Errorf("fetch metadata for file %q: %w", fileID, err)
	}

	f.log.Info("downloading file", "name", meta.Name, "size", meta.Size)
	stream, err := f.media.Download(ctx, fileID, false)
	if err != nil {
		return "", fmt.Errorf("open content stream for %q: %w", meta.Name, err)
	}
	defer stream.Close()

	if err := f.write(filepath.Join(destDir, meta.Name), stream); err != nil {
		return "", err
	}
	f.log.Info("download complete", "name", meta.Name, "dir", destDir)
	return meta.Name, nil
}

func (f *Fetcher) ensureDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: create destination directory %q: %w", ErrTransfer, dir, err)
	}
	f.log.Info("created destination directory", "dir", dir)
	return nil
}

func (f *Fetcher) write(path string, stream io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create %q: %w", ErrTransfer, path, err)
	}
	if _, err := io.Copy(out, stream); err != nil {
		out.Close()
		return fmt.Errorf("%w: write %q: %w", ErrTransfer, path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: close %q: %w", ErrTransfer, path, err)
	}
	return nil
}
