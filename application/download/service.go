package download

import (
	"context"
	"log/slog"

	"github.com/dikako/gdrive-downloader/domain/locator"
	"github.com/dikako/gdrive-downloader/domain/transfer"
)

// Service bundles resolution and fetching behind the operations the CLI
// exposes: download by ID, by exact name, by substring or pattern, and
// by folder path inside a shared drive.
//
// Corpus-wide operations stream bytes raw. Folder-path operations fetch
// smart: Google Workspace documents convert to their Office equivalent
// and flagged content can be acknowledged through transfer.Options.
type Service struct {
	locator *locator.Locator
	fetcher *transfer.Fetcher
	log     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger shared by the resolution and transfer
// stages. The default discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		s.log = log
	}
}

// NewService creates a Service over a Directory for lookups and a Media
// for content.
func NewService(dir locator.Directory, media transfer.Media, opts ...Option) *Service {
	s := &Service{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	s.locator = locator.New(dir, locator.WithLogger(s.log))
	s.fetcher = transfer.NewFetcher(media, transfer.WithLogger(s.log))
	return s
}

// DownloadByID downloads the file with the given ID into destDir as raw
// bytes and returns the local file name.
func (s *Service) DownloadByID(ctx context.Context, fileID, destDir string) (string, error) {
	return s.fetcher.FetchRaw(ctx, fileID, destDir)
}

// DownloadByName downloads the first file named exactly name into
// destDir as raw bytes.
func (s *Service) DownloadByName(ctx context.Context, name, destDir string) (string, error) {
	file, err := s.locator.Resolve(ctx, locator.ByExactName(name))
	if err != nil {
		return "", err
	}
	return s.fetcher.FetchRaw(ctx, file.ID, destDir)
}

// DownloadByNameContains downloads the first file, in listing order,
// whose name contains substring.
func (s *Service) DownloadByNameContains(ctx context.Context, substring, destDir string) (string, error) {
	file, err := s.locator.Resolve(ctx, locator.ByNameContains(substring))
	if err != nil {
		return "", err
	}
	return s.fetcher.FetchRaw(ctx, file.ID, destDir)
}

// DownloadByRegex downloads the first file, in listing order, whose
// whole name matches pattern.
func (s *Service) DownloadByRegex(ctx context.Context, pattern, destDir string) (string, error) {
	sel, err := locator.ByNameRegex(pattern)
	if err != nil {
		return "", err
	}
	file, err := s.locator.Resolve(ctx, sel)
	if err != nil {
		return "", err
	}
	return s.fetcher.FetchRaw(ctx, file.ID, destDir)
}

// DownloadByNameContainsInFolderPath walks folderPath inside a shared
// drive, picks the first file whose name contains substring, and
// fetches it with conversion and abuse handling per opts.
func (s *Service) DownloadByNameContainsInFolderPath(ctx context.Context, folderPath, substring, destDir string, opts transfer.Options) (string, error) {
	file, err := s.resolveInPath(ctx, folderPath, locator.ByNameContains(substring))
	if err != nil {
		return "", err
	}
	return s.fetcher.Fetch(ctx, file.ID, destDir, opts)
}

// DownloadByRegexInFolderPath walks folderPath inside a shared drive,
// picks the first file whose whole name matches pattern, and fetches it
// with conversion and abuse handling per opts.
func (s *Service) DownloadByRegexInFolderPath(ctx context.Context, folderPath, pattern, destDir string, opts transfer.Options) (string, error) {
	sel, err := locator.ByNameRegex(pattern)
	if err != nil {
		return "", err
	}
	file, err := s.resolveInPath(ctx, folderPath, sel)
	if err != nil {
		return "", err
	}
	return s.fetcher.Fetch(ctx, file.ID, destDir, opts)
}

// Fetch downloads a known file ID with conversion and abuse handling.
func (s *Service) Fetch(ctx context.Context, fileID, destDir string, opts transfer.Options) (string, error) {
	return s.fetcher.Fetch(ctx, fileID, destDir, opts)
}

// Resolve finds the file a selector describes without downloading it.
func (s *Service) Resolve(ctx context.Context, sel locator.Selector) (locator.File, error) {
	return s.locator.Resolve(ctx, sel)
}

// ResolveInFolderPath finds a file inside a shared-drive folder path
// without downloading it.
func (s *Service) ResolveInFolderPath(ctx context.Context, folderPath string, sel locator.Selector) (locator.File, error) {
	return s.resolveInPath(ctx, folderPath, sel)
}

func (s *Service) resolveInPath(ctx context.Context, folderPath string, sel locator.Selector) (locator.File, error) {
	path, err := locator.ParseFolderPath(folderPath)
	if err != nil {
		return locator.File{}, err
	}
	return s.locator.ResolveInFolderPath(ctx, path, sel)
}
