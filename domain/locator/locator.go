package locator

import (
	"context"
	"fmt"
	"log/slog"
)

// Locator resolves selectors to file descriptors against a Directory.
// It owns the matching rules: first match in listing order wins, name
// patterns must match the whole name, and folder paths are walked
// strictly top-down without backtracking.
type Locator struct {
	dir Directory
	log *slog.Logger
}

// Option configures a Locator.
type Option func(*Locator)

// WithLogger sets the logger for resolution progress. The default
// discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(l *Locator) {
		l.log = log
	}
}

// New creates a Locator over the given Directory.
func New(dir Directory, opts ...Option) *Locator {
	l := &Locator{
		dir: dir,
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Resolve finds the single file described by sel.
//
// ID and exact-name selectors resolve with a single remote lookup.
// Substring and pattern selectors scan the caller's whole corpus
// client-side and return the first match in listing order, so repeated
// calls against an unchanged corpus pick the same file.
func (l *Locator) Resolve(ctx context.Context, sel Selector) (File, error) {
	switch sel.kind {
	case kindID:
		file, found, err := l.dir.FileByID(ctx, sel.term)
		if err != nil {
			return File{}, fmt.Errorf("look up file %q: %w", sel.term, err)
		}
		if !found {
			return File{}, fmt.Errorf("no file with id %q: %w", sel.term, ErrNotFound)
		}
		return file, nil

	case kindExactName:
		file, found, err := l.dir.FirstByName(ctx, sel.term)
		if err != nil {
			return File{}, fmt.Errorf("search for name %q: %w", sel.term, err)
		}
		if !found {
			return File{}, fmt.Errorf("no file found with name %q: %w", sel.term, ErrNotFound)
		}
		l.log.Info("file resolved", "name", file.Name, "id", file.ID)
		return file, nil

	case kindNameContains, kindNameRegex:
		file, found, err := l.scan(ctx, sel)
		if err != nil {
			return File{}, fmt.Errorf("search for %s: %w", sel, err)
		}
		if !found {
			return File{}, fmt.Errorf("no file found with %s: %w", sel, ErrNotFound)
		}
		l.log.Info("file resolved", "name", file.Name, "id", file.ID)
		return file, nil

	default:
		return File{}, fmt.Errorf("no file found with %s: %w", sel, ErrNotFound)
	}
}

func (l *Locator) scan(ctx context.Context, sel Selector) (File, bool, error) {
	var match File
	found := false
	err := l.dir.EachFile(ctx, func(f File) (bool, error) {
		l.log.Debug("checking candidate", "name", f.Name)
		if sel.MatchesName(f.Name) {
			match, found = f, true
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return File{}, false, err
	}
	return match, found, nil
}

// ResolveInFolderPath walks path segment by segment and picks the first
// file in the final folder that satisfies sel.
//
// The walk is strictly sequential: the shared drive resolves first,
// then every folder inside the previous one. A segment that fails stops
// the walk before any folder contents are listed. A missing drive is
// ErrNotFound; a missing folder segment is ErrAmbiguousPath; no match
// among the final folder's children is ErrNotFound.
func (l *Locator) ResolveInFolderPath(ctx context.Context, path FolderPath, sel Selector) (File, error) {
	if path.drive == "" {
		return File{}, fmt.Errorf("%w: empty path", ErrInvalidFolderPath)
	}
	if sel.kind == kindID {
		return File{}, fmt.Errorf("selector %s cannot match folder contents by name", sel)
	}

	drv, found, err := l.dir.DriveByName(ctx, path.drive)
	if err != nil {
		return File{}, fmt.Errorf("look up shared drive %q: %w", path.drive, err)
	}
	if !found {
		return File{}, fmt.Errorf("shared drive %q not found: %w", path.drive, ErrNotFound)
	}
	l.log.Info("shared drive resolved", "name", drv.Name, "id", drv.ID)

	// The root folder of a shared drive carries the drive's own ID.
	parentID := drv.ID
	for _, name := range path.folders {
		folder, found, err := l.dir.FolderByName(ctx, drv.ID, parentID, name)
		if err != nil {
			return File{}, fmt.Errorf("look up folder %q in path %q: %w", name, path, err)
		}
		if !found {
			return File{}, fmt.Errorf("folder %q not found in path %q: %w", name, path, ErrAmbiguousPath)
		}
		l.log.Debug("folder segment resolved", "folder", folder.Name, "id", folder.ID)
		parentID = folder.ID
	}

	var match File
	matched := false
	err = l.dir.EachChild(ctx, drv.ID, parentID, func(f File) (bool, error) {
		l.log.Debug("checking candidate", "name", f.Name)
		if sel.MatchesName(f.Name) {
			match, matched = f, true
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return File{}, fmt.Errorf("list contents of %q: %w", path, err)
	}
	if !matched {
		return File{}, fmt.Errorf("no file found with %s in %q: %w", sel, path, ErrNotFound)
	}
	l.log.Info("file resolved", "name", match.Name, "id", match.ID)
	return match, nil
}
