package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/erraggy/openapi-gui/document"
	"github.com/erraggy/openapi-gui/internal/fileutil"
	"github.com/erraggy/openapi-gui/internal/pathutil"
	"github.com/erraggy/openapi-gui/oaserrors"
	"github.com/erraggy/openapi-gui/oaslog"
)

const (
	// HistoryDir is the directory below each module that holds backups.
	HistoryDir = ".history"

	// BackupLayout is the UTC timestamp layout embedded in backup names.
	BackupLayout = "20060102T150405.000000000"

	// DefaultExt is the file extension used when none is configured.
	DefaultExt = ".json"
)

// Identifier builds the stored name for a document name and version.
// Dots in the version become dashes: Identifier("pets", "1.2.0") is
// "pets_1-2-0". An empty version yields the bare name.
func Identifier(name, version string) string {
	if version == "" {
		return name
	}
	return name + "_" + strings.ReplaceAll(version, ".", "-")
}

// Entry describes one stored file.
type Entry struct {
	Module string `json:"module"`
	ID     string `json:"id"`
	// Path is the slash-separated location relative to the store root.
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
	// Version is the backup timestamp; empty for current files.
	Version string `json:"version,omitempty"`
}

// Store keeps documents in <Root>/<module>/<id><Ext>. Overwriting a file
// first moves the previous content to <module>/.history.
type Store struct {
	// Root is the directory holding the modules.
	Root string
	// Ext is the extension of stored files, including the dot.
	Ext string
	// Logger receives diagnostics. Nil discards them.
	Logger oaslog.Logger
	// Now returns the time used for backup names. Nil means time.Now.
	Now func() time.Time

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store) error

// WithLogger sets the store logger.
func WithLogger(l oaslog.Logger) Option {
	return func(s *Store) error {
		s.Logger = l
		return nil
	}
}

// WithClock sets the clock used for backup timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) error {
		if now == nil {
			return &oaserrors.ConfigError{Option: "clock", Message: "clock function is nil"}
		}
		s.Now = now
		return nil
	}
}

// NewStore creates a store rooted at root for files with extension ext
// ("json" and ".json" are equivalent; empty means DefaultExt). The root
// directory is created on first save.
func NewStore(root, ext string, opts ...Option) (*Store, error) {
	if root == "" {
		return nil, &oaserrors.ConfigError{Option: "root", Message: "store root is required"}
	}
	switch {
	case ext == "":
		ext = DefaultExt
	case !strings.HasPrefix(ext, "."):
		ext = "." + ext
	}
	if err := pathutil.CheckSegment("x" + ext); err != nil || len(ext) < 2 || strings.Count(ext, ".") != 1 {
		return nil, &oaserrors.ConfigError{Option: "ext", Value: ext, Message: "must be a single extension such as .json"}
	}

	s := &Store{Root: root, Ext: ext}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) logger() oaslog.Logger {
	return oaslog.OrNop(s.Logger)
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Store) ext() string {
	if s.Ext == "" {
		return DefaultExt
	}
	return s.Ext
}

// checkNames validates module, and id when checkID is set, as path segments.
func checkNames(module, id string, checkID bool) error {
	if err := pathutil.CheckSegment(module); err != nil {
		return &oaserrors.ConfigError{Option: "module", Value: module, Cause: err}
	}
	if checkID {
		if err := pathutil.CheckSegment(id); err != nil {
			return &oaserrors.ConfigError{Option: "id", Value: id, Cause: err}
		}
	}
	return nil
}

// FilePath returns the file system path of a stored item.
func (s *Store) FilePath(module, id string) (string, error) {
	if err := checkNames(module, id, true); err != nil {
		return "", err
	}
	return filepath.Join(s.Root, module, id+s.ext()), nil
}

// Save writes data as <module>/<id>. An existing file is moved to the
// module's history first.
func (s *Store) Save(ctx context.Context, module, id string, data []byte) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := s.FilePath(module, id)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(target)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(dir, fileutil.DirMode); err != nil {
		return nil, &oaserrors.StorageError{Op: "save", Module: module, ID: id, Cause: err}
	}

	if _, err := os.Stat(target); err == nil {
		if err := s.backup(module, id, target); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, &oaserrors.StorageError{Op: "save", Module: module, ID: id, Cause: err}
	}

	if err := writeFile(dir, target, data); err != nil {
		return nil, &oaserrors.StorageError{Op: "save", Module: module, ID: id, Cause: err}
	}
	s.logger().Info("stored document", "module", module, "id", id, "bytes", len(data))
	return s.stat(module, id, target)
}

// backup moves the current file of id into the history directory.
func (s *Store) backup(module, id, current string) error {
	historyDir := filepath.Join(s.Root, module, HistoryDir)
	if err := os.MkdirAll(historyDir, fileutil.DirMode); err != nil {
		return &oaserrors.StorageError{Op: "backup", Module: module, ID: id, Cause: err}
	}
	version := s.now().UTC().Format(BackupLayout)
	dest := filepath.Join(historyDir, id+"."+version+s.ext())
	if err := os.Rename(current, dest); err != nil {
		return &oaserrors.StorageError{Op: "backup", Module: module, ID: id, Cause: err}
	}
	s.logger().Debug("backed up document", "module", module, "id", id, "version", version)
	return nil
}

// writeFile writes data to a temporary file in dir and renames it over
// target, so readers never see a partial file.
func writeFile(dir, target string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Chmod(name, fileutil.ReadableByAll); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Rename(name, target); err != nil {
		_ = os.Remove(name)
		return err
	}
	return nil
}

// SaveDocument stores doc as two-space indented JSON.
func (s *Store) SaveDocument(ctx context.Context, module, id string, doc *document.Node) (*Entry, error) {
	data, err := document.Encode(doc, document.FormatJSON)
	if err != nil {
		return nil, &oaserrors.StorageError{Op: "save", Module: module, ID: id, Cause: err}
	}
	return s.Save(ctx, module, id, data)
}

// List returns the current files of module sorted by id. A module that
// does not exist yet has no entries.
func (s *Store) List(ctx context.Context, module string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkNames(module, "", false); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(filepath.Join(s.Root, module))
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, &oaserrors.StorageError{Op: "list", Module: module, Cause: err}
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		name := de.Name()
		if !de.Type().IsRegular() || strings.HasPrefix(name, ".") {
			continue
		}
		id, ok := strings.CutSuffix(name, s.ext())
		if !ok || id == "" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Module:  module,
			ID:      id,
			Path:    path.Join(module, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return strings.Compare(a.ID, b.ID) })
	return entries, nil
}

// Fetch returns the current content of <module>/<id>.
func (s *Store) Fetch(ctx context.Context, module, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := s.FilePath(module, id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(target)
	if err != nil {
		return nil, &oaserrors.StorageError{Op: "fetch", Module: module, ID: id, IsNotFound: errors.Is(err, fs.ErrNotExist), Cause: err}
	}
	return data, nil
}

// FetchDocument fetches and parses <module>/<id>.
func (s *Store) FetchDocument(ctx context.Context, module, id string) (*document.Node, error) {
	data, err := s.Fetch(ctx, module, id)
	if err != nil {
		return nil, err
	}
	return document.Parse(data, path.Join(module, id+s.ext()))
}

// History returns the backups of <module>/<id>, newest first.
func (s *Store) History(ctx context.Context, module, id string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkNames(module, id, true); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(filepath.Join(s.Root, module, HistoryDir))
	if errors.Is(err, fs.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, &oaserrors.StorageError{Op: "history", Module: module, ID: id, Cause: err}
	}

	entries := make([]Entry, 0)
	for _, de := range dirEntries {
		name := de.Name()
		rest, ok := strings.CutPrefix(name, id+".")
		if !ok || !de.Type().IsRegular() {
			continue
		}
		version, ok := strings.CutSuffix(rest, s.ext())
		if !ok {
			continue
		}
		taken, err := time.Parse(BackupLayout, version)
		if err != nil {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Module:  module,
			ID:      id,
			Path:    path.Join(module, HistoryDir, name),
			Size:    info.Size(),
			ModTime: taken,
			Version: version,
		})
	}
	slices.SortFunc(entries, func(a, b Entry) int { return b.ModTime.Compare(a.ModTime) })
	return entries, nil
}

// Open returns the content of a stored file by its entry path.
func (s *Store) Open(ctx context.Context, e Entry) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := path.Clean("/" + e.Path)[1:]
	if clean != e.Path || clean == "" {
		return nil, &oaserrors.ConfigError{Option: "path", Value: e.Path, Message: "not a clean relative path"}
	}
	data, err := os.ReadFile(filepath.Join(s.Root, filepath.FromSlash(clean)))
	if err != nil {
		return nil, &oaserrors.StorageError{Op: "open", Module: e.Module, ID: e.ID, IsNotFound: errors.Is(err, fs.ErrNotExist), Cause: err}
	}
	return data, nil
}

func (s *Store) stat(module, id, target string) (*Entry, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, &oaserrors.StorageError{Op: "stat", Module: module, ID: id, Cause: err}
	}
	return &Entry{
		Module:  module,
		ID:      id,
		Path:    path.Join(module, filepath.Base(target)),
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// String describes the store for log output.
func (s *Store) String() string {
	return fmt.Sprintf("store(%s, *%s)", s.Root, s.ext())
}
