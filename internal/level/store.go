package level

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

// Store loads and saves levels by name.
type Store interface {
	Load(ctx context.Context, name string) (*Level, error)
	Save(ctx context.Context, name string, lvl *Level) error
}

// FileStore keeps one text file per level under Dir. Names without an
// extension get Ext. Saving first copies the previous file to
// <name>_COPY<ext>.
type FileStore struct {
	Dir string
	log *zap.Logger
}

func NewFileStore(dir string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{Dir: dir, log: log}
}

// Ext is appended to level names given without an extension.
const Ext = ".txt"

func (s *FileStore) path(name string) string {
	if filepath.Ext(name) == "" {
		name += Ext
	}
	return filepath.Join(s.Dir, name)
}

// BackupPath inserts _COPY before the extension of path.
func BackupPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_COPY" + ext
}

// Load decodes the named level. A malformed file still yields the records
// before the bad line, together with the error.
func (s *FileStore) Load(ctx context.Context, name string) (*Level, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("open level %s: %w", name, err)
	}
	defer f.Close()
	lvl, err := Decode(f)
	if err != nil {
		s.log.Warn("partial level load",
			zap.String("level", name),
			zap.Int("records", lvl.Len()),
			zap.Error(err))
		return lvl, fmt.Errorf("level %s: %w", name, err)
	}
	return lvl, nil
}

// Save writes the level. Unchanged content is not rewritten.
func (s *FileStore) Save(ctx context.Context, name string, lvl *Level) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := s.path(name)
	raw := Marshal(lvl)

	prev, err := os.ReadFile(path)
	switch {
	case err == nil:
		if xxhash.Sum64(prev) == xxhash.Sum64(raw) {
			s.log.Debug("level unchanged", zap.String("level", name))
			return nil
		}
		if err := copyFile(path, BackupPath(path)); err != nil {
			return fmt.Errorf("backup level %s: %w", name, err)
		}
		s.log.Info("level backup written", zap.String("path", BackupPath(path)))
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("read level %s: %w", name, err)
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create level dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write level %s: %w", name, err)
	}
	s.log.Info("level saved",
		zap.String("level", name),
		zap.Int("records", lvl.Len()))
	return nil
}

// List returns level file names in Dir, backups excluded.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.Contains(n, "_COPY") {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
