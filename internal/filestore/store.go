// Package filestore implements types.Store over a single JSON backing file.
// The whole collection is read and written as one unit.
package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/hbnb/internal/snapshot"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Store owns the collection and its backing file.
type Store struct {
	path    string
	objects types.Collection
	log     zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for save and reload events.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// NewStore returns an empty store backed by path. Nothing is read until
// Reload.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		objects: make(types.Collection),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// All returns the live collection.
func (s *Store) All() types.Collection { return s.objects }

// New stores the normalized snapshot of r under its composite key.
func (s *Store) New(r types.Record) {
	fields := r.Serialize()
	if norm, err := snapshot.Normalize(fields); err == nil {
		fields = norm
	} else {
		s.log.Warn().Err(err).Str("key", types.Key(r)).Msg("storing unnormalized snapshot")
	}
	s.objects[types.Key(r)] = fields
}

// Save writes the collection to the backing file atomically.
func (s *Store) Save() error {
	data, err := snapshot.Encode(s.objects)
	if err != nil {
		return &types.PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &types.PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	if err := writeAtomic(s.path, data); err != nil {
		return &types.PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	s.log.Debug().Str("path", s.path).Int("records", len(s.objects)).Msg("collection saved")
	return nil
}

// Reload replaces the collection with the backing file's contents. An
// absent file yields an empty collection. On error the collection is left
// as it was.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.objects = make(types.Collection)
		s.log.Debug().Str("path", s.path).Msg("no backing file, starting empty")
		return nil
	}
	if err != nil {
		return &types.PersistenceError{Op: "reload", Path: s.path, Err: err}
	}
	objects, err := snapshot.Decode(s.path, data)
	if err != nil {
		return err
	}
	s.objects = objects
	s.log.Debug().Str("path", s.path).Int("records", len(objects)).Msg("collection reloaded")
	return nil
}

// writeAtomic writes data next to path and renames it into place using the
// temp-file, fsync, rename pattern.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".hbnb-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

var _ types.Store = (*Store)(nil)
