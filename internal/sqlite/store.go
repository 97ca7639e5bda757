// Package sqlite implements types.Store over a SQLite database holding one
// row per record. Save replaces every row in a single transaction, so the
// collection is still read and written as one unit.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/hbnb/internal/snapshot"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Store owns the collection and its backing database file. The database
// is opened for each Save and Reload and closed again.
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

// NewStore returns an empty store backed by the database at path.
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

// Path returns the database file path.
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

// Save replaces the database contents with the collection.
func (s *Store) Save() error {
	if err := s.save(); err != nil {
		return &types.PersistenceError{Op: "save", Path: s.path, Err: err}
	}
	s.log.Debug().Str("path", s.path).Int("records", len(s.objects)).Msg("collection saved")
	return nil
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replaceRecords(tx, s.objects); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// Reload replaces the collection with the database contents. An absent or
// zero-length file, or a database without the records table, yields an
// empty collection. A file that is not a SQLite database is a
// *types.CorruptStoreError. On error the collection is left as it was.
func (s *Store) Reload() error {
	empty, err := s.checkHeader()
	if err != nil {
		return err
	}
	if empty {
		s.objects = make(types.Collection)
		s.log.Debug().Str("path", s.path).Msg("no backing database, starting empty")
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return &types.PersistenceError{Op: "reload", Path: s.path, Err: err}
	}
	defer db.Close()

	ok, err := hasRecordsTable(db)
	if err != nil {
		return &types.PersistenceError{Op: "reload", Path: s.path, Err: err}
	}
	if !ok {
		s.objects = make(types.Collection)
		return nil
	}

	objects, err := loadRecords(db, s.path)
	if err != nil {
		var ce *types.CorruptStoreError
		if errors.As(err, &ce) {
			return err
		}
		return &types.PersistenceError{Op: "reload", Path: s.path, Err: err}
	}
	s.objects = objects
	s.log.Debug().Str("path", s.path).Int("records", len(objects)).Msg("collection reloaded")
	return nil
}

// checkHeader reports whether the backing file is absent or empty, and
// rejects files that do not start with the SQLite header.
func (s *Store) checkHeader() (empty bool, err error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, &types.PersistenceError{Op: "reload", Path: s.path, Err: err}
	}
	defer f.Close()

	header := make([]byte, len(sqliteHeader))
	n, err := io.ReadFull(f, header)
	switch {
	case n == 0 && err == io.EOF:
		return true, nil
	case errors.Is(err, io.ErrUnexpectedEOF):
		return false, &types.CorruptStoreError{Path: s.path, Reason: "file is too short to be a SQLite database"}
	case err != nil:
		return false, &types.PersistenceError{Op: "reload", Path: s.path, Err: err}
	case string(header) != sqliteHeader:
		return false, &types.CorruptStoreError{Path: s.path, Reason: "file is not a SQLite database"}
	}
	return false, nil
}

var _ types.Store = (*Store)(nil)
