// Package store opens the types.Store backend named by a types.Config while
// keeping the backend implementations internal.
package store

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/hbnb/internal/filestore"
	"github.com/mesh-intelligence/hbnb/internal/sqlite"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// New validates cfg and returns an empty store for its backend. Call
// Reload once before use.
//
// Example:
//
//	s, err := store.New(types.Config{Backend: types.BackendJSON}, log)
//	if err != nil { ... }
//	if err := s.Reload(); err != nil { ... }
func New(cfg types.Config, log zerolog.Logger) (types.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("backend %q: %w", cfg.Backend, err)
	}
	log = log.With().Str("backend", cfg.Backend).Logger()
	if cfg.Backend == types.BackendSQLite {
		return sqlite.NewStore(cfg.Path(), sqlite.WithLogger(log)), nil
	}
	return filestore.NewStore(cfg.Path(), filestore.WithLogger(log)), nil
}
