package types

import (
	"errors"
	"fmt"
)

// Lookup errors. Callers report these and carry on.
var (
	ErrUnknownKind = errors.New("unknown kind")
	ErrNotFound    = errors.New("record not found")
)

// Record errors.
var (
	ErrInvalidData   = errors.New("invalid record data")
	ErrInvalidName   = errors.New("invalid field name")
	ErrReadOnlyField = errors.New("field is read-only")
)

// Store errors. Match with errors.Is; use errors.As with *PersistenceError
// or *CorruptStoreError for the path and cause.
var (
	ErrPersistence  = errors.New("persistence failure")
	ErrCorruptStore = errors.New("corrupt store")
)

// PersistenceError reports a backing file that could not be read or written.
// The in-memory collection is left as it was.
type PersistenceError struct {
	Op   string // "save" or "reload"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is reports ErrPersistence so callers need not know the concrete type.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// CorruptStoreError reports a backing file that exists but does not hold a
// mapping of composite keys to field maps. It is fatal at start-up: the
// store never repairs or discards such a file.
type CorruptStoreError struct {
	Path   string
	Reason string
	Err    error
}

func (e *CorruptStoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt store %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt store %s: %s", e.Path, e.Reason)
}

func (e *CorruptStoreError) Unwrap() error { return e.Err }

// Is reports ErrCorruptStore.
func (e *CorruptStoreError) Is(target error) bool { return target == ErrCorruptStore }
