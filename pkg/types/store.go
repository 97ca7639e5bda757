package types

// Store is the single owner of the record collection and its backing
// file. One Store is created at start-up, reloaded once and passed to
// whatever drives it. Stores are not safe for concurrent use.
type Store interface {
	// All returns the live collection. Deleting a key from it and calling
	// Save is how records are removed.
	All() Collection

	// New inserts or replaces the snapshot of r under Key(r). It does not
	// write to disk.
	New(r Record)

	// Save writes the whole collection to the backing file, replacing it
	// atomically. Failures are *PersistenceError; the in-memory collection
	// is kept as it is.
	Save() error

	// Reload replaces the collection with the backing file's contents. An
	// absent file yields an empty collection. A file that cannot be parsed
	// is *CorruptStoreError and leaves the collection unchanged.
	Reload() error
}
