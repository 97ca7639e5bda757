package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/hbnb/internal/snapshot"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// hasRecordsTable reports whether the database holds the records table. A
// database written by something else, or an empty one, does not.
func hasRecordsTable(db *sql.DB) (bool, error) {
	var n int
	err := db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'records'`,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("reading schema: %w", err)
	}
	return n > 0, nil
}

// loadRecords reads every row into a collection. A row whose key, kind and
// id disagree, or whose fields are not a JSON object, is a
// *types.CorruptStoreError.
func loadRecords(db *sql.DB, path string) (types.Collection, error) {
	rows, err := db.Query(`SELECT key, kind, id, fields FROM records ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	c := make(types.Collection)
	for rows.Next() {
		var key, kind, id, fields string
		if err := rows.Scan(&key, &kind, &id, &fields); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		if key != types.JoinKey(kind, id) {
			return nil, &types.CorruptStoreError{
				Path:   path,
				Reason: fmt.Sprintf("row %q has kind %q and id %q", key, kind, id),
			}
		}
		f, err := snapshot.DecodeFields(path, key, []byte(fields))
		if err != nil {
			return nil, err
		}
		c[key] = f
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return c, nil
}

// replaceRecords deletes every row and inserts c in key order. The caller
// owns the transaction.
func replaceRecords(tx *sql.Tx, c types.Collection) error {
	if _, err := tx.Exec(`DELETE FROM records`); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO records (key, kind, id, fields) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, key := range c.Keys() {
		kind, id, ok := types.SplitKey(key)
		if !ok {
			return fmt.Errorf("%w: malformed key %q", types.ErrInvalidData, key)
		}
		data, err := snapshot.EncodeFields(c[key])
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if _, err := stmt.Exec(key, kind, id, string(data)); err != nil {
			return fmt.Errorf("inserting %s: %w", key, err)
		}
	}
	return nil
}
