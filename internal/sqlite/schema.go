package sqlite

// Schema DDL. One row per record; fields holds the JSON field map.
const (
	createRecords = `CREATE TABLE IF NOT EXISTS records (
    key TEXT PRIMARY KEY,
    kind TEXT NOT NULL,
    id TEXT NOT NULL,
    fields TEXT NOT NULL
);`

	idxRecordsKind = `CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);`
)

// schemaDDL lists the statements run before every save.
var schemaDDL = []string{
	createRecords,
	idxRecordsKind,
}

// sqliteHeader opens every SQLite database file.
const sqliteHeader = "SQLite format 3\x00"
