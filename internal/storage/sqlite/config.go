package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite file path, e.g. "app/src/main/assets/database/songs.db".
	// ":memory:" is accepted for tests.
	DSN string

	// Table is the target table name for inserts and queries, e.g. "songs".
	Table string

	// Columns is the ordered list of destination columns.
	Columns []string

	// ReadOnly opens an existing file without the ability to create or write
	// it. Used by the verification commands.
	ReadOnly bool

	// ProgressEvery is the row interval between CopyFrom progress lines.
	ProgressEvery int
}

const defaultProgressEvery = 1000
