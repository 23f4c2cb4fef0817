// Package sqlite implements the SQLite-backed storage.Repository that writes
// the bundled songs database, plus the read queries the app runs against it.
//
// The driver is modernc.org/sqlite (pure Go), so the tool cross-compiles
// without cgo.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"songdb/internal/logging"
	"songdb/internal/storage"
	"songdb/internal/storage/sqlite/ddl"
)

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a SQLite connection for cfg.DSN and returns a Repository
// plus a Close function for cleanup. Unless cfg.ReadOnly is set the file is
// created when missing.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = defaultProgressEvery
	}

	db, err := sql.Open("sqlite", fileURI(cfg.DSN, cfg.ReadOnly))
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// One writer, one file; keeps the transaction and the count on the same
	// connection and makes ":memory:" behave as a single database.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping %s: %w", cfg.DSN, err)
	}

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// fileURI turns a filesystem path into a SQLite URI. The path is
// percent-escaped so '#', '?' and '%' stay part of the file name.
func fileURI(path string, readOnly bool) string {
	if path == ":memory:" {
		return path
	}
	uri := "file:" + (&url.URL{Path: path}).EscapedPath()
	if readOnly {
		uri += "?mode=ro"
	}
	return uri
}

// CopyFrom inserts the given rows into the configured table using a single
// transaction and a prepared INSERT statement.
//
// It returns the number of rows inserted or an error. The first failing row
// rolls back the whole transaction, so on error nothing is persisted. A
// rejected row is reported as *storage.RowError; key violations additionally
// match storage.ErrConstraint.
func (r *Repository) CopyFrom(
	ctx context.Context,
	columns []string,
	rows [][]any,
) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = ddl.QuoteIdent(c)
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		ddl.QuoteFQN(r.cfg.Table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classify("begin tx", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var (
		inserted  int64
		start     = time.Now()
		lastLog   = start
		lastCount int64
	)
	for i, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return 0, &storage.RowError{
				Row: i,
				Err: fmt.Errorf("sqlite: CopyFrom: row length %d != columns length %d", len(row), len(columns)),
			}
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return 0, &storage.RowError{Row: i, Err: classify("insert", err)}
		}
		inserted++

		if inserted%int64(r.cfg.ProgressEvery) == 0 {
			now := time.Now()
			since := now.Sub(lastLog)
			rps := float64(0)
			if since > 0 {
				rps = float64(inserted-lastCount) / since.Seconds()
			}
			logging.Debugf("sqlite: insert progress: rps=%.0f total=%d elapsed=%s",
				rps, inserted, now.Sub(start).Truncate(time.Millisecond))
			lastLog, lastCount = now, inserted
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, classify("commit", err)
	}
	return inserted, nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}

// Count returns the number of rows in the configured table.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + ddl.QuoteFQN(r.cfg.Table)
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite: count %s: %w", r.cfg.Table, err)
	}
	return n, nil
}

// Schema returns the CREATE statement stored in sqlite_master for table.
func (r *Repository) Schema(ctx context.Context, table string) (string, error) {
	var ddlText string
	err := r.db.QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&ddlText)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("sqlite: schema %s: %w", table, storage.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("sqlite: schema %s: %w", table, err)
	}
	return ddlText, nil
}

// classify wraps err with storage.ErrConstraint or storage.ErrIO depending on
// the SQLite result code. Extended codes (e.g. SQLITE_CONSTRAINT_PRIMARYKEY)
// share the primary code in their low byte.
func classify(op string, err error) error {
	switch {
	case IsConstraint(err):
		return fmt.Errorf("sqlite: %s: %w: %w", op, storage.ErrConstraint, err)
	case isIO(err):
		return fmt.Errorf("sqlite: %s: %w: %w", op, storage.ErrIO, err)
	}
	return fmt.Errorf("sqlite: %s: %w", op, err)
}

func primaryCode(err error) (int, bool) {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return 0, false
	}
	return se.Code() & 0xff, true
}

// IsConstraint reports whether err is a SQLite constraint violation.
func IsConstraint(err error) bool {
	code, ok := primaryCode(err)
	return ok && code == sqlite3.SQLITE_CONSTRAINT
}

func isIO(err error) bool {
	code, ok := primaryCode(err)
	if !ok {
		return false
	}
	switch code {
	case sqlite3.SQLITE_IOERR, sqlite3.SQLITE_FULL, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_READONLY:
		return true
	}
	return false
}
