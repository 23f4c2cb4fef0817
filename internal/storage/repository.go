// Package storage contains storage-agnostic contracts used by the converter:
// the Repository interface, a small backend factory, and error classification
// shared by backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrConstraint marks an insert rejected by a uniqueness or primary-key
// constraint. Backends wrap their driver error with it.
var ErrConstraint = errors.New("constraint violation")

// ErrIO marks a failure of the underlying file or disk rather than of the
// data being written.
var ErrIO = errors.New("storage i/o")

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// Config is the backend-neutral repository configuration.
type Config struct {
	// Kind selects the backend, e.g. "sqlite".
	Kind string

	// DSN is passed to the backend driver. For SQLite this is a file path.
	DSN string

	// Table is the destination table.
	Table string

	// Columns is the ordered list of destination columns used by CopyFrom.
	Columns []string

	// ProgressEvery controls how often CopyFrom logs progress, in rows.
	// Zero selects the backend default.
	ProgressEvery int
}

// Repository is implemented by each backend.
type Repository interface {
	// Exec runs a statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	// CopyFrom inserts rows aligned to columns inside one transaction. Either
	// every row is committed or none is. On failure the returned error is a
	// *RowError when a specific row was rejected.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Count returns the number of rows in the configured table.
	Count(ctx context.Context) (int64, error)

	// Close releases the underlying handle. Calling it again is a no-op.
	Close()
}

// RowError reports the row (0-based index into the CopyFrom input) that a
// backend rejected.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// Factory constructs a Repository for a backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. Backends call it from
// init.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unsupported kind %q (registered: %v)", cfg.Kind, ListKinds())
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered backend kinds, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
