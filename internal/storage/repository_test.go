package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeRepo is a minimal Repository implementation for tests.
type fakeRepo struct {
	closed bool
}

func (f *fakeRepo) Exec(ctx context.Context, sql string) error { return nil }
func (f *fakeRepo) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return int64(len(rows)), nil
}
func (f *fakeRepo) Count(ctx context.Context) (int64, error) { return 0, nil }
func (f *fakeRepo) Close()                                   { f.closed = true }

// TestRegisterAndNew_Success verifies that registering a backend enables New()
// to return the corresponding repository.
func TestRegisterAndNew_Success(t *testing.T) {
	t.Parallel()

	kind := "fake"
	var gotCfg Config
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		gotCfg = cfg
		return &fakeRepo{}, nil
	})

	repo, err := New(context.Background(), Config{Kind: kind, DSN: "x.db", Table: "songs"})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if repo == nil {
		t.Fatalf("New returned nil repo")
	}
	if gotCfg.DSN != "x.db" || gotCfg.Table != "songs" {
		t.Fatalf("factory got cfg %+v", gotCfg)
	}

	found := false
	for _, k := range ListKinds() {
		if k == kind {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("registered kind %q not present in ListKinds: %v", kind, ListKinds())
	}
}

// TestNew_Unsupported verifies that unsupported kinds return a helpful error.
func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "does-not-exist"})
	if err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
	if !strings.Contains(err.Error(), `unsupported kind "does-not-exist"`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRowErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := error(&RowError{Row: 3, Err: ErrConstraint})
	if !errors.Is(err, ErrConstraint) {
		t.Fatalf("errors.Is(RowError, ErrConstraint) = false")
	}
	var re *RowError
	if !errors.As(err, &re) || re.Row != 3 {
		t.Fatalf("errors.As = %v, row = %d", re, re.Row)
	}
	if got := err.Error(); got != "row 3: constraint violation" {
		t.Fatalf("Error() = %q", got)
	}
}
