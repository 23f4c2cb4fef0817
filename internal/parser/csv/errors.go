package csv

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingHeader means the input has no header row at all.
	ErrMissingHeader = errors.New("missing header row")

	// ErrMissingColumns means the header row lacks required field names.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrFieldCount means a data row's width differs from the header's.
	ErrFieldCount = errors.New("wrong number of fields")

	// ErrInvalidUTF8 means a value is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// HeaderError lists the required headers that were not found.
type HeaderError struct {
	Missing []string
	Found   []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("%v: %s (header: %s)",
		ErrMissingColumns, strings.Join(e.Missing, ", "), strings.Join(e.Found, ","))
}

func (e *HeaderError) Unwrap() error { return ErrMissingColumns }

// RowError reports a malformed data row by its 1-based source line.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }
