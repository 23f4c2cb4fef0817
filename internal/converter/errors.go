package converter

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error matches exactly one of them with errors.Is.
var (
	// ErrIO: a file is missing, unreadable or cannot be deleted.
	ErrIO = errors.New("io")
	// ErrParse: the header lacks a required name or a row is malformed.
	ErrParse = errors.New("parse")
	// ErrConstraint: a music_id repeats.
	ErrConstraint = errors.New("constraint")
	// ErrSchema: the destination cannot be created or used as a database.
	ErrSchema = errors.New("schema")
)

// Step names used in errors, logs and metrics.
const (
	StepParse      = "parse"
	StepDuplicates = "check-duplicates"
	StepRemove     = "remove"
	StepCreate     = "create"
	StepTable      = "create-table"
	StepInsert     = "insert"
	StepCount      = "count"
)

// Error is returned by Run for any failed step. Line is the 1-based source
// line when the failure is tied to one row, else 0.
type Error struct {
	Step string
	Kind error
	Path string
	Line int
	Err  error
}

func (e *Error) Error() string {
	loc := e.Path
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	return fmt.Sprintf("%s: %v error: %s: %v", e.Step, e.Kind, loc, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }

func newError(step string, kind error, path string, line int, err error) *Error {
	return &Error{Step: step, Kind: kind, Path: path, Line: line, Err: err}
}
