// Package report writes the JSON summary of a build run.
package report

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"

	"songdb/internal/converter"
)

// Duplicate is one repeated music_id in the report.
type Duplicate struct {
	MusicID   string `json:"musicId"`
	Line      int    `json:"line"`
	FirstLine int    `json:"firstLine"`
}

// Report is the document written by Write.
type Report struct {
	Source      string      `json:"source"`
	Dest        string      `json:"dest"`
	Rows        int         `json:"rows"`
	Parsed      int         `json:"parsed"`
	Skipped     int         `json:"skipped"`
	SkipSamples []string    `json:"skipSamples,omitempty"`
	Written     int64       `json:"written"`
	Duplicates  []Duplicate `json:"duplicates"`
	Bytes       int64       `json:"bytes"`
	Size        string      `json:"size"`
	StartedAt   time.Time   `json:"startedAt"`
	DurationMS  int64       `json:"durationMs"`
	Step        string      `json:"step,omitempty"`
	Error       string      `json:"error"`
}

// New builds a Report from a run result and its error, which may be nil.
func New(res converter.Result, runErr error) Report {
	r := Report{
		Source:      res.Source,
		Dest:        res.Dest,
		Rows:        res.Rows,
		Parsed:      res.Parsed,
		Skipped:     res.Skipped,
		SkipSamples: res.SkipSamples,
		Written:     res.Written,
		Duplicates:  make([]Duplicate, 0, len(res.Duplicates)),
		Bytes:       res.Bytes,
		Size:        humanize.Bytes(uint64(max(res.Bytes, 0))),
		StartedAt:   res.StartedAt.UTC(),
		DurationMS:  res.Duration.Milliseconds(),
	}
	for _, d := range res.Duplicates {
		r.Duplicates = append(r.Duplicates, Duplicate{MusicID: d.MusicID, Line: d.Line, FirstLine: d.FirstLine})
	}
	if runErr != nil {
		r.Error = runErr.Error()
		var ce *converter.Error
		if errors.As(runErr, &ce) {
			r.Step = ce.Step
		}
	}
	return r
}

// Write stores r as indented JSON at path, creating parent directories. The
// file is written to a temporary name first and renamed into place.
func Write(path string, r Report) error {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal: %w", err)
	}
	b = append(b, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: mkdir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("report: rename %s: %w", path, err)
	}
	return nil
}

// Read loads a report written by Write.
func Read(path string) (Report, error) {
	var r Report
	b, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("report: read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, &r); err != nil {
		return r, fmt.Errorf("report: decode %s: %w", path, err)
	}
	return r, nil
}
