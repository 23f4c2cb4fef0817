// Package dedup finds repeated music_id values before anything is written,
// so a run can list every offending row instead of stopping at the first
// primary-key violation.
package dedup

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"

	"songdb/internal/songs"
)

// Duplicate is a row whose MusicID was already used by an earlier row.
type Duplicate struct {
	MusicID   string `json:"music_id"`
	Line      int    `json:"line"`
	FirstLine int    `json:"first_line"`
}

func (d Duplicate) String() string {
	return fmt.Sprintf("line %d duplicates line %d (music_id %q)", d.Line, d.FirstLine, d.MusicID)
}

type entry struct {
	key  string
	line int
}

// Index remembers the first line each key was seen on. Keys are bucketed by
// their xxh3 hash; colliding keys are told apart by comparing the key itself.
type Index struct {
	buckets map[uint64][]entry
}

// NewIndex returns an Index sized for about n keys.
func NewIndex(n int) *Index {
	return &Index{buckets: make(map[uint64][]entry, n)}
}

// Add records key at line. If key was seen before, it returns the earlier
// line and true and leaves the index unchanged.
func (ix *Index) Add(key string, line int) (int, bool) {
	h := xxh3.HashString(key)
	for _, e := range ix.buckets[h] {
		if e.key == key {
			return e.line, true
		}
	}
	ix.buckets[h] = append(ix.buckets[h], entry{key: key, line: line})
	return 0, false
}

// Find returns every record whose MusicID repeats an earlier one, in source
// order. The first occurrence is never reported.
func Find(ss []songs.Song) []Duplicate {
	ix := NewIndex(len(ss))
	var out []Duplicate
	for _, s := range ss {
		if first, dup := ix.Add(s.MusicID, s.Line); dup {
			out = append(out, Duplicate{MusicID: s.MusicID, Line: s.Line, FirstLine: first})
		}
	}
	return out
}

// Summary renders up to max duplicates on one line, noting how many were left
// out. max <= 0 renders all.
func Summary(ds []Duplicate, max int) string {
	if max <= 0 || max > len(ds) {
		max = len(ds)
	}
	parts := make([]string, 0, max+1)
	for _, d := range ds[:max] {
		parts = append(parts, d.String())
	}
	if rest := len(ds) - max; rest > 0 {
		parts = append(parts, fmt.Sprintf("and %d more", rest))
	}
	return strings.Join(parts, "; ")
}
