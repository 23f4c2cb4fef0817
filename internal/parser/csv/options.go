// Package csv reads karaoke song lists from CSV into songs.Song records.
//
// The header row is required and is matched case-sensitively against the
// names in songs.Fields; extra columns are ignored and column order is free.
// Values are kept verbatim unless NormalizeNFC is set.
package csv

import (
	"fmt"
	"strings"
)

// RowPolicy decides what happens to a data row whose width does not match
// the header or that fails CSV decoding.
type RowPolicy string

const (
	// Strict fails the whole read on the first malformed row.
	Strict RowPolicy = "strict"
	// Lenient skips malformed rows, reporting each through Options.OnSkip.
	Lenient RowPolicy = "lenient"
)

// ParseRowPolicy accepts "strict" or "lenient" (case-insensitive). Empty
// selects Strict.
func ParseRowPolicy(s string) (RowPolicy, error) {
	switch RowPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Strict:
		return Strict, nil
	case Lenient:
		return Lenient, nil
	default:
		return "", fmt.Errorf("csv: unknown row policy %q (want strict or lenient)", s)
	}
}

// Options configures Read. The zero value reads comma-separated input with
// the Strict policy.
type Options struct {
	// Comma is the field delimiter. When zero, ',' is used.
	Comma rune

	// Policy selects Strict (default) or Lenient handling of malformed rows.
	Policy RowPolicy

	// NormalizeNFC rewrites every value to Unicode NFC so that visually equal
	// titles compare equal in the app's LIKE search.
	NormalizeNFC bool

	// OnSkip is called for each row skipped under Lenient.
	OnSkip func(line int, err error)
}
