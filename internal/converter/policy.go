package converter

import (
	"fmt"
	"strings"
)

// DuplicatePolicy decides how repeated music_id values are handled.
type DuplicatePolicy string

const (
	// Abort lets the primary key reject the first repeat; the insert
	// transaction is rolled back.
	Abort DuplicatePolicy = "abort"
	// Report checks all rows before writing and fails listing every repeat.
	Report DuplicatePolicy = "report"
)

// ParseDuplicatePolicy accepts "abort" or "report" (case-insensitive). Empty
// selects Abort.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Abort:
		return Abort, nil
	case Report:
		return Report, nil
	default:
		return "", fmt.Errorf("converter: unknown duplicate policy %q (want abort or report)", s)
	}
}
