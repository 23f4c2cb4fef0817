package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks the run.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is printed but does not block the run.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding. Path names the setting, using the
// flag name (e.g. "dest", "metrics-backend").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err joins the error-severity issues into one error, or returns nil.
func Err(issues []Issue) error {
	var errs []error
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			errs = append(errs, iss)
		}
	}
	return errors.Join(errs...)
}

// Validate checks c without mutating it.
func Validate(c Config) []Issue {
	var issues []Issue
	issues = append(issues, validatePaths(c)...)
	issues = append(issues, validateParsing(c)...)
	issues = append(issues, validateMetrics(c.Metrics)...)
	return issues
}

func validatePaths(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.SourcePath) == "" {
		issues = append(issues, Issue{SeverityError, "source", "source path must not be empty"})
	}
	if strings.TrimSpace(c.DestPath) == "" {
		issues = append(issues, Issue{SeverityError, "dest", "destination path must not be empty"})
		return issues
	}
	if strings.TrimSpace(c.Table) == "" {
		issues = append(issues, Issue{SeverityError, "table", "table name must not be empty"})
	} else if c.Table != DefaultTable {
		issues = append(issues, Issue{
			SeverityWarning, "table",
			fmt.Sprintf("table %q differs from %q; the app will not find it", c.Table, DefaultTable),
		})
	}

	dest := filepath.Clean(c.DestPath)
	if c.SourcePath != "" && filepath.Clean(c.SourcePath) == dest {
		issues = append(issues, Issue{SeverityError, "dest", "destination must differ from source; it is deleted before each build"})
	}
	if c.ReportPath != "" && filepath.Clean(c.ReportPath) == dest {
		issues = append(issues, Issue{SeverityError, "report", "report path must differ from destination"})
	}
	if ext := filepath.Ext(dest); ext != ".db" && ext != ".sqlite" && ext != ".sqlite3" {
		issues = append(issues, Issue{
			SeverityWarning, "dest",
			fmt.Sprintf("destination %q has no SQLite extension (.db, .sqlite, .sqlite3)", c.DestPath),
		})
	}
	return issues
}

func validateParsing(c Config) []Issue {
	var issues []Issue

	switch strings.ToLower(c.RowPolicy) {
	case "", "strict", "lenient":
	default:
		issues = append(issues, Issue{
			SeverityError, "row-policy",
			fmt.Sprintf("unknown row policy %q; want strict or lenient", c.RowPolicy),
		})
	}

	switch strings.ToLower(c.DuplicatePolicy) {
	case "", "abort", "report":
	default:
		issues = append(issues, Issue{
			SeverityError, "duplicates",
			fmt.Sprintf("unknown duplicate policy %q; want abort or report", c.DuplicatePolicy),
		})
	}

	r, err := c.CommaRune()
	switch {
	case err != nil:
		issues = append(issues, Issue{SeverityError, "comma", err.Error()})
	case r == '"' || r == '\r' || r == '\n':
		issues = append(issues, Issue{SeverityError, "comma", fmt.Sprintf("comma %q cannot be a quote or newline", r)})
	}
	return issues
}

func validateMetrics(m Metrics) []Issue {
	var issues []Issue

	switch strings.ToLower(m.Backend) {
	case "", "none":
		return nil
	case "pushgateway":
		if strings.TrimSpace(m.PushgatewayURL) == "" {
			issues = append(issues, Issue{SeverityError, "pushgateway-url", "pushgateway backend requires a URL"})
		}
	case "datadog":
		if strings.TrimSpace(m.DogStatsDAddr) == "" {
			issues = append(issues, Issue{SeverityError, "dogstatsd-addr", "datadog backend requires a DogStatsD address"})
		}
	default:
		issues = append(issues, Issue{
			SeverityError, "metrics-backend",
			fmt.Sprintf("unknown metrics backend %q; want none, pushgateway or datadog", m.Backend),
		})
		return issues
	}

	if strings.TrimSpace(m.Job) == "" {
		issues = append(issues, Issue{SeverityWarning, "job", "job is empty; metric series will be hard to tell apart"})
	}
	return issues
}
