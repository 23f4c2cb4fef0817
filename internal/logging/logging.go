// Package logging is a small leveled wrapper over the standard logger.
// Lines keep the "component: key=value" shape used across the tool.
package logging

import (
	"io"
	"log"
	"os"
	"strings"
)

// Level is a log severity; lower values are more verbose.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelError
)

var current = LevelInfo

// ParseLevel maps debug|info|error (case-insensitive) to a Level; anything
// else is LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// InitFromEnv sets the log level based on LOG_LEVEL (debug|info|error).
func InitFromEnv() {
	SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// SetLevel sets the minimum level that is written.
func SetLevel(l Level) { current = l }

// CurrentLevel returns the active level.
func CurrentLevel() Level { return current }

// SetOutput redirects all log output.
func SetOutput(w io.Writer) { log.SetOutput(w) }

// Debugf logs at LevelDebug.
func Debugf(format string, args ...any) {
	if current <= LevelDebug {
		log.Printf(format, args...)
	}
}

// Infof logs at LevelInfo.
func Infof(format string, args ...any) {
	if current <= LevelInfo {
		log.Printf(format, args...)
	}
}

// Errorf logs regardless of the active level.
func Errorf(format string, args ...any) {
	log.Printf(format, args...)
}
