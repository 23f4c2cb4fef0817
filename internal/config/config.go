// Package config holds the settings for a songdb run.
//
// Values are resolved in this order, highest first: command-line flags
// (applied by the caller), process environment, an optional .env file, and
// the defaults from Default. The package only resolves and checks values;
// it does not interpret policies, so it imports nothing else from songdb.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"unicode/utf8"

	"github.com/joho/godotenv"
)

// Defaults match the Android project layout the asset is built for.
const (
	DefaultSourcePath      = "data/videoke_list.csv"
	DefaultDestPath        = "app/src/main/assets/database/songs.db"
	DefaultTable           = "songs"
	DefaultRowPolicy       = "strict"
	DefaultDuplicatePolicy = "abort"
	DefaultComma           = ","
	DefaultMetricsBackend  = "none"
	DefaultPushgatewayURL  = "http://localhost:9091"
	DefaultDogStatsDAddr   = "127.0.0.1:8125"
	DefaultJob             = "songdb"
)

// Environment variable names read by FromEnv.
const (
	EnvSourcePath      = "SOURCE_PATH"
	EnvDestPath        = "DEST_PATH"
	EnvRowPolicy       = "ROW_POLICY"
	EnvDuplicatePolicy = "DUPLICATE_POLICY"
	EnvMetricsBackend  = "METRICS_BACKEND"
	EnvPushgatewayURL  = "PUSHGATEWAY_URL"
	EnvDogStatsDAddr   = "DOGSTATSD_ADDR"
)

// Config is the resolved configuration of a build run.
type Config struct {
	// SourcePath is the CSV song list to read.
	SourcePath string

	// DestPath is the SQLite file to (re)create.
	DestPath string

	// Table is the destination table name. The app expects "songs".
	Table string

	// RowPolicy is "strict" or "lenient"; see parser/csv.
	RowPolicy string

	// DuplicatePolicy is "abort" or "report"; see converter.
	DuplicatePolicy string

	// Comma is the CSV delimiter as a one-rune string.
	Comma string

	// NormalizeNFC rewrites values to Unicode NFC before insert.
	NormalizeNFC bool

	// ReportPath, when set, receives a JSON run report.
	ReportPath string

	Metrics Metrics
}

// Metrics selects and configures the optional metrics backend.
type Metrics struct {
	// Backend is "none", "pushgateway" or "datadog".
	Backend        string
	PushgatewayURL string
	DogStatsDAddr  string
	// Job labels every metric series.
	Job string
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		SourcePath:      DefaultSourcePath,
		DestPath:        DefaultDestPath,
		Table:           DefaultTable,
		RowPolicy:       DefaultRowPolicy,
		DuplicatePolicy: DefaultDuplicatePolicy,
		Comma:           DefaultComma,
		Metrics: Metrics{
			Backend:        DefaultMetricsBackend,
			PushgatewayURL: DefaultPushgatewayURL,
			DogStatsDAddr:  DefaultDogStatsDAddr,
			Job:            DefaultJob,
		},
	}
}

// LoadDotEnv loads KEY=value pairs from path into the process environment.
// Variables that are already set win over the file. A missing file is not an
// error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// FromEnv returns Default overlaid with any non-empty variables from getenv.
// A nil getenv reads the process environment.
func FromEnv(getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	c := Default()
	set := func(dst *string, key string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	set(&c.SourcePath, EnvSourcePath)
	set(&c.DestPath, EnvDestPath)
	set(&c.RowPolicy, EnvRowPolicy)
	set(&c.DuplicatePolicy, EnvDuplicatePolicy)
	set(&c.Metrics.Backend, EnvMetricsBackend)
	set(&c.Metrics.PushgatewayURL, EnvPushgatewayURL)
	set(&c.Metrics.DogStatsDAddr, EnvDogStatsDAddr)
	return c
}

// CommaRune returns Comma as a single rune.
func (c Config) CommaRune() (rune, error) {
	if c.Comma == "" {
		return ',', nil
	}
	r, size := utf8.DecodeRuneInString(c.Comma)
	if r == utf8.RuneError || size != len(c.Comma) {
		return 0, fmt.Errorf("config: comma must be a single character, got %q", c.Comma)
	}
	return r, nil
}
