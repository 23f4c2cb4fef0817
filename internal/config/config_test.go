package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvSourcePath:     "in/list.csv",
		EnvDestPath:       "out/songs.db",
		EnvRowPolicy:      "lenient",
		EnvMetricsBackend: "datadog",
		EnvDogStatsDAddr:  "10.0.0.1:8125",
	}
	c := FromEnv(func(k string) string { return env[k] })

	if c.SourcePath != "in/list.csv" || c.DestPath != "out/songs.db" {
		t.Fatalf("paths = %q, %q", c.SourcePath, c.DestPath)
	}
	if c.RowPolicy != "lenient" {
		t.Fatalf("RowPolicy = %q", c.RowPolicy)
	}
	if c.DuplicatePolicy != DefaultDuplicatePolicy {
		t.Fatalf("DuplicatePolicy = %q, want default", c.DuplicatePolicy)
	}
	if c.Metrics.Backend != "datadog" || c.Metrics.DogStatsDAddr != "10.0.0.1:8125" {
		t.Fatalf("Metrics = %+v", c.Metrics)
	}
	if c.Metrics.PushgatewayURL != DefaultPushgatewayURL {
		t.Fatalf("PushgatewayURL = %q, want default", c.Metrics.PushgatewayURL)
	}
}

func TestFromEnvEmptyKeepsDefaults(t *testing.T) {
	t.Parallel()

	got := FromEnv(func(string) string { return "" })
	if got != Default() {
		t.Fatalf("FromEnv(empty) = %+v, want %+v", got, Default())
	}
}

func TestLoadDotEnv(t *testing.T) {
	// Mutates process environment; not parallel.
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SOURCE_PATH=from-file.csv\nDEST_PATH=from-file.db\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvDestPath, "from-env.db")
	// t.Setenv restores the variable on cleanup; SOURCE_PATH is set by the
	// file, so register it for restore too.
	t.Setenv(EnvSourcePath, "")
	os.Unsetenv(EnvSourcePath)

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	c := FromEnv(nil)
	if c.SourcePath != "from-file.csv" {
		t.Fatalf("SourcePath = %q, want value from .env", c.SourcePath)
	}
	if c.DestPath != "from-env.db" {
		t.Fatalf("DestPath = %q, environment must win over .env", c.DestPath)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	t.Parallel()

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")); err != nil {
		t.Fatalf("LoadDotEnv(missing) error = %v", err)
	}
	if err := LoadDotEnv(""); err != nil {
		t.Fatalf("LoadDotEnv(\"\") error = %v", err)
	}
}

func TestCommaRune(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", ',', false},
		{",", ',', false},
		{";", ';', false},
		{"\t", '\t', false},
		{"ab", 0, true},
		{"\xff", 0, true},
	}
	for _, tt := range tests {
		got, err := Config{Comma: tt.in}.CommaRune()
		if (err != nil) != tt.wantErr {
			t.Fatalf("CommaRune(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("CommaRune(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
