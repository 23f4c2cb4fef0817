package ddl

import (
	"context"
	"strings"
	"testing"

	gddl "songdb/internal/ddl"
	"songdb/internal/songs"
)

// TestQuoteIdent verifies SQLite-style double-quoted identifier quoting and
// escaping of embedded double quotes.
func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "musicId", want: `"musicId"`},
		{name: "empty", in: "", want: `""`},
		{name: "with space", in: "music id", want: `"music id"`},
		{name: "with double quote", in: `weird"name`, want: `"weird""name"`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := QuoteIdent(tt.in); got != tt.want {
				t.Fatalf("QuoteIdent(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestQuoteFQN verifies each segment of a possibly-qualified table name is
// quoted and empty segments are dropped.
func TestQuoteFQN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple table", in: "songs", want: `"songs"`},
		{name: "main schema", in: "main.songs", want: `"main"."songs"`},
		{name: "with spaces and empties", in: " .main..songs. ", want: `"main"."songs"`},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := QuoteFQN(tt.in); got != tt.want {
				t.Fatalf("QuoteFQN(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildCreateTableSQLErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		def  gddl.TableDef
	}{
		{name: "empty FQN", def: gddl.TableDef{FQN: "   ", Columns: []gddl.ColumnDef{{Name: "id", SQLType: "TEXT"}}}},
		{name: "no columns", def: gddl.TableDef{FQN: "songs"}},
		{name: "column missing type", def: gddl.TableDef{FQN: "songs", Columns: []gddl.ColumnDef{{Name: "id"}}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sql, err := BuildCreateTableSQL(tt.def)
			if err == nil {
				t.Fatalf("BuildCreateTableSQL(%+v) error = nil, want non-nil", tt.def)
			}
			if sql != "" {
				t.Fatalf("SQL = %q, want empty string on error", sql)
			}
		})
	}
}

// TestBuildCreateTableSQLSongs pins the exact DDL for the bundled table.
func TestBuildCreateTableSQLSongs(t *testing.T) {
	t.Parallel()

	got, err := BuildCreateTableSQL(songs.TableDef(""))
	if err != nil {
		t.Fatalf("BuildCreateTableSQL() error = %v", err)
	}

	want := "" +
		`CREATE TABLE IF NOT EXISTS "songs" (` + "\n" +
		`  "musicId" TEXT PRIMARY KEY NOT NULL,` + "\n" +
		`  "artista" TEXT NOT NULL,` + "\n" +
		`  "musica" TEXT NOT NULL,` + "\n" +
		`  "inicio" TEXT NOT NULL` + "\n" +
		`);`

	if got != want {
		t.Fatalf("BuildCreateTableSQL() =\n%s\nwant:\n%s", got, want)
	}
}

// TestBuildCreateTableSQLCompositeKey verifies multi-column keys are rendered
// as a table constraint and nullability is left as declared.
func TestBuildCreateTableSQLCompositeKey(t *testing.T) {
	t.Parallel()

	def := gddl.TableDef{
		FQN: "main.playlist_items",
		Columns: []gddl.ColumnDef{
			{Name: "playlist_id", SQLType: "TEXT", Nullable: true, PrimaryKey: true},
			{Name: "music_id", SQLType: "TEXT", Nullable: true, PrimaryKey: true},
			{Name: "pos", SQLType: "INTEGER", Default: "0"},
		},
	}

	got, err := BuildCreateTableSQL(def)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL() error = %v", err)
	}
	if !strings.Contains(got, `"pos" INTEGER NOT NULL DEFAULT 0`) {
		t.Fatalf("SQL does not render pos correctly:\n%s", got)
	}
	if strings.Contains(got, `"playlist_id" TEXT PRIMARY KEY`) {
		t.Fatalf("composite key rendered inline:\n%s", got)
	}
	if !strings.Contains(got, `PRIMARY KEY ("playlist_id", "music_id")`) {
		t.Fatalf("SQL PRIMARY KEY clause missing or incorrect:\n%s", got)
	}
}

type recordingExec struct{ stmts []string }

func (r *recordingExec) Exec(_ context.Context, sql string) error {
	r.stmts = append(r.stmts, sql)
	return nil
}

func TestEnsureTable(t *testing.T) {
	t.Parallel()

	rec := &recordingExec{}
	if err := EnsureTable(context.Background(), rec, songs.TableDef("songs")); err != nil {
		t.Fatalf("EnsureTable() error = %v", err)
	}
	if len(rec.stmts) != 1 || !strings.HasPrefix(rec.stmts[0], `CREATE TABLE IF NOT EXISTS "songs"`) {
		t.Fatalf("unexpected statements: %q", rec.stmts)
	}

	if err := EnsureTable(context.Background(), rec, gddl.TableDef{}); err == nil {
		t.Fatalf("EnsureTable() with invalid def: error = nil")
	}
}

func BenchmarkBuildCreateTableSQLSongs(b *testing.B) {
	def := songs.TableDef("")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := BuildCreateTableSQL(def); err != nil {
			b.Fatalf("BuildCreateTableSQL() error = %v", err)
		}
	}
}
