// Package songs defines the Song Record stored in the bundled database and the
// fixed mapping between source CSV headers and destination columns.
package songs

import (
	"songdb/internal/ddl"
)

// Table is the destination table name expected by the mobile app.
const Table = "songs"

// Song is one karaoke entry. Start is an opaque playback marker and is never
// interpreted.
type Song struct {
	MusicID string `json:"music_id"`
	Artist  string `json:"artista"`
	Title   string `json:"musica"`
	Start   string `json:"inicio"`

	// Line is the 1-based source line the record was parsed from; 0 when the
	// record did not come from a file.
	Line int `json:"-"`
}

// Field binds a source header name to its destination column.
type Field struct {
	Header string
	Column string
}

// Fields lists the required source headers in destination column order.
// Header matching is case-sensitive.
var Fields = []Field{
	{Header: "music_id", Column: "musicId"},
	{Header: "artista", Column: "artista"},
	{Header: "musica", Column: "musica"},
	{Header: "inicio", Column: "inicio"},
}

// Headers returns the required source header names.
func Headers() []string {
	out := make([]string, len(Fields))
	for i, f := range Fields {
		out[i] = f.Header
	}
	return out
}

// Columns returns the destination column names in table order.
func Columns() []string {
	out := make([]string, len(Fields))
	for i, f := range Fields {
		out[i] = f.Column
	}
	return out
}

// Values returns the record's values aligned with Columns.
func (s Song) Values() []any {
	return []any{s.MusicID, s.Artist, s.Title, s.Start}
}

// FromValues builds a Song from values aligned with Headers.
func FromValues(v []string) Song {
	var s Song
	if len(v) > 0 {
		s.MusicID = v[0]
	}
	if len(v) > 1 {
		s.Artist = v[1]
	}
	if len(v) > 2 {
		s.Title = v[2]
	}
	if len(v) > 3 {
		s.Start = v[3]
	}
	return s
}

// TableDef returns the fixed schema of the songs table. Column order and
// nullability must not change: the app validates the bundled schema on open.
func TableDef(table string) ddl.TableDef {
	if table == "" {
		table = Table
	}
	cols := make([]ddl.ColumnDef, len(Fields))
	for i, f := range Fields {
		cols[i] = ddl.ColumnDef{
			Name:       f.Column,
			SQLType:    "TEXT",
			Nullable:   false,
			PrimaryKey: i == 0,
		}
	}
	return ddl.TableDef{FQN: table, Columns: cols}
}
