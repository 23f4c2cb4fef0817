package ddl

import (
	"reflect"
	"strings"
	"testing"
)

func TestTableDefValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		def     TableDef
		wantErr string
	}{
		{
			name: "ok",
			def: TableDef{FQN: "songs", Columns: []ColumnDef{
				{Name: "musicId", SQLType: "TEXT", PrimaryKey: true},
				{Name: "artista", SQLType: "TEXT"},
			}},
		},
		{name: "empty_name", def: TableDef{Columns: []ColumnDef{{Name: "a", SQLType: "TEXT"}}}, wantErr: "table name"},
		{name: "no_columns", def: TableDef{FQN: "t"}, wantErr: "at least one column"},
		{name: "empty_column", def: TableDef{FQN: "t", Columns: []ColumnDef{{SQLType: "TEXT"}}}, wantErr: "empty name"},
		{name: "missing_type", def: TableDef{FQN: "t", Columns: []ColumnDef{{Name: "a"}}}, wantErr: "missing SQLType"},
		{
			name: "duplicate_column",
			def: TableDef{FQN: "t", Columns: []ColumnDef{
				{Name: "a", SQLType: "TEXT"}, {Name: "a", SQLType: "TEXT"},
			}},
			wantErr: "duplicate column",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.def.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestTableDefNames(t *testing.T) {
	t.Parallel()

	def := TableDef{FQN: "t", Columns: []ColumnDef{
		{Name: "a", SQLType: "TEXT", PrimaryKey: true},
		{Name: "b", SQLType: "TEXT"},
		{Name: "c", SQLType: "TEXT", PrimaryKey: true},
	}}
	if got := def.ColumnNames(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("ColumnNames() = %v", got)
	}
	if got := def.PrimaryKey(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Fatalf("PrimaryKey() = %v", got)
	}
}
