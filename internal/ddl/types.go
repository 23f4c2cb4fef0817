// Package ddl defines a small, backend-agnostic model for table definitions.
// Dialect packages (e.g., internal/storage/sqlite/ddl) render it to SQL.
package ddl

import (
	"fmt"
	"strings"
)

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: logical column name (unquoted; quoting/escaping happens at render time)
//   - SQLType: target SQL type (e.g., TEXT, INTEGER)
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is part of the primary key
//   - Default: raw default expression (e.g., 'anon', CURRENT_TIMESTAMP)
type ColumnDef struct {
	Name       string
	SQLType    string
	Nullable   bool
	PrimaryKey bool
	Default    string
}

// TableDef holds the table name (FQN) and an ordered list of columns. The FQN
// may be dotted ("main.songs"); renderers quote each segment.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// PrimaryKey returns the names of the primary key columns in column order.
func (t TableDef) PrimaryKey() []string {
	var out []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			out = append(out, c.Name)
		}
	}
	return out
}

// ColumnNames returns the column names in definition order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Validate checks the definition is renderable: a non-empty name, at least one
// column, and unique, non-empty column names with a type.
func (t TableDef) Validate() error {
	if strings.TrimSpace(t.FQN) == "" {
		return fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("ddl: table %s: at least one column is required", t.FQN)
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for i, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("ddl: table %s: column %d has an empty name", t.FQN, i)
		}
		if strings.TrimSpace(c.SQLType) == "" {
			return fmt.Errorf("ddl: table %s: column %s missing SQLType", t.FQN, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("ddl: table %s: duplicate column %s", t.FQN, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
