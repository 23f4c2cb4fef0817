// Package ddl provides SQLite-specific helpers for generating CREATE TABLE
// statements from the generic ddl.TableDef model.
//
// The builder here:
//   - Uses simple double-quoted identifiers: "table", "col".
//   - Emits CREATE TABLE IF NOT EXISTS.
//   - Treats ColumnDef.Default as raw SQL.
//   - Renders a single-column PRIMARY KEY inline on the column, and a
//     composite key as a separate table constraint.
package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "songdb/internal/ddl"
)

// Execer is the subset of a repository needed to apply DDL.
type Execer interface {
	Exec(ctx context.Context, sql string) error
}

// BuildCreateTableSQL returns a SQLite CREATE TABLE statement for the given
// table definition. For the songs table it has the form:
//
//	CREATE TABLE IF NOT EXISTS "songs" (
//	  "musicId" TEXT PRIMARY KEY NOT NULL,
//	  "artista" TEXT NOT NULL,
//	  ...
//	);
//
// Room compares PRAGMA table_info output on open, so the inline form keeps the
// pk/notnull flags identical to the schema the app was generated against.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("sqlite ddl: %w", err)
	}
	fqn := strings.TrimSpace(t.FQN)
	pks := t.PrimaryKey()
	inlinePK := len(pks) == 1

	cols := make([]string, 0, len(t.Columns)+1)
	for _, c := range t.Columns {
		var sb strings.Builder
		sb.WriteString(quoteIdent(strings.TrimSpace(c.Name)))
		sb.WriteByte(' ')
		sb.WriteString(strings.TrimSpace(c.SQLType))

		if inlinePK && c.PrimaryKey {
			sb.WriteString(" PRIMARY KEY")
		}
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		if def := strings.TrimSpace(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())
	}

	if len(pks) > 1 {
		quoted := make([]string, len(pks))
		for i, p := range pks {
			quoted[i] = quoteIdent(p)
		}
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}

	stmt := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		QuoteFQN(fqn),
		strings.Join(cols, ",\n  "),
	)
	return stmt, nil
}

// EnsureTable creates the table if it does not exist. It is idempotent.
func EnsureTable(ctx context.Context, repo Execer, def gddl.TableDef) error {
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, sql)
}

// QuoteIdent double-quotes a single identifier.
func QuoteIdent(id string) string { return quoteIdent(id) }

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// QuoteFQN quotes each dotted segment of a table name, skipping empty ones.
func QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quoteIdent(p))
	}
	return strings.Join(out, ".")
}
