package render

import (
	"strings"

	"github.com/roach88/convexpg/internal/schema"
)

// QuoteIdent double-quotes a SQL identifier, doubling embedded quotes.
// Quoting tolerates reserved words, mixed case, and leading underscores.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// TableName renders the table's qualified, quoted name. Component tables are
// schema-qualified; the source system's table names cannot contain a dot, so
// a qualified name can never collide with a top-level table.
func TableName(ts *schema.TableSchema) string {
	if ts.Component != "" {
		return QuoteIdent(ts.Component) + "." + QuoteIdent(ts.Name)
	}
	return QuoteIdent(ts.Name)
}

// ComponentDDL renders the CREATE SCHEMA statement for a component
// namespace. Emitted once before the component's first table.
func ComponentDDL(component string) string {
	return "CREATE SCHEMA IF NOT EXISTS " + QuoteIdent(component) + ";\n"
}

// DDL renders the CREATE TABLE statement for a schema. Re-rendering the same
// schema always yields byte-identical output. All columns are nullable
// unless the schema carries a primary key: source documents may omit any
// field.
func DDL(ts *schema.TableSchema) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(TableName(ts))
	b.WriteString(" (")
	for i, c := range ts.Columns {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n  ")
		b.WriteString(QuoteIdent(c.Name))
		b.WriteByte(' ')
		b.WriteString(string(c.Type))
		if c.Name == ts.PrimaryKey {
			b.WriteString(" PRIMARY KEY")
		}
	}
	b.WriteString("\n);\n")
	return b.String()
}
