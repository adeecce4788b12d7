// Package schema synthesizes a fixed table schema from declared type
// metadata and sampled documents. The schema is fixed before any row is
// rendered: column order and type are table-wide, not per-row.
package schema

import (
	"fmt"
	"io"

	"github.com/roach88/convexpg/internal/document"
	"github.com/roach88/convexpg/internal/infer"
	"github.com/roach88/convexpg/internal/typesummary"
)

// DefaultSampleLimit bounds the number of documents scanned for type
// evidence. Resolution degrades gracefully on missing evidence, so schemas
// stay correct even when not every document is scanned.
const DefaultSampleLimit = 1000

// Column is one synthesized column.
type Column struct {
	// Name is the rendered column name (snake_cased when that option is on).
	Name string
	// SourceField is the original document field the column was derived from.
	SourceField string
	// Type is the resolved PostgreSQL type.
	Type infer.ColumnType
	// Widened marks columns that fell back to JSONB on conflicting evidence.
	Widened bool
}

// TableSchema is the inferred relational schema for one table.
type TableSchema struct {
	// Component is the namespace for component-scoped tables, empty for
	// top-level tables. Rendered as a schema qualifier, so a component table
	// can never collide with a same-named top-level table.
	Component string
	// Name is the table's own name.
	Name string
	// Columns is the ordered column list: type-summary order first, then
	// fields discovered in documents in first-seen order.
	Columns []Column
	// PrimaryKey is the name of the primary key column, empty when the
	// schema is fully nullable (the default: source documents may omit any
	// field).
	PrimaryKey string
}

// Options controls synthesis behavior beyond the core inference rules.
type Options struct {
	// SnakeCase renames columns from camelCase to snake_case, with _id and
	// _creationTime mapped to id and creation_time.
	SnakeCase bool
	// IDPrimaryKey marks the _id column as PRIMARY KEY. Inserts then carry
	// ON CONFLICT DO NOTHING so replays are idempotent.
	IDPrimaryKey bool
	// SampleLimit overrides DefaultSampleLimit when positive.
	SampleLimit int
	// Overrides forces column types by source field name, above all
	// inference rules.
	Overrides map[string]infer.ColumnType
}

// Synthesize builds the schema for one table from its (possibly nil) type
// summary and a forward-only document stream. The stream is consumed up to
// the sample limit and not rewound; the caller reopens it for rendering.
func Synthesize(component, name string, sum *typesummary.Summary, docs *document.Reader, opts Options) (*TableSchema, error) {
	var order []string
	tags := make(map[string]infer.TagSet)

	if sum != nil {
		for _, f := range sum.Fields() {
			order = append(order, f)
			tags[f] = sum.Tags(f)
		}
	}

	limit := opts.SampleLimit
	if limit <= 0 {
		limit = DefaultSampleLimit
	}
	for scanned := 0; scanned < limit; scanned++ {
		doc, err := docs.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sample documents for %s: %w", name, err)
		}
		for _, f := range doc.Fields() {
			v, _ := doc.Get(f)
			if _, seen := tags[f]; !seen {
				order = append(order, f)
			}
			tags[f] = tags[f].Add(infer.ObserveValue(v))
		}
	}

	ts := &TableSchema{Component: component, Name: name}
	for _, f := range order {
		col := Column{
			Name:        columnName(f, opts.SnakeCase),
			SourceField: f,
			Widened:     infer.IsWidened(f, tags[f]),
		}
		if t, ok := opts.Overrides[f]; ok {
			col.Type = t
			col.Widened = false
		} else {
			col.Type = infer.Resolve(f, tags[f])
		}
		if opts.IDPrimaryKey && f == "_id" {
			ts.PrimaryKey = col.Name
		}
		ts.Columns = append(ts.Columns, col)
	}
	return ts, nil
}

// Column returns the column derived from a source field, if any.
func (t *TableSchema) Column(sourceField string) (Column, bool) {
	for _, c := range t.Columns {
		if c.SourceField == sourceField {
			return c, true
		}
	}
	return Column{}, false
}

// WidenedColumns returns the names of columns that fell back to JSONB on
// conflicting evidence, for user-facing summaries.
func (t *TableSchema) WidenedColumns() []string {
	var out []string
	for _, c := range t.Columns {
		if c.Widened {
			out = append(out, c.Name)
		}
	}
	return out
}
