package render

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/convexpg/internal/document"
	"github.com/roach88/convexpg/internal/infer"
	"github.com/roach88/convexpg/internal/schema"
)

// RowRenderer turns documents into INSERT statements against a fixed schema.
//
// BatchSize controls how many value tuples share one statement. Single-row
// and batched output are replay-equivalent; batching is an output-size
// choice, not a correctness one.
type RowRenderer struct {
	Schema    *schema.TableSchema
	BatchSize int
}

// RenderAll consumes the document stream and writes INSERT statements to w.
// Returns the number of rows rendered.
func (r *RowRenderer) RenderAll(w io.Writer, docs *document.Reader) (int, error) {
	batch := r.BatchSize
	if batch < 1 {
		batch = 1
	}

	rows := 0
	tuples := make([]string, 0, batch)
	for {
		doc, err := docs.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, err
		}
		tuples = append(tuples, Tuple(doc, r.Schema))
		rows++
		if len(tuples) == batch {
			if err := r.flush(w, tuples); err != nil {
				return rows, err
			}
			tuples = tuples[:0]
		}
	}
	if len(tuples) > 0 {
		if err := r.flush(w, tuples); err != nil {
			return rows, err
		}
	}
	return rows, nil
}

func (r *RowRenderer) flush(w io.Writer, tuples []string) error {
	_, err := io.WriteString(w, r.Statement(tuples))
	if err != nil {
		return fmt.Errorf("write insert for %s: %w", r.Schema.Name, err)
	}
	return nil
}

// Statement assembles one INSERT from rendered tuples.
func (r *RowRenderer) Statement(tuples []string) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(TableName(r.Schema))
	b.WriteString(" (")
	for i, c := range r.Schema.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(QuoteIdent(c.Name))
	}
	b.WriteString(") VALUES")
	if len(tuples) == 1 {
		b.WriteByte(' ')
		b.WriteString(tuples[0])
	} else {
		for i, t := range tuples {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString("\n  ")
			b.WriteString(t)
		}
	}
	if r.Schema.PrimaryKey != "" {
		b.WriteString(" ON CONFLICT (")
		b.WriteString(QuoteIdent(r.Schema.PrimaryKey))
		b.WriteString(") DO NOTHING")
	}
	b.WriteString(";\n")
	return b.String()
}

// Tuple renders one document as a parenthesized value list in schema column
// order. Fields absent from the document render as NULL.
func Tuple(doc *document.Document, ts *schema.TableSchema) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, c := range ts.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		v, ok := doc.Get(c.SourceField)
		if !ok {
			b.WriteString("NULL")
			continue
		}
		b.WriteString(Literal(v, c.Type))
	}
	b.WriteByte(')')
	return b.String()
}

// Literal encodes one value as a SQL literal for the given column type.
//
// Values that no longer fit the inferred type (drift after the sampled
// documents) encode as NULL rather than failing; widening already happened
// at schema time.
func Literal(v document.Value, t infer.ColumnType) string {
	if v == nil {
		return "NULL"
	}
	if _, isNull := v.(document.Null); isNull {
		return "NULL"
	}

	switch t {
	case infer.TypeDoublePrecision:
		n, ok := v.(document.Number)
		if !ok {
			return "NULL"
		}
		return n.Raw

	case infer.TypeBigint:
		n, ok := v.(document.Number)
		if !ok {
			return "NULL"
		}
		if n.IsInt {
			return n.Raw
		}
		// Millisecond epochs stored as floats normalize to integers.
		return strconv.FormatInt(int64(n.Float), 10)

	case infer.TypeBoolean:
		b, ok := v.(document.Bool)
		if !ok {
			return "NULL"
		}
		if b {
			return "TRUE"
		}
		return "FALSE"

	case infer.TypeText, infer.TypeVarcharID:
		return textLiteral(v)

	case infer.TypeBytea:
		s, ok := v.(document.String)
		if !ok {
			return "NULL"
		}
		raw, err := base64.StdEncoding.DecodeString(string(s))
		if err != nil {
			return "NULL"
		}
		return `'\x` + hex.EncodeToString(raw) + `'`

	case infer.TypeJSONB:
		j, err := MarshalCanonical(v)
		if err != nil {
			return "NULL"
		}
		// Cast at load time so coercion works regardless of inference
		// accuracy.
		return quoteString(string(j)) + "::jsonb"

	default:
		return textLiteral(v)
	}
}

// textLiteral encodes a value into a text column. Non-string values are kept
// losslessly as their canonical JSON text.
func textLiteral(v document.Value) string {
	switch val := v.(type) {
	case document.String:
		return quoteString(string(val))
	case document.Number:
		return quoteString(val.Raw)
	case document.Bool:
		if val {
			return quoteString("true")
		}
		return quoteString("false")
	default:
		j, err := MarshalCanonical(v)
		if err != nil {
			return "NULL"
		}
		return quoteString(string(j))
	}
}

// quoteString single-quotes a string literal with embedded quotes doubled.
// Backslashes stay literal so output is portable across
// standard_conforming_strings settings.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
