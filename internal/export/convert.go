package export

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/convexpg/internal/document"
	"github.com/roach88/convexpg/internal/render"
	"github.com/roach88/convexpg/internal/schema"
	"github.com/roach88/convexpg/internal/typesummary"
)

// TableResult is the outcome of converting one table.
type TableResult struct {
	Table  Table
	Schema *schema.TableSchema

	// SchemaSQL is the rendered CREATE TABLE statement.
	SchemaSQL string
	// DataSQL is the rendered INSERT statements.
	DataSQL string

	RowCount int

	// SkippedDocLines counts malformed document lines passed over.
	SkippedDocLines int
	// SkippedSummaryLines counts malformed type-summary lines passed over.
	SkippedSummaryLines int
}

// Converter drives per-table conversion for a whole export.
type Converter struct {
	Config *Config
}

// NewConverter creates a Converter; a nil config means defaults.
func NewConverter(cfg *Config) *Converter {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Converter{Config: cfg}
}

// ConvertExport discovers and converts every table under root, writing DDL
// to schemaW and DML to dataW in discovery order. Passing the same writer
// for both interleaves each table's DDL with its data, which loads cleanly
// as a single stream.
//
// Conversion stops on the first fatal I/O error; output already written for
// prior tables is left intact.
func (c *Converter) ConvertExport(root string, schemaW, dataW io.Writer) ([]*TableResult, error) {
	tables, err := Discover(root)
	if err != nil {
		return nil, err
	}

	var results []*TableResult
	emittedComponents := make(map[string]bool)
	for _, t := range tables {
		if !c.Config.TableIncluded(t.Name) {
			continue
		}
		res, err := c.ConvertTable(t)
		if err != nil {
			return results, err
		}
		if res == nil {
			continue // no documents or no type evidence
		}

		if t.Component != "" && !emittedComponents[t.Component] {
			if err := writeAll(schemaW, render.ComponentDDL(t.Component), t); err != nil {
				return results, err
			}
			emittedComponents[t.Component] = true
		}
		if err := writeAll(schemaW, res.SchemaSQL, t); err != nil {
			return results, err
		}
		if err := writeAll(dataW, res.DataSQL, t); err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// ConvertTable converts one table directory into SQL text. Returns nil when
// the table is skipped: no documents file, or no type evidence at all
// (skipping, rather than emitting a zero-column CREATE TABLE, matches the
// source tooling).
func (c *Converter) ConvertTable(t Table) (*TableResult, error) {
	docsPath := filepath.Join(t.Dir, documentsFile)
	if _, err := os.Stat(docsPath); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, &WalkError{Code: ErrCodeOpenFile, Table: t.DisplayName(), Path: docsPath, Err: err}
	}

	sum, err := c.readSummary(t)
	if err != nil {
		return nil, err
	}

	// Pass 1: sample documents and fix the schema. The stream is
	// forward-only, so rendering reopens the file.
	ts, err := c.synthesize(t, docsPath, sum)
	if err != nil {
		return nil, err
	}
	if len(ts.Columns) == 0 {
		return nil, nil
	}

	res := &TableResult{
		Table:     t,
		Schema:    ts,
		SchemaSQL: render.DDL(ts),
	}
	if sum != nil {
		res.SkippedSummaryLines = sum.Skipped
	}

	// Pass 2: render every document against the fixed schema.
	f, err := os.Open(docsPath)
	if err != nil {
		return nil, &WalkError{Code: ErrCodeOpenFile, Table: t.DisplayName(), Path: docsPath, Err: err}
	}
	defer f.Close()

	reader := document.NewReader(f)
	renderer := &render.RowRenderer{Schema: ts, BatchSize: c.Config.BatchSize}
	var data strings.Builder
	rows, err := renderer.RenderAll(&data, reader)
	if err != nil {
		return nil, &WalkError{Code: ErrCodeReadStream, Table: t.DisplayName(), Path: docsPath, Err: err}
	}

	res.DataSQL = data.String()
	res.RowCount = rows
	res.SkippedDocLines = reader.Skipped
	return res, nil
}

// readSummary parses the table's type summary if present. Absence is not an
// error: synthesis falls back to pure document sampling.
func (c *Converter) readSummary(t Table) (*typesummary.Summary, error) {
	path := filepath.Join(t.Dir, typeSummaryFile)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &WalkError{Code: ErrCodeOpenFile, Table: t.DisplayName(), Path: path, Err: err}
	}
	defer f.Close()

	sum, err := typesummary.Parse(f)
	if err != nil {
		return nil, &WalkError{Code: ErrCodeReadStream, Table: t.DisplayName(), Path: path, Err: err}
	}
	return sum, nil
}

func (c *Converter) synthesize(t Table, docsPath string, sum *typesummary.Summary) (*schema.TableSchema, error) {
	f, err := os.Open(docsPath)
	if err != nil {
		return nil, &WalkError{Code: ErrCodeOpenFile, Table: t.DisplayName(), Path: docsPath, Err: err}
	}
	defer f.Close()

	reader := document.NewReader(f)
	ts, err := schema.Synthesize(t.Component, t.Name, sum, reader, c.Config.schemaOptions(t.Name))
	if err != nil {
		return nil, &WalkError{Code: ErrCodeReadStream, Table: t.DisplayName(), Path: docsPath, Err: err}
	}
	return ts, nil
}

func writeAll(w io.Writer, s string, t Table) error {
	if _, err := io.WriteString(w, s); err != nil {
		return &WalkError{Code: ErrCodeWriteOutput, Table: t.DisplayName(), Err: err}
	}
	return nil
}
