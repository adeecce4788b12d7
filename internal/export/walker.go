package export

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// File names inside each table directory.
const (
	documentsFile   = "documents.jsonl"
	typeSummaryFile = "generated_schema.jsonl"
)

// componentsDir is the reserved subdirectory holding component tables.
const componentsDir = "_components"

// Table identifies one table directory in an export.
type Table struct {
	// Component is the component namespace, empty for top-level tables.
	Component string
	// Name is the table name (the directory name).
	Name string
	// Dir is the table directory path.
	Dir string
}

// DisplayName returns the table's name with its component prefix for
// diagnostics.
func (t Table) DisplayName() string {
	if t.Component != "" {
		return t.Component + "." + t.Name
	}
	return t.Name
}

// Discover enumerates an export's table directories: top-level tables first,
// then component tables under _components/<component>/<table>. Each level is
// visited in lexicographic order so runs are reproducible. Reserved (_*) and
// hidden (.*) directories are skipped.
func Discover(root string) ([]Table, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, &WalkError{Code: ErrCodeReadDir, Path: root, Err: err}
	}

	var tables []Table
	for _, e := range entries {
		if !e.IsDir() || skipDir(e.Name()) {
			continue
		}
		tables = append(tables, Table{
			Name: e.Name(),
			Dir:  filepath.Join(root, e.Name()),
		})
	}

	components := filepath.Join(root, componentsDir)
	compEntries, err := os.ReadDir(components)
	if errors.Is(err, fs.ErrNotExist) {
		return tables, nil
	}
	if err != nil {
		return nil, &WalkError{Code: ErrCodeReadDir, Path: components, Err: err}
	}

	for _, comp := range compEntries {
		if !comp.IsDir() || skipDir(comp.Name()) {
			continue
		}
		compDir := filepath.Join(components, comp.Name())
		tableEntries, err := os.ReadDir(compDir)
		if err != nil {
			return nil, &WalkError{Code: ErrCodeReadDir, Path: compDir, Err: err}
		}
		for _, e := range tableEntries {
			if !e.IsDir() || skipDir(e.Name()) {
				continue
			}
			tables = append(tables, Table{
				Component: comp.Name(),
				Name:      e.Name(),
				Dir:       filepath.Join(compDir, e.Name()),
			})
		}
	}
	return tables, nil
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}
