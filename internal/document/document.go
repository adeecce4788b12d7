package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is one decoded top-level object from a documents stream.
//
// Top-level field order is preserved as it appeared in the input line: schema
// synthesis appends newly discovered columns in first-seen order, so the
// decoder cannot collapse the object into an unordered map.
type Document struct {
	fields []string
	values map[string]Value
}

// Fields returns the top-level field names in input order.
func (d *Document) Fields() []string {
	return d.fields
}

// Get returns the value for a top-level field.
func (d *Document) Get(name string) (Value, bool) {
	v, ok := d.values[name]
	return v, ok
}

// Len returns the number of top-level fields.
func (d *Document) Len() int {
	return len(d.fields)
}

// Parse decodes one JSONL line into a Document. The top level must be an
// object; anything else is a malformed line.
func Parse(line []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(line))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("document must be a JSON object, got %v", tok)
	}

	doc := &Document{values: make(map[string]Value)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode field name: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("field name must be a string, got %v", keyTok)
		}

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode field %q: %w", key, err)
		}
		val, err := FromAny(raw)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}

		if _, seen := doc.values[key]; !seen {
			doc.fields = append(doc.fields, key)
		}
		doc.values[key] = val
	}

	// Consume the closing brace and reject trailing content.
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing content after document")
	}
	return doc, nil
}
