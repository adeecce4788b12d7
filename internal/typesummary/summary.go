// Package typesummary parses the per-field declared-type metadata that
// accompanies a table's documents (generated_schema.jsonl).
package typesummary

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"

	"github.com/roach88/convexpg/internal/infer"
)

// Summary is the declared-type metadata for one table: an ordered mapping
// from field name to the set of type tags declared for it, merged across all
// summary lines. A field may carry more than one tag (nullable unions, type
// changes over the table's history).
type Summary struct {
	fields []string
	tags   map[string]infer.TagSet

	// Skipped counts malformed summary lines passed over.
	Skipped int
}

// Fields returns field names in first-appearance order. This order drives
// column order in the synthesized schema.
func (s *Summary) Fields() []string {
	return s.fields
}

// Tags returns the declared tag set for a field. The empty set means the
// field is unknown to the summary.
func (s *Summary) Tags(field string) infer.TagSet {
	return s.tags[field]
}

// Len returns the number of declared fields.
func (s *Summary) Len() int {
	return len(s.fields)
}

// identTags maps the bare type identifiers Convex writes into summary lines
// to tags. Unrecognized identifiers fall back to string (resolved as TEXT).
var identTags = map[string]infer.Tag{
	"normalfloat64": infer.TagFloat64,
	"normalint64":   infer.TagInt64,
	"int64":         infer.TagInt64,
	"float64":       infer.TagFloat64,
	"field_name":    infer.TagString,
	"string":        infer.TagString,
	"boolean":       infer.TagBoolean,
	"bytes":         infer.TagBytes,
	"any":           infer.TagAny,
	"array":         infer.TagArray,
	"object":        infer.TagObject,
	"null":          infer.TagNull,
}

// fieldPattern extracts field/type pairs from a summary line's inner text.
// Each pair is either `"name": bareident` or `"name": "example value"`; the
// inner text is not itself valid JSON, so it is scanned rather than decoded.
var fieldPattern = regexp.MustCompile(`"([^"]+)"\s*:\s*(?:"([^"]*)"|(\w+))`)

// Parse reads a type summary stream. Each line is a JSON-encoded string
// whose inner content mixes bare type identifiers (normalfloat64, int64,
// boolean, ...) with quoted example values for string and ID fields.
// Malformed lines are skipped and counted, never fatal.
func Parse(r io.Reader) (*Summary, error) {
	s := &Summary{tags: make(map[string]infer.TagSet)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}

		var inner string
		if err := json.Unmarshal(line, &inner); err != nil {
			s.Skipped++
			continue
		}

		for _, m := range fieldPattern.FindAllStringSubmatch(inner, -1) {
			name, quoted, ident := m[1], m[2], m[3]
			s.add(name, classify(quoted, ident))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read type summary: %w", err)
	}
	return s, nil
}

// classify maps one matched pair to a tag. A bare identifier is looked up in
// the type map; a quoted example value declares an ID field when it is shaped
// like a Convex ID, otherwise a string field.
func classify(quoted, ident string) infer.Tag {
	if ident != "" {
		if t, ok := identTags[ident]; ok {
			return t
		}
		return infer.TagString
	}
	if quoted != "" && infer.IsConvexID(quoted) {
		return infer.TagID
	}
	return infer.TagString
}

func (s *Summary) add(field string, tag infer.Tag) {
	if _, seen := s.tags[field]; !seen {
		s.fields = append(s.fields, field)
	}
	s.tags[field] = s.tags[field].Add(tag)
}
