package document

import (
	"bufio"
	"fmt"
	"io"
)

// maxLineSize bounds a single document line. Convex documents are capped at
// 1 MiB; 16 MiB leaves generous headroom.
const maxLineSize = 16 * 1024 * 1024

// Reader decodes a newline-delimited JSON document stream into a forward-only
// sequence of documents. Blank lines are ignored. Malformed lines are skipped
// and counted by default; set AbortOnMalformed for callers that prefer to
// fail instead.
type Reader struct {
	// AbortOnMalformed makes Next return an error on the first unparseable
	// line instead of skipping it.
	AbortOnMalformed bool

	scanner *bufio.Scanner
	line    int

	// Skipped counts malformed lines passed over so far. Callers surface
	// this to the user; skipping is never silent.
	Skipped int
}

// NewReader creates a Reader over a documents stream.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{scanner: sc}
}

// Line returns the 1-based line number of the most recently read line.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next document in the stream, or io.EOF when exhausted.
// The returned document is not retained by the reader.
func (r *Reader) Next() (*Document, error) {
	for r.scanner.Scan() {
		r.line++
		line := r.scanner.Bytes()
		if len(trimSpace(line)) == 0 {
			continue
		}

		doc, err := Parse(line)
		if err != nil {
			if r.AbortOnMalformed {
				return nil, fmt.Errorf("line %d: %w", r.line, err)
			}
			r.Skipped++
			continue
		}
		return doc, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read document stream: %w", err)
	}
	return nil, io.EOF
}

// trimSpace trims ASCII whitespace without allocating.
func trimSpace(b []byte) []byte {
	start := 0
	for start < len(b) && isSpace(b[start]) {
		start++
	}
	end := len(b)
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
