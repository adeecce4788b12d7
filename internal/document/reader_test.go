package document

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, r *Reader) []*Document {
	t.Helper()
	var docs []*Document
	for {
		doc, err := r.Next()
		if err == io.EOF {
			return docs
		}
		require.NoError(t, err)
		docs = append(docs, doc)
	}
}

func TestReader_StreamsDocuments(t *testing.T) {
	input := `{"a":1}
{"a":2}
{"a":3}
`
	r := NewReader(strings.NewReader(input))
	docs := readAll(t, r)

	require.Len(t, docs, 3)
	assert.Zero(t, r.Skipped)
}

func TestReader_ToleratesBlankLines(t *testing.T) {
	input := "{\"a\":1}\n\n   \n{\"a\":2}\n\n"
	r := NewReader(strings.NewReader(input))
	docs := readAll(t, r)

	require.Len(t, docs, 2)
	assert.Zero(t, r.Skipped)
}

func TestReader_SkipsMalformedLines(t *testing.T) {
	// A malformed line between two valid lines must not interrupt
	// processing; the document count equals the count of valid lines.
	input := `{"a":1}
{broken
{"a":2}
`
	r := NewReader(strings.NewReader(input))
	docs := readAll(t, r)

	require.Len(t, docs, 2)
	assert.Equal(t, 1, r.Skipped)
}

func TestReader_AbortOnMalformed(t *testing.T) {
	input := `{"a":1}
{broken
{"a":2}
`
	r := NewReader(strings.NewReader(input))
	r.AbortOnMalformed = true

	_, err := r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReader_EmptyStream(t *testing.T) {
	r := NewReader(strings.NewReader(""))
	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_EOFIsSticky(t *testing.T) {
	r := NewReader(strings.NewReader(`{"a":1}`))
	docs := readAll(t, r)
	require.Len(t, docs, 1)

	_, err := r.Next()
	assert.Equal(t, io.EOF, err)
}
