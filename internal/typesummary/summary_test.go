package typesummary

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/convexpg/internal/infer"
)

// summaryLine JSON-encodes inner text the way the export tooling does: the
// whole line is a JSON string.
func summaryLine(inner string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range inner {
		if r == '"' {
			b.WriteString(`\"`)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func TestParse_DeclaredTypes(t *testing.T) {
	inner := `{"_id": "jd7akbcrr2vs8e5nqyrz9mvaj97abcde", "name": string, "age": int64, "score": normalfloat64, "active": boolean, "payload": any, "blob": bytes}`
	sum, err := Parse(strings.NewReader(summaryLine(inner) + "\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"_id", "name", "age", "score", "active", "payload", "blob"}, sum.Fields())
	assert.Equal(t, infer.NewTagSet(infer.TagID), sum.Tags("_id"))
	assert.Equal(t, infer.NewTagSet(infer.TagString), sum.Tags("name"))
	assert.Equal(t, infer.NewTagSet(infer.TagInt64), sum.Tags("age"))
	assert.Equal(t, infer.NewTagSet(infer.TagFloat64), sum.Tags("score"))
	assert.Equal(t, infer.NewTagSet(infer.TagBoolean), sum.Tags("active"))
	assert.Equal(t, infer.NewTagSet(infer.TagAny), sum.Tags("payload"))
	assert.Equal(t, infer.NewTagSet(infer.TagBytes), sum.Tags("blob"))
}

func TestParse_QuotedExampleValues(t *testing.T) {
	// Quoted values declare ID fields when shaped like a Convex ID,
	// otherwise plain strings. Empty examples are strings.
	inner := `{"ownerRef": "jd7akbcrr2vs8e5nqyrz9mvaj97abcde", "label": "hello world", "note": ""}`
	sum, err := Parse(strings.NewReader(summaryLine(inner)))
	require.NoError(t, err)

	assert.Equal(t, infer.NewTagSet(infer.TagID), sum.Tags("ownerRef"))
	assert.Equal(t, infer.NewTagSet(infer.TagString), sum.Tags("label"))
	assert.Equal(t, infer.NewTagSet(infer.TagString), sum.Tags("note"))
}

func TestParse_MergesAcrossLines(t *testing.T) {
	// A field declared with different tags over the table's history keeps
	// the union, in first-appearance order.
	lines := summaryLine(`{"value": int64, "name": string}`) + "\n" +
		summaryLine(`{"value": string, "extra": boolean}`) + "\n"
	sum, err := Parse(strings.NewReader(lines))
	require.NoError(t, err)

	assert.Equal(t, []string{"value", "name", "extra"}, sum.Fields())
	assert.Equal(t, infer.NewTagSet(infer.TagInt64, infer.TagString), sum.Tags("value"))
}

func TestParse_SkipsMalformedLines(t *testing.T) {
	lines := "not a json string\n" + summaryLine(`{"name": string}`) + "\n"
	sum, err := Parse(strings.NewReader(lines))
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Skipped)
	assert.Equal(t, []string{"name"}, sum.Fields())
}

func TestParse_UnknownIdentifierFallsBackToString(t *testing.T) {
	sum, err := Parse(strings.NewReader(summaryLine(`{"weird": sometype}`)))
	require.NoError(t, err)

	assert.Equal(t, infer.NewTagSet(infer.TagString), sum.Tags("weird"))
}

func TestParse_EmptyStream(t *testing.T) {
	sum, err := Parse(strings.NewReader(""))
	require.NoError(t, err)

	assert.Zero(t, sum.Len())
	assert.Zero(t, sum.Skipped)
	assert.True(t, sum.Tags("anything").IsEmpty())
}

func TestParse_NullableUnionTag(t *testing.T) {
	sum, err := Parse(strings.NewReader(summaryLine(`{"deletedAt": null, "flag": boolean}`)))
	require.NoError(t, err)

	assert.Equal(t, infer.NewTagSet(infer.TagNull), sum.Tags("deletedAt"))
	assert.Equal(t, infer.NewTagSet(infer.TagBoolean), sum.Tags("flag"))
}
