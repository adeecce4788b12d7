package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_SingleTagMappings(t *testing.T) {
	testCases := []struct {
		name string
		tags TagSet
		want ColumnType
	}{
		{name: "float64", tags: NewTagSet(TagFloat64), want: TypeDoublePrecision},
		{name: "int64", tags: NewTagSet(TagInt64), want: TypeBigint},
		{name: "string", tags: NewTagSet(TagString), want: TypeText},
		{name: "boolean", tags: NewTagSet(TagBoolean), want: TypeBoolean},
		{name: "array", tags: NewTagSet(TagArray), want: TypeJSONB},
		{name: "object", tags: NewTagSet(TagObject), want: TypeJSONB},
		{name: "any", tags: NewTagSet(TagAny), want: TypeJSONB},
		{name: "id", tags: NewTagSet(TagID), want: TypeVarcharID},
		{name: "bytes", tags: NewTagSet(TagBytes), want: TypeBytea},
		{name: "no evidence", tags: NewTagSet(), want: TypeText},
		{name: "only null", tags: NewTagSet(TagNull), want: TypeText},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve("value", tc.tags))
		})
	}
}

func TestResolve_NullIsNotEvidence(t *testing.T) {
	// A nullable union resolves like the non-null tag alone.
	assert.Equal(t, TypeText, Resolve("note", NewTagSet(TagString, TagNull)))
	assert.Equal(t, TypeBigint, Resolve("count", NewTagSet(TagInt64, TagNull)))
}

func TestResolve_IdentifierNamesAlwaysWin(t *testing.T) {
	// Declared types are unreliable for identifier fields; the naming
	// convention overrides them.
	testCases := []struct {
		field string
		tags  TagSet
	}{
		{field: "_id", tags: NewTagSet()},
		{field: "_id", tags: NewTagSet(TagInt64)},
		{field: "userId", tags: NewTagSet(TagString)},
		{field: "sessionId", tags: NewTagSet(TagFloat64, TagString)},
	}

	for _, tc := range testCases {
		assert.Equal(t, TypeVarcharID, Resolve(tc.field, tc.tags), "field %s", tc.field)
	}
}

func TestResolve_TimestampNamesAlwaysWin(t *testing.T) {
	testCases := []struct {
		field string
		tags  TagSet
	}{
		{field: "createdAt", tags: NewTagSet(TagFloat64)},
		{field: "updatedAt", tags: NewTagSet(TagString)},
		{field: "lastSeenTime", tags: NewTagSet(TagFloat64)},
		{field: "expires", tags: NewTagSet(TagString)},
		{field: "expiresAt", tags: NewTagSet()},
	}

	for _, tc := range testCases {
		assert.Equal(t, TypeBigint, Resolve(tc.field, tc.tags), "field %s", tc.field)
	}
}

func TestResolve_SuffixMatchIsCaseSensitive(t *testing.T) {
	// "grid" does not end with "Id"; "format" does not end with "At".
	assert.Equal(t, TypeText, Resolve("grid", NewTagSet(TagString)))
	assert.Equal(t, TypeText, Resolve("format", NewTagSet(TagString)))
	assert.Equal(t, TypeBigint, Resolve("chat", NewTagSet(TagInt64)))
}

func TestResolve_Widening(t *testing.T) {
	testCases := []struct {
		name string
		tags TagSet
		want ColumnType
	}{
		{name: "string and int conflict", tags: NewTagSet(TagString, TagInt64), want: TypeJSONB},
		{name: "float and string conflict", tags: NewTagSet(TagFloat64, TagString), want: TypeJSONB},
		{name: "bool and string conflict", tags: NewTagSet(TagBoolean, TagString), want: TypeJSONB},
		{name: "object mixed with primitive", tags: NewTagSet(TagObject, TagString), want: TypeJSONB},
		{name: "array mixed with object", tags: NewTagSet(TagArray, TagObject), want: TypeJSONB},
		{name: "int and float widen to double", tags: NewTagSet(TagInt64, TagFloat64), want: TypeDoublePrecision},
		{name: "id and string widen to text", tags: NewTagSet(TagID, TagString), want: TypeText},
		{name: "null never blocks widening", tags: NewTagSet(TagInt64, TagFloat64, TagNull), want: TypeDoublePrecision},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve("value", tc.tags))
		})
	}
}

func TestResolve_IsPure(t *testing.T) {
	tags := NewTagSet(TagFloat64, TagString)
	first := Resolve("score", tags)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Resolve("score", tags))
	}
}

func TestIsWidened(t *testing.T) {
	assert.True(t, IsWidened("value", NewTagSet(TagString, TagInt64)))
	assert.False(t, IsWidened("value", NewTagSet(TagObject)))
	assert.False(t, IsWidened("value", NewTagSet(TagString)))
	assert.False(t, IsWidened("userId", NewTagSet(TagString, TagInt64)))
}

func TestParseColumnType(t *testing.T) {
	for _, name := range []string{"DOUBLE PRECISION", "BIGINT", "TEXT", "BOOLEAN", "JSONB", "VARCHAR(50)", "BYTEA"} {
		got, ok := ParseColumnType(name)
		assert.True(t, ok, name)
		assert.Equal(t, ColumnType(name), got)
	}

	got, ok := ParseColumnType("jsonb")
	assert.True(t, ok)
	assert.Equal(t, TypeJSONB, got)

	_, ok = ParseColumnType("UUID")
	assert.False(t, ok)
}
