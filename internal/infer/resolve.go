package infer

import "strings"

// ColumnType is a resolved PostgreSQL column type.
type ColumnType string

// Resolved column types. VARCHAR(50) is sized for Convex document IDs.
const (
	TypeDoublePrecision ColumnType = "DOUBLE PRECISION"
	TypeBigint          ColumnType = "BIGINT"
	TypeText            ColumnType = "TEXT"
	TypeBoolean         ColumnType = "BOOLEAN"
	TypeJSONB           ColumnType = "JSONB"
	TypeVarcharID       ColumnType = "VARCHAR(50)"
	TypeBytea           ColumnType = "BYTEA"
)

// columnTypes indexes the resolved types by their SQL spelling.
var columnTypes = map[string]ColumnType{
	"DOUBLE PRECISION": TypeDoublePrecision,
	"BIGINT":           TypeBigint,
	"TEXT":             TypeText,
	"BOOLEAN":          TypeBoolean,
	"JSONB":            TypeJSONB,
	"VARCHAR(50)":      TypeVarcharID,
	"BYTEA":            TypeBytea,
}

// ParseColumnType parses a column type name (as written in a config file).
// Matching is case-insensitive.
func ParseColumnType(s string) (ColumnType, bool) {
	t, ok := columnTypes[strings.ToUpper(strings.TrimSpace(s))]
	return t, ok
}

// directMap resolves a single-tag set to its column type.
var directMap = map[Tag]ColumnType{
	TagFloat64: TypeDoublePrecision,
	TagInt64:   TypeBigint,
	TagString:  TypeText,
	TagBoolean: TypeBoolean,
	TagID:      TypeVarcharID,
	TagBytes:   TypeBytea,
	TagArray:   TypeJSONB,
	TagObject:  TypeJSONB,
	TagAny:     TypeJSONB,
}

// rule is one guarded resolution step. Rules are evaluated top to bottom and
// the first match wins, which makes override priority an explicit data
// structure rather than implicit branch order.
type rule struct {
	name    string
	resolve func(field string, tags TagSet) (ColumnType, bool)
}

// rules is the resolution precedence table.
//
// Naming conventions come first: Convex producers declare identifiers and
// millisecond timestamps inconsistently (string here, float there), so the
// field name is the stronger signal. Null is never evidence. Conflicting
// primitives widen to JSONB rather than failing; truncation is never an
// option.
var rules = []rule{
	{
		name: "identifier-name",
		resolve: func(field string, _ TagSet) (ColumnType, bool) {
			if field == "_id" || strings.HasSuffix(field, "Id") {
				return TypeVarcharID, true
			}
			return "", false
		},
	},
	{
		name: "timestamp-name",
		resolve: func(field string, _ TagSet) (ColumnType, bool) {
			if strings.HasSuffix(field, "At") || strings.HasSuffix(field, "Time") ||
				strings.HasPrefix(field, "expires") {
				return TypeBigint, true
			}
			return "", false
		},
	},
	{
		name: "single-tag",
		resolve: func(_ string, tags TagSet) (ColumnType, bool) {
			s := tags.Without(TagNull)
			if s.Len() != 1 {
				return "", false
			}
			return directMap[s.Tags()[0]], true
		},
	},
	{
		name: "structured",
		resolve: func(_ string, tags TagSet) (ColumnType, bool) {
			if tags.Has(TagArray) || tags.Has(TagObject) || tags.Has(TagAny) {
				return TypeJSONB, true
			}
			return "", false
		},
	},
	{
		name: "numeric-widening",
		resolve: func(_ string, tags TagSet) (ColumnType, bool) {
			if tags.Without(TagNull) == NewTagSet(TagInt64, TagFloat64) {
				return TypeDoublePrecision, true
			}
			return "", false
		},
	},
	{
		name: "string-widening",
		resolve: func(_ string, tags TagSet) (ColumnType, bool) {
			if tags.Without(TagNull) == NewTagSet(TagID, TagString) {
				return TypeText, true
			}
			return "", false
		},
	},
	{
		name: "conflict",
		resolve: func(_ string, tags TagSet) (ColumnType, bool) {
			if tags.Without(TagNull).Len() > 1 {
				return TypeJSONB, true
			}
			return "", false
		},
	},
	{
		name: "no-evidence",
		resolve: func(_ string, _ TagSet) (ColumnType, bool) {
			return TypeText, true
		},
	},
}

// Resolve maps a field's name and accumulated tag set to a column type.
// Pure: the same (field, tags) pair always yields the same type.
func Resolve(field string, tags TagSet) ColumnType {
	for _, r := range rules {
		if t, ok := r.resolve(field, tags); ok {
			return t
		}
	}
	// Unreachable: the final rule always matches.
	return TypeText
}

// IsWidened reports whether the resolved type came from a conflict or
// structured fallback rather than a direct single-tag mapping. Used for
// user-facing summaries; widening is deliberate but never silent.
func IsWidened(field string, tags TagSet) bool {
	if Resolve(field, tags) != TypeJSONB {
		return false
	}
	s := tags.Without(TagNull)
	return s.Len() > 1
}
