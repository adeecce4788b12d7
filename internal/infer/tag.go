package infer

import (
	"math/bits"
	"regexp"
	"strings"

	"github.com/roach88/convexpg/internal/document"
)

// Tag is one primitive type category observed or declared for a field.
// Tags are single bits so a TagSet is a plain bitmask.
type Tag uint16

const (
	// TagFloat64 marks a fractional or exponent-form number.
	TagFloat64 Tag = 1 << iota
	// TagInt64 marks an integral number.
	TagInt64
	// TagString marks a plain string.
	TagString
	// TagBoolean marks a boolean.
	TagBoolean
	// TagArray marks a JSON array.
	TagArray
	// TagObject marks a JSON object.
	TagObject
	// TagNull marks a JSON null. Null carries no type evidence and is
	// discarded during resolution.
	TagNull
	// TagID marks a string shaped like a Convex document ID.
	TagID
	// TagBytes marks a declared bytes field (base64 string payloads).
	TagBytes
	// TagAny marks a declared "any" field.
	TagAny
)

// allTags lists tags in declaration order for deterministic enumeration.
var allTags = []Tag{
	TagFloat64, TagInt64, TagString, TagBoolean, TagArray,
	TagObject, TagNull, TagID, TagBytes, TagAny,
}

var tagNames = map[Tag]string{
	TagFloat64: "float64",
	TagInt64:   "int64",
	TagString:  "string",
	TagBoolean: "boolean",
	TagArray:   "array",
	TagObject:  "object",
	TagNull:    "null",
	TagID:      "id",
	TagBytes:   "bytes",
	TagAny:     "any",
}

// String returns the tag's name for diagnostics.
func (t Tag) String() string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "unknown"
}

// TagSet is a set of Tags. The zero value is the empty set. Merging is a
// bitwise union, so accumulation over documents is commutative and
// associative: resolution cannot depend on document order.
type TagSet uint16

// NewTagSet builds a TagSet from tags.
func NewTagSet(tags ...Tag) TagSet {
	var s TagSet
	for _, t := range tags {
		s = s.Add(t)
	}
	return s
}

// Add returns the set with t included.
func (s TagSet) Add(t Tag) TagSet {
	return s | TagSet(t)
}

// Union returns the union of two sets.
func (s TagSet) Union(o TagSet) TagSet {
	return s | o
}

// Has reports whether t is in the set.
func (s TagSet) Has(t Tag) bool {
	return s&TagSet(t) != 0
}

// Without returns the set with t removed.
func (s TagSet) Without(t Tag) TagSet {
	return s &^ TagSet(t)
}

// Len returns the number of tags in the set.
func (s TagSet) Len() int {
	return bits.OnesCount16(uint16(s))
}

// IsEmpty reports whether the set has no tags.
func (s TagSet) IsEmpty() bool {
	return s == 0
}

// Tags enumerates the set in declaration order.
func (s TagSet) Tags() []Tag {
	var out []Tag
	for _, t := range allTags {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// String renders the set like "{int64 string}" for diagnostics.
func (s TagSet) String() string {
	names := make([]string, 0, s.Len())
	for _, t := range s.Tags() {
		names = append(names, t.String())
	}
	return "{" + strings.Join(names, " ") + "}"
}

// convexIDPattern matches Convex document IDs: long alphanumeric strings,
// typically 32 characters.
var convexIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{20,}$`)

// IsConvexID reports whether s is shaped like a Convex document ID.
func IsConvexID(s string) bool {
	return convexIDPattern.MatchString(s)
}

// msEpochThreshold is the smallest float treated as a millisecond epoch
// timestamp. Values above it (year 2001 onward in ms) came from producers
// that store timestamps as floats.
const msEpochThreshold = 1e12

// ObserveValue derives the tag for a runtime document value. This is the
// fallback evidence source when no declared type summary exists.
func ObserveValue(v document.Value) Tag {
	switch val := v.(type) {
	case document.Null:
		return TagNull
	case document.Bool:
		return TagBoolean
	case document.Number:
		if val.IsInt {
			return TagInt64
		}
		if val.Float > msEpochThreshold {
			// Millisecond epoch stored as a float.
			return TagInt64
		}
		return TagFloat64
	case document.String:
		return TagString
	case document.Array:
		return TagArray
	case document.Object:
		return TagObject
	default:
		return TagAny
	}
}
