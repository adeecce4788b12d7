package document

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

// Value is a sealed interface over the JSON value kinds that appear in a
// snapshot export. Only Null, Bool, Number, String, Array, and Object
// implement it. Unlike a typical decoded map[string]any, numbers keep their
// original literal text so rendering is lossless and byte-stable.
type Value interface {
	value() // Sealed - only these types implement it
}

// Null represents a JSON null.
// Using an explicit type ensures all Values satisfy the sealed interface.
type Null struct{}

func (Null) value() {}

// Bool represents a JSON boolean.
type Bool bool

func (Bool) value() {}

// String represents a JSON string.
type String string

func (String) value() {}

// Number represents a JSON number.
//
// Raw preserves the literal exactly as it appeared in the input, which is
// what renderers emit for float columns. IsInt distinguishes integral
// literals (no '.', 'e', or 'E') from floats; Float is always populated.
type Number struct {
	Raw   string
	IsInt bool
	Int   int64
	Float float64
}

func (Number) value() {}

// Array represents a JSON array.
type Array []Value

func (Array) value() {}

// Object represents a JSON object.
// Use SortedKeys() for deterministic iteration.
type Object map[string]Value

func (Object) value() {}

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 byte order, which differs for some inputs.
func (obj Object) SortedKeys() []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)
	return keys
}

// compareKeysUTF16 compares strings by UTF-16 code units as required by
// RFC 8785. Uses unicode/utf16.Encode for correct surrogate handling.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	if len(a16) < len(b16) {
		return -1
	}
	if len(a16) > len(b16) {
		return 1
	}
	return 0
}

// newNumber builds a Number from a decoded json.Number, classifying it as
// integral when the literal has no fraction or exponent part.
func newNumber(n json.Number) (Number, error) {
	raw := string(n)
	f, err := n.Float64()
	if err != nil {
		return Number{}, fmt.Errorf("invalid number literal %q: %w", raw, err)
	}
	if !strings.ContainsAny(raw, ".eE") {
		if i, ierr := n.Int64(); ierr == nil {
			return Number{Raw: raw, IsInt: true, Int: i, Float: f}, nil
		}
		// Integral literal out of int64 range; treat as float.
	}
	return Number{Raw: raw, IsInt: false, Float: f}, nil
}

// FromAny converts a decoded JSON value (as produced by json.Decoder with
// UseNumber) into a Value.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		return newNumber(val)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			converted, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = converted
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			converted, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = converted
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported JSON value type: %T", v)
	}
}
