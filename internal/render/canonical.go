package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/convexpg/internal/document"
)

// MarshalCanonical produces canonical JSON for JSONB literals. Canonical
// output is what makes reruns byte-identical regardless of map iteration
// order.
//
// Rules, following RFC 8785 where the value model allows:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. Numbers re-emit their input literal verbatim
func MarshalCanonical(v document.Value) ([]byte, error) {
	switch val := v.(type) {
	case nil, document.Null:
		return []byte("null"), nil
	case document.Bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case document.Number:
		return []byte(val.Raw), nil
	case document.String:
		return marshalCanonicalString(string(val))
	case document.Array:
		return marshalCanonicalArray(val)
	case document.Object:
		return marshalCanonicalObject(val)
	default:
		return nil, fmt.Errorf("unsupported value type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString encodes a string with NFC normalization and HTML
// escaping disabled.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds a trailing newline, remove it.
	result := buf.Bytes()
	if len(result) > 0 && result[len(result)-1] == '\n' {
		result = result[:len(result)-1]
	}
	return result, nil
}

func marshalCanonicalArray(arr document.Array) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		elemBytes, err := MarshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(elemBytes)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalObject(obj document.Object) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range obj.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := marshalCanonicalString(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
