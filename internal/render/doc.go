// Package render turns table schemas and documents into SQL text.
//
// All output is deterministic: identical schemas and documents always render
// to identical bytes. JSONB literals use canonical JSON (sorted keys, NFC
// strings), string literals use standard quote-doubling with backslashes
// left literal.
package render
