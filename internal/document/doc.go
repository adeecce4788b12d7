// Package document decodes the newline-delimited JSON document streams found
// in a Convex snapshot export.
//
// This package is the foundational layer: every other internal package may
// import document; document imports nothing internal.
//
// Key design constraints:
//   - Values form a sealed interface (Null, Bool, Number, String, Array,
//     Object) so renderers can switch exhaustively.
//   - Numbers keep their original literal text; int and float are never
//     conflated, and rendering a number re-emits the input bytes.
//   - Top-level field order is preserved per document for column discovery.
//   - Streams are forward-only; a document is released once consumed.
package document
