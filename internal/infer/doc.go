// Package infer resolves PostgreSQL column types from declared and observed
// type evidence.
//
// Evidence for a field is a TagSet accumulated across the type summary and
// sampled documents. Resolution is an ordered table of guarded rules; naming
// conventions (identifier and timestamp fields) outrank any declared or
// observed primitive type.
package infer
