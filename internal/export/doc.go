// Package export walks a Convex snapshot export directory and drives
// per-table conversion: type summary and document sampling feed schema
// synthesis, then the fixed schema drives DDL and row rendering.
//
// Processing is single-threaded and single-pass per artifact. Tables convert
// one at a time in discovery order; no state crosses tables. Soft problems
// (malformed lines, missing summaries, empty tables) never abort a run; only
// I/O failures are fatal, and they carry the table name.
package export
