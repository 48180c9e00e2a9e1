// Package sortkey supplies a concrete, reasonably complete
// implementation of the "compare two records" / "parse a record"
// capabilities that sortengine and merge treat as externally supplied.
// It is one client of those generic packages, not part of their
// contract.
package sortkey

// KeyField is a single -k field.start[,field.end] selection, a subset of
// coreutils' -k syntax: 1-based field numbers, optional character
// offsets, no fine-grained per-key modifiers (those apply globally via
// Settings instead).
type KeyField struct {
	StartField int
	StartChar  int // 0 means "from the start of the field"
	EndField   int // 0 means "through the end of the record"
	EndChar    int
}

// Settings is an immutable snapshot of the comparator configuration for
// one sort run, built once by the CLI layer and shared read-only across
// the reader, sorter, and merge stages.
type Settings struct {
	Separator    byte
	FieldSep     byte // field separator for -k / -t; 0 means "whitespace run"
	Unique       bool
	Reverse      bool
	Numeric      bool
	Keys         []KeyField
	CompressProg string
}

// DefaultFieldSeparator is used when FieldSep is unset and a key
// specification is in effect; matches coreutils' default of "a maximal
// run of blanks" collapsed to a single split point at its end.
const DefaultFieldSeparator = 0
