package sortkey

import (
	"bytes"

	"github.com/peak/gosort/record"
)

// Comparator is the total preorder the core sort engine is generic over
// (spec.md §6.3's record_compare capability). idxA/idxB index into the
// parallel LineData arrays that ParseRecord populated for each record.
type Comparator func(a, b record.Record, idxA, idxB int, dataA, dataB *record.LineData) int

// New builds a Comparator for the given settings. When Keys is empty the
// whole record is the key; Numeric selects numeric comparison over the
// precomputed NumInfo; Reverse flips the final result.
func New(settings *Settings) Comparator {
	base := func(a, b record.Record, idxA, idxB int, dataA, dataB *record.LineData) int {
		if settings.Numeric {
			return CompareNumeric(dataA.NumInfo[idxA], dataB.NumInfo[idxB])
		}
		return bytes.Compare(dataA.Selections[idxA], dataB.Selections[idxB])
	}

	if !settings.Reverse {
		return base
	}
	return func(a, b record.Record, idxA, idxB int, dataA, dataB *record.LineData) int {
		return -base(a, b, idxA, idxB, dataA, dataB)
	}
}

// RawComparator orders two bare record byte slices (no precomputed line
// data), re-deriving whatever key information it needs each call. The
// merge stage uses this instead of Comparator: once a record has been
// written to a run file its chunk's LineData no longer exists.
type RawComparator func(a, b []byte) int

// NewRaw builds a RawComparator for settings, used by the k-way merge.
func NewRaw(settings *Settings) RawComparator {
	base := func(a, b []byte) int {
		ka, kb := selectKey(settings, a), selectKey(settings, b)
		if settings.Numeric {
			return CompareNumeric(ParseNumeric(ka), ParseNumeric(kb))
		}
		return bytes.Compare(ka, kb)
	}

	if !settings.Reverse {
		return base
	}
	return func(a, b []byte) int { return -base(a, b) }
}

// ParseRecord populates one entry of out with the key selection (and,
// when numeric, its NumInfo) for rec, per settings. It must be pure and
// deterministic for a fixed settings snapshot (spec.md §6.3).
func ParseRecord(settings *Settings, rec record.Record, out *record.LineData) {
	key := selectKey(settings, rec)
	// key is a sub-slice of rec, so the capacity it lacks is its offset.
	start := cap(rec) - cap(key)

	var num record.NumInfo
	if settings.Numeric {
		num = ParseNumeric(key)
	}

	out.Append(key, num, record.ParseResult{KeyStart: start, KeyEnd: start + len(key)})
}

// selectKey returns the byte range of rec that settings.Keys selects, or
// the whole record when no key specification is given.
func selectKey(settings *Settings, rec record.Record) []byte {
	if len(settings.Keys) == 0 {
		return rec
	}

	// Only the first key field is honored; multi-key tie-break chains are
	// a coreutils -k feature explicitly out of scope (spec.md §1).
	k := settings.Keys[0]
	fields := splitFields(rec, settings.FieldSep)

	start := fieldOffset(fields, k.StartField, k.StartChar)
	end := len(rec)
	if k.EndField > 0 {
		end = fieldOffset(fields, k.EndField, k.EndChar)
	}
	if start > len(rec) {
		start = len(rec)
	}
	if end > len(rec) {
		end = len(rec)
	}
	if end < start {
		end = start
	}
	return rec[start:end]
}

// splitFields returns the start offset of each field in rec. A zero sep
// means "fields are separated by runs of blanks", coreutils' default.
func splitFields(rec record.Record, sep byte) []int {
	var offsets []int
	n := len(rec)
	if n == 0 {
		return []int{0}
	}

	if sep == 0 {
		i := 0
		offsets = append(offsets, 0)
		for i < n {
			for i < n && rec[i] != ' ' && rec[i] != '\t' {
				i++
			}
			for i < n && (rec[i] == ' ' || rec[i] == '\t') {
				i++
			}
			if i < n {
				offsets = append(offsets, i)
			}
		}
		return offsets
	}

	offsets = append(offsets, 0)
	for i := 0; i < n; i++ {
		if rec[i] == sep {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

func fieldOffset(fields []int, fieldNum, charOffset int) int {
	if fieldNum <= 0 {
		return 0
	}
	idx := fieldNum - 1
	if idx >= len(fields) {
		return fields[len(fields)-1]
	}
	return fields[idx] + charOffset
}
