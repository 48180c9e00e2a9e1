package sortkey

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"

	"github.com/peak/gosort/record"
)

func TestParseNumericBasic(t *testing.T) {
	t.Parallel()

	n := ParseNumeric([]byte("  -12.5"))
	assert.Assert(t, n.Valid)
	assert.Assert(t, n.Negative)
	assert.Equal(t, n.Integer, int64(12))
	assert.Equal(t, n.Fraction, 0.5)
}

func TestParseNumericInvalid(t *testing.T) {
	t.Parallel()

	n := ParseNumeric([]byte("not-a-number"))
	assert.Assert(t, !n.Valid)
}

func TestCompareNumericInvalidSortsFirst(t *testing.T) {
	t.Parallel()

	invalid := ParseNumeric([]byte("abc"))
	valid := ParseNumeric([]byte("1"))

	assert.Assert(t, CompareNumeric(invalid, valid) < 0)
	assert.Assert(t, CompareNumeric(valid, invalid) > 0)
	assert.Equal(t, CompareNumeric(invalid, ParseNumeric([]byte("xyz"))), 0)
}

func TestCompareNumericOrdersBySignThenMagnitude(t *testing.T) {
	t.Parallel()

	neg := ParseNumeric([]byte("-5"))
	pos := ParseNumeric([]byte("3"))
	zero := ParseNumeric([]byte("0"))

	assert.Assert(t, CompareNumeric(neg, pos) < 0)
	assert.Assert(t, CompareNumeric(pos, neg) > 0)
	assert.Assert(t, CompareNumeric(neg, zero) < 0)

	smallNeg := ParseNumeric([]byte("-1"))
	bigNeg := ParseNumeric([]byte("-100"))
	assert.Assert(t, CompareNumeric(bigNeg, smallNeg) < 0)
}

func TestParseNumericStructure(t *testing.T) {
	t.Parallel()

	got := ParseNumeric([]byte("-3.25"))
	want := record.NumInfo{Valid: true, Negative: true, Integer: 3, Fraction: 0.25}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ParseNumeric mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRecordPopulatesLineData(t *testing.T) {
	t.Parallel()

	settings := &Settings{Numeric: true}
	var ld record.LineData
	ParseRecord(settings, record.Record("42"), &ld)

	assert.Equal(t, len(ld.Selections), 1)
	assert.Equal(t, string(ld.Selections[0]), "42")
	assert.Assert(t, ld.NumInfo[0].Valid)
	assert.Equal(t, ld.NumInfo[0].Integer, int64(42))
}
