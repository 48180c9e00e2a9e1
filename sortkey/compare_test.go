package sortkey

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/peak/gosort/record"
)

func buildLineData(settings *Settings, recs ...record.Record) ([]record.Record, record.LineData) {
	var ld record.LineData
	for _, r := range recs {
		ParseRecord(settings, r, &ld)
	}
	return recs, ld
}

func TestCompareWholeRecord(t *testing.T) {
	t.Parallel()

	settings := &Settings{Separator: '\n'}
	cmp := New(settings)

	recs, ld := buildLineData(settings, record.Record("banana"), record.Record("apple"))

	got := cmp(recs[0], recs[1], 0, 1, &ld, &ld)
	assert.Assert(t, got > 0)

	got = cmp(recs[1], recs[0], 1, 0, &ld, &ld)
	assert.Assert(t, got < 0)
}

func TestCompareReverse(t *testing.T) {
	t.Parallel()

	settings := &Settings{Separator: '\n', Reverse: true}
	cmp := New(settings)

	recs, ld := buildLineData(settings, record.Record("a"), record.Record("b"))
	assert.Assert(t, cmp(recs[0], recs[1], 0, 1, &ld, &ld) > 0)
}

func TestCompareNumericField(t *testing.T) {
	t.Parallel()

	settings := &Settings{
		Separator: '\n',
		Numeric:   true,
		FieldSep:  ',',
		Keys:      []KeyField{{StartField: 2}},
	}
	cmp := New(settings)

	recs, ld := buildLineData(settings, record.Record("x,10"), record.Record("y,9"))
	assert.Assert(t, cmp(recs[0], recs[1], 0, 1, &ld, &ld) > 0)
}

func TestRawComparatorMatchesComparator(t *testing.T) {
	t.Parallel()

	settings := &Settings{Separator: '\n', Numeric: true}
	raw := NewRaw(settings)

	assert.Assert(t, raw([]byte("10"), []byte("9")) > 0)
	assert.Assert(t, raw([]byte("2"), []byte("10")) < 0)
}

func TestSelectKeyField(t *testing.T) {
	t.Parallel()

	settings := &Settings{FieldSep: ':', Keys: []KeyField{{StartField: 2, EndField: 3}}}
	key := selectKey(settings, record.Record("a:bbb:c"))
	assert.Equal(t, string(key), "bbb:")
}

func TestSelectKeyWholeRecordWhenNoKeys(t *testing.T) {
	t.Parallel()

	settings := &Settings{}
	key := selectKey(settings, record.Record("hello"))
	assert.Equal(t, string(key), "hello")
}
