package merge

import (
	"bytes"
	"sync/atomic"
	"testing"

	"github.com/golang/mock/gomock"
	"gotest.tools/v3/assert"

	"github.com/peak/gosort/compress"
	"github.com/peak/gosort/sortkey"
	"github.com/peak/gosort/tmpdir"
)

// sliceRun is an in-memory ReadableRun for tests that don't need an
// actual run file.
type sliceRun struct {
	recs [][]byte
	pos  int
}

func newSliceRun(recs ...string) *sliceRun {
	s := &sliceRun{}
	for _, r := range recs {
		s.recs = append(s.recs, []byte(r))
	}
	return s
}

func (s *sliceRun) Next() ([]byte, bool, error) {
	if s.pos >= len(s.recs) {
		return nil, false, nil
	}
	r := s.recs[s.pos]
	s.pos++
	return r, true, nil
}

func (s *sliceRun) Close() error { return nil }

// countingRun wraps a ReadableRun and tracks whether it has been opened
// (i.e. read from) concurrently with other open countingRuns, to verify
// MergeWithFileLimit never exceeds its FileLimit budget.
type countingRun struct {
	ReadableRun
	open   *int32
	peak   *int32
	opened bool
	closed bool
}

func (c *countingRun) Next() ([]byte, bool, error) {
	if !c.opened {
		c.opened = true
		n := atomic.AddInt32(c.open, 1)
		for {
			p := atomic.LoadInt32(c.peak)
			if n <= p || atomic.CompareAndSwapInt32(c.peak, p, n) {
				break
			}
		}
	}
	rec, ok, err := c.ReadableRun.Next()
	if !ok {
		c.closeOnce()
	}
	return rec, ok, err
}

func (c *countingRun) closeOnce() {
	if c.opened && !c.closed {
		c.closed = true
		atomic.AddInt32(c.open, -1)
	}
}

func (c *countingRun) Close() error {
	c.closeOnce()
	return c.ReadableRun.Close()
}

func testManager(t *testing.T, fileLimit int, unique bool) *Manager {
	t.Helper()
	dir, err := tmpdir.New("")
	assert.NilError(t, err)
	t.Cleanup(func() { dir.Close() })

	settings := &sortkey.Settings{Separator: '\n'}
	return &Manager{
		Dir:       dir,
		Codec:     compress.None,
		Separator: '\n',
		FileLimit: fileLimit,
		Compare:   sortkey.NewRaw(settings),
		Unique:    unique,
	}
}

func TestMergeTwoRuns(t *testing.T) {
	t.Parallel()

	mgr := testManager(t, 8, false)
	runs := []ReadableRun{
		newSliceRun("banana", "cherry"),
		newSliceRun("apple", "date"),
	}

	var out bytes.Buffer
	assert.NilError(t, mgr.MergeWithFileLimit(runs, &out))
	assert.Equal(t, out.String(), "apple\nbanana\ncherry\ndate\n")
}

func TestMergeDedupsAdjacentEqualRecordsWhenUnique(t *testing.T) {
	t.Parallel()

	mgr := testManager(t, 8, true)
	runs := []ReadableRun{
		newSliceRun("a", "b", "b"),
		newSliceRun("b", "c"),
	}

	var out bytes.Buffer
	assert.NilError(t, mgr.MergeWithFileLimit(runs, &out))
	assert.Equal(t, out.String(), "a\nb\nc\n")
}

func TestMergePreservesRunOrderOnTies(t *testing.T) {
	t.Parallel()

	mgr := testManager(t, 8, false)
	runs := []ReadableRun{
		newSliceRun("x"),
		newSliceRun("x"),
	}

	var out bytes.Buffer
	assert.NilError(t, mgr.MergeWithFileLimit(runs, &out))
	assert.Equal(t, out.String(), "x\nx\n")
}

func TestMergeGroupClosesEachRunExactlyOnce(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)

	a := NewMockReadableRun(ctrl)
	gomock.InOrder(
		a.EXPECT().Next().Return([]byte("a"), true, nil),
		a.EXPECT().Next().Return(nil, false, nil),
	)
	a.EXPECT().Close().Times(1)

	b := NewMockReadableRun(ctrl)
	gomock.InOrder(
		b.EXPECT().Next().Return([]byte("b"), true, nil),
		b.EXPECT().Next().Return(nil, false, nil),
	)
	b.EXPECT().Close().Times(1)

	mgr := testManager(t, 8, false)
	var out bytes.Buffer
	assert.NilError(t, mgr.mergeGroup([]ReadableRun{a, b}, &plainSink{w: &out, sep: '\n'}))
	assert.Equal(t, out.String(), "a\nb\n")
}

// writeRun commits recs to a brand-new real run file and returns its
// ReadableRun, exercising the actual NewRun/Close/runReader path rather
// than the in-memory sliceRun test double.
func writeRun(t *testing.T, dir *tmpdir.Dir, recs ...string) ReadableRun {
	t.Helper()

	run, err := NewRun(dir, compress.None, '\n')
	assert.NilError(t, err)
	for _, r := range recs {
		assert.NilError(t, run.WriteRecord([]byte(r)))
	}
	rr, err := run.Close()
	assert.NilError(t, err)
	return rr
}

func TestRunCloseDoesNotOpenFileUntilFirstNext(t *testing.T) {
	t.Parallel()

	dir, err := tmpdir.New("")
	assert.NilError(t, err)
	t.Cleanup(func() { dir.Close() })

	rr := writeRun(t, dir, "a", "b")
	rdr, ok := rr.(*runReader)
	assert.Assert(t, ok)
	assert.Assert(t, rdr.file == nil)

	rec, ok, err := rdr.Next()
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, string(rec), "a")
	assert.Assert(t, rdr.file != nil)

	assert.NilError(t, rdr.Close())
}

func TestMergeRecursesUnderFileLimitWithRealRunFiles(t *testing.T) {
	t.Parallel()

	dir, err := tmpdir.New("")
	assert.NilError(t, err)
	t.Cleanup(func() { dir.Close() })

	mgr := testManager(t, 3, false)
	mgr.Dir = dir

	var open, peak int32
	var runs []ReadableRun
	for i := 0; i < 7; i++ {
		rr := writeRun(t, dir, string(rune('a'+i)))
		runs = append(runs, &countingRun{ReadableRun: rr, open: &open, peak: &peak})
	}

	var out bytes.Buffer
	assert.NilError(t, mgr.MergeWithFileLimit(runs, &out))

	// reserve = FileLimit-1 = 2 run files open per merge group at a time,
	// now that runReader opens lazily on first Next rather than the
	// moment the run was committed.
	assert.Assert(t, atomic.LoadInt32(&peak) <= 2)
	assert.Equal(t, out.String(), "a\nb\nc\nd\ne\nf\ng\n")
}

func TestMergeRecursesUnderFileLimit(t *testing.T) {
	t.Parallel()

	var open, peak int32
	mgr := testManager(t, 3, false)

	var runs []ReadableRun
	for i := 0; i < 7; i++ {
		runs = append(runs, &countingRun{
			ReadableRun: newSliceRun(string(rune('a' + i))),
			open:        &open,
			peak:        &peak,
		})
	}

	var out bytes.Buffer
	assert.NilError(t, mgr.MergeWithFileLimit(runs, &out))

	// reserve = FileLimit-1 = 2 runs open per merge group at a time.
	assert.Assert(t, atomic.LoadInt32(&peak) <= 2)
	assert.Equal(t, out.String(), "a\nb\nc\nd\ne\nf\ng\n")
}
