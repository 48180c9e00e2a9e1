package merge

import (
	"io"

	"github.com/peak/gosort/compress"
	"github.com/peak/gosort/merge/queue"
	"github.com/peak/gosort/sortkey"
	"github.com/peak/gosort/tmpdir"
	"github.com/peak/gosort/xerrors"
)

// Manager merges sorted runs into one sorted stream, honoring a cap on
// simultaneously open run files (§4.5).
type Manager struct {
	Dir       *tmpdir.Dir
	Codec     compress.Codec
	Separator byte
	FileLimit int // F
	Compare   sortkey.RawComparator
	Unique    bool
}

// recordSink is the minimal write-side the merge loop needs; satisfied
// by both *Run (an intermediate run) and plainSink (the final sink).
type recordSink interface {
	WriteRecord(rec []byte) error
}

type plainSink struct {
	w   io.Writer
	sep byte
}

func (p *plainSink) WriteRecord(rec []byte) error {
	if _, err := p.w.Write(rec); err != nil {
		return xerrors.New(xerrors.KindOutputIO, "write-output", err)
	}
	if _, err := p.w.Write([]byte{p.sep}); err != nil {
		return xerrors.New(xerrors.KindOutputIO, "write-output", err)
	}
	return nil
}

// MergeWithFileLimit merges runs into out, recursively pre-merging
// groups of size ≤ F-1 into intermediate runs whenever N exceeds the
// open-file budget, per §4.5's algorithm. One descriptor is always
// reserved for the output/intermediate-run being written.
func (m *Manager) MergeWithFileLimit(runs []ReadableRun, out io.Writer) error {
	reserve := m.FileLimit - 1
	if reserve < 1 {
		reserve = 1
	}

	for len(runs) > reserve {
		var next []ReadableRun
		for i := 0; i < len(runs); i += reserve {
			end := i + reserve
			if end > len(runs) {
				end = len(runs)
			}

			merged, err := m.mergeGroupToRun(runs[i:end])
			if err != nil {
				return err
			}
			next = append(next, merged)
		}
		runs = next
	}

	return m.mergeGroup(runs, &plainSink{w: out, sep: m.Separator})
}

// mergeGroupToRun merges group into a brand-new intermediate run and
// returns it, closed and ready for reading.
func (m *Manager) mergeGroupToRun(group []ReadableRun) (ReadableRun, error) {
	run, err := NewRun(m.Dir, m.Codec, m.Separator)
	if err != nil {
		return nil, err
	}

	if err := m.mergeGroup(group, run); err != nil {
		return nil, err
	}

	return run.Close()
}

type head struct {
	idx int
	rec []byte
	run ReadableRun
}

// mergeGroup performs a direct k-way merge of group into sink: a min-heap
// over each run's current head, tie-broken by the run's original index
// so comparator-equal records preserve their source order (§4.5, §5
// ordering guarantees).
func (m *Manager) mergeGroup(group []ReadableRun, sink recordSink) error {
	pq := queue.New(func(a, b *head) bool {
		if c := m.Compare(a.rec, b.rec); c != 0 {
			return c < 0
		}
		return a.idx < b.idx
	})

	for idx, run := range group {
		rec, ok, err := run.Next()
		if err != nil {
			return err
		}
		if !ok {
			_ = run.Close()
			continue
		}
		pq.Push(&head{idx: idx, rec: rec, run: run})
	}

	var last []byte
	hasLast := false

	for pq.Len() > 0 {
		h := pq.Peek()

		if !m.Unique || !hasLast || m.Compare(last, h.rec) != 0 {
			if err := sink.WriteRecord(h.rec); err != nil {
				return err
			}
			last = append(last[:0], h.rec...)
			hasLast = true
		}

		rec, ok, err := h.run.Next()
		if err != nil {
			return err
		}
		if ok {
			h.rec = rec
			pq.PeekUpdate()
		} else {
			pq.Pop()
			_ = h.run.Close()
		}
	}

	return nil
}
