package merge

import (
	"bufio"
	"io"
	"os"

	"github.com/peak/gosort/compress"
	"github.com/peak/gosort/tmpdir"
	"github.com/peak/gosort/xerrors"
)

// runFileBuffer is the bufio size used around each run's underlying
// file, the same 64KiB the teacher module's vendored extsort tempfile
// package uses.
const runFileBuffer = 64 * 1024

// ReadableRun streams a closed run's records back in order.
type ReadableRun interface {
	// Next returns the next record (without its trailing separator). ok
	// is false once the run is exhausted.
	Next() ([]byte, bool, error)
	Close() error
}

// Run is a write-only handle to a new run file; once closed it yields a
// ReadableRun and can no longer be written to (§3 "Temporary run").
type Run struct {
	path  string
	sep   byte
	f     *os.File
	bw    *bufio.Writer
	codec compress.Codec
	w     io.WriteCloser
}

// NewRun creates a new run file inside dir. codec may be compress.None
// for a plain run.
func NewRun(dir *tmpdir.Dir, codec compress.Codec, sep byte) (*Run, error) {
	f, path, err := dir.NextFile()
	if err != nil {
		return nil, err
	}

	bw := bufio.NewWriterSize(f, runFileBuffer)
	w, err := codec.NewWriter(bw)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Run{path: path, sep: sep, f: f, bw: bw, codec: codec, w: w}, nil
}

// Write implements io.Writer over the run's (possibly compressed) byte
// stream.
func (r *Run) Write(p []byte) (int, error) {
	n, err := r.w.Write(p)
	if err != nil {
		return n, xerrors.New(xerrors.KindOutputIO, "write-run", err)
	}
	return n, nil
}

// WriteRecord writes rec followed by the run's separator, the on-disk
// framing described in §6.2.
func (r *Run) WriteRecord(rec []byte) error {
	if _, err := r.Write(rec); err != nil {
		return err
	}
	_, err := r.Write([]byte{r.sep})
	return err
}

// Close finishes writing (waiting out any compressor child per §4.5)
// and returns a ReadableRun over the run file. The file itself is not
// reopened here: per §3's run contract, a committed run is opened on
// demand by its first Next() call, so the number of real open file
// descriptors is governed by when the merge actually reads a run, not
// by when it was written.
func (r *Run) Close() (ReadableRun, error) {
	if err := r.w.Close(); err != nil {
		r.f.Close()
		return nil, err
	}
	if err := r.bw.Flush(); err != nil {
		r.f.Close()
		return nil, xerrors.New(xerrors.KindOutputIO, "flush-run", err)
	}
	if err := r.f.Close(); err != nil {
		return nil, xerrors.New(xerrors.KindOutputIO, "close-run", err)
	}

	return &runReader{path: r.path, codec: r.codec, sep: r.sep}, nil
}

// Path returns the run's on-disk path, mainly for diagnostics.
func (r *Run) Path() string { return r.path }

// runReader is a ReadableRun backed by a run file. It opens the file on
// the first call to Next rather than at construction, so a batch of
// committed runs can be held as handles without consuming a file
// descriptor until the merge actually reaches them.
type runReader struct {
	path  string
	codec compress.Codec
	sep   byte

	file *os.File
	rc   io.ReadCloser
	br   *bufio.Reader
}

func (r *runReader) open() error {
	f, err := os.Open(r.path)
	if err != nil {
		return xerrors.New(xerrors.KindInputIO, "open-run", err)
	}

	rc, err := r.codec.NewReader(bufio.NewReaderSize(f, runFileBuffer))
	if err != nil {
		f.Close()
		return err
	}

	r.file = f
	r.rc = rc
	r.br = bufio.NewReaderSize(rc, runFileBuffer)
	return nil
}

func (r *runReader) Next() ([]byte, bool, error) {
	if r.file == nil {
		if err := r.open(); err != nil {
			return nil, false, err
		}
	}

	line, err := r.br.ReadBytes(r.sep)
	if len(line) == 0 && err == io.EOF {
		return nil, false, nil
	}

	if n := len(line); n > 0 && line[n-1] == r.sep {
		line = line[:n-1]
	}

	if err != nil && err != io.EOF {
		return nil, false, xerrors.New(xerrors.KindInputIO, "read-run", err)
	}
	return line, true, nil
}

func (r *runReader) Close() error {
	if r.file == nil {
		return nil
	}
	_ = r.rc.Close()
	if err := r.file.Close(); err != nil {
		return xerrors.New(xerrors.KindInputIO, "close-run", err)
	}
	return nil
}

// MemoryRun adapts one already-sorted in-memory record batch (the
// driver's two-chunk fast path has no run file at all) into a
// ReadableRun, so the merge code path is uniform whether or not anything
// ever hit disk.
type MemoryRun struct {
	records [][]byte
	pos     int
}

// NewMemoryRun wraps pre-sorted records (without separators) as a
// ReadableRun.
func NewMemoryRun(records [][]byte) *MemoryRun {
	return &MemoryRun{records: records}
}

func (m *MemoryRun) Next() ([]byte, bool, error) {
	if m.pos >= len(m.records) {
		return nil, false, nil
	}
	rec := m.records[m.pos]
	m.pos++
	return rec, true, nil
}

func (m *MemoryRun) Close() error { return nil }
