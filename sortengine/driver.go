package sortengine

import (
	"io"

	"github.com/peak/gosort/compress"
	"github.com/peak/gosort/merge"
	"github.com/peak/gosort/record"
	"github.com/peak/gosort/sortkey"
	"github.com/peak/gosort/tmpdir"
)

// ResultKind classifies how Driver.Run finished (§4.3).
type ResultKind int

const (
	// EmptyInput: the input contained no records at all.
	EmptyInput ResultKind = iota
	// SortedSingleChunk: everything fit in one chunk; Chunks has length 1.
	SortedSingleChunk
	// SortedTwoChunks: exactly two chunks, both still resident in memory;
	// the caller can merge them directly without touching disk.
	SortedTwoChunks
	// WroteChunksToFile: more than two chunks (or an oversized record)
	// forced everything to disk; Runs holds one run per chunk plus one
	// per spilled oversized record.
	WroteChunksToFile
)

// Result is Driver.Run's outcome.
type Result struct {
	Kind   ResultKind
	Chunks []*record.Chunk
	Runs   []merge.ReadableRun
}

// Config bundles everything Driver needs to read, sort, and (when
// necessary) spill the input to run files.
type Config struct {
	First     io.Reader
	Next      NextFunc
	Separator byte
	BufferCap int
	Settings  *sortkey.Settings
	Compare   sortkey.Comparator
	Dir       *tmpdir.Dir
	Codec     compress.Codec
}

// Driver coordinates the reader and sorter goroutines and decides
// between the in-memory fast paths and spilling to run files, per the
// state machine in §4.3.
type Driver struct {
	cfg Config
}

// NewDriver builds a Driver from cfg.
func NewDriver(cfg Config) *Driver {
	return &Driver{cfg: cfg}
}

type spillResult struct {
	run merge.ReadableRun
	err error
}

// runCloseAdapter lets the spill path (which only knows about the
// narrow RunWriter interface) write into a real merge.Run and recover
// the ReadableRun that Run.Close produces.
type runCloseAdapter struct {
	run    *merge.Run
	result merge.ReadableRun
}

func (a *runCloseAdapter) Write(p []byte) (int, error) { return a.run.Write(p) }

func (a *runCloseAdapter) Close() error {
	r, err := a.run.Close()
	if err != nil {
		return err
	}
	a.result = r
	return nil
}

// Run drives the reader/sorter pipeline to completion. A feeder
// goroutine reads chunks through Reader and hands them to Sort's
// goroutine via a capacity-2 channel exactly as §5 specifies; this
// goroutine only ever touches the sorted side.
func (d *Driver) Run() (*Result, error) {
	in := make(chan *record.Chunk, 2)
	out := make(chan *record.Chunk, 2)
	go Sort(in, out, d.cfg.Compare)

	freeParts := make(chan record.RecycledChunk, 3)
	freeParts <- record.EmptyRecycledChunk(startBufferSize)
	freeParts <- record.EmptyRecycledChunk(startBufferSize)

	spillCh := make(chan spillResult, 4)
	feedErrCh := make(chan error, 1)

	reader := NewReader(d.cfg.First, d.cfg.Next, d.cfg.Separator, d.cfg.BufferCap, d.cfg.Settings)
	go d.feed(reader, in, freeParts, spillCh, feedErrCh)

	var (
		memChunks []*record.Chunk
		runs      []merge.ReadableRun
		spilling  bool
		outDone   bool
		spillDone bool
	)

	flushMemToRuns := func() error {
		for _, c := range memChunks {
			r, err := d.commitChunk(c)
			if err != nil {
				return err
			}
			runs = append(runs, r)
			freeParts <- c.Recycle()
		}
		memChunks = nil
		return nil
	}

	for !outDone || !spillDone {
		select {
		case chunk, ok := <-out:
			if !ok {
				outDone = true
				out = nil
				continue
			}

			if !spilling && len(memChunks) < 2 {
				memChunks = append(memChunks, chunk)
				if len(memChunks) == 2 {
					// Probe read: is there a third chunk? Needs a
					// transient third buffer since both pool buffers
					// are pinned to the in-memory candidates.
					freeParts <- record.EmptyRecycledChunk(startBufferSize)
				}
				continue
			}

			if !spilling {
				spilling = true
				if err := flushMemToRuns(); err != nil {
					return nil, err
				}
			}

			r, err := d.commitChunk(chunk)
			if err != nil {
				return nil, err
			}
			runs = append(runs, r)
			freeParts <- chunk.Recycle()

		case sr, ok := <-spillCh:
			if !ok {
				spillDone = true
				spillCh = nil
				continue
			}
			if sr.err != nil {
				return nil, sr.err
			}
			if !spilling {
				spilling = true
				if err := flushMemToRuns(); err != nil {
					return nil, err
				}
			}
			runs = append(runs, sr.run)
		}
	}

	if err := <-feedErrCh; err != nil {
		return nil, err
	}

	if spilling {
		return &Result{Kind: WroteChunksToFile, Runs: runs}, nil
	}
	switch len(memChunks) {
	case 0:
		return &Result{Kind: EmptyInput}, nil
	case 1:
		return &Result{Kind: SortedSingleChunk, Chunks: memChunks}, nil
	default:
		return &Result{Kind: SortedTwoChunks, Chunks: memChunks}, nil
	}
}

// commitChunk writes an already-sorted chunk's records to a brand-new
// run file and closes it. Each chunk becomes its own run: a chunk is
// only locally sorted relative to itself, and the k-way merge requires
// every run it reads to be globally sorted on its own.
func (d *Driver) commitChunk(chunk *record.Chunk) (merge.ReadableRun, error) {
	run, err := merge.NewRun(d.cfg.Dir, d.cfg.Codec, d.cfg.Separator)
	if err != nil {
		return nil, err
	}
	for _, rec := range chunk.Records {
		if err := run.WriteRecord(rec); err != nil {
			return nil, err
		}
	}
	return run.Close()
}

// feed is the reader-side goroutine: it pulls free buffers, reads
// chunks, forwards complete ones to the sorter, and spills oversized
// records to their own run directly, bypassing the sorter entirely
// (§4.4).
func (d *Driver) feed(reader *Reader, in chan<- *record.Chunk, freeParts chan record.RecycledChunk, spillCh chan<- spillResult, done chan<- error) {
	defer close(in)
	defer close(spillCh)

	for {
		parts := <-freeParts

		progress, chunk, err := reader.Read(parts)
		if err != nil {
			done <- err
			return
		}

		switch progress {
		case Finished:
			done <- nil
			return
		case NoChunk:
			freeParts <- parts
		case NeedSpill:
			run, err := d.spillOversized(reader)
			spillCh <- spillResult{run: run, err: err}
			if err != nil {
				done <- err
				return
			}
			freeParts <- parts
		case SentChunk:
			in <- chunk
		}
	}
}

func (d *Driver) spillOversized(reader *Reader) (merge.ReadableRun, error) {
	run, err := merge.NewRun(d.cfg.Dir, d.cfg.Codec, d.cfg.Separator)
	if err != nil {
		return nil, err
	}

	adapter := &runCloseAdapter{run: run}
	if err := SpillOversizedRecord(reader, adapter, d.cfg.Separator); err != nil {
		return nil, err
	}
	return adapter.result, nil
}
