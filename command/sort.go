package command

import (
	"bufio"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/peak/gosort/log"
	"github.com/peak/gosort/merge"
	"github.com/peak/gosort/record"
	"github.com/peak/gosort/sortengine"
	"github.com/peak/gosort/sortkey"
	"github.com/peak/gosort/stats"
	"github.com/peak/gosort/tmpdir"
	"github.com/peak/gosort/xerrors"
)

// defaultMergeFanIn is the number of runs the k-way merge reads
// simultaneously before recursing; a tuning parameter, not a
// correctness one (any value ≥2 is valid).
const defaultMergeFanIn = 16

// sortAction is the CLI's single entrypoint into the engine: it builds
// a Driver from the parsed flags, runs it, then merges whatever the
// driver produced (in-memory chunks or run files) to the output sink.
func sortAction(c *cli.Context) error {
	op := commandFromContext(c)

	settings, err := buildSettings(c)
	if err != nil {
		printError(op, err)
		return err
	}

	bufCap, err := bufferCap(c)
	if err != nil {
		printError(op, err)
		return err
	}

	paths, err := resolveInputPaths(c.Args().Slice(), c.String("files0-from"))
	if err != nil {
		printError(op, err)
		return err
	}

	in := newInputStreams(paths)
	first, err := in.First()
	if err != nil {
		printError(op, err)
		return err
	}
	defer in.Close()

	dir, err := tmpdir.New(c.String("temporary-directory"))
	if err != nil {
		printError(op, err)
		return err
	}
	defer dir.Close()

	var st stats.Stats

	driver := sortengine.NewDriver(sortengine.Config{
		First:     first,
		Next:      in.Next,
		Separator: settings.Separator,
		BufferCap: bufCap,
		Settings:  settings,
		Compare:   sortkey.New(settings),
		Dir:       dir,
		Codec:     buildCodec(c),
	})

	result, err := driver.Run()
	if err != nil {
		printError(op, err)
		return err
	}
	recordResultStats(&st, result)

	out, closeOut, err := resolveOutput(c)
	if err != nil {
		printError(op, err)
		return err
	}
	defer closeOut()

	bw := bufio.NewWriter(out)

	mgr := &merge.Manager{
		Dir:       dir,
		Codec:     buildCodec(c),
		Separator: settings.Separator,
		FileLimit: mergeFanIn(c),
		Compare:   sortkey.NewRaw(settings),
		Unique:    settings.Unique,
	}

	if err := writeResult(mgr, result, settings, bw); err != nil {
		printError(op, err)
		return err
	}

	if err := bw.Flush(); err != nil {
		err = xerrors.New(xerrors.KindOutputIO, "flush-output", err)
		printError(op, err)
		return err
	}

	if c.Bool("stat") {
		log.Info(st.Snapshot())
	}

	return nil
}

// writeResult drains result into out, merging when necessary. The two
// in-memory variants never touch a run file: a single chunk is written
// directly, and two chunks are wrapped as merge.MemoryRun values so the
// merge code path that handles run files also merges them.
func writeResult(mgr *merge.Manager, result *sortengine.Result, settings *sortkey.Settings, out io.Writer) error {
	switch result.Kind {
	case sortengine.EmptyInput:
		return nil

	case sortengine.SortedSingleChunk:
		return writeChunkDirect(result.Chunks[0], settings, out)

	case sortengine.SortedTwoChunks:
		runs := make([]merge.ReadableRun, len(result.Chunks))
		for i, chunk := range result.Chunks {
			runs[i] = merge.NewMemoryRun(toByteSlices(chunk.Records))
		}
		return mgr.MergeWithFileLimit(runs, out)

	default: // WroteChunksToFile
		return mgr.MergeWithFileLimit(result.Runs, out)
	}
}

// writeChunkDirect streams a single already-sorted chunk straight to
// out, suppressing adjacent duplicates when --unique is set, without
// going through the merge machinery at all.
func writeChunkDirect(chunk *record.Chunk, settings *sortkey.Settings, out io.Writer) error {
	cmp := sortkey.NewRaw(settings)
	var last []byte
	hasLast := false

	for _, rec := range chunk.Records {
		if settings.Unique && hasLast && cmp(last, rec) == 0 {
			continue
		}
		if _, err := out.Write(rec); err != nil {
			return xerrors.New(xerrors.KindOutputIO, "write-output", err)
		}
		if _, err := out.Write([]byte{settings.Separator}); err != nil {
			return xerrors.New(xerrors.KindOutputIO, "write-output", err)
		}
		last = append(last[:0], rec...)
		hasLast = true
	}
	return nil
}

func toByteSlices(records []record.Record) [][]byte {
	out := make([][]byte, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}

func resolveOutput(c *cli.Context) (io.Writer, func(), error) {
	path := c.String("output")
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, xerrors.New(xerrors.KindOutputIO, "create-output", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// recordResultStats folds the driver's outcome into st for --stat
// reporting; byte- and merge-level counters are the driver's and merge
// manager's own responsibility once they accept a *stats.Stats (see
// DESIGN.md), so this only covers what Result itself exposes.
func recordResultStats(st *stats.Stats, result *sortengine.Result) {
	st.Add(stats.ChunksRead, uint64(len(result.Chunks)))
	st.Add(stats.RunsWritten, uint64(len(result.Runs)))
}

func mergeFanIn(c *cli.Context) int {
	if n := c.Int("max-merge-fanin"); n > 1 {
		return n
	}
	return defaultMergeFanIn
}
