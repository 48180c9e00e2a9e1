// Package sortengine implements the bounded-memory reader/sorter
// pipeline: Reader cuts input into Chunks at record boundaries, Sorter
// sorts them on a dedicated goroutine, and Driver coordinates the two
// and decides between the in-memory fast path and spilling to runs.
package sortengine

import (
	"bytes"
	"errors"
	"io"
	"syscall"

	"github.com/peak/gosort/record"
	"github.com/peak/gosort/sortkey"
)

// Progress is the outcome of one Reader.Read call.
type Progress int

const (
	// SentChunk: a chunk containing ≥1 complete record was produced.
	SentChunk Progress = iota
	// NoChunk: no complete record assembled yet; call Read again.
	NoChunk
	// NeedSpill: buffer hit the hard cap with no separator; caller must
	// spill the in-progress oversized record.
	NeedSpill
	// Finished: all input exhausted; no chunk produced.
	Finished
)

// startBufferSize is the initial buffer size a freshly recycled chunk is
// grown from when it arrives empty, named per SPEC_FULL.md §9.
const startBufferSize = 8000

// minGrowIncrement is the growth step growBuffer uses when doubling would
// not grow the buffer at all (an empty buffer); otherwise growth doubles.
const minGrowIncrement = 10 * 1024

// NextFunc advances to the next input stream in argument order. It
// returns ok=false once no further stream remains.
type NextFunc func() (r io.Reader, ok bool, err error)

// Reader cuts a sequence of input byte streams into chunks, respecting a
// configurable maximum buffer size and carrying tail bytes across calls.
type Reader struct {
	current   io.Reader
	next      NextFunc
	sep       byte
	maxBuffer int
	settings  *sortkey.Settings

	carryOver []byte
}

// NewReader builds a Reader over first (and any streams next yields
// afterward), cutting records on sep with a hard buffer cap of
// maxBufferSize bytes.
func NewReader(first io.Reader, next NextFunc, sep byte, maxBufferSize int, settings *sortkey.Settings) *Reader {
	return &Reader{
		current:   first,
		next:      next,
		sep:       sep,
		maxBuffer: maxBufferSize,
		settings:  settings,
	}
}

// CarryOver exposes the tail bytes left after the last separator, so the
// spill path can prepend them to an oversized record it is about to
// write (§4.4).
func (r *Reader) CarryOver() []byte { return r.carryOver }

// ClearCarryOver drops the stashed tail bytes; used once the spill path
// has consumed them.
func (r *Reader) ClearCarryOver() { r.carryOver = nil }

// Current exposes the stream currently being read, so the spill path can
// keep reading from it directly.
func (r *Reader) Current() io.Reader { return r.current }

// Advance moves to the next input stream; used by the spill path on EOF
// of the current one.
func (r *Reader) Advance() (bool, error) {
	nr, ok, err := r.next()
	if err != nil || !ok {
		return false, err
	}
	r.current = nr
	return true, nil
}

// Read attempts to assemble at least one chunk out of parts, a
// RecycledChunk donor. It never retains a reference to parts' buffer
// beyond this call other than through the returned Chunk.
func (r *Reader) Read(parts record.RecycledChunk) (Progress, *record.Chunk, error) {
	buf := parts.Buffer
	if len(buf) < len(r.carryOver)+startBufferSize {
		buf = make([]byte, len(r.carryOver)+startBufferSize)
	}
	copy(buf, r.carryOver)

	n, shouldContinue, needSpill, newBuf, err := r.readToBuffer(buf, len(r.carryOver))
	if err != nil {
		return Finished, nil, err
	}
	buf = newBuf

	r.carryOver = append(r.carryOver[:0], buf[n:]...)

	if needSpill {
		return NeedSpill, nil, nil
	}

	if n == 0 {
		if shouldContinue {
			return NoChunk, nil, nil
		}
		return Finished, nil, nil
	}

	chunk := parseChunk(buf[:n], r.sep, r.settings, parts)
	return SentChunk, chunk, nil
}

// readToBuffer fills buf (growing it as needed, up to r.maxBuffer) until
// at least one complete record is available, mirroring §4.1's algorithm.
// Returns the number of bytes in buf that form complete records, whether
// more input may remain, and whether the hard cap was hit with no
// separator found.
func (r *Reader) readToBuffer(buf []byte, startOffset int) (int, bool, bool, []byte, error) {
	readTarget := buf[startOffset:]
	lastFileEmpty := true

	for {
		if len(readTarget) == 0 {
			oldLen := len(buf)
			grew, newBuf := r.growBuffer(buf)
			buf = newBuf
			if grew {
				readTarget = buf[oldLen:]
				continue
			}

			// Growth is exhausted: rescan the whole buffer for the last
			// separator. Unlike the Rust original's read_to_buffer, this
			// does not bookmark a resume offset across grow cycles — see
			// DESIGN.md's sortengine entry for why a full rescan here is
			// an acceptable tradeoff.
			if idx := lastIndexByte(buf, r.sep); idx >= 0 {
				return idx + 1, true, false, buf, nil
			}
			return 0, true, true, buf, nil
		}

		n, err := r.current.Read(readTarget)
		if n > 0 {
			readTarget = readTarget[n:]
			lastFileEmpty = false
		}

		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF):
			leftoverLen := len(readTarget)
			if !lastFileEmpty {
				readLen := len(buf) - leftoverLen
				if buf[readLen-1] != r.sep {
					buf[readLen] = r.sep
					leftoverLen--
				}
			}
			ok, aerr := r.Advance()
			if aerr != nil {
				return 0, false, false, buf, aerr
			}
			if ok {
				lastFileEmpty = true
				readLen := len(buf) - leftoverLen
				readTarget = buf[readLen:]
				continue
			}
			readLen := len(buf) - leftoverLen
			// The unfilled tail is not input: trim it so Read does not
			// carry it over.
			return readLen, false, false, buf[:readLen], nil
		case isEINTR(err):
			continue
		default:
			return 0, false, false, buf, err
		}
	}
}

// growBuffer applies the growth ladder: double while under half the cap,
// jump straight to the cap otherwise, and report false once the cap is
// already reached (the caller then falls back to scanning for a
// separator or signaling NeedSpill).
func (r *Reader) growBuffer(buf []byte) (bool, []byte) {
	cur := len(buf)
	if cur >= r.maxBuffer {
		return false, buf
	}

	var next int
	if cur < r.maxBuffer/2 {
		next = cur * 2
		if next <= cur {
			next = cur + minGrowIncrement
		}
	} else {
		next = r.maxBuffer
	}
	if next > r.maxBuffer {
		next = r.maxBuffer
	}

	grown := make([]byte, next)
	copy(grown, buf)
	return true, grown
}

func lastIndexByte(b []byte, sep byte) int {
	return bytes.LastIndexByte(b, sep)
}

func isEINTR(err error) bool {
	return errors.Is(err, syscall.EINTR)
}

// parseChunk strips at most one trailing separator, splits buf on sep,
// and populates line data for each resulting record via settings'
// ParseRecord, reusing parts' Records/LineData backing arrays.
func parseChunk(buf []byte, sep byte, settings *sortkey.Settings, parts record.RecycledChunk) *record.Chunk {
	trimmed := buf
	if n := len(trimmed); n > 0 && trimmed[n-1] == sep {
		trimmed = trimmed[:n-1]
	}

	records := parts.Records[:0]
	lineData := parts.LineData
	lineData.Reset()

	start := 0
	for i := 0; i <= len(trimmed); i++ {
		if i == len(trimmed) || trimmed[i] == sep {
			rec := record.Record(trimmed[start:i])
			records = append(records, rec)
			sortkey.ParseRecord(settings, rec, &lineData)
			start = i + 1
		}
	}

	return &record.Chunk{
		Buffer:   buf,
		Records:  records,
		LineData: lineData,
	}
}
