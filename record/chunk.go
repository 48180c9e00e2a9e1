package record

// NumInfo is the precomputed numeric-parse artifact for a record's
// selected key, used by a numeric comparator to avoid re-parsing on
// every comparison during the sort.
type NumInfo struct {
	Valid    bool
	Negative bool
	Integer  int64
	Fraction float64
}

// ParseResult holds the byte range, within a record, that a key
// specification selected. The NumInfo derived from that key is kept in
// LineData.NumInfo.
type ParseResult struct {
	KeyStart int
	KeyEnd   int
}

// LineData caches per-record parse artifacts needed by the comparator.
// Every slice here is index-aligned with the owning Chunk's Records.
type LineData struct {
	Selections    [][]byte
	NumInfo       []NumInfo
	ParsedNumbers []ParseResult
}

func (ld *LineData) reset() {
	ld.Selections = ld.Selections[:0]
	ld.NumInfo = ld.NumInfo[:0]
	ld.ParsedNumbers = ld.ParsedNumbers[:0]
}

func (ld *LineData) append(selection []byte, num NumInfo, parsed ParseResult) {
	ld.Selections = append(ld.Selections, selection)
	ld.NumInfo = append(ld.NumInfo, num)
	ld.ParsedNumbers = append(ld.ParsedNumbers, parsed)
}

// Append grows LineData by one entry. Exported so sortengine's chunk
// parser, which lives in a different package, can populate line data
// while splitting a buffer into records.
func (ld *LineData) Append(selection []byte, num NumInfo, parsed ParseResult) {
	ld.append(selection, num, parsed)
}

// Reset truncates LineData's slices to zero length while retaining their
// backing arrays, mirroring Chunk.Buffer's own recycling discipline.
func (ld *LineData) Reset() {
	ld.reset()
}

// Chunk is a self-contained, reusable unit of input: an owned byte
// buffer, the records sliced out of it in file order, and their line
// data. A Chunk is either loaded (Records populated) or empty (freshly
// recycled, awaiting reuse).
//
// Invariants: every Record's bytes lie fully inside Buffer; Records never
// include the trailing separator; LineData's arrays have the same length
// as Records.
type Chunk struct {
	Buffer   []byte
	Records  []Record
	LineData LineData
}

// RecycledChunk is the disassembled remains of a consumed Chunk: Buffer
// is reused verbatim, Records and LineData are cleared but keep their
// backing array capacity, so the reader avoids reallocating on every
// iteration.
type RecycledChunk struct {
	Buffer   []byte
	Records  []Record
	LineData LineData
}

// Recycle disassembles c into a RecycledChunk, clearing Records and
// LineData while retaining their capacity. c must not be used again
// afterward; its Buffer is handed to the returned RecycledChunk.
func (c *Chunk) Recycle() RecycledChunk {
	records := c.Records[:0]
	c.LineData.reset()
	return RecycledChunk{
		Buffer:   c.Buffer,
		Records:  records,
		LineData: c.LineData,
	}
}

// NewChunk builds a loaded Chunk out of a RecycledChunk's parts plus a
// freshly filled buffer prefix of length n.
func NewChunk(parts RecycledChunk, n int) *Chunk {
	return &Chunk{
		Buffer:   parts.Buffer[:n],
		Records:  parts.Records,
		LineData: parts.LineData,
	}
}

// EmptyRecycledChunk returns a RecycledChunk with freshly allocated
// backing arrays of the given buffer capacity. The driver calls it twice
// at pipeline startup for its pool of 2, and once more when its second
// in-memory chunk arrives.
func EmptyRecycledChunk(bufCap int) RecycledChunk {
	return RecycledChunk{
		Buffer:   make([]byte, bufCap),
		Records:  make([]Record, 0, 256),
		LineData: LineData{
			Selections:    make([][]byte, 0, 256),
			NumInfo:       make([]NumInfo, 0, 256),
			ParsedNumbers: make([]ParseResult, 0, 256),
		},
	}
}
