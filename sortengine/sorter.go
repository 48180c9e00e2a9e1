package sortengine

import (
	"sort"

	"github.com/peak/gosort/record"
	"github.com/peak/gosort/sortkey"
)

// Sort runs on a single dedicated goroutine: it receives chunks from in,
// sorts each one in place using cmp, and returns it on out. It loops
// until in is closed. If out's peer has gone away (the driver exited on
// a fatal error), sending will block forever from the driver's
// perspective but Sort itself never errors — per §4.2, a disconnected
// reply channel is the driver's problem, not the sorter's.
func Sort(in <-chan *record.Chunk, out chan<- *record.Chunk, cmp sortkey.Comparator) {
	for chunk := range in {
		sortChunk(chunk, cmp)
		out <- chunk
	}
	close(out)
}

// sortChunk applies a stable sort to chunk's Records, permuting its
// LineData arrays identically so they stay index-aligned (§4.2, §8 P8).
func sortChunk(chunk *record.Chunk, cmp sortkey.Comparator) {
	n := len(chunk.Records)
	if n < 2 {
		return
	}

	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	sort.SliceStable(perm, func(i, j int) bool {
		a, b := perm[i], perm[j]
		return cmp(chunk.Records[a], chunk.Records[b], a, b, &chunk.LineData, &chunk.LineData) < 0
	})

	applyPermutation(chunk, perm)
}

// applyPermutation reorders Records and every LineData array according
// to perm, where perm[i] is the original index of the record that
// should end up at position i.
func applyPermutation(chunk *record.Chunk, perm []int) {
	n := len(perm)

	records := make([]record.Record, n)
	selections := make([][]byte, n)
	numInfo := make([]record.NumInfo, n)
	parsed := make([]record.ParseResult, n)

	for i, src := range perm {
		records[i] = chunk.Records[src]
		selections[i] = chunk.LineData.Selections[src]
		numInfo[i] = chunk.LineData.NumInfo[src]
		parsed[i] = chunk.LineData.ParsedNumbers[src]
	}

	copy(chunk.Records, records)
	copy(chunk.LineData.Selections, selections)
	copy(chunk.LineData.NumInfo, numInfo)
	copy(chunk.LineData.ParsedNumbers, parsed)
}
