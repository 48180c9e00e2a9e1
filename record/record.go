// Package record defines the borrowed-byte-slice record model shared by
// the reader, sorter, and merge stages: a Chunk owns a buffer, and each
// Record is a sub-slice view into it.
package record

// Record is a single separator-delimited unit of input. It never
// includes the trailing separator byte and is only valid as long as the
// Chunk.Buffer it was sliced from is not recycled.
type Record []byte
