// Package stats provides atomic counters for the sort engine, surfaced
// on exit via --stat.
package stats

import (
	"bytes"
	"fmt"
	"sync/atomic"
	"text/tabwriter"

	"github.com/iancoleman/strcase"

	"github.com/peak/gosort/strutil"
)

// Counter is an enum for the engine events we track.
type Counter int

const (
	// ChunksRead is the number of chunks the reader assembled.
	ChunksRead Counter = iota
	// BytesRead is the number of input bytes consumed.
	BytesRead
	// BytesWritten is the number of output bytes produced.
	BytesWritten
	// RunsWritten is the number of run files created, including
	// intermediate merge runs and spilled-record runs.
	RunsWritten
	// RunsMerged is the number of runs consumed by the k-way merge,
	// across all recursion levels.
	RunsMerged
	// Spills is the number of oversized records spilled directly to
	// their own run, bypassing the sorter.
	Spills
	// MergeLevels is the number of recursive merge passes the merge
	// manager needed to stay within the file-descriptor budget.
	MergeLevels

	numCounters
)

// pascalNames holds each Counter's identifier name; String derives the
// snake_case report label from it with strcase rather than keeping a
// second hand-maintained table in sync.
var pascalNames = [numCounters]string{
	ChunksRead:   "ChunksRead",
	BytesRead:    "BytesRead",
	BytesWritten: "BytesWritten",
	RunsWritten:  "RunsWritten",
	RunsMerged:   "RunsMerged",
	Spills:       "Spills",
	MergeLevels:  "MergeLevels",
}

// String returns the snake_case report label for c.
func (c Counter) String() string {
	return strcase.ToSnake(pascalNames[c])
}

// Stats holds the counters for one run of the engine.
type Stats struct {
	counts [numCounters]uint64
}

// Add atomically adds delta to c's counter.
func (s *Stats) Add(c Counter, delta uint64) {
	atomic.AddUint64(&s.counts[c], delta)
}

// Increment atomically increments c's counter by one.
func (s *Stats) Increment(c Counter) {
	s.Add(c, 1)
}

// Get atomically reads c's current value.
func (s *Stats) Get(c Counter) uint64 {
	return atomic.LoadUint64(&s.counts[c])
}

// entry is one row of the rendered table; it also implements
// log.Message's JSON expectations via strutil.JSON.
type entry struct {
	Name  string `json:"name"`
	Value uint64 `json:"value"`
}

// Snapshot captures s as a Report, log.Message-renderable via String/JSON.
func (s *Stats) Snapshot() Report {
	report := make(Report, 0, numCounters)
	for c := Counter(0); c < numCounters; c++ {
		report = append(report, entry{Name: c.String(), Value: s.Get(c)})
	}
	return report
}

// Report is a rendered snapshot of Stats, implementing log.Message.
type Report []entry

func (r Report) String() string {
	b := &bytes.Buffer{}
	w := tabwriter.NewWriter(b, 5, 0, 5, ' ', tabwriter.AlignRight)

	fmt.Fprintf(w, "\n%s\t%s\t\n", "Counter", "Value")
	for _, e := range r {
		fmt.Fprintf(w, "%s\t%d\t\n", e.Name, e.Value)
	}

	w.Flush()
	return b.String()
}

func (r Report) JSON() string {
	b := &bytes.Buffer{}
	for _, e := range r {
		b.WriteString(strutil.JSON(e))
		b.WriteString("\n")
	}
	return b.String()
}
