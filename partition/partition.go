// File: partition/partition.go
// Package partition splits bulk index ranges into cache-resident chunks.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A chunk is sized so its touched working set stays within a configurable
// cache-residency budget, expressed as an element count divided by the
// element's relative footprint weight. The budget is an abstract tunable;
// no hardware cache sizes are probed. Chunk sizing is then clamped toward
// at least four chunks per worker so uneven per-chunk cost still balances,
// and never fewer chunks than workers when the range allows it.

package partition

import "fmt"

// Footprint classifies the per-element working set by relative weight.
type Footprint int

const (
	FootprintSmall  Footprint = iota // scalar-sized elements
	FootprintMedium                  // small structs, a few cache lines
	FootprintLarge                   // large structs or indirect payloads
)

// weight returns the relative cache cost of one element.
func (f Footprint) weight() int {
	switch f {
	case FootprintMedium:
		return 4
	case FootprintLarge:
		return 16
	default:
		return 1
	}
}

func (f Footprint) String() string {
	switch f {
	case FootprintMedium:
		return "medium"
	case FootprintLarge:
		return "large"
	default:
		return "small"
	}
}

// Chunk is a contiguous half-open sub-range [Start, End) of an index space.
type Chunk struct {
	Start int
	End   int
}

// Len returns the number of elements in the chunk.
func (c Chunk) Len() int { return c.End - c.Start }

func (c Chunk) String() string { return fmt.Sprintf("[%d,%d)", c.Start, c.End) }

// chunksPerWorker is the load-balancing target: enough chunks that a slow
// chunk does not serialize the whole range behind one worker.
const chunksPerWorker = 4

// Plan splits [0, total) into contiguous, non-overlapping chunks whose union
// covers the range exactly. budget is the cache-residency element budget,
// workers the pool parallelism degree; both fall back to 1 when non-positive.
func Plan(total int, fp Footprint, budget, workers int) []Chunk {
	if total <= 0 {
		return nil
	}
	if budget < 1 {
		budget = 1
	}
	if workers < 1 {
		workers = 1
	}

	size := budget / fp.weight()
	if size < 1 {
		size = 1
	}
	// Clamp toward >= chunksPerWorker*workers chunks for load balancing.
	// A smaller baseline stays: more chunks still fit the budget.
	if ideal := total / (chunksPerWorker * workers); ideal >= 1 && size > ideal {
		size = ideal
	}
	// Never fewer chunks than workers while chunks are non-empty.
	if most := total / workers; most >= 1 && size > most {
		size = most
	}

	chunks := make([]Chunk, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		end := start + size
		if end > total {
			end = total
		}
		chunks = append(chunks, Chunk{Start: start, End: end})
	}
	return chunks
}

// PlanRange is Plan over an arbitrary [start, end) window.
func PlanRange(start, end int, fp Footprint, budget, workers int) []Chunk {
	chunks := Plan(end-start, fp, budget, workers)
	for i := range chunks {
		chunks[i].Start += start
		chunks[i].End += start
	}
	return chunks
}
