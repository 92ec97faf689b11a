package allocator

import "github.com/cs-systems/segheap/internal/vmheap"

// defaultChunkSize mirrors the reference allocator's empirically chosen
// heap-growth increment (spec calls this CHUNKSIZE = 168 and explicitly
// allows implementations to tune it).
const defaultChunkSize = 168

// debugAlloc gates verbose allocator tracing, the same compile-time switch
// shape the teacher uses (hive/alloc's debugAlloc const) rather than a
// logging library: this is a hot path with no ambient logging need beyond
// occasional manual tracing.
const debugAlloc = false

// Stats is a read-only snapshot of allocator activity, observational only
// — nothing in the allocator's correctness depends on it. Supplements the
// base spec with the bookkeeping the original C driver printed between
// trace operations.
type Stats struct {
	AllocCalls       int
	FreeCalls        int
	ExtendCalls      int
	SplitCount       int
	CoalesceForward  int
	CoalesceBackward int
	CoalesceBoth     int
}

// Allocator is a segregated free-list heap allocator over a single
// vmheap.Heap region. It performs no locking of its own: per spec, the
// allocator is single-threaded, and the caller must serialize all entry
// points.
type Allocator struct {
	heap        vmheap.Heap
	sizeClasses SizeClassConfig
	freeLists   []freeList
	chunkSize   uint32
	epilogueOff int
	stats       Stats
}

// Stats returns a snapshot of the allocator's activity counters.
func (a *Allocator) Stats() Stats {
	return a.stats
}
