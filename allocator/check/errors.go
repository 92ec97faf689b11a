package check

import "errors"

var (
	// ErrCycle means a free list's next-links loop back on themselves
	// instead of terminating, discovered by Floyd's algorithm before any
	// other free-list traversal is attempted.
	ErrCycle = errors.New("check: free list contains a cycle")

	// ErrCorrupt means some other heap invariant (sentinel integrity, block
	// structure, coalescing, free-list bookkeeping) does not hold.
	ErrCorrupt = errors.New("check: heap invariant violated")
)
