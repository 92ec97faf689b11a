// Package check implements an external heap checker: a battery of ordered
// invariant checks run over a HeapInspector without touching allocator
// internals directly, using only the inspection hooks that interface
// exposes (Walk, FreeListHead, FreeListNext, FreeListPrev, BlockAt,
// SizeClassOf).
// *allocator.Allocator satisfies it; tests exercise the checks against
// hand-built fakes instead of having to corrupt a real heap.
package check

import (
	"fmt"
	"os"

	"github.com/cs-systems/segheap/allocator"
	"github.com/cs-systems/segheap/internal/blockfmt"
)

// HeapInspector is the read-only view of a heap the checks need. It exists
// so check depends on a narrow interface rather than *allocator.Allocator
// directly.
type HeapInspector interface {
	PrologueOffset() int
	EpilogueOffset() int
	SentinelInfo() (prologueHeader, prologueFooter, epilogueHeader uint32)
	Walk(visit func(allocator.BlockInfo) bool)
	NumFreeListClasses() int
	FreeListHead(class int) int
	FreeListNext(hdrOff int) int
	FreeListPrev(hdrOff int) int
	BlockAt(hdrOff int) allocator.BlockInfo
	SizeClassOf(size uint32) int
}

// Verbosity controls how much check progress gets written to stderr while
// Heap runs. It never affects which violations are found, only how chatty
// the run is — the teacher's own debug-trace switches work the same way.
type Verbosity int

const (
	Silent Verbosity = iota
	Summary
	Verbose
)

// nullHdr mirrors the allocator's own header-offset sentinel for "no
// block"; header offset 0 is the leading pad before the prologue, never a
// free-list member, so it doubles safely as the root's expected back-link.
const nullHdr = 0

var verboseChecks = os.Getenv("SEGHEAP_VERBOSE") != ""

func logf(v Verbosity, format string, args ...any) {
	if v == Silent && !verboseChecks {
		return
	}
	fmt.Fprintf(os.Stderr, "[check] "+format+"\n", args...)
}

// Heap runs every invariant check against a, in a fixed order, and returns
// the first violation found (nil if the heap is consistent). Cycle
// detection always runs first: every later check walks a free list by
// following next-links, and doing that against a cyclic list would hang.
func Heap(a HeapInspector, v Verbosity) error {
	if err := noFreeListCycles(a, v); err != nil {
		return err
	}
	if err := sentinelsIntact(a, v); err != nil {
		return err
	}
	if err := blockStructureAndCoalescing(a, v); err != nil {
		return err
	}
	if err := freeListCountsMatch(a, v); err != nil {
		return err
	}
	return nil
}

// noFreeListCycles runs Floyd's cycle-detection algorithm over every size
// class. It never walks more than 2x a correctly-terminating list's length,
// so a cycle is caught in bounded time instead of hanging the checks that
// come after it.
func noFreeListCycles(a HeapInspector, v Verbosity) error {
	for class := 0; class < a.NumFreeListClasses(); class++ {
		slow := a.FreeListHead(class)
		fast := a.FreeListHead(class)
		for fast != 0 {
			fast = a.FreeListNext(fast)
			if fast == 0 {
				break
			}
			fast = a.FreeListNext(fast)
			slow = a.FreeListNext(slow)
			if slow == fast {
				return violation(ErrCycle, "free-list-cycle",
					fmt.Sprintf("class %d's free list loops back on itself", class), slow)
			}
		}
		logf(v, "class %d: no cycle (head=%#x)", class, a.FreeListHead(class))
	}
	return nil
}

// sentinelsIntact checks that the prologue and epilogue still carry the
// permanently-allocated boundary tags Init wrote. A corrupted sentinel
// usually means a stray write walked off the end of a payload.
func sentinelsIntact(a HeapInspector, v Verbosity) error {
	prologueHeader, prologueFooter, epilogueHeader := a.SentinelInfo()

	if prologueHeader != prologueFooter {
		return violation(ErrCorrupt, "prologue", "header does not match footer", a.PrologueOffset())
	}
	if prologueHeader&1 == 0 {
		return violation(ErrCorrupt, "prologue", "prologue is not marked allocated", a.PrologueOffset())
	}
	if epilogueHeader&1 == 0 {
		return violation(ErrCorrupt, "epilogue", "epilogue is not marked allocated", a.EpilogueOffset())
	}
	if epilogueHeader&^1 != 0 {
		return violation(ErrCorrupt, "epilogue", "epilogue size is not zero", a.EpilogueOffset())
	}
	logf(v, "sentinels intact: prologue=%#x epilogue header=%#x", prologueHeader, epilogueHeader)
	return nil
}

// blockStructureAndCoalescing walks every real block exactly once, checking
// per-block structure (alignment, minimum size, header==footer) and the
// coalescing invariant that no two adjacent blocks are both free.
func blockStructureAndCoalescing(a HeapInspector, v Verbosity) error {
	var previous *allocator.BlockInfo
	var outerErr error

	a.Walk(func(b allocator.BlockInfo) bool {
		if (b.HeaderOffset+blockfmt.WordSize)%8 != 0 {
			outerErr = violation(ErrCorrupt, "alignment", "payload offset is not 8-byte aligned", b.HeaderOffset)
			return false
		}
		if b.Size < 24 {
			outerErr = violation(ErrCorrupt, "min-size", fmt.Sprintf("block size %d below minimum", b.Size), b.HeaderOffset)
			return false
		}
		if b.HeaderWord != b.FooterWord {
			outerErr = violation(ErrCorrupt, "header-footer", "header does not match footer", b.HeaderOffset)
			return false
		}
		if previous != nil && !previous.Allocated && !b.Allocated {
			outerErr = violation(ErrCorrupt, "coalescing", "two adjacent blocks are both free", previous.HeaderOffset)
			return false
		}
		logf(v, "block %#x: size=%d allocated=%v", b.HeaderOffset, b.Size, b.Allocated)
		prev := b
		previous = &prev
		return true
	})
	return outerErr
}

// freeListCountsMatch cross-checks the number of free blocks found by the
// heap walk against the combined length of every free list, confirms each
// free block sits in the class its own size implies, and confirms each
// list's back-links agree with its forward links (root's prev is null, and
// every node's prev is the node that pointed to it). A mismatch means a
// block is free but unlinked, linked but marked allocated, filed under the
// wrong class, or has a corrupted back-link.
func freeListCountsMatch(a HeapInspector, v Verbosity) error {
	walkedFree := 0
	a.Walk(func(b allocator.BlockInfo) bool {
		if !b.Allocated {
			walkedFree++
		}
		return true
	})

	listedFree := 0
	for class := 0; class < a.NumFreeListClasses(); class++ {
		prevHdr := nullHdr
		for hdr := a.FreeListHead(class); hdr != 0; hdr = a.FreeListNext(hdr) {
			info := a.BlockAt(hdr)
			if info.Allocated {
				return violation(ErrCorrupt, "free-list-membership",
					fmt.Sprintf("block in free list class %d is marked allocated", class), hdr)
			}
			if want := a.SizeClassOf(info.Size); want != class {
				return violation(ErrCorrupt, "free-list-class",
					fmt.Sprintf("block of size %d filed under class %d, should be class %d", info.Size, class, want), hdr)
			}
			if got := a.FreeListPrev(hdr); got != prevHdr {
				return violation(ErrCorrupt, "free-list-backlink",
					fmt.Sprintf("block in free list class %d has back-link %#x, expected %#x", class, got, prevHdr), hdr)
			}
			prevHdr = hdr
			listedFree++
		}
	}

	if walkedFree != listedFree {
		return violation(ErrCorrupt, "free-count",
			fmt.Sprintf("heap walk found %d free blocks, free lists contain %d", walkedFree, listedFree), -1)
	}
	logf(v, "free counts agree: %d blocks", walkedFree)
	return nil
}
