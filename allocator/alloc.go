// Package allocator implements a segregated free-list heap allocator: a
// linear heap carved into boundary-tagged blocks, free blocks partitioned
// into intrusive doubly-linked lists by size class, first-fit search,
// split-on-allocate, and immediate bidirectional coalescing.
//
// The allocator performs no locking. Per spec it is explicitly
// single-threaded; a caller needing concurrent access must serialize all
// entry points itself.
package allocator

import (
	"fmt"
	"os"

	"github.com/cs-systems/segheap/internal/blockfmt"
	"github.com/cs-systems/segheap/internal/vmheap"
)

// New creates an allocator over heap, writing the prologue and epilogue
// sentinels. Pass a nil config to use DefaultSizeClasses.
func New(heap vmheap.Heap, config *SizeClassConfig) (*Allocator, error) {
	cfg := DefaultSizeClasses
	if config != nil {
		cfg = *config
	}
	a := &Allocator{
		heap:        heap,
		sizeClasses: cfg,
		freeLists:   make([]freeList, cfg.numClasses()),
		chunkSize:   defaultChunkSize,
	}
	if err := a.initSentinels(); err != nil {
		return nil, err
	}
	return a, nil
}

// initSentinels lays down a leading alignment pad, the prologue (size 8,
// permanently allocated), and the epilogue (size 0, permanently allocated)
// that let boundary-tag lookups at the heap edges stay branch-free. Unlike
// spec's reference layout, the free-list roots are not stored as a
// heap-resident prefix before the prologue — see SPEC_FULL.md §4 for why —
// but the pad itself stays: it's what keeps every real block's header at
// offset ≡ WordSize (mod 8), the condition payload() needs to land on an
// 8-byte boundary.
func (a *Allocator) initSentinels() error {
	base, err := a.heap.Extend(blockfmt.PadSize + blockfmt.PrologueSize + blockfmt.WordSize)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}
	data := a.heap.Bytes()
	prologueOff := base + blockfmt.PadSize
	atHeader(data, prologueOff).setHeaderFooter(blockfmt.PrologueSize, true)
	epilogueOff := prologueOff + blockfmt.PrologueSize
	atHeader(data, epilogueOff).setHeaderOnly(blockfmt.EpilogueSize, true)
	a.epilogueOff = epilogueOff
	return nil
}

// Alloc reserves a block of at least size payload bytes and returns a
// pointer to its payload. size == 0 returns Null without touching the
// heap. Returns ErrOutOfMemory (with a Null pointer) if the heap cannot
// grow far enough to satisfy the request.
func (a *Allocator) Alloc(size uint32) (Ptr, error) {
	a.stats.AllocCalls++
	if size == 0 {
		return Null, nil
	}
	need := adjustedSize(size)
	data := a.heap.Bytes()
	class := a.sizeClasses.classOf(need)

	for sc := class; sc < len(a.freeLists); sc++ {
		if hdr := a.freeLists[sc].firstFit(data, need); hdr != nullHdr {
			a.freeLists[sc].remove(data, hdr)
			if debugAlloc {
				debugLogf("alloc(%d): fit in class %d at %#x", size, sc, hdr)
			}
			return a.place(hdr, need), nil
		}
	}

	grow := need
	if a.chunkSize > grow {
		grow = a.chunkSize
	}
	hdr, err := a.extendHeap(grow)
	if err != nil {
		return Null, err
	}
	data = a.heap.Bytes()
	a.removeFromClass(data, blockAt(data, hdr))
	return a.place(hdr, need), nil
}

// place marks the block at hdr allocated at size need, splitting off and
// freeing any surplus >= MinBlockSize. hdr must already be removed from
// its free list. Returns the resulting payload pointer.
func (a *Allocator) place(hdr int, need uint32) Ptr {
	data := a.heap.Bytes()
	b := blockAt(data, hdr)
	total := b.size()

	if total-need >= blockfmt.MinBlockSize {
		b.setHeaderFooter(need, true)
		remainderOff := hdr + int(need)
		atHeader(data, remainderOff).setHeaderFooter(total-need, false)
		a.stats.SplitCount++
		a.coalesce(remainderOff)
	} else {
		b.setHeaderFooter(total, true)
	}
	return blockAt(data, hdr).payload()
}

// Free releases the block at p. Null is a no-op, per spec's ENOMEM-free
// error model (free never fails).
func (a *Allocator) Free(p Ptr) {
	if p == Null {
		return
	}
	a.stats.FreeCalls++
	data := a.heap.Bytes()
	b := atPayload(data, p)
	b.setHeaderFooter(b.size(), false)
	a.coalesce(b.ptr())
}

// coalesce merges the free block at hdr with any free neighbors and
// inserts the result into the appropriate free list. hdr's header/footer
// must already mark it free. Returns the header offset of the final
// (possibly merged) block.
func (a *Allocator) coalesce(hdr int) int {
	data := a.heap.Bytes()
	b := blockAt(data, hdr)
	left := b.prev()
	right := b.next()
	leftFree := !left.allocated()
	rightFree := !right.allocated()

	switch {
	case leftFree && rightFree:
		a.removeFromClass(data, left)
		a.removeFromClass(data, right)
		left.setHeaderFooter(left.size()+b.size()+right.size(), false)
		a.stats.CoalesceBoth++
		hdr = left.ptr()
	case leftFree:
		a.removeFromClass(data, left)
		left.setHeaderFooter(left.size()+b.size(), false)
		a.stats.CoalesceBackward++
		hdr = left.ptr()
	case rightFree:
		a.removeFromClass(data, right)
		b.setHeaderFooter(b.size()+right.size(), false)
		a.stats.CoalesceForward++
	}

	a.insertFree(data, hdr)
	return hdr
}

// extendHeap grows the heap by at least nbytes, turning the previous
// epilogue into the header of a fresh free block and writing a new
// epilogue past it, then coalesces that block with the previous tail if
// it was free. Returns the header offset of the (possibly coalesced) new
// free block.
func (a *Allocator) extendHeap(nbytes uint32) (int, error) {
	a.stats.ExtendCalls++

	// Spec calls for rounding an odd word count up to even; once sizes are
	// counted in bytes rather than 4-byte words that's exactly 8-byte
	// alignment, so a single Align8U32 covers it.
	size := blockfmt.Align8U32(nbytes)
	if size < blockfmt.MinBlockSize {
		size = blockfmt.MinBlockSize
	}

	oldEpilogue := a.epilogueOff
	base, err := a.heap.Extend(int(size))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
	}
	// The old epilogue occupies one header word (its size is always 0, so it
	// has no footer); the new region begins immediately after that word.
	if want := oldEpilogue + blockfmt.WordSize; base != want {
		return 0, fmt.Errorf("%w: heap grew at %#x, expected %#x", ErrOutOfMemory, base, want)
	}

	data := a.heap.Bytes()
	atHeader(data, oldEpilogue).setHeaderFooter(size, false)
	newEpilogue := oldEpilogue + int(size)
	atHeader(data, newEpilogue).setHeaderOnly(blockfmt.EpilogueSize, true)
	a.epilogueOff = newEpilogue

	if debugAlloc {
		debugLogf("extendHeap(%d): grew by %d at %#x, new epilogue %#x", nbytes, size, oldEpilogue, newEpilogue)
	}
	return a.coalesce(oldEpilogue), nil
}

// Realloc resizes the block at p to size payload bytes, preserving
// min(old,new) bytes of content, and returns the (possibly new) pointer.
// p == Null behaves like Alloc(size); size == 0 behaves like Free(p).
func (a *Allocator) Realloc(p Ptr, size uint32) (Ptr, error) {
	if p == Null {
		return a.Alloc(size)
	}
	if size == 0 {
		a.Free(p)
		return Null, nil
	}

	data := a.heap.Bytes()
	old := atPayload(data, p)
	oldSize := old.size()
	newSize := adjustedSize(size)

	if newSize == oldSize {
		return p, nil
	}

	if newSize < oldSize {
		return p, a.reallocShrink(old, oldSize, newSize)
	}
	return a.reallocGrow(p, old, oldSize, newSize, size)
}

func (a *Allocator) reallocShrink(old block, oldSize, newSize uint32) error {
	surplus := oldSize - newSize
	if surplus < blockfmt.MinBlockSize {
		return nil
	}
	data := a.heap.Bytes()
	old.setHeaderFooter(newSize, true)
	tailOff := old.ptr() + int(newSize)
	atHeader(data, tailOff).setHeaderFooter(surplus, false)
	a.coalesce(tailOff)
	return nil
}

func (a *Allocator) reallocGrow(p Ptr, old block, oldSize, newSize, rawSize uint32) (Ptr, error) {
	grow := newSize - oldSize
	next := old.next()

	if !next.allocated() && next.size() > grow {
		data := a.heap.Bytes()
		a.removeFromClass(data, next)
		remaining := next.size() - grow
		if remaining >= blockfmt.MinBlockSize {
			old.setHeaderFooter(newSize, true)
			remOff := old.ptr() + int(newSize)
			atHeader(data, remOff).setHeaderFooter(remaining, false)
			a.insertFree(data, remOff)
		} else {
			old.setHeaderFooter(oldSize+next.size(), true)
		}
		return p, nil
	}

	np, err := a.Alloc(rawSize)
	if err != nil {
		return Null, err
	}
	data := a.heap.Bytes()
	copyLen := int(oldSize) - blockfmt.HeaderFooterSize
	copy(data[int(np):int(np)+copyLen], data[int(p):int(p)+copyLen])
	a.Free(p)
	return np, nil
}

// Calloc allocates room for n elements of size bytes each and zeroes the
// requested n*size bytes of payload.
func (a *Allocator) Calloc(n, size uint32) (Ptr, error) {
	total := n * size
	p, err := a.Alloc(total)
	if err != nil || p == Null {
		return p, err
	}
	data := a.heap.Bytes()
	clear(data[int(p) : int(p)+int(total)])
	return p, nil
}

func (a *Allocator) removeFromClass(data []byte, b block) {
	cls := a.sizeClasses.classOf(b.size())
	a.freeLists[cls].remove(data, b.ptr())
}

func (a *Allocator) insertFree(data []byte, hdr int) {
	size := blockAt(data, hdr).size()
	cls := a.sizeClasses.classOf(size)
	a.freeLists[cls].insertMRU(data, hdr)
}

func debugLogf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[allocator] "+format+"\n", args...)
}
