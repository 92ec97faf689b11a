//go:build unix

package vmheap

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// mappedHeap backs the heap region with real anonymous virtual memory via
// mmap/mremap, the way the reference sbrk-style primitive is itself backed
// by the kernel. Offsets returned to callers remain valid across Extend
// even though mremap may move the mapping: nothing outside this file ever
// holds the old slice, only offsets into Bytes().
type mappedHeap struct {
	data []byte
}

// NewMapped returns a Heap backed by an anonymous mmap region, growing via
// mremap. It is the realistic alternative to the slice-backed default
// (New), kept separate so the allocator's deterministic tests don't depend
// on mmap succeeding in a sandboxed environment.
func NewMapped(initial int) (Heap, error) {
	if initial <= 0 {
		initial = unix.Getpagesize()
	}
	data, err := unix.Mmap(-1, 0, initial, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap: %v", ErrExtendFailed, err)
	}
	return &mappedHeap{data: data[:0]}, nil
}

func (h *mappedHeap) Bytes() []byte { return h.data }

func (h *mappedHeap) Extend(nbytes int) (int, error) {
	if nbytes <= 0 {
		return 0, fmt.Errorf("%w: nbytes must be positive, got %d", ErrExtendFailed, nbytes)
	}
	base := len(h.data)
	newLen := base + nbytes
	if newLen <= cap(h.data) {
		h.data = h.data[:newLen]
		return base, nil
	}
	grown, err := unix.Mremap(h.data[:cap(h.data)], newLen, unix.MREMAP_MAYMOVE)
	if err != nil {
		return 0, fmt.Errorf("%w: mremap: %v", ErrExtendFailed, err)
	}
	h.data = grown[:newLen]
	return base, nil
}

func (h *mappedHeap) Lo() int { return 0 }
func (h *mappedHeap) Hi() int { return len(h.data) }

// Close releases the underlying mapping. Not part of the Heap interface
// since the portable slice-backed implementation has nothing to release.
func (h *mappedHeap) Close() error {
	if h.data == nil {
		return nil
	}
	full := h.data[:cap(h.data)]
	h.data = nil
	return unix.Munmap(full)
}
