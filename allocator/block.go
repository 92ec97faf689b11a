package allocator

import "github.com/cs-systems/segheap/internal/blockfmt"

// Ptr is a payload address: an offset into the heap region at which a
// block's usable bytes begin, not a raw machine address. It is the only
// pointer type callers ever see — Alloc returns one, Free/Realloc accept
// one — matching spec's pointer contract while staying safe to carry
// across a backing-store reallocation, since it's just an integer offset.
// Null is the sentinel returned for a zero-size allocation; Free accepts
// it as a no-op, and Realloc treats it as a request for a fresh allocation.
type Ptr uint64

// Null is the zero Ptr. Payload offset 0 never occurs in a real heap (it
// lies in the leading pad before the prologue), so it safely doubles as
// "no pointer".
const Null Ptr = 0

// block is a read/write view of one heap block anchored at its header
// offset (an int, not a Ptr — free-list bookkeeping is internal and keyed
// by header offset, never exposed to callers). It holds no state beyond
// that offset; every method re-reads from the heap bytes it was
// constructed over.
type block struct {
	data   []byte
	hdrOff int
}

func atHeader(data []byte, hdrOff int) block {
	return block{data: data, hdrOff: hdrOff}
}

// atPayload constructs a block view from a caller-held Ptr.
func atPayload(data []byte, p Ptr) block {
	return block{data: data, hdrOff: int(p) - blockfmt.WordSize}
}

func (b block) header() uint32 {
	return blockfmt.GetWord(b.data, b.hdrOff)
}

func (b block) size() uint32 {
	return blockfmt.UnpackSize(b.header())
}

func (b block) allocated() bool {
	return blockfmt.UnpackAlloc(b.header())
}

func (b block) footerOff() int {
	return b.hdrOff + int(b.size()) - blockfmt.WordSize
}

func (b block) footer() uint32 {
	return blockfmt.GetWord(b.data, b.footerOff())
}

// payload is the address handed out by Alloc / expected by Free.
func (b block) payload() Ptr {
	return Ptr(b.hdrOff + blockfmt.WordSize)
}

// setHeaderFooter writes both boundary tags for a block of the given size
// and allocation state, anchored at this block's current header offset.
// This is the only place that writes a header and its matching footer
// together, keeping them from drifting apart.
func (b block) setHeaderFooter(size uint32, allocated bool) {
	word := blockfmt.Pack(size, allocated)
	blockfmt.PutWord(b.data, b.hdrOff, word)
	blockfmt.PutWord(b.data, b.hdrOff+int(size)-blockfmt.WordSize, word)
}

// setHeaderOnly writes just the header word, used only for the epilogue,
// which has no footer (it has no payload to be the right edge of).
func (b block) setHeaderOnly(size uint32, allocated bool) {
	blockfmt.PutWord(b.data, b.hdrOff, blockfmt.Pack(size, allocated))
}

// next returns the block immediately following this one in heap order.
// Valid even at allocated blocks and at the prologue; callers are
// responsible for stopping at the epilogue (size 0).
func (b block) next() block {
	return atHeader(b.data, b.hdrOff+int(b.size()))
}

// prev returns the block immediately preceding this one, read via its
// footer (the boundary-tag trick the design notes call out as essential
// for O(1) left-neighbor lookup during coalescing).
func (b block) prev() block {
	footerOff := b.hdrOff - blockfmt.WordSize
	prevSize := blockfmt.UnpackSize(blockfmt.GetWord(b.data, footerOff))
	return atHeader(b.data, b.hdrOff-int(prevSize))
}

// Intrusive doubly-linked free-list fields, embedded at the start of a
// free block's payload. Only meaningful when the block is free; every
// legal free block is large enough to hold both links since MinBlockSize
// already accounts for them.
func (b block) freePrev() int {
	return int(blockfmt.GetLink(b.data, int(b.payload())))
}

func (b block) setFreePrev(hdrOff int) {
	blockfmt.PutLink(b.data, int(b.payload()), uint64(hdrOff))
}

func (b block) freeNext() int {
	return int(blockfmt.GetLink(b.data, int(b.payload())+blockfmt.LinkSize))
}

func (b block) setFreeNext(hdrOff int) {
	blockfmt.PutLink(b.data, int(b.payload())+blockfmt.LinkSize, uint64(hdrOff))
}

// ptr returns this block's header offset, the identity used by free-list
// linkage (nullHdr for "no block").
func (b block) ptr() int {
	return b.hdrOff
}

// nullHdr is the header-offset analogue of Null, used internally by
// freeList. Header offset 0 is the leading pad before the prologue, never
// a free-list member, so it is safe to reuse as "no block" here too.
const nullHdr = 0

func blockAt(data []byte, hdrOff int) block {
	return atHeader(data, hdrOff)
}

// adjustedSize computes the block size (header+payload+footer, 8-byte
// aligned, at least MinBlockSize) for a requested payload size, per
// spec's size-adjustment rule. A request of 0 is handled by the caller
// before this is reached (it returns Null without touching the heap).
func adjustedSize(payloadSize uint32) uint32 {
	if payloadSize <= 16 {
		return blockfmt.MinBlockSize
	}
	return blockfmt.Align8U32(payloadSize + blockfmt.HeaderFooterSize)
}
