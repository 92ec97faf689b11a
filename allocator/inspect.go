package allocator

import "github.com/cs-systems/segheap/internal/blockfmt"

// BlockInfo is a read-only snapshot of one heap block, the unit the check
// subpackage walks the heap in. It exists so that package check never needs
// access to the unexported block/freeList types.
type BlockInfo struct {
	HeaderOffset int
	Size         uint32
	Allocated    bool
	HeaderWord   uint32
	FooterWord   uint32
}

func infoFor(b block) BlockInfo {
	return BlockInfo{
		HeaderOffset: b.hdrOff,
		Size:         b.size(),
		Allocated:    b.allocated(),
		HeaderWord:   b.header(),
		FooterWord:   b.footer(),
	}
}

// PrologueOffset and EpilogueOffset expose the sentinel locations a heap
// checker needs to validate independently of the general block walk. The
// prologue always sits right after the leading alignment pad, since New
// always starts from an empty heap.
func (a *Allocator) PrologueOffset() int { return blockfmt.PadSize }
func (a *Allocator) EpilogueOffset() int { return a.epilogueOff }

// Walk calls visit once per real block in heap order, starting immediately
// after the prologue and stopping before the epilogue (size 0 never gets a
// callback). Stops early if visit returns false.
func (a *Allocator) Walk(visit func(BlockInfo) bool) {
	data := a.heap.Bytes()
	for b := atHeader(data, a.PrologueOffset()+blockfmt.PrologueSize); b.size() > 0; b = b.next() {
		if !visit(infoFor(b)) {
			return
		}
	}
}

// SentinelInfo returns the raw header words of the prologue and epilogue,
// for a checker that wants to verify the sentinels themselves rather than
// trust the allocator's own bookkeeping.
func (a *Allocator) SentinelInfo() (prologueHeader, prologueFooter, epilogueHeader uint32) {
	data := a.heap.Bytes()
	prologue := atHeader(data, a.PrologueOffset())
	return prologue.header(), prologue.footer(), atHeader(data, a.epilogueOff).header()
}

// NumFreeListClasses is the number of segregated free lists, for a checker
// that wants to walk every class by index.
func (a *Allocator) NumFreeListClasses() int {
	return len(a.freeLists)
}

// FreeListHead returns the header offset of the first block in the given
// free-list class, or 0 (nullHdr) if the class is empty or out of range.
func (a *Allocator) FreeListHead(class int) int {
	if class < 0 || class >= len(a.freeLists) {
		return nullHdr
	}
	return a.freeLists[class].head
}

// FreeListNext returns the header offset linked after hdrOff within
// whatever free list hdrOff belongs to. Only meaningful when the block at
// hdrOff is actually free; a checker calling this on a corrupt heap may
// read garbage, which is exactly the case it exists to catch.
func (a *Allocator) FreeListNext(hdrOff int) int {
	return blockAt(a.heap.Bytes(), hdrOff).freeNext()
}

// FreeListPrev returns the header offset linked before hdrOff within
// whatever free list hdrOff belongs to, for a checker verifying the
// intrusive list's back-links agree with its forward links.
func (a *Allocator) FreeListPrev(hdrOff int) int {
	return blockAt(a.heap.Bytes(), hdrOff).freePrev()
}

// BlockAt returns the snapshot for the block header at hdrOff, for a
// checker cross-referencing a free-list offset against the heap walk.
func (a *Allocator) BlockAt(hdrOff int) BlockInfo {
	return infoFor(blockAt(a.heap.Bytes(), hdrOff))
}

// SizeClassOf exposes the allocator's own size-class assignment, so a
// checker can confirm each free block sits in the class its size implies.
func (a *Allocator) SizeClassOf(size uint32) int {
	return a.sizeClasses.classOf(size)
}
