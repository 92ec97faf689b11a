package allocator

// freeList is the MRU-first doubly-linked list of free blocks for one size
// class. head is nullHdr when the list is empty. Links live inside the
// free blocks themselves (block.freePrev/freeNext); this struct only
// remembers where the list starts. Nodes are identified by header offset,
// an implementation detail never exposed outside the allocator package.
type freeList struct {
	head int
}

// insertMRU prepends the block at hdrOff to the list, making it the new
// head. Matches spec's "Insert: Always insert the block at the beginning
// of the list."
func (fl *freeList) insertMRU(data []byte, hdrOff int) {
	b := blockAt(data, hdrOff)
	b.setFreePrev(nullHdr)
	b.setFreeNext(fl.head)
	if fl.head != nullHdr {
		blockAt(data, fl.head).setFreePrev(hdrOff)
	}
	fl.head = hdrOff
}

// remove unlinks the block at hdrOff from the list. hdrOff must currently
// be a member of this list; the allocator always removes from the class
// it computed the block to be in before calling this.
func (fl *freeList) remove(data []byte, hdrOff int) {
	b := blockAt(data, hdrOff)
	prev := b.freePrev()
	next := b.freeNext()

	if prev != nullHdr {
		blockAt(data, prev).setFreeNext(next)
	} else {
		fl.head = next
	}
	if next != nullHdr {
		blockAt(data, next).setFreePrev(prev)
	}
}

// firstFit scans the list head-to-tail for the first block whose size is
// >= need, per spec's first-fit search policy. Returns nullHdr if none fits.
func (fl *freeList) firstFit(data []byte, need uint32) int {
	for p := fl.head; p != nullHdr; p = blockAt(data, p).freeNext() {
		if blockAt(data, p).size() >= need {
			return p
		}
	}
	return nullHdr
}

// walk calls visit for every block currently in the list, in MRU-first
// order, without mutating it. Used by len and by this package's tests.
func (fl *freeList) walk(data []byte, visit func(hdrOff int)) {
	for p := fl.head; p != nullHdr; p = blockAt(data, p).freeNext() {
		visit(p)
	}
}

// len counts the members of the list by walking it. Only used by this
// package's tests; the checker counts list members itself through
// FreeListHead and FreeListNext.
func (fl *freeList) len(data []byte) int {
	n := 0
	fl.walk(data, func(int) { n++ })
	return n
}
