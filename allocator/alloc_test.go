package allocator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cs-systems/segheap/internal/vmheap"
)

func newTestAllocator(t *testing.T) *Allocator {
	t.Helper()
	a, err := New(vmheap.New(), nil)
	require.NoError(t, err)
	return a
}

func TestAlloc_ZeroSizeReturnsNull(t *testing.T) {
	a := newTestAllocator(t)
	p, err := a.Alloc(0)
	require.NoError(t, err)
	require.Equal(t, Null, p)
}

func TestAlloc_ReturnsAlignedNonOverlappingBlocks(t *testing.T) {
	a := newTestAllocator(t)

	p1, err := a.Alloc(50)
	require.NoError(t, err)
	p2, err := a.Alloc(50)
	require.NoError(t, err)

	require.True(t, p1%8 == 0)
	require.True(t, p2%8 == 0)
	require.NotEqual(t, p1, p2)

	data := a.heap.Bytes()
	b1 := atPayload(data, p1)
	require.GreaterOrEqual(t, int(p2), int(p1)+int(b1.size())-blockHeaderFooterOverhead)
}

// blockHeaderFooterOverhead lets the overlap check above tolerate the
// header/footer bytes already folded into block.size() without importing
// blockfmt into the test just for one constant.
const blockHeaderFooterOverhead = 8

func TestAlloc_SplitsLargeFreeBlock(t *testing.T) {
	a := newTestAllocator(t)

	big, err := a.Alloc(500)
	require.NoError(t, err)
	a.Free(big)

	before := a.stats.SplitCount
	small, err := a.Alloc(16)
	require.NoError(t, err)
	require.NotEqual(t, Null, small)
	require.Equal(t, before+1, a.stats.SplitCount)
}

func TestFree_CoalescesForwardAndBoth(t *testing.T) {
	a := newTestAllocator(t)

	p1, err := a.Alloc(32)
	require.NoError(t, err)
	p2, err := a.Alloc(32)
	require.NoError(t, err)
	p3, err := a.Alloc(32)
	require.NoError(t, err)

	// p1 sits between the prologue and p2, both allocated: freeing it merges
	// nothing.
	a.Free(p1)
	require.Equal(t, 0, a.stats.CoalesceForward+a.stats.CoalesceBackward+a.stats.CoalesceBoth)

	// p3's right neighbor is the free remainder left by the last split, so
	// freeing p3 is a forward merge.
	a.Free(p3)
	require.Equal(t, 1, a.stats.CoalesceForward)
	require.Equal(t, 0, a.stats.CoalesceBackward+a.stats.CoalesceBoth)

	// Now both neighbors of p2 are free: this merge is the CoalesceBoth case.
	a.Free(p2)
	require.Equal(t, 1, a.stats.CoalesceBoth)
	require.Equal(t, 1, a.stats.CoalesceForward)
	require.Equal(t, 0, a.stats.CoalesceBackward)

	data := a.heap.Bytes()
	merged := atPayload(data, p1)
	require.False(t, merged.allocated())
}

func TestRealloc_NullActsLikeAlloc(t *testing.T) {
	a := newTestAllocator(t)
	p, err := a.Realloc(Null, 40)
	require.NoError(t, err)
	require.NotEqual(t, Null, p)
}

func TestRealloc_ZeroSizeActsLikeFree(t *testing.T) {
	a := newTestAllocator(t)
	p, err := a.Alloc(40)
	require.NoError(t, err)

	q, err := a.Realloc(p, 0)
	require.NoError(t, err)
	require.Equal(t, Null, q)
}

func TestRealloc_ShrinkInPlaceKeepsPointerAndFreesTail(t *testing.T) {
	a := newTestAllocator(t)

	p, err := a.Alloc(200)
	require.NoError(t, err)
	data := a.heap.Bytes()
	for i := 0; i < 200; i++ {
		data[int(p)+i] = byte(i)
	}

	q, err := a.Realloc(p, 40)
	require.NoError(t, err)
	require.Equal(t, p, q)

	data = a.heap.Bytes()
	for i := 0; i < 40; i++ {
		require.Equal(t, byte(i), data[int(q)+i])
	}

	tail := atPayload(data, q).next()
	require.False(t, tail.allocated())
}

func TestRealloc_GrowsIntoFreeNeighborWithoutMoving(t *testing.T) {
	a := newTestAllocator(t)

	p, err := a.Alloc(100)
	require.NoError(t, err)
	q, err := a.Alloc(100)
	require.NoError(t, err)
	a.Free(q)

	r, err := a.Realloc(p, 180)
	require.NoError(t, err)
	require.Equal(t, p, r)
}

func TestRealloc_FallsBackToAllocAndCopyWhenNoRoom(t *testing.T) {
	a := newTestAllocator(t)

	p, err := a.Alloc(32)
	require.NoError(t, err)
	q, err := a.Alloc(32)
	require.NoError(t, err)
	_ = q

	data := a.heap.Bytes()
	for i := 0; i < 32; i++ {
		data[int(p)+i] = byte(i + 1)
	}

	r, err := a.Realloc(p, 512)
	require.NoError(t, err)
	require.NotEqual(t, p, r)

	data = a.heap.Bytes()
	for i := 0; i < 32; i++ {
		require.Equal(t, byte(i+1), data[int(r)+i])
	}
}

func TestCalloc_ZeroesRequestedBytes(t *testing.T) {
	a := newTestAllocator(t)

	p, err := a.Alloc(64)
	require.NoError(t, err)
	a.Free(p)

	q, err := a.Calloc(8, 8)
	require.NoError(t, err)
	require.NotEqual(t, Null, q)

	data := a.heap.Bytes()
	for i := 0; i < 64; i++ {
		require.Equal(t, byte(0), data[int(q)+i])
	}
}

// limitedHeap wraps the portable slice heap but rejects any Extend once a
// byte budget is exhausted, letting tests exercise the out-of-memory path
// without depending on an unbounded allocation actually failing.
type limitedHeap struct {
	vmheap.Heap
	remaining int
}

func (h *limitedHeap) Extend(nbytes int) (int, error) {
	if nbytes > h.remaining {
		return 0, vmheap.ErrExtendFailed
	}
	base, err := h.Heap.Extend(nbytes)
	if err == nil {
		h.remaining -= nbytes
	}
	return base, err
}

func TestAlloc_ReturnsErrOutOfMemoryWhenHeapCannotGrow(t *testing.T) {
	h := &limitedHeap{Heap: vmheap.New(), remaining: 32}
	a, err := New(h, nil)
	require.NoError(t, err)

	p, err := a.Alloc(1 << 20)
	require.ErrorIs(t, err, ErrOutOfMemory)
	require.Equal(t, Null, p)
}
