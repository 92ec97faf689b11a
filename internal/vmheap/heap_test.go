package vmheap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceHeap_GrowsAndPreservesOffsets(t *testing.T) {
	h := New()
	assert.Equal(t, 0, h.Lo())
	assert.Equal(t, 0, h.Hi())

	base1, err := h.Extend(64)
	require.NoError(t, err)
	assert.Equal(t, 0, base1)
	assert.Equal(t, 64, h.Hi())

	h.Bytes()[10] = 0x42

	base2, err := h.Extend(128)
	require.NoError(t, err)
	assert.Equal(t, 64, base2)
	assert.Equal(t, 192, h.Hi())

	// Bytes written before growth must survive it.
	assert.Equal(t, byte(0x42), h.Bytes()[10])
}

func TestSliceHeap_RejectsNonPositiveExtend(t *testing.T) {
	h := New()
	_, err := h.Extend(0)
	require.Error(t, err)
	_, err = h.Extend(-8)
	require.Error(t, err)
}
