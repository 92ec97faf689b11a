package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeClassConfig_ClassOf(t *testing.T) {
	cfg := DefaultSizeClasses

	cases := []struct {
		size    uint32
		wantCls int
	}{
		{1, 0},
		{32, 0},
		{33, 1},
		{64, 1},
		{65, 2},
		{65536, 11},
		{65537, 12},
		{1 << 20, 12},
	}

	for _, c := range cases {
		assert.Equal(t, c.wantCls, cfg.classOf(c.size), "size %d", c.size)
	}
}

func TestSizeClassConfig_NumClasses(t *testing.T) {
	assert.Equal(t, 13, DefaultSizeClasses.numClasses())
}
