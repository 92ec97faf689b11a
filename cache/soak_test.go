package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// TestCache_ReaderPreferenceUnderConcurrentLoad is scenario 6: five readers
// and two writers contend on the same cache. The accounting invariant
// (remainingSpace + sum(payload sizes) == capacity) must hold once every
// goroutine has finished, regardless of interleaving.
func TestCache_ReaderPreferenceUnderConcurrentLoad(t *testing.T) {
	const capacity = 4096
	c := New(capacity, 256)

	keys := make([]string, 8)
	for i := range keys {
		keys[i] = fmt.Sprintf("u%d", i)
		require.NoError(t, c.Write("h1", keys[i], make([]byte, 64)))
	}

	var g errgroup.Group
	for r := 0; r < 5; r++ {
		g.Go(func() error {
			for i := 0; i < 200; i++ {
				c.Read("h1", keys[i%len(keys)])
			}
			return nil
		})
	}
	for w := 0; w < 2; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < 50; i++ {
				key := fmt.Sprintf("w%d-%d", w, i)
				if err := c.Write("h1", key, make([]byte, 64)); err != nil && err != ErrNoRoom {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	stats := c.Stats()
	require.Equal(t, capacity-stats.BytesUsed, c.store.remainingSpace)
	require.GreaterOrEqual(t, c.store.remainingSpace, 0)
}
