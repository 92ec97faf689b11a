package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEntryStore_InsertMRUOrdersHeadFirst(t *testing.T) {
	var s entryStore
	s.remainingSpace = 1000

	a := &entry{host: "h", uri: "a", payload: make([]byte, 10)}
	b := &entry{host: "h", uri: "b", payload: make([]byte, 10)}
	s.insertMRU(a)
	s.insertMRU(b)

	require.Same(t, b, s.head)
	require.Same(t, a, s.head.next)
	require.Same(t, b, a.prev)
	require.Equal(t, 980, s.remainingSpace)
}

func TestEntryStore_FindExactMatch(t *testing.T) {
	var s entryStore
	s.insertMRU(&entry{host: "h1", uri: "u1", payload: []byte("x")})
	s.insertMRU(&entry{host: "h1", uri: "u2", payload: []byte("y")})

	found := s.find("h1", "u2")
	require.NotNil(t, found)
	require.Equal(t, []byte("y"), found.payload)

	require.Nil(t, s.find("h1", "nope"))
	require.Nil(t, s.find("h2", "u1"))
}

func TestEntryStore_UnlinkHeadMiddleTail(t *testing.T) {
	var s entryStore
	s.remainingSpace = 100
	a := &entry{host: "h", uri: "a", payload: make([]byte, 1)}
	b := &entry{host: "h", uri: "b", payload: make([]byte, 1)}
	c := &entry{host: "h", uri: "c", payload: make([]byte, 1)}
	s.insertMRU(a)
	s.insertMRU(b)
	s.insertMRU(c)
	// order: c, b, a

	s.unlink(b)
	require.Same(t, c, s.head)
	require.Same(t, a, c.next)
	require.Nil(t, b.prev)
	require.Equal(t, 98, s.remainingSpace)

	s.unlink(c)
	require.Same(t, a, s.head)

	s.unlink(a)
	require.Nil(t, s.head)
	require.Equal(t, 100, s.remainingSpace)
}

func TestEntryStore_TailWalksToEnd(t *testing.T) {
	var s entryStore
	require.Nil(t, s.tail())

	a := &entry{host: "h", uri: "a"}
	b := &entry{host: "h", uri: "b"}
	s.insertMRU(a)
	s.insertMRU(b)

	require.Same(t, a, s.tail())
}

func TestEntryStore_EvictLRURemovesTail(t *testing.T) {
	var s entryStore
	s.remainingSpace = 10
	a := &entry{host: "h", uri: "a", payload: make([]byte, 4)}
	b := &entry{host: "h", uri: "b", payload: make([]byte, 4)}
	s.insertMRU(a)
	s.insertMRU(b)

	require.True(t, s.evictLRU())
	require.Same(t, b, s.head)
	require.Nil(t, s.find("h", "a"))

	require.True(t, s.evictLRU())
	require.False(t, s.evictLRU())
}

func TestEntryStore_PromoteMovesToHead(t *testing.T) {
	var s entryStore
	a := &entry{host: "h", uri: "a"}
	b := &entry{host: "h", uri: "b"}
	c := &entry{host: "h", uri: "c"}
	s.insertMRU(a)
	s.insertMRU(b)
	s.insertMRU(c)
	// order: c, b, a

	s.promote(a)
	require.Same(t, a, s.head)
	require.Same(t, c, a.next)
	require.Same(t, b, c.next)
	require.Nil(t, b.next)
}
