// Package cache implements a concurrent, bounded-capacity LRU object
// cache behind a readers-preferring reader/writer protocol — the object
// store an HTTP/1.0 forward proxy would consult before going upstream and
// populate after a fetch.
package cache

import "sync/atomic"

// Stats is a read-only snapshot of cache activity, observational only,
// kept so tests and the demo binary can verify eviction and accounting
// without reaching into the entry list.
type Stats struct {
	Entries    int
	BytesUsed  int
	Hits       int64
	Misses     int64
	Evictions  int64
	Rejections int64
}

// Cache is a bounded-capacity, concurrency-safe LRU object store keyed on
// exact (host, uri) pairs. The zero value is not usable; construct with
// New.
type Cache struct {
	gate          rwGate
	store         entryStore
	maxObjectSize int

	hits, misses, evictions, rejections int64
}

// New creates a Cache with the given total byte capacity and per-object
// size ceiling.
func New(capacity, maxObjectSize int) *Cache {
	return &Cache{
		store:         entryStore{remainingSpace: capacity},
		maxObjectSize: maxObjectSize,
	}
}

// Read serves host/uri's cached payload if present. On a hit, the entry is
// promoted to most-recently-used before Read returns.
//
// The returned slice aliases the entry's stored bytes rather than copying
// them: per spec.md §3.2, an entry's payload is immutable while linked,
// and even after the entry is later evicted the backing array stays alive
// for as long as this caller holds a reference to it, which is exactly
// the per-call buffer lifetime spec.md's reference API achieves by
// copying into a caller-supplied out_buf.
func (c *Cache) Read(host, uri string) ([]byte, bool) {
	c.gate.beginRead()
	e := c.store.find(host, uri)
	if e == nil {
		c.gate.endRead()
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	payload := e.payload
	c.gate.endRead()
	atomic.AddInt64(&c.hits, 1)

	// Promotion is a write-phase operation performed after the read phase
	// completes (spec.md §4.4). Between endRead and beginWrite here, a
	// writer could have run and evicted e — re-finding under the write
	// lock and skipping promotion on a miss is this spec's resolution of
	// that gap (spec.md's own reference leaves it unguarded).
	c.gate.beginWrite()
	if still := c.store.find(host, uri); still != nil {
		c.store.promote(still)
	}
	c.gate.endWrite()

	return payload, true
}

// Write admits payload for host/uri, replacing any existing entry for the
// same key and evicting least-recently-used entries under space pressure.
func (c *Cache) Write(host, uri string, payload []byte) error {
	if len(payload) > c.maxObjectSize {
		atomic.AddInt64(&c.rejections, 1)
		return ErrTooLarge
	}

	c.gate.beginWrite()
	defer c.gate.endWrite()

	if existing := c.store.find(host, uri); existing != nil {
		c.store.unlink(existing)
	}

	for c.store.remainingSpace < len(payload) {
		if !c.store.evictLRU() {
			atomic.AddInt64(&c.rejections, 1)
			return ErrNoRoom
		}
		atomic.AddInt64(&c.evictions, 1)
	}

	stored := make([]byte, len(payload))
	copy(stored, payload)
	c.store.insertMRU(&entry{host: host, uri: uri, payload: stored})
	return nil
}

// Stats returns a snapshot of cache activity. Entries and BytesUsed read
// the live list under the write lock since they require a consistent
// view; the counters are atomic and may be taken independently.
func (c *Cache) Stats() Stats {
	c.gate.beginWrite()
	entries, bytesUsed := 0, 0
	for e := c.store.head; e != nil; e = e.next {
		entries++
		bytesUsed += e.payloadSize()
	}
	c.gate.endWrite()

	return Stats{
		Entries:    entries,
		BytesUsed:  bytesUsed,
		Hits:       atomic.LoadInt64(&c.hits),
		Misses:     atomic.LoadInt64(&c.misses),
		Evictions:  atomic.LoadInt64(&c.evictions),
		Rejections: atomic.LoadInt64(&c.rejections),
	}
}
