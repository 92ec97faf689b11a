package cache

// Forwarder is the contract an HTTP/1.0 forward proxy drives against a
// cache: consult it before forwarding a request upstream, and admit a
// freshly fetched response afterward. Request-line parsing, header
// rewriting, and the socket accept/dispatch loop that would call these
// methods are out of scope for this module (see spec's non-goals) —
// Forwarder exists only to describe that boundary, so a real proxy
// component can depend on this interface instead of the concrete *Cache.
type Forwarder interface {
	// Read serves host/uri's cached payload if present, promoting the
	// entry to most-recently-used. ok is false on a miss.
	Read(host, uri string) (payload []byte, ok bool)

	// Write admits payload for host/uri, evicting least-recently-used
	// entries under space pressure, replacing any existing entry for the
	// same key. Returns ErrTooLarge or ErrNoRoom if it cannot be admitted.
	Write(host, uri string, payload []byte) error
}

var _ Forwarder = (*Cache)(nil)
