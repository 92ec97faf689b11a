package cache

import "errors"

var (
	// ErrTooLarge means a write's payload exceeds MaxObjectSize; the
	// object is rejected without ever touching the entry list.
	ErrTooLarge = errors.New("cache: object exceeds max size")

	// ErrNoRoom means eviction could not free enough space to admit a
	// write even after the store went empty.
	ErrNoRoom = errors.New("cache: cannot free enough space for object")
)
