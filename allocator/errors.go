package allocator

import "errors"

var (
	// ErrOutOfMemory indicates heap_extend could not grow the region far
	// enough to satisfy a request. Surfaces as a nil pointer from Alloc,
	// Calloc, and Realloc, per spec's ENOMEM contract — never a panic.
	ErrOutOfMemory = errors.New("allocator: out of memory")

	// ErrBadPointer describes a pointer that does not address a block this
	// allocator produced. Free and Realloc do not validate their pointer
	// argument, and no function in this package returns this error.
	ErrBadPointer = errors.New("allocator: pointer does not address a live block")
)
