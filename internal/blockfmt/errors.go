package blockfmt

import "errors"

var (
	// ErrOutOfRange indicates an offset or size fell outside the heap region.
	ErrOutOfRange = errors.New("blockfmt: offset out of range")
	// ErrMisaligned indicates a pointer or size was not 8-byte aligned.
	ErrMisaligned = errors.New("blockfmt: value not 8-byte aligned")
	// ErrHeaderFooterMismatch indicates a block's header and footer disagree.
	ErrHeaderFooterMismatch = errors.New("blockfmt: header does not match footer")
)
