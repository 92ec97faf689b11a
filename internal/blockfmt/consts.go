// Package blockfmt defines the on-heap byte layout shared by the allocator
// and its checker: header/footer bit packing, 8-byte alignment, and the
// little-endian link encoding used by free-block intrusive list pointers.
package blockfmt

// WordSize is the size of a single header or footer word.
const WordSize = 4

// LinkSize is the size of one intrusive free-list link field (prev or next).
const LinkSize = 8

// HeaderFooterSize is the combined overhead of a block's header and footer.
const HeaderFooterSize = 2 * WordSize

// MinBlockSize is the smallest legal block size: header + prev link + next
// link + footer. Allocated blocks reuse the link region as payload.
const MinBlockSize = 24

// AllocMask isolates the allocated bit from a packed header/footer word.
const AllocMask = 0x1

// SizeMask isolates the size field (a multiple of 8) from a packed word.
const SizeMask = ^uint32(0x7)

// PadSize is the filler before the prologue that keeps every real block's
// header offset congruent to WordSize (mod 8), which is exactly what makes
// payload() = hdrOff + WordSize land on an 8-byte boundary. It replaces the
// free-list-roots region of the reference heap prefix (dropped because Go
// keeps that bookkeeping in the Allocator struct instead) while keeping the
// alignment role that region incidentally served.
const PadSize = 4

// PrologueSize is the size recorded in the prologue block's header/footer.
const PrologueSize = 8

// EpilogueSize is the size recorded in the epilogue header.
const EpilogueSize = 0
