package blockfmt

import "encoding/binary"

// Little-endian integer encoding for block headers, footers, and links.
//
// encoding/binary is used directly rather than hand-rolled unsafe pointer
// casts: the values being packed are header words and 8-byte link fields,
// not a hot inner loop, and the standard library's LittleEndian helpers
// inline cleanly under the Go compiler.

// PutWord writes a packed header/footer word at offset off.
func PutWord(b []byte, off int, word uint32) {
	binary.LittleEndian.PutUint32(b[off:off+WordSize], word)
}

// GetWord reads a packed header/footer word at offset off.
func GetWord(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+WordSize])
}

// PutLink writes an 8-byte intrusive free-list link (an absolute heap
// offset, or 0 for null) at offset off.
func PutLink(b []byte, off int, link uint64) {
	binary.LittleEndian.PutUint64(b[off:off+LinkSize], link)
}

// GetLink reads an 8-byte intrusive free-list link at offset off.
func GetLink(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+LinkSize])
}

// Pack combines a size and an allocated bit into a single header/footer word.
func Pack(size uint32, allocated bool) uint32 {
	w := size &^ uint32(AllocMask)
	if allocated {
		w |= AllocMask
	}
	return w
}

// UnpackSize extracts the size field from a packed header/footer word.
func UnpackSize(word uint32) uint32 {
	return word & SizeMask
}

// UnpackAlloc extracts the allocated bit from a packed header/footer word.
func UnpackAlloc(word uint32) bool {
	return word&AllocMask != 0
}
