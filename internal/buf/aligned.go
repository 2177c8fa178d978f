package buf

import "unsafe"

// Aligned returns a zeroed byte slice of length n whose first byte sits on an
// 8-byte boundary. The bytes are backed by a []uint64, so the garbage
// collector keeps them alive as long as the returned slice is reachable.
func Aligned(n int) []byte {
	if n <= 0 {
		return []byte{}
	}
	words := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), n)
}

// AlignedCopy copies b into a fresh Aligned buffer.
func AlignedCopy(b []byte) []byte {
	out := Aligned(len(b))
	copy(out, b)
	return out
}

// Addr returns the address of the first byte of b, or 0 for an empty slice.
func Addr(b []byte) uintptr {
	if len(b) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}
