package buf

import "encoding/binary"

// U8 returns b[off], or 0 when off is out of range.
func U8(b []byte, off int) uint8 {
	if off < 0 || off >= len(b) {
		return 0
	}
	return b[off]
}

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16LE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32LE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// U64LE reads a little-endian uint64 from b. Returns 0 when b is too short.
func U64LE(b []byte) uint64 {
	if len(b) < 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// U32At reads the little-endian uint32 at b[off:]. Out-of-range reads return 0.
func U32At(b []byte, off int) uint32 {
	s, ok := Slice(b, off, 4)
	if !ok {
		return 0
	}
	return binary.LittleEndian.Uint32(s)
}

// U16At reads the little-endian uint16 at b[off:]. Out-of-range reads return 0.
func U16At(b []byte, off int) uint16 {
	s, ok := Slice(b, off, 2)
	if !ok {
		return 0
	}
	return binary.LittleEndian.Uint16(s)
}

// U64At reads the little-endian uint64 at b[off:]. Out-of-range reads return 0.
func U64At(b []byte, off int) uint64 {
	s, ok := Slice(b, off, 8)
	if !ok {
		return 0
	}
	return binary.LittleEndian.Uint64(s)
}
