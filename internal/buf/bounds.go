package buf

import (
	"bytes"
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative ints. Negative operands and
// products above MaxInt report ok = false.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// CheckListBounds validates that count entries of entrySize bytes fit in a
// buffer of bufLen bytes starting at offset, and returns the end offset.
//
// Memory maps, EFI descriptor arrays and ELF section tables all use it before
// slicing their entries:
//
//	end, err := buf.CheckListBounds(len(payload), 8, n, entrySize)
//	if err != nil {
//	    return nil, fmt.Errorf("mmap: %w", err)
//	}
func CheckListBounds(bufLen, offset, count, entrySize int) (int, error) {
	if offset < 0 {
		return 0, fmt.Errorf("negative offset: %d", offset)
	}
	if count < 0 {
		return 0, fmt.Errorf("negative count: %d", count)
	}
	if entrySize < 0 {
		return 0, fmt.Errorf("negative entry size: %d", entrySize)
	}
	total, ok := MulOverflowSafe(count, entrySize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * entrySize=%d", count, entrySize)
	}
	end, ok := AddOverflowSafe(offset, total)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", offset, total)
	}
	if end > bufLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, bufLen)
	}
	return end, nil
}

// Slice returns b[off:off+n] when the range lies inside b.
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}

// CString returns the bytes of b up to, not including, the first NUL.
// ok is false when b holds no NUL at all.
func CString(b []byte) ([]byte, bool) {
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return nil, false
	}
	return b[:i], true
}
