package buf

import "testing"

func TestEndianHelpers(t *testing.T) {
	data := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}

	if got := U16LE(data); got != 0x2301 {
		t.Fatalf("U16LE = 0x%x, want 0x2301", got)
	}
	if got := U32LE(data); got != 0x67452301 {
		t.Fatalf("U32LE = 0x%x, want 0x67452301", got)
	}
	if got := U64LE(data); got != 0xefcdab8967452301 {
		t.Fatalf("U64LE = 0x%x, want 0xefcdab8967452301", got)
	}
	if got := U32At(data, 4); got != 0xefcdab89 {
		t.Fatalf("U32At(4) = 0x%x, want 0xefcdab89", got)
	}
	if got := U16At(data, 6); got != 0xefcd {
		t.Fatalf("U16At(6) = 0x%x, want 0xefcd", got)
	}
	if got := U8(data, 7); got != 0xef {
		t.Fatalf("U8(7) = 0x%x, want 0xef", got)
	}

	short := []byte{0xAA}
	if U16LE(short) != 0 || U32LE(short) != 0 || U64LE(short) != 0 {
		t.Fatalf("short reads should return 0")
	}
	if U32At(data, 5) != 0 || U64At(data, 1) != 0 || U8(data, 8) != 0 || U16At(data, -1) != 0 {
		t.Fatalf("out-of-range reads should return 0")
	}
}
