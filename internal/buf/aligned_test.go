package buf

import "testing"

func TestAligned(t *testing.T) {
	for _, n := range []int{1, 7, 8, 9, 24, 4097} {
		b := Aligned(n)
		if len(b) != n {
			t.Fatalf("Aligned(%d) len = %d", n, len(b))
		}
		if Addr(b)%8 != 0 {
			t.Fatalf("Aligned(%d) at %#x is not 8-byte aligned", n, Addr(b))
		}
		for i, v := range b {
			if v != 0 {
				t.Fatalf("Aligned(%d)[%d] = %d, want zero", n, i, v)
			}
		}
	}
	if b := Aligned(0); b == nil || len(b) != 0 {
		t.Fatalf("Aligned(0) should be empty and non-nil")
	}
}

func TestAlignedCopy(t *testing.T) {
	src := []byte{9, 8, 7}
	dst := AlignedCopy(src)
	if string(dst) != string(src) || Addr(dst)%8 != 0 {
		t.Fatalf("AlignedCopy = %v at %#x", dst, Addr(dst))
	}
	src[0] = 0
	if dst[0] != 9 {
		t.Fatalf("AlignedCopy must not alias its input")
	}
	if Addr(nil) != 0 {
		t.Fatalf("Addr(nil) should be 0")
	}
}
