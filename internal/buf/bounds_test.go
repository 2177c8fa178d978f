package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestMulOverflowSafe(t *testing.T) {
	if p, ok := MulOverflowSafe(24, 3); !ok || p != 72 {
		t.Fatalf("MulOverflowSafe(24,3)=%d,%v want 72,true", p, ok)
	}
	if p, ok := MulOverflowSafe(0, math.MaxInt); !ok || p != 0 {
		t.Fatalf("zero operand should yield 0,true")
	}
	if _, ok := MulOverflowSafe(math.MaxInt/2, 3); ok {
		t.Fatalf("expected overflow")
	}
	if _, ok := MulOverflowSafe(-1, 3); ok {
		t.Fatalf("negative operand must be rejected")
	}
}

func TestCheckListBounds(t *testing.T) {
	end, err := CheckListBounds(56, 8, 2, 24)
	if err != nil || end != 56 {
		t.Fatalf("CheckListBounds = %d, %v; want 56, nil", end, err)
	}
	if _, err := CheckListBounds(55, 8, 2, 24); err == nil {
		t.Fatalf("expected bounds error")
	}
	if _, err := CheckListBounds(64, -1, 1, 1); err == nil {
		t.Fatalf("expected negative offset error")
	}
	if _, err := CheckListBounds(64, 0, math.MaxInt, 2); err == nil {
		t.Fatalf("expected overflow error")
	}
}

func TestSliceAndHas(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if got, _ := Slice(data, 1, 3); cap(got) != 3 {
		t.Fatalf("Slice must cap the result at its length, cap=%d", cap(got))
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}
	if Has(data, 2, 4) {
		t.Fatalf("Has should be false for out-of-bounds range")
	}
	if !Has(data, 5, 0) {
		t.Fatalf("empty range at len should be in bounds")
	}
	if _, ok := Slice(data, -1, 1); ok {
		t.Fatalf("Slice should reject negative offset")
	}
	if _, ok := Slice(data, 1, -1); ok {
		t.Fatalf("Slice should reject negative length")
	}
}

func TestCString(t *testing.T) {
	s, ok := CString([]byte("grub\x00pad"))
	if !ok || string(s) != "grub" {
		t.Fatalf("CString = %q, %v", s, ok)
	}
	s, ok = CString([]byte{0})
	if !ok || len(s) != 0 {
		t.Fatalf("CString of lone NUL = %q, %v", s, ok)
	}
	if _, ok := CString([]byte("abc")); ok {
		t.Fatalf("CString without NUL must fail")
	}
}
