package record

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/mbkit/internal/buf"
	"github.com/joshuapare/mbkit/internal/format"
)

// BytesRef is a byte slice proven to hold at least one H header, to start on
// an 8-byte boundary and to have a padded length. It is read-only by contract.
type BytesRef[H Header[H]] struct {
	b []byte
}

// NewBytesRef validates b for header type H. Checks run in a fixed order so
// the first failing one determines the error: length, then alignment, then
// padding.
func NewBytesRef[H Header[H]](b []byte) (BytesRef[H], error) {
	hlen := headerLen[H]()
	if len(b) < hlen {
		return BytesRef[H]{}, fmt.Errorf("%w: have %d bytes, need %d",
			ErrMinLengthNotSatisfied, len(b), hlen)
	}
	if !format.IsAligned8Addr(buf.Addr(b)) {
		return BytesRef[H]{}, fmt.Errorf("%w: address %#x", ErrWrongAlignment, buf.Addr(b))
	}
	if !format.IsAligned8(len(b)) {
		return BytesRef[H]{}, fmt.Errorf("%w: length %d", ErrMissingPadding, len(b))
	}
	return BytesRef[H]{b: b[:len(b):len(b)]}, nil
}

// Bytes returns the validated slice.
func (r BytesRef[H]) Bytes() []byte { return r.b }

// Len returns the number of validated bytes.
func (r BytesRef[H]) Len() int { return len(r.b) }

// PtrBytes exposes n bytes starting at p as a slice. It does not validate the
// memory beyond rejecting nil; callers pass the result to NewBytesRef.
//
// The caller guarantees that [p, p+n) is readable and stays unchanged while
// the slice is in use.
func PtrBytes(p unsafe.Pointer, n int) ([]byte, error) {
	if p == nil {
		return nil, ErrNull
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative length %d", ErrInvalidReportedTotalSize, n)
	}
	return unsafe.Slice((*byte)(p), n), nil
}
