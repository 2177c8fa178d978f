package record

import (
	"fmt"
	"math"

	"github.com/joshuapare/mbkit/internal/buf"
	"github.com/joshuapare/mbkit/internal/format"
)

// NewBoxed lays out h followed by fragments in a new 8-byte aligned buffer
// and returns it as T. The header's declared size is set to the unpadded
// total; the buffer is that total rounded up to 8 with zeroed padding.
// Fragments are copied back to back, so any padding between them is the
// caller's job.
//
// Inputs that cannot form a valid T are programming errors and panic: a total
// beyond 4 GiB, a total below T's base size, or a tail T cannot describe.
func NewBoxed[T MaybeDynSized[H, T], H Header[H]](h H, fragments ...[]byte) T {
	hlen := h.HeaderLen()
	total := hlen
	for _, f := range fragments {
		total += len(f)
	}
	if uint64(total) > math.MaxUint32 {
		panic(fmt.Sprintf("record: boxed size %d exceeds 32 bits", total))
	}

	h = h.WithSize(total)
	if h.TotalSize() != total {
		panic(fmt.Sprintf("record: %T.WithSize(%d) declared %d", h, total, h.TotalSize()))
	}

	b := buf.Aligned(format.Align8(total))
	enc := h.AppendTo(make([]byte, 0, hlen))
	if len(enc) != hlen {
		panic(fmt.Sprintf("record: %T encoded to %d bytes, want %d", h, len(enc), hlen))
	}
	off := copy(b, enc)
	for _, f := range fragments {
		off += copy(b[off:], f)
	}

	r := Record[H]{hdr: h.Decode(b), b: b}
	t, err := Cast[T](r)
	if err != nil {
		panic(fmt.Sprintf("record: new boxed: %v", err))
	}
	return t
}

// CloneDyn returns a deep copy of t in a fresh allocation.
func CloneDyn[T MaybeDynSized[H, T], H Header[H]](t T) T {
	r := t.Record()
	return NewBoxed[T](r.Header(), r.Payload())
}
