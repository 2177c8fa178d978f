package record

import (
	"github.com/joshuapare/mbkit/internal/format"
)

// Record is an opaque record: a decoded header and the padded bytes it
// occupies. It aliases the memory it was read from.
type Record[H Header[H]] struct {
	hdr H
	b   []byte
}

// FromBytes reads the record at the start of ref. The declared size must
// cover the header and fit inside ref.
func FromBytes[H Header[H]](ref BytesRef[H]) (Record[H], error) {
	b := ref.Bytes()
	var zero H
	h := zero.Decode(b)
	total := h.TotalSize()
	if total < h.HeaderLen() || total > len(b) {
		return Record[H]{}, &SizeError{Declared: total, Available: len(b)}
	}
	// len(b) is padded, so the footprint fits whenever total does.
	end := format.Align8(total)
	return Record[H]{hdr: h, b: b[:end:end]}, nil
}

// FromSlice validates b with NewBytesRef and reads the record at its start.
func FromSlice[H Header[H]](b []byte) (Record[H], error) {
	ref, err := NewBytesRef[H](b)
	if err != nil {
		return Record[H]{}, err
	}
	return FromBytes(ref)
}

// Header returns the decoded header.
func (r Record[H]) Header() H { return r.hdr }

// Payload returns the declared payload: everything after the header up to the
// declared size. Trailing padding is not included.
func (r Record[H]) Payload() []byte {
	if r.b == nil {
		return nil
	}
	return r.b[r.hdr.HeaderLen():r.hdr.TotalSize()]
}

// Bytes returns the full footprint, header and padding included.
func (r Record[H]) Bytes() []byte { return r.b }

// Len returns the footprint length, a multiple of 8.
func (r Record[H]) Len() int { return len(r.b) }

// IsZero reports whether r is the zero Record.
func (r Record[H]) IsZero() bool { return r.b == nil }

// BaseSize is the header size: an opaque record has no fixed fields of its own.
func (Record[H]) BaseSize() int { return headerLen[H]() }

// DstLen is the number of payload bytes h declares.
func (Record[H]) DstLen(h H) (int, error) { return PayloadLen(h) }

// FromRecord returns r unchanged.
func (Record[H]) FromRecord(r Record[H], _ int) Record[H] { return r }

// Record returns r.
func (r Record[H]) Record() Record[H] { return r }
