package record

import "fmt"

// MaybeDynSized describes a concrete record type T with header H: a fixed
// prefix of BaseSize bytes optionally followed by a tail whose length is
// derived from the header. Methods are called on the zero value of T, except
// Record.
type MaybeDynSized[H Header[H], T any] interface {
	// BaseSize is the size of the fixed prefix, header included. It is never
	// smaller than the header.
	BaseSize() int
	// DstLen derives the tail length from a header: an element count or byte
	// count for dynamically sized types, 0 for sized ones. It fails when the
	// header describes a tail that cannot be decoded.
	DstLen(h H) (int, error)
	// FromRecord wraps a record already known to be at least BaseSize bytes.
	FromRecord(r Record[H], n int) T
	// Record returns the opaque record backing a value.
	Record() Record[H]
}

// Tag is a MaybeDynSized type with a unique discriminant of type I.
type Tag[H Header[H], T any, I comparable] interface {
	MaybeDynSized[H, T]
	ID() I
}

// Cast reinterprets r as T. A T whose BaseSize is smaller than its header is
// a bug in that type and panics. A record too short for T's fixed prefix, or
// whose tail T cannot describe, returns an error.
func Cast[T MaybeDynSized[H, T], H Header[H]](r Record[H]) (T, error) {
	var zero T
	h := r.Header()
	base := zero.BaseSize()
	if base < h.HeaderLen() {
		panic(fmt.Sprintf("record: %T has base size %d below header size %d", zero, base, h.HeaderLen()))
	}
	if h.TotalSize() < base {
		return zero, fmt.Errorf("%w: %T needs %d bytes, record declares %d",
			ErrInvalidReportedTotalSize, zero, base, h.TotalSize())
	}
	n, err := zero.DstLen(h)
	if err != nil {
		return zero, fmt.Errorf("cast %T: %w", zero, err)
	}
	return zero.FromRecord(r, n), nil
}

// Find returns the first record yielded by it whose discriminant equals
// T's ID, cast to T. Later records with the same ID are not considered.
// It returns an error wrapping ErrNotFound when none matches, or the
// iterator's error when the walk fails first.
func Find[T Tag[H, T, I], H Header[H], I comparable](it *Iter[H], id func(H) I) (T, error) {
	var zero T
	want := zero.ID()
	for {
		r, ok := it.Next()
		if !ok {
			break
		}
		if id(r.Header()) == want {
			return Cast[T](r)
		}
	}
	if err := it.Err(); err != nil {
		return zero, err
	}
	return zero, fmt.Errorf("%w: %v", ErrNotFound, want)
}
