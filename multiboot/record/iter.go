package record

import (
	"fmt"
	"iter"

	"github.com/joshuapare/mbkit/internal/buf"
	"github.com/joshuapare/mbkit/internal/format"
)

// Iter walks consecutive padded records in a buffer. By default it ends when
// the buffer is exhausted; StopAt adds an explicit terminator.
//
// Iter never reads past the buffer and never allocates. A malformed record
// ends the walk and is reported by Err, in the manner of bufio.Scanner:
//
//	it := record.NewIter[tagHeader](payload)
//	for r, ok := it.Next(); ok; r, ok = it.Next() {
//	    ...
//	}
//	if err := it.Err(); err != nil {
//	    return err
//	}
type Iter[H Header[H]] struct {
	b       []byte
	off     int
	stop    func(H) bool
	term    H
	stopped bool
	done    bool
	err     error
}

// NewIter returns an iterator over b. A b that does not start on an 8-byte
// boundary yields nothing and reports ErrWrongAlignment.
func NewIter[H Header[H]](b []byte) *Iter[H] {
	it := &Iter[H]{b: b}
	if !format.IsAligned8Addr(buf.Addr(b)) {
		it.fail(fmt.Errorf("%w: iterator base %#x", ErrWrongAlignment, buf.Addr(b)))
	}
	return it
}

// StopAt makes the iterator end at the first record for which fn returns
// true. That record is consumed but not yielded; see Terminator.
func (it *Iter[H]) StopAt(fn func(H) bool) *Iter[H] {
	it.stop = fn
	return it
}

// Next returns the next record, or false once the walk has ended.
func (it *Iter[H]) Next() (Record[H], bool) {
	if it.done {
		return Record[H]{}, false
	}
	if it.off == len(it.b) {
		it.done = true
		return Record[H]{}, false
	}
	if it.off > len(it.b) {
		panic(fmt.Sprintf("record: iterator offset %d past buffer end %d", it.off, len(it.b)))
	}

	hlen := headerLen[H]()
	rest := len(it.b) - it.off
	if rest < hlen {
		it.fail(&SizeError{Offset: it.off, Declared: hlen, Available: rest})
		return Record[H]{}, false
	}
	var zero H
	h := zero.Decode(it.b[it.off:])
	total := h.TotalSize()
	if total < hlen || total > rest {
		it.fail(&SizeError{Offset: it.off, Declared: total, Available: rest})
		return Record[H]{}, false
	}
	// it.off is aligned, so aligning the sum aligns the footprint.
	end := format.Align8(it.off + total)
	if end > len(it.b) {
		it.fail(fmt.Errorf("record at offset %d: padding runs past buffer end %d: %w",
			it.off, len(it.b), ErrMissingPadding))
		return Record[H]{}, false
	}

	if it.stop != nil && it.stop(h) {
		it.term = h
		it.stopped = true
		it.done = true
		it.off = end
		return Record[H]{}, false
	}
	r := Record[H]{hdr: h, b: it.b[it.off:end:end]}
	it.off = end
	return r, true
}

func (it *Iter[H]) fail(err error) {
	it.err = err
	it.done = true
}

// Err returns the error that ended the walk, or nil after a clean end.
func (it *Iter[H]) Err() error { return it.err }

// Offset returns the offset just past the last consumed record.
func (it *Iter[H]) Offset() int { return it.off }

// Terminator returns the header that ended the walk when StopAt matched one.
func (it *Iter[H]) Terminator() (H, bool) { return it.term, it.stopped }

// All adapts the remaining records to a range-over-func sequence. Check Err
// once the loop ends.
func (it *Iter[H]) All() iter.Seq[Record[H]] {
	return func(yield func(Record[H]) bool) {
		for {
			r, ok := it.Next()
			if !ok || !yield(r) {
				return
			}
		}
	}
}

// Walk runs a full validating pass over b, ending at the first record stop
// matches or when b is exhausted. It returns the number of records yielded
// and the offset reached. stop may be nil.
func Walk[H Header[H]](b []byte, stop func(H) bool) (n, off int, err error) {
	it := NewIter[H](b)
	if stop != nil {
		it.StopAt(stop)
	}
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		n++
	}
	return n, it.Offset(), it.Err()
}
