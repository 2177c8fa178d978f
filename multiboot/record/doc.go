// Package record is the shared engine behind both Multiboot2 structures: a
// short fixed header followed by 8-byte aligned, self-sized records.
//
// # Overview
//
// Raw memory becomes trusted in exactly one place, [NewBytesRef], which checks
// length, start alignment and padding. Everything downstream works on views
// into that memory and never copies it:
//
//   - [Record] is an opaque record: a decoded header plus its padded footprint.
//   - [Iter] walks consecutive records and reports malformed input through Err.
//   - [Cast] turns an opaque record into a concrete type described by
//     [MaybeDynSized], validating the fixed prefix first.
//   - [Find] returns the first record whose discriminant matches a [Tag].
//
// Builders go the other way. [NewBoxed] lays out a header and payload
// fragments in a fresh 8-byte aligned allocation and hands back the concrete
// type; [CloneDyn] deep-copies one.
//
// # Header types
//
// A header type describes itself through value methods on its zero value, so
// the generic code can ask for its encoded size before any bytes are read:
//
//	type tagHeader struct{ typ, size uint32 }
//
//	func (tagHeader) HeaderLen() int                 { return 8 }
//	func (h tagHeader) TotalSize() int               { return int(h.size) }
//	func (h tagHeader) WithSize(n int) tagHeader     { h.size = uint32(n); return h }
//	func (tagHeader) Decode(b []byte) tagHeader      { ... }
//	func (h tagHeader) AppendTo(b []byte) []byte     { ... }
//
// # Concurrency
//
// Views assume the referenced memory is not mutated while they are in use.
// Nothing in this package synchronises access.
package record
