package record

import (
	"github.com/joshuapare/mbkit/internal/format"
)

// testHeader mirrors the information tag prefix: u32 type, u32 size.
type testHeader struct {
	typ  uint32
	size uint32
}

func (testHeader) HeaderLen() int { return 8 }

func (h testHeader) TotalSize() int { return int(h.size) }

func (h testHeader) WithSize(total int) testHeader {
	h.size = uint32(total)
	return h
}

func (testHeader) Decode(b []byte) testHeader {
	return testHeader{typ: format.ReadU32(b, 0), size: format.ReadU32(b, 4)}
}

func (h testHeader) AppendTo(b []byte) []byte {
	b = format.AppendU32(b, h.typ)
	return format.AppendU32(b, h.size)
}

func testHeaderType(h testHeader) uint32 { return h.typ }

// pairTag is a sized tag with two u32 fields after the header.
type pairTag struct {
	rec Record[testHeader]
}

func (pairTag) ID() uint32                                     { return 0x1337 }
func (pairTag) BaseSize() int                                  { return 16 }
func (pairTag) DstLen(testHeader) (int, error)                 { return 0, nil }
func (pairTag) FromRecord(r Record[testHeader], _ int) pairTag { return pairTag{rec: r} }
func (t pairTag) Record() Record[testHeader]                   { return t.rec }
func (t pairTag) A() uint32                                    { return format.ReadU32(t.rec.Bytes(), 8) }
func (t pairTag) B() uint32                                    { return format.ReadU32(t.rec.Bytes(), 12) }

// wordsTag carries a tail of u32 values.
type wordsTag struct {
	rec Record[testHeader]
	n   int
}

func (wordsTag) ID() uint32    { return 0x42 }
func (wordsTag) BaseSize() int { return 8 }

func (wordsTag) DstLen(h testHeader) (int, error) {
	n, err := PayloadLen(h)
	if err != nil {
		return 0, err
	}
	if n%4 != 0 {
		return 0, ErrInvalidReportedTotalSize
	}
	return n / 4, nil
}

func (wordsTag) FromRecord(r Record[testHeader], n int) wordsTag { return wordsTag{rec: r, n: n} }
func (t wordsTag) Record() Record[testHeader]                    { return t.rec }

func (t wordsTag) Words() []uint32 {
	out := make([]uint32, t.n)
	for i := range out {
		out[i] = format.ReadU32(t.rec.Payload(), 4*i)
	}
	return out
}

// brokenTag declares a base size smaller than its header.
type brokenTag struct{ rec Record[testHeader] }

func (brokenTag) BaseSize() int                                    { return 4 }
func (brokenTag) DstLen(testHeader) (int, error)                   { return 0, nil }
func (brokenTag) FromRecord(r Record[testHeader], _ int) brokenTag { return brokenTag{rec: r} }
func (t brokenTag) Record() Record[testHeader]                     { return t.rec }
