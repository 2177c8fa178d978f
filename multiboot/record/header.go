package record

import "fmt"

// Header is the fixed-size prefix every record starts with. H is the
// implementing type itself; all methods use value receivers so the zero
// value can answer HeaderLen before any bytes are decoded.
type Header[H any] interface {
	comparable

	// HeaderLen is the encoded size in bytes. It must not depend on the value.
	HeaderLen() int
	// TotalSize is the declared size: header plus payload, padding excluded.
	TotalSize() int
	// WithSize returns a copy declaring total bytes. Fields derived from the
	// size, such as a checksum, are recomputed. Only builders call it.
	WithSize(total int) H
	// Decode parses a header from the first HeaderLen bytes of b.
	Decode(b []byte) H
	// AppendTo appends the HeaderLen-byte encoding to b.
	AppendTo(b []byte) []byte
}

func headerLen[H Header[H]]() int {
	var zero H
	return zero.HeaderLen()
}

// PayloadLen returns the number of payload bytes h declares. A declared size
// below the header's own size is reported as ErrInvalidReportedTotalSize.
func PayloadLen[H Header[H]](h H) (int, error) {
	n := h.TotalSize() - h.HeaderLen()
	if n < 0 {
		return 0, fmt.Errorf("%w: declared %d bytes, header alone is %d",
			ErrInvalidReportedTotalSize, h.TotalSize(), h.HeaderLen())
	}
	return n, nil
}
