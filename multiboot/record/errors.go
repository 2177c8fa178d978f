package record

import (
	"errors"
	"fmt"
)

// Memory errors. They describe why a region of bytes cannot be trusted.
var (
	// ErrNull indicates a nil pointer or nil slice where memory was expected.
	ErrNull = errors.New("record: null pointer")
	// ErrMinLengthNotSatisfied indicates a buffer shorter than its header.
	ErrMinLengthNotSatisfied = errors.New("record: buffer shorter than header")
	// ErrWrongAlignment indicates a buffer that does not start on an 8-byte boundary.
	ErrWrongAlignment = errors.New("record: start address not 8-byte aligned")
	// ErrMissingPadding indicates a buffer whose length is not a multiple of 8.
	ErrMissingPadding = errors.New("record: length not padded to 8 bytes")
	// ErrInvalidReportedTotalSize indicates a declared size smaller than the
	// header or larger than the available bytes.
	ErrInvalidReportedTotalSize = errors.New("record: invalid reported total size")
)

// ErrNotFound indicates no record with the requested discriminant exists.
var ErrNotFound = errors.New("record: not found")

// SizeError reports a declared size that does not fit the surrounding buffer.
// It matches ErrInvalidReportedTotalSize under errors.Is.
type SizeError struct {
	Offset    int // offset of the record within the walked buffer
	Declared  int // size the header claims, unpadded
	Available int // bytes left from Offset to the end of the buffer
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("record at offset %d declares %d bytes, %d available: %v",
		e.Offset, e.Declared, e.Available, ErrInvalidReportedTotalSize)
}

func (e *SizeError) Unwrap() error { return ErrInvalidReportedTotalSize }
