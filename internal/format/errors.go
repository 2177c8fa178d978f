package format

import "errors"

var (
	// ErrSignatureMismatch indicates a structure had an unexpected magic or signature.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrChecksum indicates a byte-sum or arithmetic checksum did not verify.
	ErrChecksum = errors.New("format: checksum mismatch")
	// ErrUnsupported indicates a field value this package does not decode.
	ErrUnsupported = errors.New("format: unsupported value")
)
