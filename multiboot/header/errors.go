package header

import "errors"

var (
	// ErrLowLevel indicates the header's memory failed validation. The
	// underlying record error is wrapped alongside it.
	ErrLowLevel = errors.New("header: low-level memory error")
	// ErrMagicNotFound indicates the prologue does not start with HeaderMagic,
	// or no header was found in an image.
	ErrMagicNotFound = errors.New("header: magic not found")
	// ErrChecksumMismatch indicates magic, arch, length and checksum do not
	// sum to zero.
	ErrChecksumMismatch = errors.New("header: checksum mismatch")
	// ErrTooSmall indicates a declared length below the prologue size.
	ErrTooSmall = errors.New("header: length too small")
)
