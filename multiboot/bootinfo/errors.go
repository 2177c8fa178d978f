package bootinfo

import (
	"errors"
	"fmt"

	"github.com/joshuapare/mbkit/multiboot/record"
)

// Load errors. Memory errors from package record are wrapped inside them.
var (
	// ErrIllegalAddress indicates the structure's memory failed validation:
	// null, misaligned or shorter than the prologue.
	ErrIllegalAddress = errors.New("bootinfo: illegal address")
	// ErrIllegalTotalSize indicates total_size is zero, unpadded, too small
	// for an end tag, or larger than the memory provided.
	ErrIllegalTotalSize = errors.New("bootinfo: illegal total size")
	// ErrNoEndTag indicates the tag list is malformed or does not finish with
	// an end tag ending exactly at total_size.
	ErrNoEndTag = errors.New("bootinfo: no valid end tag")
)

// ErrTagNotFound indicates the requested tag is absent.
var ErrTagNotFound = record.ErrNotFound

// ErrNotCustomTag indicates a custom tag was given a reserved type.
var ErrNotCustomTag = errors.New("bootinfo: tag type is not in the custom range")

var (
	// ErrMissingNul indicates a string field without its NUL terminator.
	ErrMissingNul = errors.New("bootinfo: string not NUL-terminated")
	// ErrInvalidUTF8 indicates a string field that is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("bootinfo: string is not valid UTF-8")
)

// StringError reports a string field that could not be decoded. Raw holds the
// bytes before the terminator when one was found.
type StringError struct {
	Tag TagType
	Raw []byte
	Err error
}

func (e *StringError) Error() string {
	return fmt.Sprintf("bootinfo: %s string: %v", e.Tag, e.Err)
}

func (e *StringError) Unwrap() error { return e.Err }
