package header

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/mbkit/internal/format"
	"github.com/joshuapare/mbkit/multiboot/record"
)

// TagType is the discriminant of a header tag.
type TagType uint16

// Header tag types.
const (
	TagTypeEnd TagType = iota
	TagTypeInformationRequest
	TagTypeAddress
	TagTypeEntryAddress
	TagTypeConsoleFlags
	TagTypeFramebuffer
	TagTypeModuleAlign
	TagTypeEfiBS
	TagTypeEntryAddressEFI32
	TagTypeEntryAddressEFI64
	TagTypeRelocatable
)

var tagTypeNames = [...]string{
	TagTypeEnd:                "end",
	TagTypeInformationRequest: "information-request",
	TagTypeAddress:            "address",
	TagTypeEntryAddress:       "entry-address",
	TagTypeConsoleFlags:       "console-flags",
	TagTypeFramebuffer:        "framebuffer",
	TagTypeModuleAlign:        "module-align",
	TagTypeEfiBS:              "efi-bs",
	TagTypeEntryAddressEFI32:  "entry-address-efi32",
	TagTypeEntryAddressEFI64:  "entry-address-efi64",
	TagTypeRelocatable:        "relocatable",
}

func (t TagType) String() string {
	if int(t) < len(tagTypeNames) {
		return tagTypeNames[t]
	}
	return fmt.Sprintf("unknown(%d)", uint16(t))
}

// ParseTagType accepts the names String produces, or a number.
func ParseTagType(s string) (TagType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range tagTypeNames {
		if name == s {
			return TagType(i), nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("header: unknown tag type %q", s)
	}
	return TagType(n), nil
}

// TagFlag tells the bootloader whether it may ignore a tag it does not
// support.
type TagFlag uint16

// Tag flags.
const (
	TagRequired TagFlag = 0
	TagOptional TagFlag = 1
)

func (f TagFlag) String() string {
	if f&TagOptional != 0 {
		return "optional"
	}
	return "required"
}

// TagHeader is the prefix shared by all header tags.
type TagHeader struct {
	Type  TagType
	Flags TagFlag
	Size  uint32
}

// HeaderLen implements record.Header.
func (TagHeader) HeaderLen() int { return format.HeaderTagHeaderSize }

// TotalSize implements record.Header.
func (h TagHeader) TotalSize() int { return int(h.Size) }

// WithSize implements record.Header.
func (h TagHeader) WithSize(total int) TagHeader {
	h.Size = uint32(total)
	return h
}

// Decode implements record.Header.
func (TagHeader) Decode(b []byte) TagHeader {
	return TagHeader{
		Type:  TagType(format.ReadU16(b, format.HeaderTagTypeOffset)),
		Flags: TagFlag(format.ReadU16(b, format.HeaderTagFlagsOffset)),
		Size:  format.ReadU32(b, format.HeaderTagSizeOffset),
	}
}

// AppendTo implements record.Header.
func (h TagHeader) AppendTo(b []byte) []byte {
	b = format.AppendU16(b, uint16(h.Type))
	b = format.AppendU16(b, uint16(h.Flags))
	return format.AppendU32(b, h.Size)
}

func tagType(h TagHeader) TagType { return h.Type }

// Tag is implemented by every concrete header tag type.
type Tag[T any] interface {
	record.Tag[TagHeader, T, TagType]
}

type tagRecord = record.Record[TagHeader]

// tagBase carries the record behind a concrete tag.
type tagBase struct {
	rec tagRecord
}

// Record returns the opaque record backing the tag.
func (t tagBase) Record() tagRecord { return t.rec }

// Header returns the tag header.
func (t tagBase) Header() TagHeader { return t.rec.Header() }

// Bytes returns the tag's padded bytes.
func (t tagBase) Bytes() []byte { return t.rec.Bytes() }

// Flags returns the tag flags.
func (t tagBase) Flags() TagFlag { return t.rec.Header().Flags }

// Optional reports whether a bootloader may ignore the tag.
func (t tagBase) Optional() bool { return t.Flags()&TagOptional != 0 }

func (t tagBase) u32(off int) uint32 { return format.ReadU32(t.rec.Bytes(), off) }

func sized(TagHeader) (int, error) { return 0, nil }

func boxed[T Tag[T]](flags TagFlag, fields ...uint32) T {
	var zero T
	var body []byte
	for _, v := range fields {
		body = format.AppendU32(body, v)
	}
	return record.NewBoxed[T](TagHeader{Type: zero.ID(), Flags: flags}, body)
}
