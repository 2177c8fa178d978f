package bootinfo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joshuapare/mbkit/internal/format"
	"github.com/joshuapare/mbkit/multiboot/record"
)

// TagType is the discriminant of an information tag.
type TagType uint32

// Known tag types. Values from TagTypeCustom on are free for vendor use.
const (
	TagTypeEnd TagType = iota
	TagTypeCmdline
	TagTypeBootLoaderName
	TagTypeModule
	TagTypeBasicMeminfo
	TagTypeBootdev
	TagTypeMmap
	TagTypeVbe
	TagTypeFramebuffer
	TagTypeElfSections
	TagTypeApm
	TagTypeEfi32
	TagTypeEfi64
	TagTypeSmbios
	TagTypeAcpiV1
	TagTypeAcpiV2
	TagTypeNetwork
	TagTypeEfiMmap
	TagTypeEfiBs
	TagTypeEfi32Ih
	TagTypeEfi64Ih
	TagTypeLoadBaseAddr
	TagTypeCustom
)

var tagTypeNames = [...]string{
	TagTypeEnd:            "end",
	TagTypeCmdline:        "cmdline",
	TagTypeBootLoaderName: "boot-loader-name",
	TagTypeModule:         "module",
	TagTypeBasicMeminfo:   "basic-meminfo",
	TagTypeBootdev:        "bootdev",
	TagTypeMmap:           "mmap",
	TagTypeVbe:            "vbe",
	TagTypeFramebuffer:    "framebuffer",
	TagTypeElfSections:    "elf-sections",
	TagTypeApm:            "apm",
	TagTypeEfi32:          "efi32",
	TagTypeEfi64:          "efi64",
	TagTypeSmbios:         "smbios",
	TagTypeAcpiV1:         "acpi-v1",
	TagTypeAcpiV2:         "acpi-v2",
	TagTypeNetwork:        "network",
	TagTypeEfiMmap:        "efi-mmap",
	TagTypeEfiBs:          "efi-bs",
	TagTypeEfi32Ih:        "efi32-ih",
	TagTypeEfi64Ih:        "efi64-ih",
	TagTypeLoadBaseAddr:   "load-base-addr",
}

// IsCustom reports whether t lies outside the types defined by Multiboot2.
func (t TagType) IsCustom() bool { return t >= TagTypeCustom }

func (t TagType) String() string {
	if int(t) < len(tagTypeNames) {
		return tagTypeNames[t]
	}
	return fmt.Sprintf("custom(%#x)", uint32(t))
}

// ParseTagType accepts the names String produces, or a decimal or 0x-prefixed
// number.
func ParseTagType(s string) (TagType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range tagTypeNames {
		if name == s {
			return TagType(i), nil
		}
	}
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("bootinfo: unknown tag type %q", s)
	}
	return TagType(n), nil
}

// TagHeader is the prefix shared by all information tags.
type TagHeader struct {
	Type TagType
	Size uint32
}

// HeaderLen implements record.Header.
func (TagHeader) HeaderLen() int { return format.InfoTagHeaderSize }

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
		Type: TagType(format.ReadU32(b, format.InfoTagTypeOffset)),
		Size: format.ReadU32(b, format.InfoTagSizeOffset),
	}
}

// AppendTo implements record.Header.
func (h TagHeader) AppendTo(b []byte) []byte {
	b = format.AppendU32(b, uint32(h.Type))
	return format.AppendU32(b, h.Size)
}

func tagType(h TagHeader) TagType { return h.Type }

func isEnd(h TagHeader) bool { return h.Type == TagTypeEnd }

// Header is the prologue of the boot information structure.
type Header struct {
	Size     uint32
	Reserved uint32
}

// HeaderLen implements record.Header.
func (Header) HeaderLen() int { return format.InfoHeaderSize }

// TotalSize implements record.Header.
func (h Header) TotalSize() int { return int(h.Size) }

// WithSize implements record.Header.
func (h Header) WithSize(total int) Header {
	h.Size = uint32(total)
	return h
}

// Decode implements record.Header.
func (Header) Decode(b []byte) Header {
	return Header{
		Size:     format.ReadU32(b, format.InfoTotalSizeOffset),
		Reserved: format.ReadU32(b, format.InfoReservedOffset),
	}
}

// AppendTo implements record.Header.
func (h Header) AppendTo(b []byte) []byte {
	b = format.AppendU32(b, h.Size)
	return format.AppendU32(b, h.Reserved)
}

// Tag is implemented by every concrete information tag type. Types outside
// this package may implement it too, typically for custom tags.
type Tag[T any] interface {
	record.Tag[TagHeader, T, TagType]
}

// tagBase carries the record behind a concrete tag and its field readers.
type tagBase struct {
	rec record.Record[TagHeader]
}

// Record returns the opaque record backing the tag.
func (t tagBase) Record() record.Record[TagHeader] { return t.rec }

// Header returns the tag header.
func (t tagBase) Header() TagHeader { return t.rec.Header() }

// Bytes returns the tag's padded bytes.
func (t tagBase) Bytes() []byte { return t.rec.Bytes() }

func (t tagBase) u8(off int) uint8   { return t.rec.Bytes()[off] }
func (t tagBase) u16(off int) uint16 { return format.ReadU16(t.rec.Bytes(), off) }
func (t tagBase) u32(off int) uint32 { return format.ReadU32(t.rec.Bytes(), off) }
func (t tagBase) u64(off int) uint64 { return format.ReadU64(t.rec.Bytes(), off) }

// tail returns the declared bytes from off to the end of the tag.
func (t tagBase) tail(off int) []byte {
	return t.rec.Bytes()[off:t.rec.Header().TotalSize()]
}

// sized is the DstLen of tags without a tail.
func sized(TagHeader) (int, error) { return 0, nil }

// tailLen is the DstLen of tags whose tail is a run of bytes after base.
func tailLen(h TagHeader, base int) (int, error) {
	n := h.TotalSize() - base
	if n < 0 {
		return 0, fmt.Errorf("%w: %s tag of %d bytes, need %d",
			record.ErrInvalidReportedTotalSize, h.Type, h.Size, base)
	}
	return n, nil
}

func boxed[T Tag[T]](fragments ...[]byte) T {
	var zero T
	return record.NewBoxed[T](TagHeader{Type: zero.ID()}, fragments...)
}

func le32(v uint32) []byte { return format.AppendU32(nil, v) }
func le64(v uint64) []byte { return format.AppendU64(nil, v) }

type tagRecord = record.Record[TagHeader]
