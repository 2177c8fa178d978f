// Package format holds the Multiboot2 wire constants and the small encoding
// helpers the record, bootinfo and header packages share. Offsets are relative
// to the start of the structure they describe; all integers are little-endian.
package format

const (
	// Alignment is the byte alignment of every Multiboot2 structure and of
	// every tag inside one. Tag footprints are padded up to it.
	Alignment = 8

	// AlignmentMask is Alignment - 1, for bitwise rounding.
	AlignmentMask = Alignment - 1
)

// Boot information prologue.
//
//	Offset  Size  Description
//	0x00    4     total_size, includes this prologue and the end tag
//	0x04    4     reserved, zero
const (
	InfoHeaderSize      = 8
	InfoTotalSizeOffset = 0x00
	InfoReservedOffset  = 0x04

	// InfoMinTotalSize is the smallest legal structure: prologue plus end tag.
	InfoMinTotalSize = InfoHeaderSize + InfoTagHeaderSize
)

// Boot information tag header.
//
//	Offset  Size  Description
//	0x00    4     type
//	0x04    4     size, header included, padding excluded
const (
	InfoTagHeaderSize = 8
	InfoTagTypeOffset = 0x00
	InfoTagSizeOffset = 0x04
)

// BootloaderMagic is the value a compliant bootloader leaves in EAX when it
// hands over a boot information structure.
const BootloaderMagic uint32 = 0x36d76289

// Kernel header prologue.
//
//	Offset  Size  Description
//	0x00    4     magic, HeaderMagic
//	0x04    4     architecture
//	0x08    4     header_length, includes prologue and all tags
//	0x0C    4     checksum, magic+arch+length+checksum == 0 mod 2^32
const (
	HeaderMagic          uint32 = 0xe85250d6
	HeaderPrologueSize          = 16
	HeaderMagicOffset           = 0x00
	HeaderArchOffset            = 0x04
	HeaderLengthOffset          = 0x08
	HeaderChecksumOffset        = 0x0C

	// HeaderSearchLimit bounds where the header may live inside an image.
	HeaderSearchLimit = 32 * 1024
)

// Kernel header tag header.
//
//	Offset  Size  Description
//	0x00    2     type
//	0x02    2     flags, bit 0 set means optional
//	0x04    4     size, header included, padding excluded
const (
	HeaderTagHeaderSize  = 8
	HeaderTagTypeOffset  = 0x00
	HeaderTagFlagsOffset = 0x02
	HeaderTagSizeOffset  = 0x04
)

// EndTagSize is the size of the terminating tag in both structures.
const EndTagSize = 8
