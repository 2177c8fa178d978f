package bootinfo

import (
	"fmt"

	"github.com/joshuapare/mbkit/internal/format"
)

// RSDPSignature opens every ACPI root system description pointer.
const RSDPSignature = "RSD PTR "

// RSDP sizes: the ACPI 1.0 structure and the ACPI 2.0+ extension.
const (
	rsdpV1Size = 20
	rsdpV2Size = 36
)

// rsdp decodes the fields common to both RSDP tags. Offsets are relative to
// the start of the tag.
type rsdp struct{ tagBase }

// Signature returns the 8-byte signature, "RSD PTR " when valid.
func (t rsdp) Signature() string { return string(t.Bytes()[8:16]) }

// Checksum returns the ACPI 1.0 checksum byte.
func (t rsdp) Checksum() uint8 { return t.u8(16) }

// OEMID returns the OEM identifier.
func (t rsdp) OEMID() string { return string(t.Bytes()[17:23]) }

// Revision returns the ACPI revision: 0 for 1.0, 2 for 2.0 and later.
func (t rsdp) Revision() uint8 { return t.u8(23) }

// RSDTAddress returns the physical address of the RSDT.
func (t rsdp) RSDTAddress() uint32 { return t.u32(24) }

func (t rsdp) verify(n int) error {
	if t.Signature() != RSDPSignature {
		return fmt.Errorf("rsdp signature %q: %w", t.Signature(), format.ErrSignatureMismatch)
	}
	if sum8(t.Bytes()[8:8+rsdpV1Size]) != 0 {
		return fmt.Errorf("rsdp: %w", format.ErrChecksum)
	}
	if n > rsdpV1Size && sum8(t.Bytes()[8:8+n]) != 0 {
		return fmt.Errorf("rsdp extended: %w", format.ErrChecksum)
	}
	return nil
}

func encodeRSDP(oemID string, revision uint8, rsdt uint32) []byte {
	b := make([]byte, rsdpV1Size)
	copy(b, RSDPSignature)
	copy(b[9:15], oemID)
	b[15] = revision
	format.PutU32(b, 16, rsdt)
	b[8] = -sum8(b)
	return b
}

func sum8(b []byte) uint8 {
	var s uint8
	for _, v := range b {
		s += v
	}
	return s
}

// RSDPV1Tag holds a copy of the ACPI 1.0 RSDP.
type RSDPV1Tag struct{ rsdp }

func (RSDPV1Tag) ID() TagType                     { return TagTypeAcpiV1 }
func (RSDPV1Tag) BaseSize() int                   { return 8 + rsdpV1Size }
func (RSDPV1Tag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (RSDPV1Tag) FromRecord(r tagRecord, _ int) RSDPV1Tag {
	return RSDPV1Tag{rsdp{tagBase{r}}}
}

// NewRSDPV1Tag encodes an ACPI 1.0 RSDP with a valid checksum.
func NewRSDPV1Tag(oemID string, rsdt uint32) RSDPV1Tag {
	return boxed[RSDPV1Tag](encodeRSDP(oemID, 0, rsdt))
}

// Verify checks the signature and checksum.
func (t RSDPV1Tag) Verify() error { return t.verify(rsdpV1Size) }

// RSDPV2Tag holds a copy of the ACPI 2.0+ RSDP.
//
//	Offset  Size  Description
//	0x08    20    ACPI 1.0 fields
//	0x1C    4     length
//	0x20    8     xsdt_address
//	0x28    1     extended checksum
//	0x29    3     reserved
type RSDPV2Tag struct{ rsdp }

func (RSDPV2Tag) ID() TagType                     { return TagTypeAcpiV2 }
func (RSDPV2Tag) BaseSize() int                   { return 8 + rsdpV2Size }
func (RSDPV2Tag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (RSDPV2Tag) FromRecord(r tagRecord, _ int) RSDPV2Tag {
	return RSDPV2Tag{rsdp{tagBase{r}}}
}

// NewRSDPV2Tag encodes an ACPI 2.0 RSDP with valid checksums.
func NewRSDPV2Tag(oemID string, rsdt uint32, xsdt uint64) RSDPV2Tag {
	b := encodeRSDP(oemID, 2, rsdt)
	b = format.AppendU32(b, rsdpV2Size)
	b = format.AppendU64(b, xsdt)
	b = append(b, 0, 0, 0, 0)
	b[32] = -sum8(b)
	return boxed[RSDPV2Tag](b)
}

// Length returns the length of the whole RSDP structure.
func (t RSDPV2Tag) Length() uint32 { return t.u32(28) }

// XSDTAddress returns the physical address of the XSDT.
func (t RSDPV2Tag) XSDTAddress() uint64 { return t.u64(32) }

// ExtendedChecksum returns the checksum over the full structure.
func (t RSDPV2Tag) ExtendedChecksum() uint8 { return t.u8(40) }

// Verify checks the signature and both checksums.
func (t RSDPV2Tag) Verify() error { return t.verify(rsdpV2Size) }
