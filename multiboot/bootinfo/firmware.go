package bootinfo

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/mbkit/internal/format"
	"github.com/joshuapare/mbkit/multiboot/record"
)

// EndTag terminates the tag list.
type EndTag struct{ tagBase }

func (EndTag) ID() TagType                          { return TagTypeEnd }
func (EndTag) BaseSize() int                        { return format.EndTagSize }
func (EndTag) DstLen(h TagHeader) (int, error)      { return sized(h) }
func (EndTag) FromRecord(r tagRecord, _ int) EndTag { return EndTag{tagBase{r}} }

// NewEndTag returns the 8-byte end tag.
func NewEndTag() EndTag { return boxed[EndTag]() }

// APMTag carries the APM BIOS interface table.
type APMTag struct{ tagBase }

func (APMTag) ID() TagType                          { return TagTypeApm }
func (APMTag) BaseSize() int                        { return 28 }
func (APMTag) DstLen(h TagHeader) (int, error)      { return sized(h) }
func (APMTag) FromRecord(r tagRecord, _ int) APMTag { return APMTag{tagBase{r}} }

// APMTable is the decoded APM interface description.
type APMTable struct {
	Version   uint16
	CSeg      uint16
	Offset    uint32
	CSeg16    uint16
	DSeg      uint16
	Flags     uint16
	CSegLen   uint16
	CSeg16Len uint16
	DSegLen   uint16
}

// NewAPMTag encodes an APM table.
func NewAPMTag(a APMTable) APMTag {
	b := format.AppendU16(nil, a.Version)
	b = format.AppendU16(b, a.CSeg)
	b = format.AppendU32(b, a.Offset)
	for _, v := range []uint16{a.CSeg16, a.DSeg, a.Flags, a.CSegLen, a.CSeg16Len, a.DSegLen} {
		b = format.AppendU16(b, v)
	}
	return boxed[APMTag](b)
}

// Table decodes the APM fields.
func (t APMTag) Table() APMTable {
	return APMTable{
		Version:   t.u16(8),
		CSeg:      t.u16(10),
		Offset:    t.u32(12),
		CSeg16:    t.u16(16),
		DSeg:      t.u16(18),
		Flags:     t.u16(20),
		CSegLen:   t.u16(22),
		CSeg16Len: t.u16(24),
		DSegLen:   t.u16(26),
	}
}

// EFISdt32Tag holds the 32-bit EFI system table pointer.
type EFISdt32Tag struct{ tagBase }

func (EFISdt32Tag) ID() TagType                               { return TagTypeEfi32 }
func (EFISdt32Tag) BaseSize() int                             { return 12 }
func (EFISdt32Tag) DstLen(h TagHeader) (int, error)           { return sized(h) }
func (EFISdt32Tag) FromRecord(r tagRecord, _ int) EFISdt32Tag { return EFISdt32Tag{tagBase{r}} }

// NewEFISdt32Tag encodes a 32-bit system table pointer.
func NewEFISdt32Tag(ptr uint32) EFISdt32Tag { return boxed[EFISdt32Tag](le32(ptr)) }

// SystemTable returns the physical address of the EFI system table.
func (t EFISdt32Tag) SystemTable() uint32 { return t.u32(8) }

// EFISdt64Tag holds the 64-bit EFI system table pointer.
type EFISdt64Tag struct{ tagBase }

func (EFISdt64Tag) ID() TagType                               { return TagTypeEfi64 }
func (EFISdt64Tag) BaseSize() int                             { return 16 }
func (EFISdt64Tag) DstLen(h TagHeader) (int, error)           { return sized(h) }
func (EFISdt64Tag) FromRecord(r tagRecord, _ int) EFISdt64Tag { return EFISdt64Tag{tagBase{r}} }

// NewEFISdt64Tag encodes a 64-bit system table pointer.
func NewEFISdt64Tag(ptr uint64) EFISdt64Tag { return boxed[EFISdt64Tag](le64(ptr)) }

// SystemTable returns the physical address of the EFI system table.
func (t EFISdt64Tag) SystemTable() uint64 { return t.u64(8) }

// EFIImageHandle32Tag holds the 32-bit EFI image handle.
type EFIImageHandle32Tag struct{ tagBase }

func (EFIImageHandle32Tag) ID() TagType                     { return TagTypeEfi32Ih }
func (EFIImageHandle32Tag) BaseSize() int                   { return 12 }
func (EFIImageHandle32Tag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (EFIImageHandle32Tag) FromRecord(r tagRecord, _ int) EFIImageHandle32Tag {
	return EFIImageHandle32Tag{tagBase{r}}
}

// NewEFIImageHandle32Tag encodes a 32-bit image handle.
func NewEFIImageHandle32Tag(h uint32) EFIImageHandle32Tag {
	return boxed[EFIImageHandle32Tag](le32(h))
}

// Handle returns the image handle.
func (t EFIImageHandle32Tag) Handle() uint32 { return t.u32(8) }

// EFIImageHandle64Tag holds the 64-bit EFI image handle.
type EFIImageHandle64Tag struct{ tagBase }

func (EFIImageHandle64Tag) ID() TagType                     { return TagTypeEfi64Ih }
func (EFIImageHandle64Tag) BaseSize() int                   { return 16 }
func (EFIImageHandle64Tag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (EFIImageHandle64Tag) FromRecord(r tagRecord, _ int) EFIImageHandle64Tag {
	return EFIImageHandle64Tag{tagBase{r}}
}

// NewEFIImageHandle64Tag encodes a 64-bit image handle.
func NewEFIImageHandle64Tag(h uint64) EFIImageHandle64Tag {
	return boxed[EFIImageHandle64Tag](le64(h))
}

// Handle returns the image handle.
func (t EFIImageHandle64Tag) Handle() uint64 { return t.u64(8) }

// EFIBootServicesNotExitedTag is present when the bootloader left EFI boot
// services running. Its presence makes the EFI memory map stale.
type EFIBootServicesNotExitedTag struct{ tagBase }

func (EFIBootServicesNotExitedTag) ID() TagType                     { return TagTypeEfiBs }
func (EFIBootServicesNotExitedTag) BaseSize() int                   { return 8 }
func (EFIBootServicesNotExitedTag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (EFIBootServicesNotExitedTag) FromRecord(r tagRecord, _ int) EFIBootServicesNotExitedTag {
	return EFIBootServicesNotExitedTag{tagBase{r}}
}

// NewEFIBootServicesNotExitedTag returns the marker tag.
func NewEFIBootServicesNotExitedTag() EFIBootServicesNotExitedTag {
	return boxed[EFIBootServicesNotExitedTag]()
}

// ImageLoadPhysAddrTag holds the physical address the image was loaded at.
type ImageLoadPhysAddrTag struct{ tagBase }

func (ImageLoadPhysAddrTag) ID() TagType                     { return TagTypeLoadBaseAddr }
func (ImageLoadPhysAddrTag) BaseSize() int                   { return 12 }
func (ImageLoadPhysAddrTag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (ImageLoadPhysAddrTag) FromRecord(r tagRecord, _ int) ImageLoadPhysAddrTag {
	return ImageLoadPhysAddrTag{tagBase{r}}
}

// NewImageLoadPhysAddrTag encodes the load base address.
func NewImageLoadPhysAddrTag(addr uint32) ImageLoadPhysAddrTag {
	return boxed[ImageLoadPhysAddrTag](le32(addr))
}

// LoadBaseAddr returns the physical load address.
func (t ImageLoadPhysAddrTag) LoadBaseAddr() uint32 { return t.u32(8) }

// SmbiosTag carries a copy of the SMBIOS tables.
//
//	Offset  Size  Description
//	0x08    1     major
//	0x09    1     minor
//	0x0A    6     reserved
//	0x10    ...   tables
type SmbiosTag struct{ tagBase }

const smbiosBaseSize = 16

func (SmbiosTag) ID() TagType   { return TagTypeSmbios }
func (SmbiosTag) BaseSize() int { return smbiosBaseSize }
func (SmbiosTag) DstLen(h TagHeader) (int, error) {
	return tailLen(h, smbiosBaseSize)
}
func (SmbiosTag) FromRecord(r tagRecord, _ int) SmbiosTag { return SmbiosTag{tagBase{r}} }

// NewSmbiosTag encodes SMBIOS tables of the given version.
func NewSmbiosTag(major, minor uint8, tables []byte) SmbiosTag {
	return boxed[SmbiosTag]([]byte{major, minor, 0, 0, 0, 0, 0, 0}, tables)
}

// Major returns the SMBIOS major version.
func (t SmbiosTag) Major() uint8 { return t.u8(8) }

// Minor returns the SMBIOS minor version.
func (t SmbiosTag) Minor() uint8 { return t.u8(9) }

// Tables returns the raw SMBIOS tables.
func (t SmbiosTag) Tables() []byte { return t.tail(smbiosBaseSize) }

// NetworkTag carries the DHCP ACK packet the bootloader received.
type NetworkTag struct{ tagBase }

const networkBaseSize = 8

func (NetworkTag) ID() TagType   { return TagTypeNetwork }
func (NetworkTag) BaseSize() int { return networkBaseSize }
func (NetworkTag) DstLen(h TagHeader) (int, error) {
	return tailLen(h, networkBaseSize)
}
func (NetworkTag) FromRecord(r tagRecord, _ int) NetworkTag { return NetworkTag{tagBase{r}} }

// NewNetworkTag encodes a DHCP ACK packet.
func NewNetworkTag(dhcpAck []byte) NetworkTag { return boxed[NetworkTag](dhcpAck) }

// DHCPAck returns the raw DHCP ACK packet.
func (t NetworkTag) DHCPAck() []byte { return t.tail(networkBaseSize) }

// VBE layout sizes.
const (
	VBEControlInfoSize = 512
	VBEModeInfoSize    = 256
)

// VBEInfoTag carries the VESA BIOS Extensions state.
//
//	Offset  Size  Description
//	0x08    2     vbe_mode
//	0x0A    2     vbe_interface_seg
//	0x0C    2     vbe_interface_off
//	0x0E    2     vbe_interface_len
//	0x10    512   vbe_control_info
//	0x210   256   vbe_mode_info
type VBEInfoTag struct{ tagBase }

func (VBEInfoTag) ID() TagType                              { return TagTypeVbe }
func (VBEInfoTag) BaseSize() int                            { return 16 + VBEControlInfoSize + VBEModeInfoSize }
func (VBEInfoTag) DstLen(h TagHeader) (int, error)          { return sized(h) }
func (VBEInfoTag) FromRecord(r tagRecord, _ int) VBEInfoTag { return VBEInfoTag{tagBase{r}} }

// NewVBEInfoTag encodes VBE state. controlInfo and modeInfo are truncated or
// zero-padded to their fixed sizes.
func NewVBEInfoTag(mode, seg, off, length uint16, controlInfo, modeInfo []byte) VBEInfoTag {
	fixed := format.AppendU16(nil, mode)
	fixed = format.AppendU16(fixed, seg)
	fixed = format.AppendU16(fixed, off)
	fixed = format.AppendU16(fixed, length)
	ci := make([]byte, VBEControlInfoSize)
	copy(ci, controlInfo)
	mi := make([]byte, VBEModeInfoSize)
	copy(mi, modeInfo)
	return boxed[VBEInfoTag](fixed, ci, mi)
}

// Mode returns the active VBE mode number.
func (t VBEInfoTag) Mode() uint16 { return t.u16(8) }

// InterfaceSegment returns the protected-mode interface segment.
func (t VBEInfoTag) InterfaceSegment() uint16 { return t.u16(10) }

// InterfaceOffset returns the protected-mode interface offset.
func (t VBEInfoTag) InterfaceOffset() uint16 { return t.u16(12) }

// InterfaceLength returns the protected-mode interface length.
func (t VBEInfoTag) InterfaceLength() uint16 { return t.u16(14) }

// ControlInfo returns the raw VbeInfoBlock.
func (t VBEInfoTag) ControlInfo() []byte { return t.Bytes()[16 : 16+VBEControlInfoSize] }

// ModeInfo returns the raw ModeInfoBlock.
func (t VBEInfoTag) ModeInfo() []byte {
	const start = 16 + VBEControlInfoSize
	return t.Bytes()[start : start+VBEModeInfoSize]
}

// VBEControlSummary is the part of the VbeInfoBlock worth showing.
type VBEControlSummary struct {
	Signature   string
	Version     uint16
	TotalMemory uint32 // bytes
}

// ControlSummary decodes signature, version and memory size.
func (t VBEInfoTag) ControlSummary() VBEControlSummary {
	ci := t.ControlInfo()
	return VBEControlSummary{
		Signature:   string(bytes.TrimRight(ci[0:4], "\x00")),
		Version:     format.ReadU16(ci, 4),
		TotalMemory: uint32(format.ReadU16(ci, 18)) * 64 * 1024,
	}
}

// VBEModeSummary is the part of the ModeInfoBlock worth showing.
type VBEModeSummary struct {
	Pitch        uint16
	Width        uint16
	Height       uint16
	BitsPerPixel uint8
	PhysBase     uint32
}

// ModeSummary decodes the resolution and framebuffer location.
func (t VBEInfoTag) ModeSummary() VBEModeSummary {
	mi := t.ModeInfo()
	return VBEModeSummary{
		Pitch:        format.ReadU16(mi, 16),
		Width:        format.ReadU16(mi, 18),
		Height:       format.ReadU16(mi, 20),
		BitsPerPixel: mi[25],
		PhysBase:     format.ReadU32(mi, 40),
	}
}

// CustomTag is any tag read back without a concrete type, usually one in the
// vendor range.
type CustomTag struct{ tagBase }

func (CustomTag) BaseSize() int { return format.InfoTagHeaderSize }
func (CustomTag) DstLen(h TagHeader) (int, error) {
	return tailLen(h, format.InfoTagHeaderSize)
}
func (CustomTag) FromRecord(r tagRecord, _ int) CustomTag { return CustomTag{tagBase{r}} }

// NewCustomTag encodes a tag of type typ with payload. It returns
// ErrNotCustomTag for types defined by Multiboot2.
func NewCustomTag(typ TagType, payload ...[]byte) (CustomTag, error) {
	if !typ.IsCustom() {
		return CustomTag{}, fmt.Errorf("%w: %s", ErrNotCustomTag, typ)
	}
	return record.NewBoxed[CustomTag](TagHeader{Type: typ}, payload...), nil
}

// Type returns the tag type.
func (t CustomTag) Type() TagType { return t.Header().Type }

// Payload returns the bytes after the header.
func (t CustomTag) Payload() []byte { return t.rec.Payload() }
