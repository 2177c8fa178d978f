package bootinfo

import (
	"fmt"

	"github.com/joshuapare/mbkit/internal/buf"
	"github.com/joshuapare/mbkit/internal/format"
)

// BasicMemoryInfoTag reports lower and upper memory in KiB.
type BasicMemoryInfoTag struct{ tagBase }

func (BasicMemoryInfoTag) ID() TagType                     { return TagTypeBasicMeminfo }
func (BasicMemoryInfoTag) BaseSize() int                   { return 16 }
func (BasicMemoryInfoTag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (BasicMemoryInfoTag) FromRecord(r tagRecord, _ int) BasicMemoryInfoTag {
	return BasicMemoryInfoTag{tagBase{r}}
}

// NewBasicMemoryInfoTag encodes the lower and upper memory sizes in KiB.
func NewBasicMemoryInfoTag(lower, upper uint32) BasicMemoryInfoTag {
	return boxed[BasicMemoryInfoTag](le32(lower), le32(upper))
}

// Lower returns the KiB of memory starting at address 0.
func (t BasicMemoryInfoTag) Lower() uint32 { return t.u32(8) }

// Upper returns the KiB of memory starting at 1 MiB.
func (t BasicMemoryInfoTag) Upper() uint32 { return t.u32(12) }

// BootdevTag names the BIOS device the image was loaded from.
type BootdevTag struct{ tagBase }

func (BootdevTag) ID() TagType                              { return TagTypeBootdev }
func (BootdevTag) BaseSize() int                            { return 20 }
func (BootdevTag) DstLen(h TagHeader) (int, error)          { return sized(h) }
func (BootdevTag) FromRecord(r tagRecord, _ int) BootdevTag { return BootdevTag{tagBase{r}} }

// NewBootdevTag encodes a BIOS boot device.
func NewBootdevTag(biosDev, slice, part uint32) BootdevTag {
	return boxed[BootdevTag](le32(biosDev), le32(slice), le32(part))
}

// BIOSDev returns the BIOS drive number.
func (t BootdevTag) BIOSDev() uint32 { return t.u32(8) }

// Slice returns the top-level partition number.
func (t BootdevTag) Slice() uint32 { return t.u32(12) }

// Part returns the sub-partition number.
func (t BootdevTag) Part() uint32 { return t.u32(16) }

// MemoryAreaType classifies a memory map entry.
type MemoryAreaType uint32

// Memory area types.
const (
	MemoryAvailable         MemoryAreaType = 1
	MemoryReserved          MemoryAreaType = 2
	MemoryACPIAvailable     MemoryAreaType = 3
	MemoryReservedHibernate MemoryAreaType = 4
	MemoryDefective         MemoryAreaType = 5
)

func (t MemoryAreaType) String() string {
	switch t {
	case MemoryAvailable:
		return "available"
	case MemoryReserved:
		return "reserved"
	case MemoryACPIAvailable:
		return "acpi-available"
	case MemoryReservedHibernate:
		return "reserved-hibernate"
	case MemoryDefective:
		return "defective"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(t))
	}
}

// MemoryArea is one entry of the memory map.
type MemoryArea struct {
	Base   uint64
	Length uint64
	Type   MemoryAreaType
}

// End returns the first address past the area.
func (a MemoryArea) End() uint64 { return a.Base + a.Length }

// MemoryAreaSize is the encoded size of a MemoryArea.
const MemoryAreaSize = 24

func (a MemoryArea) appendTo(b []byte) []byte {
	b = format.AppendU64(b, a.Base)
	b = format.AppendU64(b, a.Length)
	b = format.AppendU32(b, uint32(a.Type))
	return format.AppendU32(b, 0)
}

// MemoryMapTag is the bootloader-provided physical memory map.
//
//	Offset  Size  Description
//	0x08    4     entry_size, at least 24
//	0x0C    4     entry_version, 0
//	0x10    ...   entries
type MemoryMapTag struct{ tagBase }

const memoryMapBaseSize = 16

func (MemoryMapTag) ID() TagType   { return TagTypeMmap }
func (MemoryMapTag) BaseSize() int { return memoryMapBaseSize }
func (MemoryMapTag) DstLen(h TagHeader) (int, error) {
	return tailLen(h, memoryMapBaseSize)
}
func (MemoryMapTag) FromRecord(r tagRecord, _ int) MemoryMapTag { return MemoryMapTag{tagBase{r}} }

// NewMemoryMapTag encodes areas with the standard 24-byte entry size.
func NewMemoryMapTag(areas []MemoryArea) MemoryMapTag {
	entries := make([]byte, 0, len(areas)*MemoryAreaSize)
	for _, a := range areas {
		entries = a.appendTo(entries)
	}
	return boxed[MemoryMapTag](le32(MemoryAreaSize), le32(0), entries)
}

// EntrySize returns the stride between entries.
func (t MemoryMapTag) EntrySize() uint32 { return t.u32(8) }

// EntryVersion returns the entry format version.
func (t MemoryMapTag) EntryVersion() uint32 { return t.u32(12) }

// Areas decodes every entry. Bytes beyond the last whole entry are ignored.
func (t MemoryMapTag) Areas() ([]MemoryArea, error) {
	stride := int(t.EntrySize())
	if stride < MemoryAreaSize {
		return nil, fmt.Errorf("mmap: entry size %d below %d: %w", stride, MemoryAreaSize, format.ErrUnsupported)
	}
	entries := t.tail(memoryMapBaseSize)
	n := len(entries) / stride
	if _, err := buf.CheckListBounds(len(entries), 0, n, stride); err != nil {
		return nil, fmt.Errorf("mmap: %w", err)
	}
	out := make([]MemoryArea, n)
	for i := range out {
		e := entries[i*stride:]
		out[i] = MemoryArea{
			Base:   format.ReadU64(e, 0),
			Length: format.ReadU64(e, 8),
			Type:   MemoryAreaType(format.ReadU32(e, 16)),
		}
	}
	return out, nil
}

// AvailableBytes sums the lengths of all available areas.
func (t MemoryMapTag) AvailableBytes() (uint64, error) {
	areas, err := t.Areas()
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, a := range areas {
		if a.Type == MemoryAvailable {
			total += a.Length
		}
	}
	return total, nil
}

// EFIMemoryType is the UEFI memory descriptor type.
type EFIMemoryType uint32

// UEFI memory types.
const (
	EFIReservedMemory EFIMemoryType = iota
	EFILoaderCode
	EFILoaderData
	EFIBootServicesCode
	EFIBootServicesData
	EFIRuntimeServicesCode
	EFIRuntimeServicesData
	EFIConventionalMemory
	EFIUnusableMemory
	EFIACPIReclaimMemory
	EFIACPIMemoryNVS
	EFIMemoryMappedIO
	EFIMemoryMappedIOPortSpace
	EFIPalCode
	EFIPersistentMemory
)

var efiMemoryTypeNames = [...]string{
	"reserved", "loader-code", "loader-data", "boot-services-code",
	"boot-services-data", "runtime-services-code", "runtime-services-data",
	"conventional", "unusable", "acpi-reclaim", "acpi-nvs", "mmio",
	"mmio-port-space", "pal-code", "persistent",
}

func (t EFIMemoryType) String() string {
	if int(t) < len(efiMemoryTypeNames) {
		return efiMemoryTypeNames[t]
	}
	return fmt.Sprintf("unknown(%#x)", uint32(t))
}

// EFIMemoryDesc is one UEFI memory descriptor.
type EFIMemoryDesc struct {
	Type      EFIMemoryType
	PhysStart uint64
	VirtStart uint64
	Pages     uint64
	Attribute uint64
}

// EFIMemoryDescSize is the size of the fields EFIMemoryDesc decodes.
// Firmware may use a larger stride.
const EFIMemoryDescSize = 40

func (d EFIMemoryDesc) appendTo(b []byte) []byte {
	b = format.AppendU32(b, uint32(d.Type))
	b = format.AppendU32(b, 0)
	b = format.AppendU64(b, d.PhysStart)
	b = format.AppendU64(b, d.VirtStart)
	b = format.AppendU64(b, d.Pages)
	return format.AppendU64(b, d.Attribute)
}

// EFIMemoryMapTag carries the UEFI memory map as returned by GetMemoryMap.
//
//	Offset  Size  Description
//	0x08    4     descriptor_size
//	0x0C    4     descriptor_version
//	0x10    ...   descriptors
type EFIMemoryMapTag struct{ tagBase }

const efiMemoryMapBaseSize = 16

func (EFIMemoryMapTag) ID() TagType   { return TagTypeEfiMmap }
func (EFIMemoryMapTag) BaseSize() int { return efiMemoryMapBaseSize }
func (EFIMemoryMapTag) DstLen(h TagHeader) (int, error) {
	return tailLen(h, efiMemoryMapBaseSize)
}
func (EFIMemoryMapTag) FromRecord(r tagRecord, _ int) EFIMemoryMapTag {
	return EFIMemoryMapTag{tagBase{r}}
}

// NewEFIMemoryMapTag encodes descs with a 40-byte stride and version 1.
func NewEFIMemoryMapTag(descs []EFIMemoryDesc) EFIMemoryMapTag {
	raw := make([]byte, 0, len(descs)*EFIMemoryDescSize)
	for _, d := range descs {
		raw = d.appendTo(raw)
	}
	return boxed[EFIMemoryMapTag](le32(EFIMemoryDescSize), le32(1), raw)
}

// DescSize returns the stride between descriptors.
func (t EFIMemoryMapTag) DescSize() uint32 { return t.u32(8) }

// DescVersion returns the descriptor version.
func (t EFIMemoryMapTag) DescVersion() uint32 { return t.u32(12) }

// Raw returns the undecoded descriptor bytes.
func (t EFIMemoryMapTag) Raw() []byte { return t.tail(efiMemoryMapBaseSize) }

// Descriptors decodes every descriptor.
func (t EFIMemoryMapTag) Descriptors() ([]EFIMemoryDesc, error) {
	stride := int(t.DescSize())
	if stride < EFIMemoryDescSize {
		return nil, fmt.Errorf("efi mmap: descriptor size %d below %d: %w",
			stride, EFIMemoryDescSize, format.ErrUnsupported)
	}
	raw := t.Raw()
	n := len(raw) / stride
	if _, err := buf.CheckListBounds(len(raw), 0, n, stride); err != nil {
		return nil, fmt.Errorf("efi mmap: %w", err)
	}
	out := make([]EFIMemoryDesc, n)
	for i := range out {
		d := raw[i*stride:]
		out[i] = EFIMemoryDesc{
			Type:      EFIMemoryType(format.ReadU32(d, 0)),
			PhysStart: format.ReadU64(d, 8),
			VirtStart: format.ReadU64(d, 16),
			Pages:     format.ReadU64(d, 24),
			Attribute: format.ReadU64(d, 32),
		}
	}
	return out, nil
}
