package header

import (
	"fmt"

	"github.com/joshuapare/mbkit/multiboot/bootinfo"
	"github.com/joshuapare/mbkit/multiboot/record"
)

// EndTag terminates the tag list.
type EndTag struct{ tagBase }

func (EndTag) ID() TagType                     { return TagTypeEnd }
func (EndTag) BaseSize() int                   { return 8 }
func (EndTag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (EndTag) FromRecord(r tagRecord, _ int) EndTag {
	return EndTag{tagBase{r}}
}

// NewEndTag returns the 8-byte end tag.
func NewEndTag() EndTag { return boxed[EndTag](TagRequired) }

// InformationRequestTag lists the boot information tags the kernel wants.
// A required request the bootloader cannot satisfy makes it refuse to boot.
type InformationRequestTag struct {
	tagBase
	n int
}

const informationRequestBaseSize = 8

func (InformationRequestTag) ID() TagType   { return TagTypeInformationRequest }
func (InformationRequestTag) BaseSize() int { return informationRequestBaseSize }
func (InformationRequestTag) DstLen(h TagHeader) (int, error) {
	n := h.TotalSize() - informationRequestBaseSize
	if n < 0 || n%4 != 0 {
		return 0, fmt.Errorf("%w: information request of %d bytes is not 8+4n",
			record.ErrInvalidReportedTotalSize, h.Size)
	}
	return n / 4, nil
}
func (InformationRequestTag) FromRecord(r tagRecord, n int) InformationRequestTag {
	return InformationRequestTag{tagBase{r}, n}
}

// NewInformationRequestTag requests the given boot information tags.
func NewInformationRequestTag(flags TagFlag, requests ...bootinfo.TagType) InformationRequestTag {
	fields := make([]uint32, len(requests))
	for i, r := range requests {
		fields[i] = uint32(r)
	}
	return boxed[InformationRequestTag](flags, fields...)
}

// Len returns the number of requests.
func (t InformationRequestTag) Len() int { return t.n }

// Requests returns the requested tag types in order.
func (t InformationRequestTag) Requests() []bootinfo.TagType {
	out := make([]bootinfo.TagType, t.n)
	for i := range out {
		out[i] = bootinfo.TagType(t.u32(informationRequestBaseSize + 4*i))
	}
	return out
}

// AddressTag tells a bootloader where to load an image that is not ELF.
type AddressTag struct{ tagBase }

func (AddressTag) ID() TagType                     { return TagTypeAddress }
func (AddressTag) BaseSize() int                   { return 24 }
func (AddressTag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (AddressTag) FromRecord(r tagRecord, _ int) AddressTag {
	return AddressTag{tagBase{r}}
}

// NewAddressTag encodes the load layout.
func NewAddressTag(flags TagFlag, headerAddr, loadAddr, loadEndAddr, bssEndAddr uint32) AddressTag {
	return boxed[AddressTag](flags, headerAddr, loadAddr, loadEndAddr, bssEndAddr)
}

// HeaderAddr returns the physical address the header is loaded at.
func (t AddressTag) HeaderAddr() uint32 { return t.u32(8) }

// LoadAddr returns the physical start of the text segment.
func (t AddressTag) LoadAddr() uint32 { return t.u32(12) }

// LoadEndAddr returns the end of the data segment, or 0 for the whole file.
func (t AddressTag) LoadEndAddr() uint32 { return t.u32(16) }

// BSSEndAddr returns the end of the bss segment, or 0 for none.
func (t AddressTag) BSSEndAddr() uint32 { return t.u32(20) }

// EntryAddressTag holds the physical entry point for i386 handoff.
type EntryAddressTag struct{ tagBase }

func (EntryAddressTag) ID() TagType                     { return TagTypeEntryAddress }
func (EntryAddressTag) BaseSize() int                   { return 12 }
func (EntryAddressTag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (EntryAddressTag) FromRecord(r tagRecord, _ int) EntryAddressTag {
	return EntryAddressTag{tagBase{r}}
}

// NewEntryAddressTag encodes an entry point.
func NewEntryAddressTag(flags TagFlag, entry uint32) EntryAddressTag {
	return boxed[EntryAddressTag](flags, entry)
}

// EntryAddr returns the entry point.
func (t EntryAddressTag) EntryAddr() uint32 { return t.u32(8) }

// ConsoleFlags describes console requirements.
type ConsoleFlags uint32

// Console flags.
const (
	ConsoleRequired  ConsoleFlags = 1 << 0
	EGATextSupported ConsoleFlags = 1 << 1
)

const consoleFlagsMask = ConsoleRequired | EGATextSupported

func (f ConsoleFlags) String() string {
	switch f & consoleFlagsMask {
	case 0:
		return "none"
	case ConsoleRequired:
		return "console-required"
	case EGATextSupported:
		return "ega-text"
	default:
		return "console-required|ega-text"
	}
}

// ConsoleTag states the kernel's console needs.
type ConsoleTag struct{ tagBase }

func (ConsoleTag) ID() TagType                     { return TagTypeConsoleFlags }
func (ConsoleTag) BaseSize() int                   { return 12 }
func (ConsoleTag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (ConsoleTag) FromRecord(r tagRecord, _ int) ConsoleTag {
	return ConsoleTag{tagBase{r}}
}

// NewConsoleTag encodes console flags.
func NewConsoleTag(flags TagFlag, console ConsoleFlags) ConsoleTag {
	return boxed[ConsoleTag](flags, uint32(console))
}

// Console returns the console flags.
func (t ConsoleTag) Console() ConsoleFlags { return ConsoleFlags(t.u32(8)) }

// FramebufferTag states the preferred graphics mode. Zero fields mean no
// preference.
type FramebufferTag struct{ tagBase }

func (FramebufferTag) ID() TagType                     { return TagTypeFramebuffer }
func (FramebufferTag) BaseSize() int                   { return 20 }
func (FramebufferTag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (FramebufferTag) FromRecord(r tagRecord, _ int) FramebufferTag {
	return FramebufferTag{tagBase{r}}
}

// NewFramebufferTag encodes a preferred mode.
func NewFramebufferTag(flags TagFlag, width, height, depth uint32) FramebufferTag {
	return boxed[FramebufferTag](flags, width, height, depth)
}

// Width returns the preferred width.
func (t FramebufferTag) Width() uint32 { return t.u32(8) }

// Height returns the preferred height.
func (t FramebufferTag) Height() uint32 { return t.u32(12) }

// Depth returns the preferred bits per pixel.
func (t FramebufferTag) Depth() uint32 { return t.u32(16) }

// ModuleAlignTag asks for modules to be page aligned.
type ModuleAlignTag struct{ tagBase }

func (ModuleAlignTag) ID() TagType                     { return TagTypeModuleAlign }
func (ModuleAlignTag) BaseSize() int                   { return 8 }
func (ModuleAlignTag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (ModuleAlignTag) FromRecord(r tagRecord, _ int) ModuleAlignTag {
	return ModuleAlignTag{tagBase{r}}
}

// NewModuleAlignTag returns the module alignment request.
func NewModuleAlignTag(flags TagFlag) ModuleAlignTag { return boxed[ModuleAlignTag](flags) }

// EFIBootServicesTag asks the bootloader to leave EFI boot services running.
type EFIBootServicesTag struct{ tagBase }

func (EFIBootServicesTag) ID() TagType                     { return TagTypeEfiBS }
func (EFIBootServicesTag) BaseSize() int                   { return 8 }
func (EFIBootServicesTag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (EFIBootServicesTag) FromRecord(r tagRecord, _ int) EFIBootServicesTag {
	return EFIBootServicesTag{tagBase{r}}
}

// NewEFIBootServicesTag returns the boot services request.
func NewEFIBootServicesTag(flags TagFlag) EFIBootServicesTag {
	return boxed[EFIBootServicesTag](flags)
}

// EntryEFI32Tag holds the entry point for EFI i386 handoff with boot
// services running.
type EntryEFI32Tag struct{ tagBase }

func (EntryEFI32Tag) ID() TagType                     { return TagTypeEntryAddressEFI32 }
func (EntryEFI32Tag) BaseSize() int                   { return 12 }
func (EntryEFI32Tag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (EntryEFI32Tag) FromRecord(r tagRecord, _ int) EntryEFI32Tag {
	return EntryEFI32Tag{tagBase{r}}
}

// NewEntryEFI32Tag encodes an EFI i386 entry point.
func NewEntryEFI32Tag(flags TagFlag, entry uint32) EntryEFI32Tag {
	return boxed[EntryEFI32Tag](flags, entry)
}

// EntryAddr returns the entry point.
func (t EntryEFI32Tag) EntryAddr() uint32 { return t.u32(8) }

// EntryEFI64Tag holds the entry point for EFI amd64 handoff with boot
// services running. The address is still 32 bits wide.
type EntryEFI64Tag struct{ tagBase }

func (EntryEFI64Tag) ID() TagType                     { return TagTypeEntryAddressEFI64 }
func (EntryEFI64Tag) BaseSize() int                   { return 12 }
func (EntryEFI64Tag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (EntryEFI64Tag) FromRecord(r tagRecord, _ int) EntryEFI64Tag {
	return EntryEFI64Tag{tagBase{r}}
}

// NewEntryEFI64Tag encodes an EFI amd64 entry point.
func NewEntryEFI64Tag(flags TagFlag, entry uint32) EntryEFI64Tag {
	return boxed[EntryEFI64Tag](flags, entry)
}

// EntryAddr returns the entry point.
func (t EntryEFI64Tag) EntryAddr() uint32 { return t.u32(8) }

// Preference says where in the allowed range a relocatable image should go.
type Preference uint32

// Relocation preferences.
const (
	PreferenceNone Preference = 0
	PreferenceLow  Preference = 1
	PreferenceHigh Preference = 2
)

func (p Preference) String() string {
	switch p {
	case PreferenceNone:
		return "none"
	case PreferenceLow:
		return "low"
	case PreferenceHigh:
		return "high"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(p))
	}
}

// RelocatableTag marks the image as relocatable within a physical range.
type RelocatableTag struct{ tagBase }

func (RelocatableTag) ID() TagType                     { return TagTypeRelocatable }
func (RelocatableTag) BaseSize() int                   { return 24 }
func (RelocatableTag) DstLen(h TagHeader) (int, error) { return sized(h) }
func (RelocatableTag) FromRecord(r tagRecord, _ int) RelocatableTag {
	return RelocatableTag{tagBase{r}}
}

// NewRelocatableTag encodes a relocation range.
func NewRelocatableTag(flags TagFlag, minAddr, maxAddr, align uint32, pref Preference) RelocatableTag {
	return boxed[RelocatableTag](flags, minAddr, maxAddr, align, uint32(pref))
}

// MinAddr returns the lowest acceptable load address.
func (t RelocatableTag) MinAddr() uint32 { return t.u32(8) }

// MaxAddr returns the highest acceptable end address.
func (t RelocatableTag) MaxAddr() uint32 { return t.u32(12) }

// Align returns the required image alignment.
func (t RelocatableTag) Align() uint32 { return t.u32(16) }

// Preference returns where in the range to load.
func (t RelocatableTag) Preference() Preference { return Preference(t.u32(20)) }
