package bootinfo

import (
	"fmt"

	"github.com/joshuapare/mbkit/multiboot/record"
)

// Builder assembles a boot information structure, mostly for tests and for
// tools that synthesize dumps. Tags are emitted in the order a bootloader
// conventionally writes them, whatever order the setters were called in.
//
//	bi, err := bootinfo.NewBuilder().
//	    CommandLine(bootinfo.NewCommandLineTag("quiet")).
//	    AddModule(bootinfo.NewModuleTag(0x100000, 0x200000, "initrd")).
//	    Build()
type Builder struct {
	cmdline     *CommandLineTag
	bootloader  *BootLoaderNameTag
	modules     []ModuleTag
	meminfo     *BasicMemoryInfoTag
	bootdev     *BootdevTag
	mmap        *MemoryMapTag
	vbe         *VBEInfoTag
	framebuffer *FramebufferTag
	elf         *ElfSectionsTag
	apm         *APMTag
	efi32       *EFISdt32Tag
	efi64       *EFISdt64Tag
	smbios      []SmbiosTag
	rsdpV1      *RSDPV1Tag
	rsdpV2      *RSDPV2Tag
	network     *NetworkTag
	efiMmap     *EFIMemoryMapTag
	efiBS       *EFIBootServicesNotExitedTag
	efi32IH     *EFIImageHandle32Tag
	efi64IH     *EFIImageHandle64Tag
	loadAddr    *ImageLoadPhysAddrTag
	custom      []record.Record[TagHeader]
	err         error
}

// NewBuilder returns an empty builder. Building it unchanged yields the
// minimal 16-byte structure.
func NewBuilder() *Builder { return &Builder{} }

// CommandLine sets the kernel command line tag.
func (b *Builder) CommandLine(t CommandLineTag) *Builder {
	b.cmdline = &t
	return b
}

// BootLoaderName sets the bootloader name tag.
func (b *Builder) BootLoaderName(t BootLoaderNameTag) *Builder {
	b.bootloader = &t
	return b
}

// AddModule appends a module tag.
func (b *Builder) AddModule(t ModuleTag) *Builder {
	b.modules = append(b.modules, t)
	return b
}

// BasicMemoryInfo sets the basic memory information tag.
func (b *Builder) BasicMemoryInfo(t BasicMemoryInfoTag) *Builder {
	b.meminfo = &t
	return b
}

// Bootdev sets the BIOS boot device tag.
func (b *Builder) Bootdev(t BootdevTag) *Builder {
	b.bootdev = &t
	return b
}

// MemoryMap sets the memory map tag.
func (b *Builder) MemoryMap(t MemoryMapTag) *Builder {
	b.mmap = &t
	return b
}

// VBEInfo sets the VBE information tag.
func (b *Builder) VBEInfo(t VBEInfoTag) *Builder {
	b.vbe = &t
	return b
}

// Framebuffer sets the framebuffer tag.
func (b *Builder) Framebuffer(t FramebufferTag) *Builder {
	b.framebuffer = &t
	return b
}

// ElfSections sets the ELF sections tag.
func (b *Builder) ElfSections(t ElfSectionsTag) *Builder {
	b.elf = &t
	return b
}

// APM sets the APM table tag.
func (b *Builder) APM(t APMTag) *Builder {
	b.apm = &t
	return b
}

// EFISdt32 sets the 32-bit EFI system table tag.
func (b *Builder) EFISdt32(t EFISdt32Tag) *Builder {
	b.efi32 = &t
	return b
}

// EFISdt64 sets the 64-bit EFI system table tag.
func (b *Builder) EFISdt64(t EFISdt64Tag) *Builder {
	b.efi64 = &t
	return b
}

// AddSmbios appends an SMBIOS tag.
func (b *Builder) AddSmbios(t SmbiosTag) *Builder {
	b.smbios = append(b.smbios, t)
	return b
}

// RSDPV1 sets the ACPI 1.0 RSDP tag.
func (b *Builder) RSDPV1(t RSDPV1Tag) *Builder {
	b.rsdpV1 = &t
	return b
}

// RSDPV2 sets the ACPI 2.0 RSDP tag.
func (b *Builder) RSDPV2(t RSDPV2Tag) *Builder {
	b.rsdpV2 = &t
	return b
}

// Network sets the network tag.
func (b *Builder) Network(t NetworkTag) *Builder {
	b.network = &t
	return b
}

// EFIMemoryMap sets the EFI memory map tag.
func (b *Builder) EFIMemoryMap(t EFIMemoryMapTag) *Builder {
	b.efiMmap = &t
	return b
}

// EFIBootServicesNotExited adds the marker tag.
func (b *Builder) EFIBootServicesNotExited() *Builder {
	t := NewEFIBootServicesNotExitedTag()
	b.efiBS = &t
	return b
}

// EFIImageHandle32 sets the 32-bit EFI image handle tag.
func (b *Builder) EFIImageHandle32(t EFIImageHandle32Tag) *Builder {
	b.efi32IH = &t
	return b
}

// EFIImageHandle64 sets the 64-bit EFI image handle tag.
func (b *Builder) EFIImageHandle64(t EFIImageHandle64Tag) *Builder {
	b.efi64IH = &t
	return b
}

// ImageLoadPhysAddr sets the image load base address tag.
func (b *Builder) ImageLoadPhysAddr(t ImageLoadPhysAddrTag) *Builder {
	b.loadAddr = &t
	return b
}

// AddCustom appends a tag of any custom type. A tag whose type is defined by
// Multiboot2 makes Build fail with ErrNotCustomTag.
func (b *Builder) AddCustom(r record.Record[TagHeader]) *Builder {
	if b.err == nil && !r.Header().Type.IsCustom() {
		b.err = fmt.Errorf("%w: %s", ErrNotCustomTag, r.Header().Type)
	}
	b.custom = append(b.custom, r)
	return b
}

// AddCustomTag is AddCustom for values of a concrete custom tag type.
func AddCustomTag[T Tag[T]](b *Builder, t T) *Builder {
	return b.AddCustom(t.Record())
}

// Bytes returns the encoded structure: prologue, tags in order, end tag.
// Each tag's padded bytes are copied, so the result is 8-byte aligned
// throughout.
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	var frags [][]byte
	frags = appendTag(frags, b.cmdline)
	frags = appendTag(frags, b.bootloader)
	for _, m := range b.modules {
		frags = append(frags, m.Bytes())
	}
	frags = appendTag(frags, b.meminfo)
	frags = appendTag(frags, b.bootdev)
	frags = appendTag(frags, b.mmap)
	frags = appendTag(frags, b.vbe)
	frags = appendTag(frags, b.framebuffer)
	frags = appendTag(frags, b.elf)
	frags = appendTag(frags, b.apm)
	frags = appendTag(frags, b.efi32)
	frags = appendTag(frags, b.efi64)
	for _, s := range b.smbios {
		frags = append(frags, s.Bytes())
	}
	frags = appendTag(frags, b.rsdpV1)
	frags = appendTag(frags, b.rsdpV2)
	frags = appendTag(frags, b.network)
	frags = appendTag(frags, b.efiMmap)
	frags = appendTag(frags, b.efiBS)
	frags = appendTag(frags, b.efi32IH)
	frags = appendTag(frags, b.efi64IH)
	frags = appendTag(frags, b.loadAddr)
	for _, r := range b.custom {
		frags = append(frags, r.Bytes())
	}
	frags = append(frags, NewEndTag().Bytes())

	r := record.NewBoxed[record.Record[Header]](Header{}, frags...)
	return r.Bytes(), nil
}

// Build encodes the structure and loads it back.
func (b *Builder) Build() (*BootInformation, error) {
	data, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	return Load(data)
}

func appendTag[T Tag[T]](frags [][]byte, t *T) [][]byte {
	if t == nil {
		return frags
	}
	return append(frags, (*t).Record().Bytes())
}
