package bootinfo

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/joshuapare/mbkit/internal/buf"
	"github.com/joshuapare/mbkit/internal/format"
	"github.com/joshuapare/mbkit/multiboot/record"
)

// BootInformation is a validated boot information structure. It aliases the
// memory it was loaded from, which must stay unchanged while it is in use.
type BootInformation struct {
	hdr  Header
	data []byte // exactly hdr.Size bytes
	n    int    // tags before the end tag
}

// Load validates the structure at the start of b. An empty b counts as a
// null address. b may extend past total_size; the extra bytes are ignored.
//
// The whole tag list is walked once here. Every failure is an error wrapping
// one of ErrIllegalAddress, ErrIllegalTotalSize or ErrNoEndTag; memory errors
// from package record are wrapped as well.
func Load(b []byte) (*BootInformation, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrIllegalAddress, record.ErrNull)
	}
	prologue := b
	if len(prologue) > format.InfoHeaderSize {
		prologue = prologue[:format.InfoHeaderSize]
	}
	if _, err := record.NewBytesRef[Header](prologue); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIllegalAddress, err)
	}

	var zero Header
	hdr := zero.Decode(b)
	total := hdr.TotalSize()
	if err := checkTotalSize(total, len(b)); err != nil {
		return nil, err
	}

	ref, err := record.NewBytesRef[Header](b[:total])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIllegalAddress, err)
	}
	data := ref.Bytes()

	n, err := walk(data[format.InfoHeaderSize:])
	if err != nil {
		return nil, err
	}
	return &BootInformation{hdr: hdr, data: data, n: n}, nil
}

// LoadPtr validates the structure at p, as handed over by a bootloader in
// EBX. It reads total_size from p and then behaves like Load.
//
// The caller guarantees that p points to readable memory of at least
// total_size bytes that is not modified while the result is in use.
func LoadPtr(p unsafe.Pointer) (*BootInformation, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: %w", ErrIllegalAddress, record.ErrNull)
	}
	if !format.IsAligned8Addr(uintptr(p)) {
		return nil, fmt.Errorf("%w: %w: address %#x", ErrIllegalAddress, record.ErrWrongAlignment, uintptr(p))
	}
	prologue, err := record.PtrBytes(p, format.InfoHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIllegalAddress, err)
	}
	total := int(format.ReadU32(prologue, format.InfoTotalSizeOffset))
	if err := checkTotalSize(total, total); err != nil {
		return nil, err
	}
	b, err := record.PtrBytes(p, total)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIllegalAddress, err)
	}
	return Load(b)
}

func checkTotalSize(total, available int) error {
	switch {
	case total < format.InfoMinTotalSize:
		return fmt.Errorf("%w: %d is below the minimum of %d", ErrIllegalTotalSize, total, format.InfoMinTotalSize)
	case !format.IsAligned8(total):
		return fmt.Errorf("%w: %d is not a multiple of %d", ErrIllegalTotalSize, total, format.Alignment)
	case total > available:
		return fmt.Errorf("%w: %d exceeds the %d bytes provided", ErrIllegalTotalSize, total, available)
	}
	return nil
}

// walk checks that tags is a well-formed list ending in an end tag that
// finishes exactly at the end of tags. It returns the number of tags before
// the end tag.
func walk(tags []byte) (int, error) {
	it := record.NewIter[TagHeader](tags).StopAt(isEnd)
	n := 0
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		n++
	}
	if err := it.Err(); err != nil {
		return 0, fmt.Errorf("%w: tag %d: %w", ErrNoEndTag, n, err)
	}
	end, ok := it.Terminator()
	if !ok {
		return 0, fmt.Errorf("%w: tag list ends after %d tags without one", ErrNoEndTag, n)
	}
	if end.Size != format.EndTagSize {
		return 0, fmt.Errorf("%w: end tag declares size %d", ErrNoEndTag, end.Size)
	}
	if it.Offset() != len(tags) {
		return 0, fmt.Errorf("%w: end tag finishes at %d, structure at %d",
			ErrNoEndTag, it.Offset()+format.InfoHeaderSize, len(tags)+format.InfoHeaderSize)
	}
	return n, nil
}

// TotalSize returns the declared size of the structure in bytes.
func (bi *BootInformation) TotalSize() int { return bi.hdr.TotalSize() }

// Header returns the structure prologue.
func (bi *BootInformation) Header() Header { return bi.hdr }

// Bytes returns the structure's bytes, prologue to end tag.
func (bi *BootInformation) Bytes() []byte { return bi.data }

// StartAddress returns the address of the first byte.
func (bi *BootInformation) StartAddress() uintptr { return buf.Addr(bi.data) }

// EndAddress returns the address one past the last byte.
func (bi *BootInformation) EndAddress() uintptr { return bi.StartAddress() + uintptr(len(bi.data)) }

// TagCount returns the number of tags, not counting the end tag.
func (bi *BootInformation) TagCount() int { return bi.n }

// Tags returns a fresh iterator over all tags. The end tag is not yielded.
func (bi *BootInformation) Tags() *record.Iter[TagHeader] {
	return record.NewIter[TagHeader](bi.data[format.InfoHeaderSize:]).StopAt(isEnd)
}

// GetTag returns the first tag of type T. It returns an error wrapping
// ErrTagNotFound when none exists, or a cast error when the tag is too short
// for T.
func GetTag[T Tag[T]](bi *BootInformation) (T, error) {
	return record.Find[T](bi.Tags(), tagType)
}

// All returns every tag of type T in order.
func All[T Tag[T]](bi *BootInformation) ([]T, error) {
	var zero T
	want := zero.ID()
	var out []T
	for r := range bi.Tags().All() {
		if r.Header().Type != want {
			continue
		}
		t, err := record.Cast[T](r)
		if err != nil {
			return out, err
		}
		out = append(out, t)
	}
	return out, nil
}

// CustomTags returns every tag whose type is in the custom range.
func (bi *BootInformation) CustomTags() []CustomTag {
	var out []CustomTag
	for r := range bi.Tags().All() {
		if r.Header().Type.IsCustom() {
			// Every record is at least a header, so the cast cannot fail.
			t, _ := record.Cast[CustomTag](r)
			out = append(out, t)
		}
	}
	return out
}

// CommandLine returns the kernel command line tag.
func (bi *BootInformation) CommandLine() (CommandLineTag, error) {
	return GetTag[CommandLineTag](bi)
}

// BootLoaderName returns the bootloader name tag.
func (bi *BootInformation) BootLoaderName() (BootLoaderNameTag, error) {
	return GetTag[BootLoaderNameTag](bi)
}

// Modules returns every module tag.
func (bi *BootInformation) Modules() ([]ModuleTag, error) {
	return All[ModuleTag](bi)
}

// BasicMemoryInfo returns the basic memory information tag.
func (bi *BootInformation) BasicMemoryInfo() (BasicMemoryInfoTag, error) {
	return GetTag[BasicMemoryInfoTag](bi)
}

// Bootdev returns the BIOS boot device tag.
func (bi *BootInformation) Bootdev() (BootdevTag, error) {
	return GetTag[BootdevTag](bi)
}

// MemoryMap returns the memory map tag.
func (bi *BootInformation) MemoryMap() (MemoryMapTag, error) {
	return GetTag[MemoryMapTag](bi)
}

// VBEInfo returns the VBE information tag.
func (bi *BootInformation) VBEInfo() (VBEInfoTag, error) {
	return GetTag[VBEInfoTag](bi)
}

// Framebuffer returns the framebuffer tag.
func (bi *BootInformation) Framebuffer() (FramebufferTag, error) {
	return GetTag[FramebufferTag](bi)
}

// ElfSections returns the ELF sections tag.
func (bi *BootInformation) ElfSections() (ElfSectionsTag, error) {
	return GetTag[ElfSectionsTag](bi)
}

// APM returns the APM table tag.
func (bi *BootInformation) APM() (APMTag, error) {
	return GetTag[APMTag](bi)
}

// EFISdt32 returns the 32-bit EFI system table tag.
func (bi *BootInformation) EFISdt32() (EFISdt32Tag, error) {
	return GetTag[EFISdt32Tag](bi)
}

// EFISdt64 returns the 64-bit EFI system table tag.
func (bi *BootInformation) EFISdt64() (EFISdt64Tag, error) {
	return GetTag[EFISdt64Tag](bi)
}

// Smbios returns every SMBIOS tag.
func (bi *BootInformation) Smbios() ([]SmbiosTag, error) {
	return All[SmbiosTag](bi)
}

// RSDPV1 returns the ACPI 1.0 RSDP tag.
func (bi *BootInformation) RSDPV1() (RSDPV1Tag, error) {
	return GetTag[RSDPV1Tag](bi)
}

// RSDPV2 returns the ACPI 2.0 RSDP tag.
func (bi *BootInformation) RSDPV2() (RSDPV2Tag, error) {
	return GetTag[RSDPV2Tag](bi)
}

// Network returns the network tag.
func (bi *BootInformation) Network() (NetworkTag, error) {
	return GetTag[NetworkTag](bi)
}

// EFIMemoryMap returns the EFI memory map tag. When boot services were not
// exited the map is stale, and ErrTagNotFound is returned instead.
func (bi *BootInformation) EFIMemoryMap() (EFIMemoryMapTag, error) {
	if bi.EFIBootServicesNotExited() {
		return EFIMemoryMapTag{}, fmt.Errorf("%w: %s (boot services not exited)", ErrTagNotFound, TagTypeEfiMmap)
	}
	return GetTag[EFIMemoryMapTag](bi)
}

// EFIBootServicesNotExited reports whether the marker tag is present.
func (bi *BootInformation) EFIBootServicesNotExited() bool {
	_, err := GetTag[EFIBootServicesNotExitedTag](bi)
	return err == nil
}

// EFIImageHandle32 returns the 32-bit EFI image handle tag.
func (bi *BootInformation) EFIImageHandle32() (EFIImageHandle32Tag, error) {
	return GetTag[EFIImageHandle32Tag](bi)
}

// EFIImageHandle64 returns the 64-bit EFI image handle tag.
func (bi *BootInformation) EFIImageHandle64() (EFIImageHandle64Tag, error) {
	return GetTag[EFIImageHandle64Tag](bi)
}

// ImageLoadPhysAddr returns the image load base address tag.
func (bi *BootInformation) ImageLoadPhysAddr() (ImageLoadPhysAddrTag, error) {
	return GetTag[ImageLoadPhysAddrTag](bi)
}

// IsNotFound reports whether err means a tag was absent.
func IsNotFound(err error) bool { return errors.Is(err, ErrTagNotFound) }
