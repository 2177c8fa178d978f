package header

import (
	"fmt"

	"github.com/joshuapare/mbkit/multiboot/record"
)

// Builder assembles a header. Tags are emitted in type order followed by the
// end tag, regardless of the order the setters were called in.
type Builder struct {
	arch        ISA
	infoRequest *InformationRequestTag
	address     *AddressTag
	entry       *EntryAddressTag
	console     *ConsoleTag
	framebuffer *FramebufferTag
	moduleAlign *ModuleAlignTag
	efiBS       *EFIBootServicesTag
	efi32       *EntryEFI32Tag
	efi64       *EntryEFI64Tag
	relocatable *RelocatableTag
}

// NewBuilder returns a builder for a header targeting arch.
func NewBuilder(arch ISA) *Builder { return &Builder{arch: arch} }

// InformationRequest sets the information request tag.
func (b *Builder) InformationRequest(t InformationRequestTag) *Builder {
	b.infoRequest = &t
	return b
}

// Address sets the address tag.
func (b *Builder) Address(t AddressTag) *Builder {
	b.address = &t
	return b
}

// EntryAddress sets the i386 entry address tag.
func (b *Builder) EntryAddress(t EntryAddressTag) *Builder {
	b.entry = &t
	return b
}

// Console sets the console flags tag.
func (b *Builder) Console(t ConsoleTag) *Builder {
	b.console = &t
	return b
}

// Framebuffer sets the framebuffer tag.
func (b *Builder) Framebuffer(t FramebufferTag) *Builder {
	b.framebuffer = &t
	return b
}

// ModuleAlign sets the module alignment tag.
func (b *Builder) ModuleAlign(t ModuleAlignTag) *Builder {
	b.moduleAlign = &t
	return b
}

// EFIBootServices sets the EFI boot services tag.
func (b *Builder) EFIBootServices(t EFIBootServicesTag) *Builder {
	b.efiBS = &t
	return b
}

// EntryEFI32 sets the EFI i386 entry tag.
func (b *Builder) EntryEFI32(t EntryEFI32Tag) *Builder {
	b.efi32 = &t
	return b
}

// EntryEFI64 sets the EFI amd64 entry tag.
func (b *Builder) EntryEFI64(t EntryEFI64Tag) *Builder {
	b.efi64 = &t
	return b
}

// Relocatable sets the relocatable tag.
func (b *Builder) Relocatable(t RelocatableTag) *Builder {
	b.relocatable = &t
	return b
}

// Bytes encodes the header with its length and checksum filled in.
func (b *Builder) Bytes() []byte {
	var frags [][]byte
	frags = appendTag(frags, b.infoRequest)
	frags = appendTag(frags, b.address)
	frags = appendTag(frags, b.entry)
	frags = appendTag(frags, b.console)
	frags = appendTag(frags, b.framebuffer)
	frags = appendTag(frags, b.moduleAlign)
	frags = appendTag(frags, b.efiBS)
	frags = appendTag(frags, b.efi32)
	frags = appendTag(frags, b.efi64)
	frags = appendTag(frags, b.relocatable)
	frags = append(frags, NewEndTag().Bytes())

	r := record.NewBoxed[record.Record[Prologue]](Prologue{Magic: Magic, Arch: b.arch}, frags...)
	return r.Bytes()
}

// Build encodes the header and loads it back. The encoding is valid by
// construction, so a load failure is a bug and panics.
func (b *Builder) Build() *Header {
	h, err := Load(b.Bytes())
	if err != nil {
		panic(fmt.Sprintf("header: built header does not load: %v", err))
	}
	return h
}

func appendTag[T Tag[T]](frags [][]byte, t *T) [][]byte {
	if t == nil {
		return frags
	}
	return append(frags, (*t).Record().Bytes())
}
