package header

import (
	"fmt"
	"unsafe"

	"github.com/joshuapare/mbkit/internal/buf"
	"github.com/joshuapare/mbkit/internal/format"
	"github.com/joshuapare/mbkit/multiboot/record"
)

// Header is a validated Multiboot2 header. It aliases the memory it was
// loaded from.
type Header struct {
	pro  Prologue
	data []byte // exactly pro.Length bytes
	n    int
}

// Load validates the header at the start of b. b may extend past the
// declared length.
//
// Checks run in order: memory (ErrLowLevel), magic (ErrMagicNotFound),
// checksum (ErrChecksumMismatch), length (ErrTooSmall, or ErrLowLevel when it
// exceeds b), then every tag must fit inside the declared length.
func Load(b []byte) (*Header, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrLowLevel, record.ErrNull)
	}
	prologue := b
	if len(prologue) > format.HeaderPrologueSize {
		prologue = prologue[:format.HeaderPrologueSize]
	}
	// The prologue is a multiple of 8, so only length and alignment can fail.
	if _, err := record.NewBytesRef[Prologue](prologue); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLowLevel, err)
	}

	var zero Prologue
	p := zero.Decode(b)
	if p.Magic != Magic {
		return nil, fmt.Errorf("%w: got %#x", ErrMagicNotFound, p.Magic)
	}
	if !p.VerifyChecksum() {
		return nil, fmt.Errorf("%w: checksum %#x, want %#x",
			ErrChecksumMismatch, p.Checksum, CalcChecksum(p.Magic, p.Arch, p.Length))
	}
	length := p.TotalSize()
	if length < format.HeaderPrologueSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, length)
	}
	if length > len(b) {
		return nil, fmt.Errorf("%w: %w: length %d exceeds the %d bytes provided",
			ErrLowLevel, record.ErrInvalidReportedTotalSize, length, len(b))
	}
	ref, err := record.NewBytesRef[Prologue](b[:length])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLowLevel, err)
	}
	data := ref.Bytes()

	n, _, err := record.Walk[TagHeader](data[format.HeaderPrologueSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: tag %d: %w", ErrLowLevel, n, err)
	}
	return &Header{pro: p, data: data, n: n}, nil
}

// LoadPtr validates the header at p. It reads the prologue first and then
// behaves like Load over the declared length.
//
// The caller guarantees that p points to at least the declared length of
// readable memory.
func LoadPtr(p unsafe.Pointer) (*Header, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: %w", ErrLowLevel, record.ErrNull)
	}
	if !format.IsAligned8Addr(uintptr(p)) {
		return nil, fmt.Errorf("%w: %w: address %#x", ErrLowLevel, record.ErrWrongAlignment, uintptr(p))
	}
	prologue, err := record.PtrBytes(p, format.HeaderPrologueSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLowLevel, err)
	}
	var zero Prologue
	pro := zero.Decode(prologue)
	if pro.Magic != Magic {
		return nil, fmt.Errorf("%w: got %#x", ErrMagicNotFound, pro.Magic)
	}
	if !pro.VerifyChecksum() {
		return nil, fmt.Errorf("%w: checksum %#x", ErrChecksumMismatch, pro.Checksum)
	}
	if pro.TotalSize() < format.HeaderPrologueSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooSmall, pro.TotalSize())
	}
	b, err := record.PtrBytes(p, pro.TotalSize())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLowLevel, err)
	}
	return Load(b)
}

// Find scans the first 32 KiB of image for a header: the magic at an 8-byte
// aligned offset, a valid checksum, and a length that fits in image. It
// returns the offset and the header's bytes. The bytes share image's memory
// and are aligned only when image is; LoadImage handles that.
func Find(image []byte) (off int, hdr []byte, ok bool) {
	limit := min(len(image), format.HeaderSearchLimit)
	for off = 0; off+format.HeaderPrologueSize <= limit; off += format.Alignment {
		if format.ReadU32(image, off) != Magic {
			continue
		}
		var zero Prologue
		p := zero.Decode(image[off:])
		if !p.VerifyChecksum() || p.TotalSize() < format.HeaderPrologueSize {
			continue
		}
		end, fits := buf.AddOverflowSafe(off, p.TotalSize())
		if !fits || end > len(image) {
			continue
		}
		return off, image[off:end], true
	}
	return 0, nil, false
}

// LoadImage finds and loads the header embedded in a kernel image. The header
// is copied to an aligned buffer when image itself is misaligned. It returns
// ErrMagicNotFound when Find comes up empty.
func LoadImage(image []byte) (*Header, error) {
	_, hdr, ok := Find(image)
	if !ok {
		return nil, fmt.Errorf("%w: no header in the first %d bytes", ErrMagicNotFound, format.HeaderSearchLimit)
	}
	if !format.IsAligned8Addr(buf.Addr(hdr)) {
		hdr = buf.AlignedCopy(hdr)
	}
	return Load(hdr)
}

// Prologue returns the decoded prologue.
func (h *Header) Prologue() Prologue { return h.pro }

// Arch returns the requested architecture.
func (h *Header) Arch() ISA { return h.pro.Arch }

// Length returns the declared header length.
func (h *Header) Length() uint32 { return h.pro.Length }

// Checksum returns the stored checksum.
func (h *Header) Checksum() uint32 { return h.pro.Checksum }

// Bytes returns the header's bytes.
func (h *Header) Bytes() []byte { return h.data }

// TagCount returns the number of tags, end tag included.
func (h *Header) TagCount() int { return h.n }

// Tags returns a fresh iterator over all tags. The end tag is yielded like
// any other.
func (h *Header) Tags() *record.Iter[TagHeader] {
	return record.NewIter[TagHeader](h.data[format.HeaderPrologueSize:])
}

// HasEndTag reports whether the last tag is an end tag.
func (h *Header) HasEndTag() bool {
	var last TagHeader
	for r := range h.Tags().All() {
		last = r.Header()
	}
	return h.n > 0 && last.Type == TagTypeEnd && last.Size == format.EndTagSize
}

// GetTag returns the first tag of type T, or an error wrapping
// record.ErrNotFound.
func GetTag[T Tag[T]](h *Header) (T, error) {
	return record.Find[T](h.Tags(), tagType)
}

// InformationRequest returns the information request tag.
func (h *Header) InformationRequest() (InformationRequestTag, error) {
	return GetTag[InformationRequestTag](h)
}

// Address returns the address tag.
func (h *Header) Address() (AddressTag, error) { return GetTag[AddressTag](h) }

// EntryAddress returns the i386 entry address tag.
func (h *Header) EntryAddress() (EntryAddressTag, error) { return GetTag[EntryAddressTag](h) }

// Console returns the console flags tag.
func (h *Header) Console() (ConsoleTag, error) { return GetTag[ConsoleTag](h) }

// Framebuffer returns the framebuffer tag.
func (h *Header) Framebuffer() (FramebufferTag, error) { return GetTag[FramebufferTag](h) }

// ModuleAlign returns the module alignment tag.
func (h *Header) ModuleAlign() (ModuleAlignTag, error) { return GetTag[ModuleAlignTag](h) }

// EFIBootServices returns the EFI boot services tag.
func (h *Header) EFIBootServices() (EFIBootServicesTag, error) {
	return GetTag[EFIBootServicesTag](h)
}

// EntryEFI32 returns the EFI i386 entry tag.
func (h *Header) EntryEFI32() (EntryEFI32Tag, error) { return GetTag[EntryEFI32Tag](h) }

// EntryEFI64 returns the EFI amd64 entry tag.
func (h *Header) EntryEFI64() (EntryEFI64Tag, error) { return GetTag[EntryEFI64Tag](h) }

// Relocatable returns the relocatable tag.
func (h *Header) Relocatable() (RelocatableTag, error) { return GetTag[RelocatableTag](h) }
