package bootinfo

import (
	"debug/elf"
	"fmt"

	"github.com/joshuapare/mbkit/internal/buf"
	"github.com/joshuapare/mbkit/internal/format"
)

// Section header sizes for the two ELF classes.
const (
	ElfSection32Size = 40
	ElfSection64Size = 64
)

// ElfSectionsTag carries the kernel's ELF section header table. Section names
// live in the string table section in physical memory and are not resolved.
//
//	Offset  Size  Description
//	0x08    4     num
//	0x0C    4     entsize
//	0x10    4     shndx, index of the string table section
//	0x14    ...   section headers
type ElfSectionsTag struct{ tagBase }

const elfSectionsBaseSize = 20

func (ElfSectionsTag) ID() TagType   { return TagTypeElfSections }
func (ElfSectionsTag) BaseSize() int { return elfSectionsBaseSize }
func (ElfSectionsTag) DstLen(h TagHeader) (int, error) {
	return tailLen(h, elfSectionsBaseSize)
}
func (ElfSectionsTag) FromRecord(r tagRecord, _ int) ElfSectionsTag {
	return ElfSectionsTag{tagBase{r}}
}

// NewElfSectionsTag encodes num raw section headers of entSize bytes each.
func NewElfSectionsTag(num, entSize, shndx uint32, sections []byte) ElfSectionsTag {
	return boxed[ElfSectionsTag](le32(num), le32(entSize), le32(shndx), sections)
}

// Count returns the number of section headers.
func (t ElfSectionsTag) Count() uint32 { return t.u32(8) }

// EntrySize returns the size of one section header.
func (t ElfSectionsTag) EntrySize() uint32 { return t.u32(12) }

// StringTableIndex returns the index of the section name string table.
func (t ElfSectionsTag) StringTableIndex() uint32 { return t.u32(16) }

// Raw returns the undecoded section headers.
func (t ElfSectionsTag) Raw() []byte { return t.tail(elfSectionsBaseSize) }

// ElfSection is a section header, widened to 64 bits for ELF32 images.
type ElfSection struct {
	NameIndex uint32
	Type      elf.SectionType
	Flags     elf.SectionFlag
	Addr      uint64
	Offset    uint64
	Size      uint64
	Link      uint32
	Info      uint32
	AddrAlign uint64
	EntSize   uint64
}

// Used reports whether the section header describes anything.
func (s ElfSection) Used() bool { return s.Type != elf.SHT_NULL }

// Sections decodes all section headers. The class is chosen by EntrySize.
func (t ElfSectionsTag) Sections() ([]ElfSection, error) {
	stride := int(t.EntrySize())
	if stride != ElfSection32Size && stride != ElfSection64Size {
		return nil, fmt.Errorf("elf sections: entry size %d: %w", stride, format.ErrUnsupported)
	}
	raw := t.Raw()
	n := int(t.Count())
	if _, err := buf.CheckListBounds(len(raw), 0, n, stride); err != nil {
		return nil, fmt.Errorf("elf sections: %w", err)
	}
	out := make([]ElfSection, n)
	for i := range out {
		s := raw[i*stride:]
		if stride == ElfSection32Size {
			out[i] = ElfSection{
				NameIndex: format.ReadU32(s, 0),
				Type:      elf.SectionType(format.ReadU32(s, 4)),
				Flags:     elf.SectionFlag(format.ReadU32(s, 8)),
				Addr:      uint64(format.ReadU32(s, 12)),
				Offset:    uint64(format.ReadU32(s, 16)),
				Size:      uint64(format.ReadU32(s, 20)),
				Link:      format.ReadU32(s, 24),
				Info:      format.ReadU32(s, 28),
				AddrAlign: uint64(format.ReadU32(s, 32)),
				EntSize:   uint64(format.ReadU32(s, 36)),
			}
			continue
		}
		out[i] = ElfSection{
			NameIndex: format.ReadU32(s, 0),
			Type:      elf.SectionType(format.ReadU32(s, 4)),
			Flags:     elf.SectionFlag(format.ReadU64(s, 8)),
			Addr:      format.ReadU64(s, 16),
			Offset:    format.ReadU64(s, 24),
			Size:      format.ReadU64(s, 32),
			Link:      format.ReadU32(s, 40),
			Info:      format.ReadU32(s, 44),
			AddrAlign: format.ReadU64(s, 48),
			EntSize:   format.ReadU64(s, 56),
		}
	}
	return out, nil
}
