package header

import (
	"fmt"

	"github.com/joshuapare/mbkit/internal/format"
)

// Magic identifies a Multiboot2 header.
const Magic = format.HeaderMagic

// ISA is the CPU architecture and mode the kernel expects.
type ISA uint32

// Architectures defined by Multiboot2.
const (
	// ISAI386 is 32-bit protected mode on i386. An EFI64 entry tag still
	// boots into long mode, so read it as x86 in general.
	ISAI386   ISA = 0
	ISAMIPS32 ISA = 4
)

func (a ISA) String() string {
	switch a {
	case ISAI386:
		return "i386"
	case ISAMIPS32:
		return "mips32"
	default:
		return fmt.Sprintf("unknown(%d)", uint32(a))
	}
}

// CalcChecksum returns the value that makes magic+arch+length+checksum wrap
// to zero.
func CalcChecksum(magic uint32, arch ISA, length uint32) uint32 {
	return -(magic + uint32(arch) + length)
}

// Prologue is the fixed start of the header.
type Prologue struct {
	Magic    uint32
	Arch     ISA
	Length   uint32
	Checksum uint32
}

// HeaderLen implements record.Header.
func (Prologue) HeaderLen() int { return format.HeaderPrologueSize }

// TotalSize implements record.Header.
func (p Prologue) TotalSize() int { return int(p.Length) }

// WithSize implements record.Header. The checksum is recomputed.
func (p Prologue) WithSize(total int) Prologue {
	p.Length = uint32(total)
	p.Checksum = CalcChecksum(p.Magic, p.Arch, p.Length)
	return p
}

// Decode implements record.Header.
func (Prologue) Decode(b []byte) Prologue {
	return Prologue{
		Magic:    format.ReadU32(b, format.HeaderMagicOffset),
		Arch:     ISA(format.ReadU32(b, format.HeaderArchOffset)),
		Length:   format.ReadU32(b, format.HeaderLengthOffset),
		Checksum: format.ReadU32(b, format.HeaderChecksumOffset),
	}
}

// AppendTo implements record.Header.
func (p Prologue) AppendTo(b []byte) []byte {
	b = format.AppendU32(b, p.Magic)
	b = format.AppendU32(b, uint32(p.Arch))
	b = format.AppendU32(b, p.Length)
	return format.AppendU32(b, p.Checksum)
}

// VerifyChecksum reports whether the four fields sum to zero.
func (p Prologue) VerifyChecksum() bool {
	return p.Checksum == CalcChecksum(p.Magic, p.Arch, p.Length)
}
