package bootinfo

import (
	"fmt"

	"github.com/joshuapare/mbkit/internal/buf"
	"github.com/joshuapare/mbkit/internal/format"
)

// FramebufferKind selects how the framebuffer's color information is encoded.
type FramebufferKind uint8

// Framebuffer kinds.
const (
	FramebufferIndexed FramebufferKind = 0
	FramebufferRGB     FramebufferKind = 1
	FramebufferText    FramebufferKind = 2
)

func (k FramebufferKind) String() string {
	switch k {
	case FramebufferIndexed:
		return "indexed"
	case FramebufferRGB:
		return "rgb"
	case FramebufferText:
		return "text"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// FramebufferColor is one palette entry.
type FramebufferColor struct {
	Red, Green, Blue uint8
}

// FramebufferField locates one color channel inside a pixel.
type FramebufferField struct {
	Position uint8 // bit offset of the channel's LSB
	Size     uint8 // channel width in bits
}

// FramebufferType is the decoded color description. Palette is set for
// indexed framebuffers, the channel fields for RGB ones.
type FramebufferType struct {
	Kind    FramebufferKind
	Palette []FramebufferColor
	Red     FramebufferField
	Green   FramebufferField
	Blue    FramebufferField
}

func (ft FramebufferType) encode() []byte {
	switch ft.Kind {
	case FramebufferIndexed:
		out := format.AppendU16(nil, uint16(len(ft.Palette)))
		for _, c := range ft.Palette {
			out = append(out, c.Red, c.Green, c.Blue)
		}
		return out
	case FramebufferRGB:
		return []byte{
			ft.Red.Position, ft.Red.Size,
			ft.Green.Position, ft.Green.Size,
			ft.Blue.Position, ft.Blue.Size,
		}
	default:
		return nil
	}
}

// FramebufferTag describes the framebuffer the bootloader set up.
//
//	Offset  Size  Description
//	0x08    8     framebuffer_addr
//	0x10    4     framebuffer_pitch
//	0x14    4     framebuffer_width
//	0x18    4     framebuffer_height
//	0x1C    1     framebuffer_bpp
//	0x1D    1     framebuffer_type
//	0x1E    2     reserved
//	0x20    ...   color info, depends on type
type FramebufferTag struct{ tagBase }

const framebufferBaseSize = 32

func (FramebufferTag) ID() TagType   { return TagTypeFramebuffer }
func (FramebufferTag) BaseSize() int { return framebufferBaseSize }
func (FramebufferTag) DstLen(h TagHeader) (int, error) {
	return tailLen(h, framebufferBaseSize)
}
func (FramebufferTag) FromRecord(r tagRecord, _ int) FramebufferTag {
	return FramebufferTag{tagBase{r}}
}

// NewFramebufferTag encodes a framebuffer description.
func NewFramebufferTag(addr uint64, pitch, width, height uint32, bpp uint8, ft FramebufferType) FramebufferTag {
	fixed := format.AppendU64(nil, addr)
	fixed = format.AppendU32(fixed, pitch)
	fixed = format.AppendU32(fixed, width)
	fixed = format.AppendU32(fixed, height)
	fixed = append(fixed, bpp, uint8(ft.Kind), 0, 0)
	return boxed[FramebufferTag](fixed, ft.encode())
}

// Address returns the physical framebuffer address.
func (t FramebufferTag) Address() uint64 { return t.u64(8) }

// Pitch returns the bytes per line.
func (t FramebufferTag) Pitch() uint32 { return t.u32(16) }

// Width returns the width in pixels, or characters for text mode.
func (t FramebufferTag) Width() uint32 { return t.u32(20) }

// Height returns the height in pixels, or characters for text mode.
func (t FramebufferTag) Height() uint32 { return t.u32(24) }

// BPP returns the bits per pixel.
func (t FramebufferTag) BPP() uint8 { return t.u8(28) }

// Kind returns the raw framebuffer type byte.
func (t FramebufferTag) Kind() FramebufferKind { return FramebufferKind(t.u8(29)) }

// BufferType decodes the color information.
func (t FramebufferTag) BufferType() (FramebufferType, error) {
	info := t.tail(framebufferBaseSize)
	switch k := t.Kind(); k {
	case FramebufferIndexed:
		if len(info) < 2 {
			return FramebufferType{}, fmt.Errorf("framebuffer palette: %w", format.ErrTruncated)
		}
		n := int(buf.U16LE(info))
		if _, err := buf.CheckListBounds(len(info), 2, n, 3); err != nil {
			return FramebufferType{}, fmt.Errorf("framebuffer palette: %w", err)
		}
		palette := make([]FramebufferColor, n)
		for i := range palette {
			c := info[2+3*i:]
			palette[i] = FramebufferColor{Red: c[0], Green: c[1], Blue: c[2]}
		}
		return FramebufferType{Kind: k, Palette: palette}, nil
	case FramebufferRGB:
		if len(info) < 6 {
			return FramebufferType{}, fmt.Errorf("framebuffer rgb fields: %w", format.ErrTruncated)
		}
		return FramebufferType{
			Kind:  k,
			Red:   FramebufferField{Position: info[0], Size: info[1]},
			Green: FramebufferField{Position: info[2], Size: info[3]},
			Blue:  FramebufferField{Position: info[4], Size: info[5]},
		}, nil
	case FramebufferText:
		return FramebufferType{Kind: k}, nil
	default:
		return FramebufferType{}, fmt.Errorf("framebuffer type %d: %w", uint8(k), format.ErrUnsupported)
	}
}
