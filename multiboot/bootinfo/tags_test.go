package bootinfo_test

import (
	"debug/elf"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/mbkit/internal/format"
	"github.com/joshuapare/mbkit/internal/testutil"
	"github.com/joshuapare/mbkit/multiboot/bootinfo"
)

func loadOne(t *testing.T, typ bootinfo.TagType, payload []byte) *bootinfo.BootInformation {
	t.Helper()
	bi, err := bootinfo.Load(testutil.MBI(testutil.InfoTag(uint32(typ), payload)))
	require.NoError(t, err)
	return bi
}

func TestTagType_String(t *testing.T) {
	require.Equal(t, "boot-loader-name", bootinfo.TagTypeBootLoaderName.String())
	require.Equal(t, "load-base-addr", bootinfo.TagTypeLoadBaseAddr.String())
	require.Equal(t, "custom(0x1000)", bootinfo.TagType(0x1000).String())
	require.True(t, bootinfo.TagType(22).IsCustom())
	require.False(t, bootinfo.TagTypeLoadBaseAddr.IsCustom())
}

func TestParseTagType(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want bootinfo.TagType
	}{
		{"mmap", bootinfo.TagTypeMmap},
		{" EFI-MMAP ", bootinfo.TagTypeEfiMmap},
		{"3", bootinfo.TagTypeModule},
		{"0x1000", 0x1000},
	} {
		got, err := bootinfo.ParseTagType(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.want, got, tc.in)
	}
	_, err := bootinfo.ParseTagType("nope")
	require.Error(t, err)
}

func TestCommandLine_Args(t *testing.T) {
	bi := loadOne(t, bootinfo.TagTypeCmdline, testutil.CString(`root=/dev/sda1 init="/bin/my init" quiet`))
	cl, err := bi.CommandLine()
	require.NoError(t, err)

	args, err := cl.Args()
	require.NoError(t, err)
	require.Equal(t, []string{"root=/dev/sda1", "init=/bin/my init", "quiet"}, args)
}

func TestCommandLine_Unbalanced(t *testing.T) {
	bi := loadOne(t, bootinfo.TagTypeCmdline, testutil.CString(`init="/bin/sh`))
	cl, err := bi.CommandLine()
	require.NoError(t, err)

	_, err = cl.Args()
	require.Error(t, err)
}

func TestStrings_Invalid(t *testing.T) {
	t.Run("missing nul", func(t *testing.T) {
		bi := loadOne(t, bootinfo.TagTypeBootLoaderName, []byte("GRUB"))
		tag, err := bi.BootLoaderName()
		require.NoError(t, err)

		_, err = tag.Name()
		require.ErrorIs(t, err, bootinfo.ErrMissingNul)
		var se *bootinfo.StringError
		require.ErrorAs(t, err, &se)
		require.Equal(t, bootinfo.TagTypeBootLoaderName, se.Tag)
	})

	t.Run("invalid utf8", func(t *testing.T) {
		bi := loadOne(t, bootinfo.TagTypeCmdline, []byte{'a', 0xff, 0xfe, 0})
		cl, err := bi.CommandLine()
		require.NoError(t, err)

		_, err = cl.CommandLine()
		require.ErrorIs(t, err, bootinfo.ErrInvalidUTF8)
		var se *bootinfo.StringError
		require.ErrorAs(t, err, &se)
		require.Equal(t, []byte{'a', 0xff, 0xfe}, se.Raw)
	})

	t.Run("stops at first nul", func(t *testing.T) {
		bi := loadOne(t, bootinfo.TagTypeCmdline, []byte("abc\x00junk\x00"))
		cl, err := bi.CommandLine()
		require.NoError(t, err)
		s, err := cl.CommandLine()
		require.NoError(t, err)
		require.Equal(t, "abc", s)
	})
}

func TestModuleTag_InvertedRange(t *testing.T) {
	bi := loadOne(t, bootinfo.TagTypeModule, append(testutil.U32s(0x2000, 0x1000), 0))
	mods, err := bi.Modules()
	require.NoError(t, err)
	require.Len(t, mods, 1)
	require.Zero(t, mods[0].Size())
}

func TestBootdev(t *testing.T) {
	bi := loadOne(t, bootinfo.TagTypeBootdev, testutil.U32s(0x80, 1, 0xffffffff))
	dev, err := bi.Bootdev()
	require.NoError(t, err)
	require.Equal(t, uint32(0x80), dev.BIOSDev())
	require.Equal(t, uint32(1), dev.Slice())
	require.Equal(t, uint32(0xffffffff), dev.Part())
}

func mmapEntry(base, length uint64, typ uint32) []byte {
	b := format.AppendU64(nil, base)
	b = format.AppendU64(b, length)
	b = format.AppendU32(b, typ)
	return format.AppendU32(b, 0)
}

func TestMemoryMap(t *testing.T) {
	payload := testutil.U32s(24, 0)
	payload = append(payload, mmapEntry(0, 0x9fc00, 1)...)
	payload = append(payload, mmapEntry(0x9fc00, 0x400, 2)...)
	payload = append(payload, mmapEntry(0x100000, 0x7ee0000, 1)...)
	bi := loadOne(t, bootinfo.TagTypeMmap, payload)

	mm, err := bi.MemoryMap()
	require.NoError(t, err)
	require.Equal(t, uint32(24), mm.EntrySize())

	areas, err := mm.Areas()
	require.NoError(t, err)
	require.Len(t, areas, 3)
	require.Equal(t, bootinfo.MemoryReserved, areas[1].Type)
	require.Equal(t, uint64(0xa0000), areas[1].End())
	require.Equal(t, "reserved", areas[1].Type.String())

	avail, err := mm.AvailableBytes()
	require.NoError(t, err)
	require.Equal(t, uint64(0x9fc00+0x7ee0000), avail)
}

func TestMemoryMap_LargerStride(t *testing.T) {
	// Entries may grow; the stride comes from entry_size.
	e := append(mmapEntry(0x1000, 0x2000, 3), 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA)
	payload := append(testutil.U32s(32, 0), e...)
	payload = append(payload, e...)
	bi := loadOne(t, bootinfo.TagTypeMmap, payload)

	mm, err := bi.MemoryMap()
	require.NoError(t, err)
	areas, err := mm.Areas()
	require.NoError(t, err)
	require.Len(t, areas, 2)
	require.Equal(t, bootinfo.MemoryACPIAvailable, areas[1].Type)
}

func TestMemoryMap_MalformedEntrySize(t *testing.T) {
	payload := append(testutil.U32s(16, 0), mmapEntry(0, 0x1000, 1)...)
	bi := loadOne(t, bootinfo.TagTypeMmap, payload)

	mm, err := bi.MemoryMap()
	require.NoError(t, err)
	_, err = mm.Areas()
	require.ErrorIs(t, err, format.ErrUnsupported)
}

func TestFramebuffer_RGB(t *testing.T) {
	ft := bootinfo.FramebufferType{
		Kind:  bootinfo.FramebufferRGB,
		Red:   bootinfo.FramebufferField{Position: 16, Size: 8},
		Green: bootinfo.FramebufferField{Position: 8, Size: 8},
		Blue:  bootinfo.FramebufferField{Position: 0, Size: 8},
	}
	fb := bootinfo.NewFramebufferTag(0xfd000000, 4096, 1024, 768, 32, ft)
	require.Equal(t, uint64(0xfd000000), fb.Address())
	require.Equal(t, uint32(768), fb.Height())
	require.Equal(t, uint8(32), fb.BPP())
	require.Equal(t, "rgb", fb.Kind().String())

	got, err := fb.BufferType()
	require.NoError(t, err)
	require.Equal(t, ft, got)
}

func TestFramebuffer_Indexed(t *testing.T) {
	ft := bootinfo.FramebufferType{
		Kind:    bootinfo.FramebufferIndexed,
		Palette: []bootinfo.FramebufferColor{{Red: 1, Green: 2, Blue: 3}, {Red: 0xff}},
	}
	fb := bootinfo.NewFramebufferTag(0xa0000, 320, 320, 200, 8, ft)
	got, err := fb.BufferType()
	require.NoError(t, err)
	require.Equal(t, ft.Palette, got.Palette)
}

func TestFramebuffer_TruncatedPalette(t *testing.T) {
	payload := format.AppendU64(nil, 0xa0000)
	payload = append(payload, testutil.U32s(320, 320, 200)...)
	payload = append(payload, 8, byte(bootinfo.FramebufferIndexed), 0, 0)
	payload = append(payload, 5, 0, 1, 2, 3) // claims 5 colors, holds 1
	bi := loadOne(t, bootinfo.TagTypeFramebuffer, payload)

	fb, err := bi.Framebuffer()
	require.NoError(t, err)
	_, err = fb.BufferType()
	require.Error(t, err)
}

func TestFramebuffer_Text(t *testing.T) {
	fb := bootinfo.NewFramebufferTag(0xb8000, 160, 80, 25, 16, bootinfo.FramebufferType{Kind: bootinfo.FramebufferText})
	got, err := fb.BufferType()
	require.NoError(t, err)
	require.Equal(t, bootinfo.FramebufferText, got.Kind)
	require.Nil(t, got.Palette)
}

func elf64Section(name uint32, typ elf.SectionType, flags elf.SectionFlag, addr, size uint64) []byte {
	b := testutil.U32s(name, uint32(typ))
	b = format.AppendU64(b, uint64(flags))
	b = format.AppendU64(b, addr)
	b = format.AppendU64(b, 0)
	b = format.AppendU64(b, size)
	b = append(b, testutil.U32s(0, 0)...)
	b = format.AppendU64(b, 16)
	return format.AppendU64(b, 0)
}

func TestElfSections(t *testing.T) {
	raw := append(make([]byte, bootinfo.ElfSection64Size),
		elf64Section(1, elf.SHT_PROGBITS, elf.SHF_ALLOC|elf.SHF_EXECINSTR, 0x100000, 0x4000)...)
	tag := bootinfo.NewElfSectionsTag(2, bootinfo.ElfSection64Size, 0, raw)

	bi, err := bootinfo.NewBuilder().ElfSections(tag).Build()
	require.NoError(t, err)
	got, err := bi.ElfSections()
	require.NoError(t, err)
	require.Equal(t, uint32(2), got.Count())

	secs, err := got.Sections()
	require.NoError(t, err)
	require.Len(t, secs, 2)
	require.False(t, secs[0].Used())
	require.True(t, secs[1].Used())
	require.Equal(t, elf.SHT_PROGBITS, secs[1].Type)
	require.Equal(t, uint64(0x100000), secs[1].Addr)
	require.Equal(t, uint64(16), secs[1].AddrAlign)
	require.NotZero(t, secs[1].Flags&elf.SHF_EXECINSTR)
}

func TestElfSections_Invalid(t *testing.T) {
	tag := bootinfo.NewElfSectionsTag(4, bootinfo.ElfSection32Size, 0, make([]byte, bootinfo.ElfSection32Size))
	_, err := tag.Sections()
	require.Error(t, err, "count exceeds the table")

	tag = bootinfo.NewElfSectionsTag(1, 12, 0, make([]byte, 12))
	_, err = tag.Sections()
	require.ErrorIs(t, err, format.ErrUnsupported)
}

func TestRSDP(t *testing.T) {
	v1 := bootinfo.NewRSDPV1Tag("MBKIT1", 0xe0000)
	require.NoError(t, v1.Verify())
	require.Equal(t, bootinfo.RSDPSignature, v1.Signature())
	require.Equal(t, "MBKIT1", v1.OEMID())
	require.Equal(t, uint32(0xe0000), v1.RSDTAddress())
	require.Zero(t, v1.Revision())

	v2 := bootinfo.NewRSDPV2Tag("MBKIT1", 0xe0000, 0x7fe0000)
	require.NoError(t, v2.Verify())
	require.Equal(t, uint8(2), v2.Revision())
	require.Equal(t, uint32(36), v2.Length())
	require.Equal(t, uint64(0x7fe0000), v2.XSDTAddress())
}

func TestRSDP_Corrupt(t *testing.T) {
	v2 := bootinfo.NewRSDPV2Tag("MBKIT1", 0xe0000, 0x7fe0000)

	data := testutil.MBI(v2.Bytes())
	data[8+32] ^= 0x01 // low byte of the XSDT address
	bi, err := bootinfo.Load(data)
	require.NoError(t, err)
	got, err := bi.RSDPV2()
	require.NoError(t, err)
	require.ErrorIs(t, got.Verify(), format.ErrChecksum)

	data = testutil.MBI(v2.Bytes())
	data[8+8] = 'X'
	bi, err = bootinfo.Load(data)
	require.NoError(t, err)
	got, err = bi.RSDPV2()
	require.NoError(t, err)
	require.ErrorIs(t, got.Verify(), format.ErrSignatureMismatch)
}

func TestVBEInfo(t *testing.T) {
	ci := append([]byte("VESA"), 0x00, 0x03)
	ci = append(ci, make([]byte, 12)...)
	ci = append(ci, 0x00, 0x01) // 256 * 64 KiB
	mi := make([]byte, 64)
	format.PutU16(mi, 16, 4096)
	format.PutU16(mi, 18, 1024)
	format.PutU16(mi, 20, 768)
	mi[25] = 32
	format.PutU32(mi, 40, 0xfd000000)

	tag := bootinfo.NewVBEInfoTag(0x118, 0xc000, 0x10, 0x20, ci, mi)
	require.Equal(t, uint16(0x118), tag.Mode())
	require.Equal(t, uint16(0x20), tag.InterfaceLength())
	require.Len(t, tag.ControlInfo(), bootinfo.VBEControlInfoSize)
	require.Len(t, tag.ModeInfo(), bootinfo.VBEModeInfoSize)

	cs := tag.ControlSummary()
	require.Equal(t, "VESA", cs.Signature)
	require.Equal(t, uint16(0x300), cs.Version)
	require.Equal(t, uint32(16*1024*1024), cs.TotalMemory)

	ms := tag.ModeSummary()
	require.Equal(t, uint16(1024), ms.Width)
	require.Equal(t, uint8(32), ms.BitsPerPixel)
	require.Equal(t, uint32(0xfd000000), ms.PhysBase)
}

func TestNewCustomTag(t *testing.T) {
	tag, err := bootinfo.NewCustomTag(0x2000, []byte("abc"))
	require.NoError(t, err)
	require.Equal(t, bootinfo.TagType(0x2000), tag.Type())
	require.Equal(t, []byte("abc"), tag.Payload())
	require.Equal(t, uint32(11), tag.Header().Size)
	require.Len(t, tag.Bytes(), 16)

	_, err = bootinfo.NewCustomTag(bootinfo.TagTypeMmap)
	require.ErrorIs(t, err, bootinfo.ErrNotCustomTag)
}
