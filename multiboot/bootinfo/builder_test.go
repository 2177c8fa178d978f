package bootinfo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/mbkit/multiboot/bootinfo"
	"github.com/joshuapare/mbkit/multiboot/record"
)

func TestBuilder_Empty(t *testing.T) {
	data, err := bootinfo.NewBuilder().Bytes()
	require.NoError(t, err)
	require.Equal(t, []byte{16, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 8, 0, 0, 0}, data)
}

func TestBuilder_AllTags(t *testing.T) {
	custom, err := bootinfo.NewCustomTag(0x4000, []byte{1, 2, 3})
	require.NoError(t, err)

	b := bootinfo.NewBuilder().
		// Setters in reverse of emission order.
		AddCustom(custom.Record()).
		ImageLoadPhysAddr(bootinfo.NewImageLoadPhysAddrTag(0x200000)).
		EFIImageHandle64(bootinfo.NewEFIImageHandle64Tag(0xffff800000001000)).
		EFIImageHandle32(bootinfo.NewEFIImageHandle32Tag(0x1000)).
		Network(bootinfo.NewNetworkTag([]byte{0x02, 0x01, 0x06, 0x00})).
		RSDPV2(bootinfo.NewRSDPV2Tag("MBKIT1", 0xe0000, 0x7fe0000)).
		RSDPV1(bootinfo.NewRSDPV1Tag("MBKIT1", 0xe0000)).
		AddSmbios(bootinfo.NewSmbiosTag(3, 4, []byte("_SM3_"))).
		EFISdt64(bootinfo.NewEFISdt64Tag(0x7f000000)).
		EFISdt32(bootinfo.NewEFISdt32Tag(0x7f0000)).
		APM(bootinfo.NewAPMTag(bootinfo.APMTable{Version: 0x102, CSeg: 0xf000, Offset: 0x1234, DSegLen: 0x10})).
		ElfSections(bootinfo.NewElfSectionsTag(0, bootinfo.ElfSection32Size, 0, nil)).
		Framebuffer(bootinfo.NewFramebufferTag(0xb8000, 160, 80, 25, 16, bootinfo.FramebufferType{Kind: bootinfo.FramebufferText})).
		VBEInfo(bootinfo.NewVBEInfoTag(3, 0, 0, 0, nil, nil)).
		MemoryMap(bootinfo.NewMemoryMapTag([]bootinfo.MemoryArea{
			{Base: 0, Length: 0x9fc00, Type: bootinfo.MemoryAvailable},
			{Base: 0x100000, Length: 0x1000000, Type: bootinfo.MemoryAvailable},
		})).
		Bootdev(bootinfo.NewBootdevTag(0x80, 0, 0xffffffff)).
		BasicMemoryInfo(bootinfo.NewBasicMemoryInfoTag(639, 65536)).
		AddModule(bootinfo.NewModuleTag(0x400000, 0x500000, "initrd")).
		AddModule(bootinfo.NewModuleTag(0x500000, 0x501000, "microcode --early")).
		BootLoaderName(bootinfo.NewBootLoaderNameTag("mbkit")).
		CommandLine(bootinfo.NewCommandLineTag("console=ttyS0 quiet"))

	bi, err := b.Build()
	require.NoError(t, err)

	var order []bootinfo.TagType
	it := bi.Tags()
	for r := range it.All() {
		order = append(order, r.Header().Type)
	}
	require.NoError(t, it.Err())
	require.Equal(t, []bootinfo.TagType{
		bootinfo.TagTypeCmdline, bootinfo.TagTypeBootLoaderName,
		bootinfo.TagTypeModule, bootinfo.TagTypeModule,
		bootinfo.TagTypeBasicMeminfo, bootinfo.TagTypeBootdev, bootinfo.TagTypeMmap,
		bootinfo.TagTypeVbe, bootinfo.TagTypeFramebuffer, bootinfo.TagTypeElfSections,
		bootinfo.TagTypeApm, bootinfo.TagTypeEfi32, bootinfo.TagTypeEfi64,
		bootinfo.TagTypeSmbios, bootinfo.TagTypeAcpiV1, bootinfo.TagTypeAcpiV2,
		bootinfo.TagTypeNetwork, bootinfo.TagTypeEfi32Ih, bootinfo.TagTypeEfi64Ih,
		bootinfo.TagTypeLoadBaseAddr, 0x4000,
	}, order)
	require.Equal(t, len(order), bi.TagCount())

	cl, err := bi.CommandLine()
	require.NoError(t, err)
	s, err := cl.CommandLine()
	require.NoError(t, err)
	require.Equal(t, "console=ttyS0 quiet", s)

	mods, err := bi.Modules()
	require.NoError(t, err)
	require.Len(t, mods, 2)
	args, err := mods[1].Args()
	require.NoError(t, err)
	require.Equal(t, []string{"microcode", "--early"}, args)

	mem, err := bi.BasicMemoryInfo()
	require.NoError(t, err)
	require.Equal(t, uint32(65536), mem.Upper())

	mm, err := bi.MemoryMap()
	require.NoError(t, err)
	areas, err := mm.Areas()
	require.NoError(t, err)
	require.Len(t, areas, 2)
	require.Equal(t, uint64(0x1000000), areas[1].Length)

	vbe, err := bi.VBEInfo()
	require.NoError(t, err)
	require.Equal(t, uint16(3), vbe.Mode())

	fb, err := bi.Framebuffer()
	require.NoError(t, err)
	require.Equal(t, bootinfo.FramebufferText, fb.Kind())

	apm, err := bi.APM()
	require.NoError(t, err)
	require.Equal(t, bootinfo.APMTable{Version: 0x102, CSeg: 0xf000, Offset: 0x1234, DSegLen: 0x10}, apm.Table())

	e32, err := bi.EFISdt32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x7f0000), e32.SystemTable())
	e64, err := bi.EFISdt64()
	require.NoError(t, err)
	require.Equal(t, uint64(0x7f000000), e64.SystemTable())

	v1, err := bi.RSDPV1()
	require.NoError(t, err)
	require.NoError(t, v1.Verify())
	v2, err := bi.RSDPV2()
	require.NoError(t, err)
	require.NoError(t, v2.Verify())

	net, err := bi.Network()
	require.NoError(t, err)
	require.Equal(t, []byte{0x02, 0x01, 0x06, 0x00}, net.DHCPAck())

	ih32, err := bi.EFIImageHandle32()
	require.NoError(t, err)
	require.Equal(t, uint32(0x1000), ih32.Handle())
	ih64, err := bi.EFIImageHandle64()
	require.NoError(t, err)
	require.Equal(t, uint64(0xffff800000001000), ih64.Handle())

	load, err := bi.ImageLoadPhysAddr()
	require.NoError(t, err)
	require.Equal(t, uint32(0x200000), load.LoadBaseAddr())

	_, err = bi.Bootdev()
	require.NoError(t, err)
	_, err = bi.ElfSections()
	require.NoError(t, err)

	// The encoding is stable: loading the bytes again yields the same tags.
	again, err := bootinfo.Load(bi.Bytes())
	require.NoError(t, err)
	require.Equal(t, bi.TagCount(), again.TagCount())
}

func TestBuilder_RejectsReservedCustomType(t *testing.T) {
	_, err := bootinfo.NewBuilder().
		AddCustom(bootinfo.NewCommandLineTag("x").Record()).
		Build()
	require.ErrorIs(t, err, bootinfo.ErrNotCustomTag)
}

func TestBuilder_AddCustomTag(t *testing.T) {
	vt := record.NewBoxed[vendorTag](bootinfo.TagHeader{Type: vendorTag{}.ID()}, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	bi, err := bootinfo.AddCustomTag(bootinfo.NewBuilder(), vt).Build()
	require.NoError(t, err)

	got, err := bootinfo.GetTag[vendorTag](bi)
	require.NoError(t, err)
	require.Equal(t, uint64(0x0807060504030201), got.Magic())
}

func TestCloneDyn_Tag(t *testing.T) {
	orig := bootinfo.NewModuleTag(0x1000, 0x2000, "kernel")
	clone := record.CloneDyn[bootinfo.ModuleTag, bootinfo.TagHeader](orig)
	require.Equal(t, orig.Bytes(), clone.Bytes())
	require.NotSame(t, &orig.Bytes()[0], &clone.Bytes()[0])
}
