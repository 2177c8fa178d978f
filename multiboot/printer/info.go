package printer

import (
	"fmt"

	"github.com/joshuapare/mbkit/internal/format"
	"github.com/joshuapare/mbkit/multiboot/bootinfo"
	"github.com/joshuapare/mbkit/multiboot/record"
)

// SummarizeInfo builds the summary of a boot information structure. Tags
// whose fields fail to decode are still listed, with the errors attached.
func SummarizeInfo(bi *bootinfo.BootInformation, opts Options) (Summary, error) {
	want, err := infoTypeFilter(opts.Types)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{
		Kind: "boot-information",
		Fields: Fields{
			{"total_size", bi.TotalSize()},
			{"tag_count", bi.TagCount()},
		},
		Tags: []TagSummary{},
	}

	it := bi.Tags()
	off := format.InfoHeaderSize
	for r := range it.All() {
		h := r.Header()
		if want == nil || want[h.Type] {
			ts := TagSummary{Type: h.Type.String(), ID: uint32(h.Type), Offset: off, Size: h.Size}
			if opts.ShowFields {
				fs := &fieldSet{maxBytes: opts.MaxDataBytes}
				describeInfoTag(fs, r)
				ts.Fields, ts.Errors = fs.fields, fs.errs
			}
			s.Tags = append(s.Tags, ts)
		}
		off += r.Len()
	}
	if err := it.Err(); err != nil {
		return Summary{}, err
	}
	return s, nil
}

func infoTypeFilter(names []string) (map[bootinfo.TagType]bool, error) {
	if len(names) == 0 {
		return nil, nil
	}
	want := make(map[bootinfo.TagType]bool, len(names))
	for _, n := range names {
		t, err := bootinfo.ParseTagType(n)
		if err != nil {
			return nil, err
		}
		want[t] = true
	}
	return want, nil
}

// cast narrows r to T, recording a failure on fs.
func castInfo[T bootinfo.Tag[T]](fs *fieldSet, r record.Record[bootinfo.TagHeader]) (T, bool) {
	t, err := record.Cast[T](r)
	if err != nil {
		fs.fail(err)
		return t, false
	}
	return t, true
}

func describeInfoTag(fs *fieldSet, r record.Record[bootinfo.TagHeader]) {
	switch typ := r.Header().Type; typ {
	case bootinfo.TagTypeCmdline:
		if t, ok := castInfo[bootinfo.CommandLineTag](fs, r); ok {
			v, err := t.CommandLine()
			fs.str("command_line", v, err)
		}
	case bootinfo.TagTypeBootLoaderName:
		if t, ok := castInfo[bootinfo.BootLoaderNameTag](fs, r); ok {
			v, err := t.Name()
			fs.str("name", v, err)
		}
	case bootinfo.TagTypeModule:
		if t, ok := castInfo[bootinfo.ModuleTag](fs, r); ok {
			fs.hex("start", uint64(t.Start()))
			fs.hex("end", uint64(t.End()))
			fs.add("size", t.Size())
			v, err := t.CommandLine()
			fs.str("command_line", v, err)
		}
	case bootinfo.TagTypeBasicMeminfo:
		if t, ok := castInfo[bootinfo.BasicMemoryInfoTag](fs, r); ok {
			fs.add("lower_kib", t.Lower())
			fs.add("upper_kib", t.Upper())
		}
	case bootinfo.TagTypeBootdev:
		if t, ok := castInfo[bootinfo.BootdevTag](fs, r); ok {
			fs.hex("bios_dev", uint64(t.BIOSDev()))
			fs.hex("slice", uint64(t.Slice()))
			fs.hex("part", uint64(t.Part()))
		}
	case bootinfo.TagTypeMmap:
		if t, ok := castInfo[bootinfo.MemoryMapTag](fs, r); ok {
			describeMemoryMap(fs, t)
		}
	case bootinfo.TagTypeVbe:
		if t, ok := castInfo[bootinfo.VBEInfoTag](fs, r); ok {
			fs.hex("mode", uint64(t.Mode()))
			fs.hex("interface_seg", uint64(t.InterfaceSegment()))
			fs.hex("interface_off", uint64(t.InterfaceOffset()))
			fs.add("interface_len", t.InterfaceLength())
			cs := t.ControlSummary()
			fs.add("signature", cs.Signature)
			fs.hex("version", uint64(cs.Version))
			fs.add("total_memory", cs.TotalMemory)
			ms := t.ModeSummary()
			fs.add("resolution", fmt.Sprintf("%dx%dx%d", ms.Width, ms.Height, ms.BitsPerPixel))
			fs.hex("phys_base", uint64(ms.PhysBase))
		}
	case bootinfo.TagTypeFramebuffer:
		if t, ok := castInfo[bootinfo.FramebufferTag](fs, r); ok {
			describeFramebuffer(fs, t)
		}
	case bootinfo.TagTypeElfSections:
		if t, ok := castInfo[bootinfo.ElfSectionsTag](fs, r); ok {
			describeElfSections(fs, t)
		}
	case bootinfo.TagTypeApm:
		if t, ok := castInfo[bootinfo.APMTag](fs, r); ok {
			a := t.Table()
			fs.hex("version", uint64(a.Version))
			fs.hex("cseg", uint64(a.CSeg))
			fs.hex("offset", uint64(a.Offset))
			fs.hex("cseg_16", uint64(a.CSeg16))
			fs.hex("dseg", uint64(a.DSeg))
			fs.hex("flags", uint64(a.Flags))
			fs.add("cseg_len", a.CSegLen)
			fs.add("cseg_16_len", a.CSeg16Len)
			fs.add("dseg_len", a.DSegLen)
		}
	case bootinfo.TagTypeEfi32:
		if t, ok := castInfo[bootinfo.EFISdt32Tag](fs, r); ok {
			fs.hex("system_table", uint64(t.SystemTable()))
		}
	case bootinfo.TagTypeEfi64:
		if t, ok := castInfo[bootinfo.EFISdt64Tag](fs, r); ok {
			fs.hex("system_table", t.SystemTable())
		}
	case bootinfo.TagTypeSmbios:
		if t, ok := castInfo[bootinfo.SmbiosTag](fs, r); ok {
			fs.add("version", fmt.Sprintf("%d.%d", t.Major(), t.Minor()))
			fs.data("tables", t.Tables())
		}
	case bootinfo.TagTypeAcpiV1:
		if t, ok := castInfo[bootinfo.RSDPV1Tag](fs, r); ok {
			fs.add("oem_id", t.OEMID())
			fs.add("revision", t.Revision())
			fs.hex("rsdt", uint64(t.RSDTAddress()))
			verify(fs, t.Verify())
		}
	case bootinfo.TagTypeAcpiV2:
		if t, ok := castInfo[bootinfo.RSDPV2Tag](fs, r); ok {
			fs.add("oem_id", t.OEMID())
			fs.add("revision", t.Revision())
			fs.hex("rsdt", uint64(t.RSDTAddress()))
			fs.hex("xsdt", t.XSDTAddress())
			fs.add("length", t.Length())
			verify(fs, t.Verify())
		}
	case bootinfo.TagTypeNetwork:
		if t, ok := castInfo[bootinfo.NetworkTag](fs, r); ok {
			fs.data("dhcp_ack", t.DHCPAck())
		}
	case bootinfo.TagTypeEfiMmap:
		if t, ok := castInfo[bootinfo.EFIMemoryMapTag](fs, r); ok {
			describeEFIMemoryMap(fs, t)
		}
	case bootinfo.TagTypeEfiBs:
	case bootinfo.TagTypeEfi32Ih:
		if t, ok := castInfo[bootinfo.EFIImageHandle32Tag](fs, r); ok {
			fs.hex("handle", uint64(t.Handle()))
		}
	case bootinfo.TagTypeEfi64Ih:
		if t, ok := castInfo[bootinfo.EFIImageHandle64Tag](fs, r); ok {
			fs.hex("handle", t.Handle())
		}
	case bootinfo.TagTypeLoadBaseAddr:
		if t, ok := castInfo[bootinfo.ImageLoadPhysAddrTag](fs, r); ok {
			fs.hex("load_base_addr", uint64(t.LoadBaseAddr()))
		}
	default:
		fs.data("payload", r.Payload())
	}
}

func verify(fs *fieldSet, err error) {
	fs.add("valid", err == nil)
	if err != nil {
		fs.fail(err)
	}
}

func describeMemoryMap(fs *fieldSet, t bootinfo.MemoryMapTag) {
	fs.add("entry_size", t.EntrySize())
	fs.add("entry_version", t.EntryVersion())
	areas, err := t.Areas()
	if err != nil {
		fs.fail(err)
		return
	}
	lines := make([]string, len(areas))
	for i, a := range areas {
		lines[i] = fmt.Sprintf("%#016x-%#016x %s", a.Base, a.End(), a.Type)
	}
	fs.add("areas", lines)
	if avail, err := t.AvailableBytes(); err == nil {
		fs.add("available_bytes", avail)
	}
}

func describeEFIMemoryMap(fs *fieldSet, t bootinfo.EFIMemoryMapTag) {
	fs.add("desc_size", t.DescSize())
	fs.add("desc_version", t.DescVersion())
	descs, err := t.Descriptors()
	if err != nil {
		fs.fail(err)
		return
	}
	lines := make([]string, len(descs))
	for i, d := range descs {
		lines[i] = fmt.Sprintf("%#016x pages=%d %s attr=%#x", d.PhysStart, d.Pages, d.Type, d.Attribute)
	}
	fs.add("descriptors", lines)
}

func describeFramebuffer(fs *fieldSet, t bootinfo.FramebufferTag) {
	fs.hex("address", t.Address())
	fs.add("pitch", t.Pitch())
	fs.add("width", t.Width())
	fs.add("height", t.Height())
	fs.add("bpp", t.BPP())
	fs.add("kind", t.Kind().String())
	ft, err := t.BufferType()
	if err != nil {
		fs.fail(err)
		return
	}
	switch ft.Kind {
	case bootinfo.FramebufferIndexed:
		fs.add("palette_size", len(ft.Palette))
	case bootinfo.FramebufferRGB:
		fs.add("red", fmt.Sprintf("%d:%d", ft.Red.Position, ft.Red.Size))
		fs.add("green", fmt.Sprintf("%d:%d", ft.Green.Position, ft.Green.Size))
		fs.add("blue", fmt.Sprintf("%d:%d", ft.Blue.Position, ft.Blue.Size))
	}
}

func describeElfSections(fs *fieldSet, t bootinfo.ElfSectionsTag) {
	fs.add("count", t.Count())
	fs.add("entry_size", t.EntrySize())
	fs.add("string_table_index", t.StringTableIndex())
	secs, err := t.Sections()
	if err != nil {
		fs.fail(err)
		return
	}
	lines := []string{}
	for i, s := range secs {
		if !s.Used() {
			continue
		}
		lines = append(lines, fmt.Sprintf("[%d] %s addr=%#x size=%#x flags=%s", i, s.Type, s.Addr, s.Size, s.Flags))
	}
	fs.add("sections", lines)
}
