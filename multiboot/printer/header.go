package printer

import (
	"github.com/joshuapare/mbkit/internal/format"
	"github.com/joshuapare/mbkit/multiboot/header"
	"github.com/joshuapare/mbkit/multiboot/record"
)

// SummarizeHeader builds the summary of a kernel header.
func SummarizeHeader(h *header.Header, opts Options) (Summary, error) {
	want := map[header.TagType]bool(nil)
	if len(opts.Types) > 0 {
		want = make(map[header.TagType]bool, len(opts.Types))
		for _, n := range opts.Types {
			t, err := header.ParseTagType(n)
			if err != nil {
				return Summary{}, err
			}
			want[t] = true
		}
	}

	pro := h.Prologue()
	fs := &fieldSet{}
	fs.hex("magic", uint64(pro.Magic))
	fs.add("arch", pro.Arch.String())
	fs.add("length", pro.Length)
	fs.hex("checksum", uint64(pro.Checksum))
	fs.add("checksum_valid", pro.VerifyChecksum())
	s := Summary{Kind: "header", Fields: fs.fields, Tags: []TagSummary{}}

	it := h.Tags()
	off := format.HeaderPrologueSize
	for r := range it.All() {
		th := r.Header()
		if want == nil || want[th.Type] {
			ts := TagSummary{
				Type:   th.Type.String(),
				ID:     uint32(th.Type),
				Offset: off,
				Size:   th.Size,
				Flags:  th.Flags.String(),
			}
			if opts.ShowFields {
				fs := &fieldSet{maxBytes: opts.MaxDataBytes}
				describeHeaderTag(fs, r)
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

func castHeader[T header.Tag[T]](fs *fieldSet, r record.Record[header.TagHeader]) (T, bool) {
	t, err := record.Cast[T](r)
	if err != nil {
		fs.fail(err)
		return t, false
	}
	return t, true
}

func describeHeaderTag(fs *fieldSet, r record.Record[header.TagHeader]) {
	switch r.Header().Type {
	case header.TagTypeEnd, header.TagTypeModuleAlign, header.TagTypeEfiBS:
	case header.TagTypeInformationRequest:
		if t, ok := castHeader[header.InformationRequestTag](fs, r); ok {
			reqs := t.Requests()
			names := make([]string, len(reqs))
			for i, q := range reqs {
				names[i] = q.String()
			}
			fs.add("requests", names)
		}
	case header.TagTypeAddress:
		if t, ok := castHeader[header.AddressTag](fs, r); ok {
			fs.hex("header_addr", uint64(t.HeaderAddr()))
			fs.hex("load_addr", uint64(t.LoadAddr()))
			fs.hex("load_end_addr", uint64(t.LoadEndAddr()))
			fs.hex("bss_end_addr", uint64(t.BSSEndAddr()))
		}
	case header.TagTypeEntryAddress:
		if t, ok := castHeader[header.EntryAddressTag](fs, r); ok {
			fs.hex("entry_addr", uint64(t.EntryAddr()))
		}
	case header.TagTypeConsoleFlags:
		if t, ok := castHeader[header.ConsoleTag](fs, r); ok {
			fs.add("console", t.Console().String())
		}
	case header.TagTypeFramebuffer:
		if t, ok := castHeader[header.FramebufferTag](fs, r); ok {
			fs.add("width", t.Width())
			fs.add("height", t.Height())
			fs.add("depth", t.Depth())
		}
	case header.TagTypeEntryAddressEFI32:
		if t, ok := castHeader[header.EntryEFI32Tag](fs, r); ok {
			fs.hex("entry_addr", uint64(t.EntryAddr()))
		}
	case header.TagTypeEntryAddressEFI64:
		if t, ok := castHeader[header.EntryEFI64Tag](fs, r); ok {
			fs.hex("entry_addr", uint64(t.EntryAddr()))
		}
	case header.TagTypeRelocatable:
		if t, ok := castHeader[header.RelocatableTag](fs, r); ok {
			fs.hex("min_addr", uint64(t.MinAddr()))
			fs.hex("max_addr", uint64(t.MaxAddr()))
			fs.hex("align", uint64(t.Align()))
			fs.add("preference", t.Preference().String())
		}
	default:
		fs.data("payload", r.Payload())
	}
}
