package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/joshuapare/mbkit/multiboot/bootinfo"
	"github.com/joshuapare/mbkit/multiboot/header"
)

type infoFileConfig struct {
	CommandLine      string            `toml:"command_line"`
	BootLoaderName   string            `toml:"boot_loader_name"`
	Modules          []moduleConfig    `toml:"module"`
	BasicMeminfo     meminfoConfig     `toml:"basic_meminfo"`
	Bootdev          bootdevConfig     `toml:"bootdev"`
	Mmap             []mmapConfig      `toml:"mmap"`
	Framebuffer      framebufferConfig `toml:"framebuffer"`
	EFI32            uint32            `toml:"efi32"`
	EFI64            uint64            `toml:"efi64"`
	Smbios           []smbiosConfig    `toml:"smbios"`
	RSDP             rsdpConfig        `toml:"rsdp"`
	Network          string            `toml:"network"`
	EFIMmap          []efiMmapConfig   `toml:"efi_mmap"`
	EFIBootServices  bool              `toml:"efi_boot_services"`
	EFIImageHandle32 uint32            `toml:"efi32_image_handle"`
	EFIImageHandle64 uint64            `toml:"efi64_image_handle"`
	LoadBaseAddr     uint32            `toml:"load_base_addr"`
	Custom           []customConfig    `toml:"custom"`
}

type moduleConfig struct {
	Start       uint32 `toml:"start"`
	End         uint32 `toml:"end"`
	CommandLine string `toml:"command_line"`
}

type meminfoConfig struct {
	Lower uint32 `toml:"lower"`
	Upper uint32 `toml:"upper"`
}

type bootdevConfig struct {
	BIOSDev uint32 `toml:"bios_dev"`
	Slice   uint32 `toml:"slice"`
	Part    uint32 `toml:"part"`
}

type mmapConfig struct {
	Base   uint64 `toml:"base"`
	Length uint64 `toml:"length"`
	Type   string `toml:"type"`
}

type framebufferConfig struct {
	Address uint64     `toml:"address"`
	Pitch   uint32     `toml:"pitch"`
	Width   uint32     `toml:"width"`
	Height  uint32     `toml:"height"`
	BPP     uint8      `toml:"bpp"`
	Kind    string     `toml:"kind"`
	Red     [2]uint8   `toml:"red"`
	Green   [2]uint8   `toml:"green"`
	Blue    [2]uint8   `toml:"blue"`
	Palette [][3]uint8 `toml:"palette"`
}

type smbiosConfig struct {
	Major  uint8  `toml:"major"`
	Minor  uint8  `toml:"minor"`
	Tables string `toml:"tables"`
}

type rsdpConfig struct {
	OEMID string `toml:"oem_id"`
	RSDT  uint32 `toml:"rsdt"`
	XSDT  uint64 `toml:"xsdt"`
}

type efiMmapConfig struct {
	Type      string `toml:"type"`
	PhysStart uint64 `toml:"phys_start"`
	VirtStart uint64 `toml:"virt_start"`
	Pages     uint64 `toml:"pages"`
	Attribute uint64 `toml:"attribute"`
}

type customConfig struct {
	Type    uint32 `toml:"type"`
	Payload string `toml:"payload"`
}

// loadInfoConfig reads a boot information description and turns it into a
// builder. Tables that are absent produce no tag.
func loadInfoConfig(path string) (*bootinfo.Builder, error) {
	var raw infoFileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load info config: %w", err)
	}
	if err := rejectUndecoded(meta); err != nil {
		return nil, err
	}

	b := bootinfo.NewBuilder()

	if meta.IsDefined("command_line") {
		b.CommandLine(bootinfo.NewCommandLineTag(raw.CommandLine))
	}
	if meta.IsDefined("boot_loader_name") {
		b.BootLoaderName(bootinfo.NewBootLoaderNameTag(strings.TrimSpace(raw.BootLoaderName)))
	}
	for _, m := range raw.Modules {
		b.AddModule(bootinfo.NewModuleTag(m.Start, m.End, m.CommandLine))
	}
	if meta.IsDefined("basic_meminfo") {
		b.BasicMemoryInfo(bootinfo.NewBasicMemoryInfoTag(raw.BasicMeminfo.Lower, raw.BasicMeminfo.Upper))
	}
	if meta.IsDefined("bootdev") {
		d := raw.Bootdev
		b.Bootdev(bootinfo.NewBootdevTag(d.BIOSDev, d.Slice, d.Part))
	}

	if len(raw.Mmap) > 0 {
		areas := make([]bootinfo.MemoryArea, len(raw.Mmap))
		for i, m := range raw.Mmap {
			typ, err := parseNamed(fmt.Sprintf("mmap[%d].type", i), m.Type, bootinfo.MemoryDefective)
			if err != nil {
				return nil, err
			}
			areas[i] = bootinfo.MemoryArea{Base: m.Base, Length: m.Length, Type: typ}
		}
		b.MemoryMap(bootinfo.NewMemoryMapTag(areas))
	}

	if meta.IsDefined("framebuffer") {
		fb, err := raw.Framebuffer.tag()
		if err != nil {
			return nil, err
		}
		b.Framebuffer(fb)
	}

	if meta.IsDefined("efi32") {
		b.EFISdt32(bootinfo.NewEFISdt32Tag(raw.EFI32))
	}
	if meta.IsDefined("efi64") {
		b.EFISdt64(bootinfo.NewEFISdt64Tag(raw.EFI64))
	}

	for i, s := range raw.Smbios {
		tables, err := decodeHex(fmt.Sprintf("smbios[%d].tables", i), s.Tables)
		if err != nil {
			return nil, err
		}
		b.AddSmbios(bootinfo.NewSmbiosTag(s.Major, s.Minor, tables))
	}

	if meta.IsDefined("rsdp") {
		if len(raw.RSDP.OEMID) > 6 {
			return nil, fmt.Errorf("rsdp.oem_id: %q is longer than 6 bytes", raw.RSDP.OEMID)
		}
		if meta.IsDefined("rsdp", "xsdt") {
			b.RSDPV2(bootinfo.NewRSDPV2Tag(raw.RSDP.OEMID, raw.RSDP.RSDT, raw.RSDP.XSDT))
		} else {
			b.RSDPV1(bootinfo.NewRSDPV1Tag(raw.RSDP.OEMID, raw.RSDP.RSDT))
		}
	}

	if meta.IsDefined("network") {
		ack, err := decodeHex("network", raw.Network)
		if err != nil {
			return nil, err
		}
		b.Network(bootinfo.NewNetworkTag(ack))
	}

	if len(raw.EFIMmap) > 0 {
		descs := make([]bootinfo.EFIMemoryDesc, len(raw.EFIMmap))
		for i, d := range raw.EFIMmap {
			typ, err := parseNamed(fmt.Sprintf("efi_mmap[%d].type", i), d.Type, bootinfo.EFIPersistentMemory)
			if err != nil {
				return nil, err
			}
			descs[i] = bootinfo.EFIMemoryDesc{
				Type:      typ,
				PhysStart: d.PhysStart,
				VirtStart: d.VirtStart,
				Pages:     d.Pages,
				Attribute: d.Attribute,
			}
		}
		b.EFIMemoryMap(bootinfo.NewEFIMemoryMapTag(descs))
	}
	if raw.EFIBootServices {
		b.EFIBootServicesNotExited()
	}
	if meta.IsDefined("efi32_image_handle") {
		b.EFIImageHandle32(bootinfo.NewEFIImageHandle32Tag(raw.EFIImageHandle32))
	}
	if meta.IsDefined("efi64_image_handle") {
		b.EFIImageHandle64(bootinfo.NewEFIImageHandle64Tag(raw.EFIImageHandle64))
	}
	if meta.IsDefined("load_base_addr") {
		b.ImageLoadPhysAddr(bootinfo.NewImageLoadPhysAddrTag(raw.LoadBaseAddr))
	}

	for i, c := range raw.Custom {
		key := fmt.Sprintf("custom[%d]", i)
		payload, err := decodeHex(key+".payload", c.Payload)
		if err != nil {
			return nil, err
		}
		t, err := bootinfo.NewCustomTag(bootinfo.TagType(c.Type), payload)
		if err != nil {
			return nil, fmt.Errorf("%s.type: %w", key, err)
		}
		b.AddCustom(t.Record())
	}

	return b, nil
}

func (c framebufferConfig) tag() (bootinfo.FramebufferTag, error) {
	var ft bootinfo.FramebufferType
	switch strings.ToLower(strings.TrimSpace(c.Kind)) {
	case "rgb", "":
		ft = bootinfo.FramebufferType{
			Kind:  bootinfo.FramebufferRGB,
			Red:   bootinfo.FramebufferField{Position: c.Red[0], Size: c.Red[1]},
			Green: bootinfo.FramebufferField{Position: c.Green[0], Size: c.Green[1]},
			Blue:  bootinfo.FramebufferField{Position: c.Blue[0], Size: c.Blue[1]},
		}
	case "indexed":
		ft.Kind = bootinfo.FramebufferIndexed
		for _, p := range c.Palette {
			ft.Palette = append(ft.Palette, bootinfo.FramebufferColor{Red: p[0], Green: p[1], Blue: p[2]})
		}
	case "text":
		ft.Kind = bootinfo.FramebufferText
	default:
		return bootinfo.FramebufferTag{}, fmt.Errorf("framebuffer.kind: unknown kind %q (want rgb, indexed or text)", c.Kind)
	}
	return bootinfo.NewFramebufferTag(c.Address, c.Pitch, c.Width, c.Height, c.BPP, ft), nil
}

type headerFileConfig struct {
	Arch               string            `toml:"arch"`
	InformationRequest infoRequestConfig `toml:"information_request"`
	Address            addressConfig     `toml:"address"`
	Entry              entryConfig       `toml:"entry"`
	EntryEFI32         entryConfig       `toml:"entry_efi32"`
	EntryEFI64         entryConfig       `toml:"entry_efi64"`
	Console            consoleConfig     `toml:"console"`
	Framebuffer        headerFBConfig    `toml:"framebuffer"`
	ModuleAlign        bool              `toml:"module_align"`
	EFIBootServices    bool              `toml:"efi_boot_services"`
	Relocatable        relocatableConfig `toml:"relocatable"`
}

type infoRequestConfig struct {
	Optional bool     `toml:"optional"`
	Tags     []string `toml:"tags"`
}

type addressConfig struct {
	Optional    bool   `toml:"optional"`
	HeaderAddr  uint32 `toml:"header_addr"`
	LoadAddr    uint32 `toml:"load_addr"`
	LoadEndAddr uint32 `toml:"load_end_addr"`
	BSSEndAddr  uint32 `toml:"bss_end_addr"`
}

type entryConfig struct {
	Optional bool   `toml:"optional"`
	Addr     uint32 `toml:"addr"`
}

type consoleConfig struct {
	Optional bool     `toml:"optional"`
	Flags    []string `toml:"flags"`
}

type headerFBConfig struct {
	Optional bool   `toml:"optional"`
	Width    uint32 `toml:"width"`
	Height   uint32 `toml:"height"`
	Depth    uint32 `toml:"depth"`
}

type relocatableConfig struct {
	Optional   bool   `toml:"optional"`
	MinAddr    uint32 `toml:"min_addr"`
	MaxAddr    uint32 `toml:"max_addr"`
	Align      uint32 `toml:"align"`
	Preference string `toml:"preference"`
}

func tagFlag(optional bool) header.TagFlag {
	if optional {
		return header.TagOptional
	}
	return header.TagRequired
}

// loadHeaderConfig reads a kernel header description and turns it into a
// builder.
func loadHeaderConfig(path string) (*header.Builder, error) {
	var raw headerFileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return nil, fmt.Errorf("load header config: %w", err)
	}
	if err := rejectUndecoded(meta); err != nil {
		return nil, err
	}

	arch := header.ISAI386
	if meta.IsDefined("arch") {
		arch, err = parseNamed("arch", raw.Arch, header.ISAMIPS32)
		if err != nil {
			return nil, err
		}
	}
	b := header.NewBuilder(arch)

	if meta.IsDefined("information_request") {
		r := raw.InformationRequest
		reqs := make([]bootinfo.TagType, len(r.Tags))
		for i, name := range r.Tags {
			t, err := bootinfo.ParseTagType(name)
			if err != nil {
				return nil, fmt.Errorf("information_request.tags[%d]: %w", i, err)
			}
			reqs[i] = t
		}
		b.InformationRequest(header.NewInformationRequestTag(tagFlag(r.Optional), reqs...))
	}
	if meta.IsDefined("address") {
		a := raw.Address
		b.Address(header.NewAddressTag(tagFlag(a.Optional), a.HeaderAddr, a.LoadAddr, a.LoadEndAddr, a.BSSEndAddr))
	}
	if meta.IsDefined("entry") {
		b.EntryAddress(header.NewEntryAddressTag(tagFlag(raw.Entry.Optional), raw.Entry.Addr))
	}
	if meta.IsDefined("console") {
		var cf header.ConsoleFlags
		for i, name := range raw.Console.Flags {
			switch name {
			case "console-required":
				cf |= header.ConsoleRequired
			case "ega-text":
				cf |= header.EGATextSupported
			default:
				return nil, fmt.Errorf("console.flags[%d]: unknown flag %q (want console-required or ega-text)", i, name)
			}
		}
		b.Console(header.NewConsoleTag(tagFlag(raw.Console.Optional), cf))
	}
	if meta.IsDefined("framebuffer") {
		fb := raw.Framebuffer
		b.Framebuffer(header.NewFramebufferTag(tagFlag(fb.Optional), fb.Width, fb.Height, fb.Depth))
	}
	if raw.ModuleAlign {
		b.ModuleAlign(header.NewModuleAlignTag(header.TagRequired))
	}
	if raw.EFIBootServices {
		b.EFIBootServices(header.NewEFIBootServicesTag(header.TagRequired))
	}
	if meta.IsDefined("entry_efi32") {
		b.EntryEFI32(header.NewEntryEFI32Tag(tagFlag(raw.EntryEFI32.Optional), raw.EntryEFI32.Addr))
	}
	if meta.IsDefined("entry_efi64") {
		b.EntryEFI64(header.NewEntryEFI64Tag(tagFlag(raw.EntryEFI64.Optional), raw.EntryEFI64.Addr))
	}
	if meta.IsDefined("relocatable") {
		r := raw.Relocatable
		pref := header.PreferenceNone
		if r.Preference != "" {
			pref, err = parseNamed("relocatable.preference", r.Preference, header.PreferenceHigh)
			if err != nil {
				return nil, err
			}
		}
		if r.MinAddr > r.MaxAddr {
			return nil, fmt.Errorf("relocatable: min_addr %#x above max_addr %#x", r.MinAddr, r.MaxAddr)
		}
		b.Relocatable(header.NewRelocatableTag(tagFlag(r.Optional), r.MinAddr, r.MaxAddr, r.Align, pref))
	}

	return b, nil
}

// rejectUndecoded reports keys the schema does not know, which are usually
// typos.
func rejectUndecoded(meta toml.MetaData) error {
	keys := meta.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return fmt.Errorf("unknown config keys: %s", strings.Join(names, ", "))
}

// parseNamed maps a name back to the enum value whose String returns it,
// trying every value up to last.
func parseNamed[T interface {
	~uint32
	String() string
}](key, name string, last T) (T, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for v := T(0); v <= last; v++ {
		if v.String() == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%s: unknown value %q", key, name)
}

func decodeHex(key, s string) ([]byte, error) {
	b, err := hex.DecodeString(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
