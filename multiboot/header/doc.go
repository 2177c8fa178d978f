// Package header reads and writes the Multiboot2 header a kernel image embeds
// so a bootloader can find it.
//
// The header starts with a 16-byte prologue (magic, architecture, length,
// checksum) and continues with tags describing what the kernel needs: an
// entry point, a load address, a framebuffer mode, the boot information tags
// it wants. Every tag starts on an 8-byte boundary.
//
// # Reading
//
// Find locates the header inside the first 32 KiB of an image. Load validates
// it and exposes typed tag accessors:
//
//	h, err := header.LoadImage(image)
//	if err != nil {
//	    return err
//	}
//	if e, err := h.EntryAddress(); err == nil {
//	    fmt.Printf("entry %#x\n", e.EntryAddr())
//	}
//
// # Writing
//
// Builder assembles a header with a correct length and checksum:
//
//	h := header.NewBuilder(header.ISAI386).
//	    InformationRequest(header.NewInformationRequestTag(header.TagRequired,
//	        bootinfo.TagTypeMmap, bootinfo.TagTypeCmdline)).
//	    ModuleAlign(header.NewModuleAlignTag(header.TagRequired)).
//	    Build()
//	os.WriteFile("header.bin", h.Bytes(), 0o644)
package header
