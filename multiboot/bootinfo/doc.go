// Package bootinfo parses and builds the Multiboot2 boot information
// structure: the tag list a bootloader hands to the kernel at entry.
//
// # Layout
//
//	[total_size u32][reserved u32] [tag] [tag] ... [end tag]
//
// Every tag starts with a u32 type and a u32 size and is padded to 8 bytes.
// The list ends with an end tag (type 0, size 8) that must finish exactly at
// total_size.
//
// # Loading
//
// [Load] validates the whole structure once, so nothing reached through the
// returned [BootInformation] can run past its end:
//
//	bi, err := bootinfo.Load(data)
//	if err != nil {
//	    return err
//	}
//	name, err := bi.BootLoaderName()
//	if errors.Is(err, bootinfo.ErrTagNotFound) {
//	    ...
//	}
//
// Typed lookups go through [GetTag], which returns the first tag of the
// requested type. Tags that may repeat, such as modules, are collected with
// [All].
//
// # Building
//
// [Builder] emits a byte-exact structure from tag values produced by the
// New*Tag constructors. The result is returned already loaded.
package bootinfo
