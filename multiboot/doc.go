// Package multiboot opens Multiboot2 data stored in files: boot information
// dumps captured from a running kernel and kernel images carrying a header.
//
// Files are memory-mapped read-only where the platform supports it. The
// returned values alias the mapping, so they must not be used after Close.
//
//	f, err := multiboot.OpenInfo("mbi.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//	for r := range f.Tags().All() {
//	    fmt.Println(r.Header().Type)
//	}
//
// The parsing itself lives in the bootinfo and header packages; record holds
// the generic machinery both are built on.
package multiboot
