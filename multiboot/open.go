package multiboot

import (
	"errors"
	"fmt"

	"github.com/joshuapare/mbkit/internal/format"
	"github.com/joshuapare/mbkit/internal/mmfile"
	"github.com/joshuapare/mbkit/multiboot/bootinfo"
	"github.com/joshuapare/mbkit/multiboot/header"
)

// BootloaderMagic is the value a compliant bootloader passes in EAX.
const BootloaderMagic = format.BootloaderMagic

// ErrBootloaderMagic indicates the kernel was not started by a Multiboot2
// bootloader.
var ErrBootloaderMagic = errors.New("multiboot: unexpected bootloader magic")

// CheckBootloaderMagic verifies the EAX value a kernel entry point received.
func CheckBootloaderMagic(eax uint32) error {
	if eax != BootloaderMagic {
		return fmt.Errorf("%w: %#x, want %#x", ErrBootloaderMagic, eax, BootloaderMagic)
	}
	return nil
}

// InfoFile is a boot information structure loaded from a file.
type InfoFile struct {
	*bootinfo.BootInformation
	Path    string
	release func() error
}

// OpenInfo maps the file at path and loads the boot information structure
// at its start. Trailing bytes after total_size are ignored.
func OpenInfo(path string) (*InfoFile, error) {
	data, release, err := mmfile.Map(path)
	if err != nil {
		return nil, err
	}
	bi, err := bootinfo.Load(data)
	if err != nil {
		_ = release()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &InfoFile{BootInformation: bi, Path: path, release: release}, nil
}

// Close releases the mapping. It is safe to call more than once.
func (f *InfoFile) Close() error {
	if f == nil || f.release == nil {
		return nil
	}
	err := f.release()
	f.release = nil
	f.BootInformation = nil
	return err
}

// HeaderFile is a Multiboot2 header found in a kernel image file.
type HeaderFile struct {
	*header.Header
	Path string
	// Offset is the header's position in the image.
	Offset  int
	release func() error
}

// OpenHeader maps the kernel image at path and loads the header found in its
// first 32 KiB.
func OpenHeader(path string) (*HeaderFile, error) {
	data, release, err := mmfile.Map(path)
	if err != nil {
		return nil, err
	}
	off, _, ok := header.Find(data)
	if !ok {
		_ = release()
		return nil, fmt.Errorf("%s: %w: no header in the first %d bytes",
			path, header.ErrMagicNotFound, format.HeaderSearchLimit)
	}
	// Mappings are page aligned and Find only reports 8-byte aligned
	// offsets, so the header can be loaded in place.
	h, err := header.Load(data[off:])
	if err != nil {
		_ = release()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &HeaderFile{Header: h, Path: path, Offset: off, release: release}, nil
}

// Close releases the mapping. It is safe to call more than once.
func (f *HeaderFile) Close() error {
	if f == nil || f.release == nil {
		return nil
	}
	err := f.release()
	f.release = nil
	f.Header = nil
	return err
}
