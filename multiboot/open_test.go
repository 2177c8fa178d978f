package multiboot_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/mbkit/internal/testutil"
	"github.com/joshuapare/mbkit/multiboot"
	"github.com/joshuapare/mbkit/multiboot/bootinfo"
	"github.com/joshuapare/mbkit/multiboot/header"
)

func TestOpenInfo(t *testing.T) {
	data, err := bootinfo.NewBuilder().
		CommandLine(bootinfo.NewCommandLineTag("console=ttyS0")).
		BootLoaderName(bootinfo.NewBootLoaderNameTag("GRUB 2.12")).
		Bytes()
	require.NoError(t, err)
	// Dumps are often taken a page at a time.
	padded := append(append([]byte{}, data...), make([]byte, 4096-len(data))...)
	path := testutil.WriteTemp(t, "mbi.bin", padded)

	f, err := multiboot.OpenInfo(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	require.Equal(t, len(data), f.TotalSize())
	name, err := f.BootLoaderName()
	require.NoError(t, err)
	s, err := name.Name()
	require.NoError(t, err)
	require.Equal(t, "GRUB 2.12", s)
}

func TestOpenInfo_Invalid(t *testing.T) {
	path := testutil.WriteTemp(t, "bad.bin", []byte{15, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 8, 0, 0, 0})
	_, err := multiboot.OpenInfo(path)
	require.ErrorIs(t, err, bootinfo.ErrIllegalTotalSize)
	require.Contains(t, err.Error(), "bad.bin")

	empty := testutil.WriteTemp(t, "empty.bin", nil)
	_, err = multiboot.OpenInfo(empty)
	require.ErrorIs(t, err, bootinfo.ErrIllegalAddress)

	_, err = multiboot.OpenInfo(filepath.Join(t.TempDir(), "missing.bin"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenHeader(t *testing.T) {
	hdr := header.NewBuilder(header.ISAI386).
		EntryAddress(header.NewEntryAddressTag(header.TagRequired, 0x100040)).
		Bytes()
	image := make([]byte, 8192)
	copy(image[512:], hdr)
	path := testutil.WriteTemp(t, "kernel.elf", image)

	f, err := multiboot.OpenHeader(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	require.Equal(t, 512, f.Offset)
	e, err := f.EntryAddress()
	require.NoError(t, err)
	require.Equal(t, uint32(0x100040), e.EntryAddr())
}

func TestOpenHeader_NotFound(t *testing.T) {
	path := testutil.WriteTemp(t, "plain.bin", make([]byte, 1024))
	_, err := multiboot.OpenHeader(path)
	require.ErrorIs(t, err, header.ErrMagicNotFound)
}

func TestClose_Twice(t *testing.T) {
	path := testutil.WriteTemp(t, "mbi.bin", testutil.MBI())
	f, err := multiboot.OpenInfo(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

func TestCheckBootloaderMagic(t *testing.T) {
	require.NoError(t, multiboot.CheckBootloaderMagic(0x36d76289))
	require.ErrorIs(t, multiboot.CheckBootloaderMagic(0x2badb002), multiboot.ErrBootloaderMagic)
}
