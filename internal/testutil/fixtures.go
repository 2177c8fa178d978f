// Package testutil builds raw Multiboot2 byte fixtures for tests. It writes
// the wire format directly so tests of the decoders do not depend on the
// builders they are meant to cross-check.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/mbkit/internal/buf"
	"github.com/joshuapare/mbkit/internal/format"
)

// Aligned returns a copy of b that starts on an 8-byte boundary.
func Aligned(b []byte) []byte {
	return buf.AlignedCopy(b)
}

// Misaligned returns a copy of b that starts 4 bytes past an 8-byte boundary.
func Misaligned(b []byte) []byte {
	backing := buf.Aligned(len(b) + 4)
	out := backing[4:]
	copy(out, b)
	return out
}

// InfoTag encodes a boot information tag: type, size and payload, padded to
// the next 8-byte boundary.
func InfoTag(typ uint32, payload []byte) []byte {
	size := format.InfoTagHeaderSize + len(payload)
	out := make([]byte, format.Align8(size))
	format.PutU32(out, format.InfoTagTypeOffset, typ)
	format.PutU32(out, format.InfoTagSizeOffset, uint32(size))
	copy(out[format.InfoTagHeaderSize:], payload)
	return out
}

// MBI assembles an aligned boot information structure from pre-encoded tags
// and appends the end tag.
func MBI(tags ...[]byte) []byte {
	body := make([]byte, format.InfoHeaderSize)
	for _, t := range tags {
		body = append(body, t...)
	}
	body = append(body, InfoTag(0, nil)...)
	format.PutU32(body, format.InfoTotalSizeOffset, uint32(len(body)))
	return Aligned(body)
}

// HeaderTag encodes a kernel header tag, padded to the next 8-byte boundary.
func HeaderTag(typ, flags uint16, payload []byte) []byte {
	size := format.HeaderTagHeaderSize + len(payload)
	out := make([]byte, format.Align8(size))
	format.PutU16(out, format.HeaderTagTypeOffset, typ)
	format.PutU16(out, format.HeaderTagFlagsOffset, flags)
	format.PutU32(out, format.HeaderTagSizeOffset, uint32(size))
	copy(out[format.HeaderTagHeaderSize:], payload)
	return out
}

// MB2Header assembles an aligned kernel header for arch with a valid checksum,
// appending the end tag after tags.
func MB2Header(arch uint32, tags ...[]byte) []byte {
	body := make([]byte, format.HeaderPrologueSize)
	for _, t := range tags {
		body = append(body, t...)
	}
	body = append(body, HeaderTag(0, 0, nil)...)
	length := uint32(len(body))
	format.PutU32(body, format.HeaderMagicOffset, format.HeaderMagic)
	format.PutU32(body, format.HeaderArchOffset, arch)
	format.PutU32(body, format.HeaderLengthOffset, length)
	format.PutU32(body, format.HeaderChecksumOffset, -(format.HeaderMagic + arch + length))
	return Aligned(body)
}

// U32s encodes vs as consecutive little-endian uint32 values.
func U32s(vs ...uint32) []byte {
	var out []byte
	for _, v := range vs {
		out = format.AppendU32(out, v)
	}
	return out
}

// CString returns s followed by a NUL byte.
func CString(s string) []byte {
	return append([]byte(s), 0)
}

// WriteTemp writes data to a file named name in a test temp dir and returns its path.
func WriteTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
