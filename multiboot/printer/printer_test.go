package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/mbkit/internal/testutil"
	"github.com/joshuapare/mbkit/multiboot/bootinfo"
	"github.com/joshuapare/mbkit/multiboot/header"
)

// loadInfo builds a small boot information structure: a command line at
// offset 8, a boot loader name at 24 and a memory map after that.
func loadInfo(t *testing.T) *bootinfo.BootInformation {
	t.Helper()
	bi, err := bootinfo.NewBuilder().
		CommandLine(bootinfo.NewCommandLineTag("quiet")).
		BootLoaderName(bootinfo.NewBootLoaderNameTag("mbkit")).
		MemoryMap(bootinfo.NewMemoryMapTag([]bootinfo.MemoryArea{
			{Base: 0x100000, Length: 0x100000, Type: bootinfo.MemoryAvailable},
		})).
		Build()
	require.NoError(t, err)
	return bi
}

func render(t *testing.T, opts Options, bi *bootinfo.BootInformation) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, New(&buf, opts).PrintInfo(bi))
	return buf.String()
}

func TestPrinter_PrintInfo_Text(t *testing.T) {
	out := render(t, DefaultOptions(), loadInfo(t))
	t.Logf("Text output:\n%s", out)

	require.True(t, strings.HasPrefix(out, "boot-information\n"))
	require.Contains(t, out, "  tag_count: 3\n")
	require.Contains(t, out, "  [0x008] cmdline (size 14)\n")
	require.Contains(t, out, "    command_line: \"quiet\"\n")
	require.Contains(t, out, "  [0x018] boot-loader-name (size 14)\n")
	require.Contains(t, out, "    name: \"mbkit\"\n")
	require.Contains(t, out, "mmap")
	require.Contains(t, out, "      - 0x00000000100000-0x00000000200000 available\n")
	require.NotContains(t, out, "error:")
}

func TestPrinter_PrintInfo_JSON(t *testing.T) {
	opts := DefaultOptions()
	opts.Format = FormatJSON
	out := render(t, opts, loadInfo(t))

	var doc struct {
		Kind   string         `json:"kind"`
		Fields map[string]any `json:"fields"`
		Tags   []struct {
			Type   string         `json:"type"`
			Offset int            `json:"offset"`
			Fields map[string]any `json:"fields"`
		} `json:"tags"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Equal(t, "boot-information", doc.Kind)
	require.EqualValues(t, 3, doc.Fields["tag_count"])
	require.Len(t, doc.Tags, 3)
	require.Equal(t, "cmdline", doc.Tags[0].Type)
	require.Equal(t, 8, doc.Tags[0].Offset)
	require.Equal(t, "quiet", doc.Tags[0].Fields["command_line"])

	// Fields keep their declared order.
	require.Less(t, strings.Index(out, `"entry_size"`), strings.Index(out, `"areas"`))
}

func TestPrinter_PrintInfo_YAML(t *testing.T) {
	opts := DefaultOptions()
	opts.Format = FormatYAML
	out := render(t, opts, loadInfo(t))
	t.Logf("YAML output:\n%s", out)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Equal(t, "boot-information", doc["kind"])
	tags, ok := doc["tags"].([]any)
	require.True(t, ok)
	require.Len(t, tags, 3)
	require.Contains(t, out, "name: mbkit")
	require.Less(t, strings.Index(out, "total_size"), strings.Index(out, "tag_count"))
}

func TestPrinter_Options_ShowFields(t *testing.T) {
	opts := DefaultOptions()
	opts.ShowFields = false
	out := render(t, opts, loadInfo(t))

	require.Contains(t, out, "cmdline (size 14)")
	require.NotContains(t, out, "command_line")
}

func TestPrinter_Options_Types(t *testing.T) {
	opts := DefaultOptions()
	opts.Types = []string{"boot-loader-name"}
	out := render(t, opts, loadInfo(t))

	require.Contains(t, out, "boot-loader-name")
	require.NotContains(t, out, "cmdline")
	require.NotContains(t, out, "mmap")

	opts.Types = []string{"no-such-tag"}
	var buf bytes.Buffer
	require.Error(t, New(&buf, opts).PrintInfo(loadInfo(t)))
}

func TestPrinter_Options_MaxDataBytes(t *testing.T) {
	bi, err := bootinfo.NewBuilder().
		Network(bootinfo.NewNetworkTag(bytes.Repeat([]byte{0xab}, 40))).
		Build()
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.MaxDataBytes = 4
	out := render(t, opts, bi)
	require.Contains(t, out, "dhcp_ack_len: 40\n")
	require.Contains(t, out, "dhcp_ack: \"abababab...\"\n")

	opts.MaxDataBytes = 0
	out = render(t, opts, bi)
	require.Contains(t, out, strings.Repeat("ab", 40)+"\"")
}

func TestPrinter_Windows1252Fallback(t *testing.T) {
	data := testutil.MBI(testutil.InfoTag(uint32(bootinfo.TagTypeBootLoaderName), []byte("caf\xe9\x00")))
	bi, err := bootinfo.Load(data)
	require.NoError(t, err)

	out := render(t, DefaultOptions(), bi)
	require.Contains(t, out, "name: \"café\"\n")
	require.Contains(t, out, "error: ")
	require.Contains(t, out, "not valid UTF-8")
}

func TestPrinter_TagTooShort(t *testing.T) {
	// A basic meminfo tag needs 16 bytes; this one declares 12.
	data := testutil.MBI(testutil.InfoTag(uint32(bootinfo.TagTypeBasicMeminfo), testutil.U32s(640)))
	bi, err := bootinfo.Load(data)
	require.NoError(t, err)

	s, err := SummarizeInfo(bi, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, s.Tags, 1)
	require.Empty(t, s.Tags[0].Fields)
	require.Len(t, s.Tags[0].Errors, 1)
}

func TestPrinter_CustomTag(t *testing.T) {
	custom, err := bootinfo.NewCustomTag(0x5000, []byte{0xde, 0xad})
	require.NoError(t, err)
	bi, err := bootinfo.NewBuilder().AddCustom(custom.Record()).Build()
	require.NoError(t, err)

	s, err := SummarizeInfo(bi, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, s.Tags, 1)
	require.EqualValues(t, 0x5000, s.Tags[0].ID)
	v, ok := s.Tags[0].Fields.Get("payload")
	require.True(t, ok)
	require.Equal(t, "dead", v)
}

func TestPrinter_PrintHeader(t *testing.T) {
	h := header.NewBuilder(header.ISAI386).
		EntryAddress(header.NewEntryAddressTag(header.TagOptional, 0x100000)).
		Console(header.NewConsoleTag(header.TagRequired, header.EGATextSupported)).
		Build()

	var buf bytes.Buffer
	require.NoError(t, New(&buf, DefaultOptions()).PrintHeader(h))
	out := buf.String()
	t.Logf("Header output:\n%s", out)

	require.True(t, strings.HasPrefix(out, "header\n"))
	require.Contains(t, out, "  magic: \"0xe85250d6\"\n")
	require.Contains(t, out, "  arch: \"i386\"\n")
	require.Contains(t, out, "  checksum_valid: true\n")
	require.Contains(t, out, "  [0x010] entry-address (size 12, optional)\n")
	require.Contains(t, out, "    entry_addr: \"0x100000\"\n")
	require.Contains(t, out, "console-flags (size 12, required)\n")
	require.Contains(t, out, "    console: \"ega-text\"\n")
	require.Contains(t, out, "end (size 8, required)\n")
}

func TestPrinter_PrintHeader_JSON(t *testing.T) {
	h := header.NewBuilder(header.ISAMIPS32).
		Relocatable(header.NewRelocatableTag(header.TagOptional, 0x100000, 0x1000000, 0x1000, header.PreferenceLow)).
		Build()

	opts := DefaultOptions()
	opts.Format = FormatJSON
	opts.Types = []string{"relocatable"}
	var buf bytes.Buffer
	require.NoError(t, New(&buf, opts).PrintHeader(h))

	var s struct {
		Fields map[string]any `json:"fields"`
		Tags   []struct {
			Type   string         `json:"type"`
			Flags  string         `json:"flags"`
			Fields map[string]any `json:"fields"`
		} `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &s))
	require.Equal(t, "mips32", s.Fields["arch"])
	require.Len(t, s.Tags, 1)
	require.Equal(t, "optional", s.Tags[0].Flags)
	require.Equal(t, "0x1000", s.Tags[0].Fields["align"])
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"text", "json", "yaml"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		require.Equal(t, Format(name), f)
	}
	_, err := ParseFormat("xml")
	require.Error(t, err)
}
