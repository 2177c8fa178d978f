package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// buildInfoFile builds infoTOML into a dump and returns its path
func buildInfoFile(t *testing.T) string {
	t.Helper()
	out := filepath.Join(t.TempDir(), "mbi.bin")
	_, err := captureOutput(t, func() error {
		return runBuildInfo(writeFile(t, "info.toml", []byte(infoTOML)), out)
	})
	require.NoError(t, err)
	return out
}

// buildImageFile builds headerTOML and places it 4 KiB into a fake image
func buildImageFile(t *testing.T) string {
	t.Helper()
	hdr := filepath.Join(t.TempDir(), "header.bin")
	_, err := captureOutput(t, func() error {
		return runBuildHeader(writeFile(t, "header.toml", []byte(headerTOML)), hdr)
	})
	require.NoError(t, err)

	data, err := os.ReadFile(hdr)
	require.NoError(t, err)
	image := make([]byte, 4096, 8192)
	image = append(image, data...)
	return writeFile(t, "kernel.img", image)
}

func TestBuildInfoCommand(t *testing.T) {
	resetFlags()
	out := filepath.Join(t.TempDir(), "mbi.bin")

	output, err := captureOutput(t, func() error {
		return runBuildInfo(writeFile(t, "info.toml", []byte(infoTOML)), out)
	})
	require.NoError(t, err)
	require.Contains(t, output, "Wrote ")
	require.Contains(t, output, out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Zero(t, len(data)%8)
}

func TestInfoCommand(t *testing.T) {
	tests := []struct {
		name           string
		format         string
		types          []string
		noFields       bool
		wantContain    []string
		wantNotContain []string
		wantJSON       bool
	}{
		{
			name:        "text",
			format:      "text",
			wantContain: []string{"boot-information", "cmdline", "console=ttyS0 root=/dev/sda1", "mmap", "reserved", "acpi-v2", "valid: true"},
		},
		{
			name:           "filtered",
			format:         "text",
			types:          []string{"module"},
			wantContain:    []string{"module", "initrd"},
			wantNotContain: []string{"cmdline", "mmap"},
		},
		{
			name:           "no fields",
			format:         "text",
			noFields:       true,
			wantContain:    []string{"framebuffer (size"},
			wantNotContain: []string{"pitch"},
		},
		{
			name:        "json",
			format:      "json",
			wantJSON:    true,
			wantContain: []string{`"kind": "boot-information"`, `"command_line": "initrd"`},
		},
		{
			name:        "yaml",
			format:      "yaml",
			wantContain: []string{"kind: boot-information", "name: mbctl"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			path := buildInfoFile(t)
			outFormat = tt.format
			infoTypes = tt.types
			infoNoFields = tt.noFields

			output, err := captureOutput(t, func() error {
				return runInfo([]string{path})
			})
			require.NoError(t, err)

			if tt.wantJSON {
				require.True(t, json.Valid([]byte(output)), output)
			}
			for _, want := range tt.wantContain {
				require.Contains(t, output, want)
			}
			for _, dont := range tt.wantNotContain {
				require.NotContains(t, output, dont)
			}
		})
	}
}

func TestInfoCommand_InvalidFile(t *testing.T) {
	resetFlags()
	path := writeFile(t, "garbage.bin", []byte("this is not a boot information structure"))

	_, err := captureOutput(t, func() error {
		return runInfo([]string{path})
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to load boot information")
}

func TestTagsCommand(t *testing.T) {
	resetFlags()
	path := buildInfoFile(t)

	output, err := captureOutput(t, func() error {
		return runTags([]string{path})
	})
	require.NoError(t, err)
	require.Contains(t, output, "OFFSET")
	require.Contains(t, output, "0x8")
	require.Contains(t, output, "boot-loader-name")
	require.Contains(t, output, "custom(0x2000)")

	jsonOut = true
	output, err = captureOutput(t, func() error {
		return runTags([]string{path})
	})
	require.NoError(t, err)
	var entries []tagEntry
	require.NoError(t, json.Unmarshal([]byte(output), &entries))
	require.Equal(t, "cmdline", entries[0].Type)
	require.Equal(t, 8, entries[0].Offset)
	require.EqualValues(t, 0x2000, entries[len(entries)-1].ID)
}

func TestHeaderCommand(t *testing.T) {
	resetFlags()
	path := buildImageFile(t)

	output, err := captureOutput(t, func() error {
		return runHeader([]string{path})
	})
	require.NoError(t, err)
	t.Logf("Header output:\n%s", output)
	require.Contains(t, output, "header\n")
	require.Contains(t, output, "checksum_valid: true")
	require.Contains(t, output, "information-request")
	require.Contains(t, output, "preference: \"high\"")

	headerTypes = []string{"entry-address"}
	output, err = captureOutput(t, func() error {
		return runHeader([]string{path})
	})
	require.NoError(t, err)
	require.Contains(t, output, "entry_addr: \"0x100040\"")
	require.NotContains(t, output, "relocatable")
}

func TestHeaderCommand_NotFound(t *testing.T) {
	resetFlags()
	path := writeFile(t, "plain.bin", make([]byte, 8192))

	_, err := captureOutput(t, func() error {
		return runHeader([]string{path})
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "magic not found")
}

func TestCheckCommand(t *testing.T) {
	resetFlags()
	path := buildInfoFile(t)

	output, err := captureOutput(t, func() error {
		return runCheck([]string{path})
	})
	require.NoError(t, err)
	require.Contains(t, output, "✓ structure")
	require.Contains(t, output, "✓ acpi-v2 at")
	require.NotContains(t, output, "✗")
}

func TestCheckCommand_CorruptRSDP(t *testing.T) {
	resetFlags()
	path := buildInfoFile(t)
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Flip a byte of the RSDP OEM ID so its checksum no longer holds.
	i := strings.Index(string(data), "MBKIT")
	require.Positive(t, i)
	data[i] ^= 0xff
	require.NoError(t, os.WriteFile(path, data, 0o644))

	output, err := captureOutput(t, func() error {
		return runCheck([]string{path})
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, errCheckFailed))
	require.Contains(t, output, "✗ acpi-v2 at")
}

func TestCheckCommand_Header(t *testing.T) {
	resetFlags()
	checkHeader = true
	path := buildImageFile(t)

	output, err := captureOutput(t, func() error {
		return runCheck([]string{path})
	})
	require.NoError(t, err)
	require.Contains(t, output, "✓ header at offset 0x1000")
	require.Contains(t, output, "✓ checksum")
	require.Contains(t, output, "✓ end tag")

	jsonOut = true
	output, err = captureOutput(t, func() error {
		return runCheck([]string{path})
	})
	require.NoError(t, err)
	var results []checkResult
	require.NoError(t, json.Unmarshal([]byte(output), &results))
	for _, r := range results {
		require.True(t, r.OK, r.Name)
	}
}

func TestParseLevel(t *testing.T) {
	for _, raw := range []string{"debug", " WARN ", "off"} {
		_, ok := parseLevel(raw)
		require.True(t, ok, raw)
	}
	_, ok := parseLevel("loud")
	require.False(t, ok)
}
