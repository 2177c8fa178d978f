// Package printer renders boot information structures and kernel headers for
// people and for tools, as indented text, JSON or YAML.
package printer

import (
	"fmt"
	"io"

	"github.com/joshuapare/mbkit/multiboot/bootinfo"
	"github.com/joshuapare/mbkit/multiboot/header"
)

const (
	DefaultIndentSize   = 2
	DefaultMaxDataBytes = 32
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable text format.
	FormatText Format = "text"

	// FormatJSON outputs JSON format.
	FormatJSON Format = "json"

	// FormatYAML outputs YAML format.
	FormatYAML Format = "yaml"
)

// ParseFormat accepts the names of the supported formats.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("printer: unknown format %q (want text, json or yaml)", s)
	}
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json, yaml).
	// Default: FormatText
	Format Format

	// IndentSize is the number of spaces per indent level (text format only).
	// Default: 2
	IndentSize int

	// MaxDataBytes limits how many bytes of opaque payloads (DHCP packets,
	// SMBIOS tables, custom tags) are shown as hex. 0 means no limit.
	// Default: 32
	MaxDataBytes int

	// ShowFields includes the decoded fields of each tag. When false only
	// type, size and offset are printed.
	// Default: true
	ShowFields bool

	// Types restricts output to the listed tag types. Empty means all.
	Types []string
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:       FormatText,
		IndentSize:   DefaultIndentSize,
		MaxDataBytes: DefaultMaxDataBytes,
		ShowFields:   true,
	}
}

// Printer handles formatted output of Multiboot2 structures.
type Printer struct {
	opts   Options
	writer io.Writer
}

// New creates a new Printer writing to w.
//
// Example:
//
//	bi, _ := bootinfo.Load(data)
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintInfo(bi)
func New(w io.Writer, opts Options) *Printer {
	return &Printer{writer: w, opts: opts}
}

// PrintInfo prints a boot information structure and its tags.
func (p *Printer) PrintInfo(bi *bootinfo.BootInformation) error {
	s, err := SummarizeInfo(bi, p.opts)
	if err != nil {
		return err
	}
	return p.emit(s)
}

// PrintHeader prints a kernel header and its tags.
func (p *Printer) PrintHeader(h *header.Header) error {
	s, err := SummarizeHeader(h, p.opts)
	if err != nil {
		return err
	}
	return p.emit(s)
}

func (p *Printer) emit(s Summary) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(s)
	case FormatYAML:
		return p.printYAML(s)
	case FormatText:
		return p.printText(s)
	default:
		return p.printText(s)
	}
}
