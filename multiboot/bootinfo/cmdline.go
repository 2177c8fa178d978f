package bootinfo

import (
	"unicode/utf8"

	"github.com/kballard/go-shellquote"

	"github.com/joshuapare/mbkit/internal/buf"
)

func parseCString(typ TagType, b []byte) (string, error) {
	s, ok := buf.CString(b)
	if !ok {
		return "", &StringError{Tag: typ, Err: ErrMissingNul}
	}
	if !utf8.Valid(s) {
		return "", &StringError{Tag: typ, Raw: s, Err: ErrInvalidUTF8}
	}
	return string(s), nil
}

// splitArgs splits a kernel or module command line the way a shell would.
func splitArgs(s string) ([]string, error) {
	return shellquote.Split(s)
}

func cstring(s string) []byte {
	out := make([]byte, len(s)+1)
	copy(out, s)
	return out
}

// CommandLineTag carries the kernel command line.
type CommandLineTag struct{ tagBase }

const commandLineBaseSize = 8

func (CommandLineTag) ID() TagType   { return TagTypeCmdline }
func (CommandLineTag) BaseSize() int { return commandLineBaseSize }
func (CommandLineTag) DstLen(h TagHeader) (int, error) {
	return tailLen(h, commandLineBaseSize)
}
func (CommandLineTag) FromRecord(r tagRecord, _ int) CommandLineTag {
	return CommandLineTag{tagBase{r}}
}

// NewCommandLineTag encodes s with its NUL terminator.
func NewCommandLineTag(s string) CommandLineTag {
	return boxed[CommandLineTag](cstring(s))
}

// CommandLine returns the command line without its terminator.
func (t CommandLineTag) CommandLine() (string, error) {
	return parseCString(TagTypeCmdline, t.tail(commandLineBaseSize))
}

// Args splits the command line into shell words.
func (t CommandLineTag) Args() ([]string, error) {
	s, err := t.CommandLine()
	if err != nil {
		return nil, err
	}
	return splitArgs(s)
}

// BootLoaderNameTag names the bootloader that produced the structure.
type BootLoaderNameTag struct{ tagBase }

const bootLoaderNameBaseSize = 8

func (BootLoaderNameTag) ID() TagType   { return TagTypeBootLoaderName }
func (BootLoaderNameTag) BaseSize() int { return bootLoaderNameBaseSize }
func (BootLoaderNameTag) DstLen(h TagHeader) (int, error) {
	return tailLen(h, bootLoaderNameBaseSize)
}
func (BootLoaderNameTag) FromRecord(r tagRecord, _ int) BootLoaderNameTag {
	return BootLoaderNameTag{tagBase{r}}
}

// NewBootLoaderNameTag encodes name with its NUL terminator.
func NewBootLoaderNameTag(name string) BootLoaderNameTag {
	return boxed[BootLoaderNameTag](cstring(name))
}

// Name returns the bootloader name without its terminator.
func (t BootLoaderNameTag) Name() (string, error) {
	return parseCString(TagTypeBootLoaderName, t.tail(bootLoaderNameBaseSize))
}

// ModuleTag describes one boot module loaded into physical memory.
//
//	Offset  Size  Description
//	0x08    4     mod_start
//	0x0C    4     mod_end
//	0x10    ...   NUL-terminated command line
type ModuleTag struct{ tagBase }

const moduleBaseSize = 16

func (ModuleTag) ID() TagType   { return TagTypeModule }
func (ModuleTag) BaseSize() int { return moduleBaseSize }
func (ModuleTag) DstLen(h TagHeader) (int, error) {
	return tailLen(h, moduleBaseSize)
}
func (ModuleTag) FromRecord(r tagRecord, _ int) ModuleTag { return ModuleTag{tagBase{r}} }

// NewModuleTag encodes a module spanning [start, end) with cmdline.
func NewModuleTag(start, end uint32, cmdline string) ModuleTag {
	return boxed[ModuleTag](le32(start), le32(end), cstring(cmdline))
}

// Start returns the physical start address.
func (t ModuleTag) Start() uint32 { return t.u32(8) }

// End returns the physical end address, exclusive.
func (t ModuleTag) End() uint32 { return t.u32(12) }

// Size returns End - Start, or 0 when the range is inverted.
func (t ModuleTag) Size() uint32 {
	if t.End() < t.Start() {
		return 0
	}
	return t.End() - t.Start()
}

// CommandLine returns the module's command line.
func (t ModuleTag) CommandLine() (string, error) {
	return parseCString(TagTypeModule, t.tail(moduleBaseSize))
}

// Args splits the module command line into shell words.
func (t ModuleTag) Args() ([]string, error) {
	s, err := t.CommandLine()
	if err != nil {
		return nil, err
	}
	return splitArgs(s)
}
