package printer

import (
	"fmt"
	"strings"
)

// printText prints a summary in human-readable text format.
func (p *Printer) printText(s Summary) error {
	indent := strings.Repeat(" ", p.opts.IndentSize)

	if _, err := fmt.Fprintf(p.writer, "%s\n", s.Kind); err != nil {
		return err
	}
	if err := p.printFieldsText(s.Fields, indent); err != nil {
		return err
	}

	for _, ts := range s.Tags {
		// Format: [0x010] cmdline (size 14, optional)
		line := fmt.Sprintf("%s[%#05x] %s (size %d", indent, ts.Offset, ts.Type, ts.Size)
		if ts.Flags != "" {
			line += ", " + ts.Flags
		}
		if _, err := fmt.Fprintf(p.writer, "%s)\n", line); err != nil {
			return err
		}
		if err := p.printFieldsText(ts.Fields, indent+indent); err != nil {
			return err
		}
		for _, e := range ts.Errors {
			if _, err := fmt.Fprintf(p.writer, "%s%serror: %s\n", indent, indent, e); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Printer) printFieldsText(fields Fields, indent string) error {
	for _, f := range fields {
		var err error
		switch v := f.Value.(type) {
		case string:
			_, err = fmt.Fprintf(p.writer, "%s%s: %q\n", indent, f.Name, v)
		case []string:
			if _, err = fmt.Fprintf(p.writer, "%s%s:\n", indent, f.Name); err != nil {
				return err
			}
			for _, line := range v {
				if _, err = fmt.Fprintf(p.writer, "%s  - %s\n", indent, line); err != nil {
					return err
				}
			}
		default:
			_, err = fmt.Fprintf(p.writer, "%s%s: %v\n", indent, f.Name, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
