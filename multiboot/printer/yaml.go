package printer

import "gopkg.in/yaml.v3"

// printYAML prints a summary as a YAML document.
func (p *Printer) printYAML(s Summary) error {
	enc := yaml.NewEncoder(p.writer)
	enc.SetIndent(DefaultIndentSize)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}
