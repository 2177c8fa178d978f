package printer

import (
	"encoding/json"
	"fmt"
)

// printJSON prints a summary as a single indented JSON document.
func (p *Printer) printJSON(s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(p.writer, "%s\n", data)
	return err
}
