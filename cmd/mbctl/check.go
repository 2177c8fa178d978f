package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/mbkit/multiboot"
	"github.com/joshuapare/mbkit/multiboot/printer"
)

var checkHeader bool

// errCheckFailed is returned when at least one check fails.
var errCheckFailed = errors.New("check failed")

func init() {
	cmd := newCheckCmd()
	cmd.Flags().BoolVar(&checkHeader, "header", false, "Treat the file as a kernel image and check its header")
	rootCmd.AddCommand(cmd)
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a boot information dump or a kernel header",
		Long: `The check command validates the structure and then decodes every tag,
reporting each problem it finds. It exits non-zero when any check fails.

Example:
  mbctl check mbi.bin
  mbctl check --header kernel.elf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args)
		},
	}
	return cmd
}

type checkResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func runCheck(args []string) error {
	var results []checkResult
	if checkHeader {
		results = checkHeaderFile(args[0])
	} else {
		results = checkInfoFile(args[0])
	}

	failed := 0
	for _, r := range results {
		if !r.OK {
			failed++
		}
	}

	if jsonOut {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.OK {
				printInfo("  %s %s\n", styled(okStyle, "✓"), r.Name)
				continue
			}
			printInfo("  %s %s: %s\n", styled(failStyle, "✗"), r.Name, r.Error)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errCheckFailed, failed, len(results))
	}
	return nil
}

func checkInfoFile(path string) []checkResult {
	f, err := multiboot.OpenInfo(path)
	if err != nil {
		return []checkResult{{Name: "structure", Error: err.Error()}}
	}
	defer f.Close()

	results := []checkResult{{Name: "structure", OK: true}}
	s, err := printer.SummarizeInfo(f.BootInformation, printer.DefaultOptions())
	if err != nil {
		return append(results, checkResult{Name: "tags", Error: err.Error()})
	}
	return append(results, tagResults(s)...)
}

func checkHeaderFile(path string) []checkResult {
	f, err := multiboot.OpenHeader(path)
	if err != nil {
		return []checkResult{{Name: "header", Error: err.Error()}}
	}
	defer f.Close()

	results := []checkResult{
		{Name: fmt.Sprintf("header at offset %#x", f.Offset), OK: true},
		{Name: "checksum", OK: f.Prologue().VerifyChecksum()},
		{Name: "end tag", OK: f.HasEndTag()},
	}
	if !results[2].OK {
		results[2].Error = "last tag is not an end tag"
	}
	s, err := printer.SummarizeHeader(f.Header, printer.DefaultOptions())
	if err != nil {
		return append(results, checkResult{Name: "tags", Error: err.Error()})
	}
	return append(results, tagResults(s)...)
}

// tagResults turns the decode errors of each summarized tag into one result
// per tag.
func tagResults(s printer.Summary) []checkResult {
	out := make([]checkResult, 0, len(s.Tags))
	for _, t := range s.Tags {
		r := checkResult{Name: fmt.Sprintf("%s at %#x", t.Type, t.Offset), OK: len(t.Errors) == 0}
		if !r.OK {
			r.Error = t.Errors[0]
		}
		out = append(out, r)
	}
	return out
}
