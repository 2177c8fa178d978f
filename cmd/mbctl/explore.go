package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/joshuapare/mbkit/multiboot"
	"github.com/joshuapare/mbkit/multiboot/printer"
)

var exploreHeader bool

func init() {
	cmd := newExploreCmd()
	cmd.Flags().BoolVar(&exploreHeader, "header", false, "Treat the file as a kernel image and explore its header")
	rootCmd.AddCommand(cmd)
}

func newExploreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explore <file>",
		Short: "Browse the tags of a dump or kernel header interactively",
		Long: `The explore command opens a terminal UI listing every tag on the left
and the decoded fields of the selected tag on the right.

Example:
  mbctl explore mbi.bin
  mbctl explore --header kernel.elf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(args)
		},
	}
	return cmd
}

func runExplore(args []string) error {
	m, err := loadExploreModel(args[0], exploreHeader)
	if err != nil {
		return err
	}
	m.copy = clipboard.WriteAll

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run explorer: %w", err)
	}
	return nil
}

// loadExploreModel reads the file and summarizes it once; the explorer never
// touches the mapping after that.
func loadExploreModel(path string, isHeader bool) (exploreModel, error) {
	opts := printer.DefaultOptions()
	opts.MaxDataBytes = 0

	if isHeader {
		f, err := multiboot.OpenHeader(path)
		if err != nil {
			return exploreModel{}, fmt.Errorf("failed to load header: %w", err)
		}
		defer f.Close()
		s, err := printer.SummarizeHeader(f.Header, opts)
		if err != nil {
			return exploreModel{}, err
		}
		return newExploreModel(path, s, tagBytes(f.Bytes(), s)), nil
	}

	f, err := multiboot.OpenInfo(path)
	if err != nil {
		return exploreModel{}, fmt.Errorf("failed to load boot information: %w", err)
	}
	defer f.Close()
	s, err := printer.SummarizeInfo(f.BootInformation, opts)
	if err != nil {
		return exploreModel{}, err
	}
	return newExploreModel(path, s, tagBytes(f.Bytes(), s)), nil
}

// tagBytes copies each summarized tag's declared bytes out of data.
func tagBytes(data []byte, s printer.Summary) [][]byte {
	out := make([][]byte, len(s.Tags))
	for i, t := range s.Tags {
		end := min(t.Offset+int(t.Size), len(data))
		if t.Offset < end {
			out[i] = append([]byte(nil), data[t.Offset:end]...)
		}
	}
	return out
}
