package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/mbkit/multiboot"
	"github.com/joshuapare/mbkit/multiboot/printer"
)

var (
	headerTypes    []string
	headerNoFields bool
)

func init() {
	cmd := newHeaderCmd()
	cmd.Flags().StringSliceVarP(&headerTypes, "type", "t", nil, "Only show tags of these types (e.g. address,relocatable)")
	cmd.Flags().BoolVar(&headerNoFields, "no-fields", false, "Only list tag types, sizes and offsets")
	rootCmd.AddCommand(cmd)
}

func newHeaderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "header <image>",
		Short: "Find and decode the Multiboot2 header of a kernel image",
		Long: `The header command searches the first 32 KiB of a kernel image for a
Multiboot2 header, validates its checksum and tags, and prints it.

Example:
  mbctl header kernel.elf
  mbctl header kernel.elf --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeader(args)
		},
	}
	return cmd
}

func runHeader(args []string) error {
	path := args[0]

	logger.Debug().Str("path", path).Msg("searching for header")

	f, err := multiboot.OpenHeader(path)
	if err != nil {
		return fmt.Errorf("failed to load header: %w", err)
	}
	defer f.Close()

	logger.Debug().
		Int("offset", f.Offset).
		Stringer("arch", f.Arch()).
		Uint32("length", f.Length()).
		Msg("header found")

	opts := printOptions(headerTypes, printer.DefaultMaxDataBytes, headerNoFields)
	return printer.New(os.Stdout, opts).PrintHeader(f.Header)
}
