package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/mbkit/multiboot"
	"github.com/joshuapare/mbkit/multiboot/printer"
)

var (
	infoTypes    []string
	infoMaxBytes int
	infoNoFields bool
)

func init() {
	cmd := newInfoCmd()
	cmd.Flags().StringSliceVarP(&infoTypes, "type", "t", nil, "Only show tags of these types (e.g. cmdline,mmap)")
	cmd.Flags().IntVar(&infoMaxBytes, "max-bytes", printer.DefaultMaxDataBytes, "Maximum payload bytes shown as hex (0 = all)")
	cmd.Flags().BoolVar(&infoNoFields, "no-fields", false, "Only list tag types, sizes and offsets")
	rootCmd.AddCommand(cmd)
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <dump>",
		Short: "Decode a boot information dump",
		Long: `The info command validates a Multiboot2 boot information structure saved
to a file and prints every tag with its decoded fields.

Example:
  mbctl info mbi.bin
  mbctl info mbi.bin --type cmdline,mmap
  mbctl info mbi.bin --format yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	return cmd
}

func runInfo(args []string) error {
	path := args[0]

	logger.Debug().Str("path", path).Msg("opening boot information")

	f, err := multiboot.OpenInfo(path)
	if err != nil {
		return fmt.Errorf("failed to load boot information: %w", err)
	}
	defer f.Close()

	logger.Debug().
		Int("total_size", f.TotalSize()).
		Int("tags", f.TagCount()).
		Msg("boot information valid")

	return printer.New(os.Stdout, printOptions(infoTypes, infoMaxBytes, infoNoFields)).PrintInfo(f.BootInformation)
}

// printOptions builds printer options from the global and per-command flags.
func printOptions(types []string, maxBytes int, noFields bool) printer.Options {
	opts := printer.DefaultOptions()
	opts.Format = selectedFormat()
	opts.Types = types
	opts.MaxDataBytes = maxBytes
	opts.ShowFields = !noFields
	return opts
}
