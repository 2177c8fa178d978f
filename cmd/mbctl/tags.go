package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/mbkit/multiboot"
	"github.com/joshuapare/mbkit/multiboot/bootinfo"
)

func init() {
	rootCmd.AddCommand(newTagsCmd())
}

func newTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags <dump>",
		Short: "List the tags of a boot information dump",
		Long: `The tags command prints one line per tag: offset, type and size.

Example:
  mbctl tags mbi.bin
  mbctl tags mbi.bin --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTags(args)
		},
	}
	return cmd
}

type tagEntry struct {
	Offset int    `json:"offset"`
	Type   string `json:"type"`
	ID     uint32 `json:"id"`
	Size   uint32 `json:"size"`
}

func runTags(args []string) error {
	f, err := multiboot.OpenInfo(args[0])
	if err != nil {
		return fmt.Errorf("failed to load boot information: %w", err)
	}
	defer f.Close()

	entries, err := listTags(f.BootInformation)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(entries)
	}

	printInfo("%s\n", styled(titleStyle, fmt.Sprintf("%-8s %-18s %s", "OFFSET", "TYPE", "SIZE")))
	for _, e := range entries {
		name := fmt.Sprintf("%-18s", e.Type)
		if bootinfo.TagType(e.ID).IsCustom() {
			name = styled(mutedStyle, name)
		}
		printInfo("%#-8x %s %d\n", e.Offset, name, e.Size)
	}
	printInfo("%d tags, %d bytes\n", len(entries), f.TotalSize())
	return nil
}

func listTags(bi *bootinfo.BootInformation) ([]tagEntry, error) {
	entries := []tagEntry{}
	off := bi.Header().HeaderLen()
	it := bi.Tags()
	for r := range it.All() {
		h := r.Header()
		entries = append(entries, tagEntry{Offset: off, Type: h.Type.String(), ID: uint32(h.Type), Size: h.Size})
		off += r.Len()
	}
	return entries, it.Err()
}
