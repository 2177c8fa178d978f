package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/mbkit/multiboot/header"
)

var (
	buildConfig string
	buildOutput string
)

func init() {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a boot information structure or kernel header from TOML",
		Long: `The build command encodes a structure described in a TOML file. The
result is validated by loading it back before it is written.

Example:
  mbctl build info -c info.toml -o mbi.bin
  mbctl build header -c header.toml -o header.bin`,
	}
	cmd.PersistentFlags().StringVarP(&buildConfig, "config", "c", "", "TOML description to build from")
	cmd.PersistentFlags().StringVarP(&buildOutput, "output", "o", "", "File to write")
	_ = cmd.MarkPersistentFlagRequired("config")
	_ = cmd.MarkPersistentFlagRequired("output")

	cmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Build a boot information structure",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuildInfo(buildConfig, buildOutput)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "header",
		Short: "Build a kernel Multiboot2 header",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuildHeader(buildConfig, buildOutput)
		},
	})
	rootCmd.AddCommand(cmd)
}

func runBuildInfo(configPath, outPath string) error {
	logger.Debug().Str("config", configPath).Msg("reading boot information description")

	b, err := loadInfoConfig(configPath)
	if err != nil {
		return err
	}
	bi, err := b.Build()
	if err != nil {
		return fmt.Errorf("failed to build boot information: %w", err)
	}
	if err := os.WriteFile(outPath, bi.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info().
		Str("output", outPath).
		Int("total_size", bi.TotalSize()).
		Int("tags", bi.TagCount()).
		Msg("boot information written")
	printInfo("Wrote %d bytes (%d tags) to %s\n", bi.TotalSize(), bi.TagCount(), outPath)
	return nil
}

func runBuildHeader(configPath, outPath string) error {
	logger.Debug().Str("config", configPath).Msg("reading header description")

	b, err := loadHeaderConfig(configPath)
	if err != nil {
		return err
	}
	h, err := header.Load(b.Bytes())
	if err != nil {
		return fmt.Errorf("failed to build header: %w", err)
	}
	if err := os.WriteFile(outPath, h.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info().
		Str("output", outPath).
		Uint32("length", h.Length()).
		Stringer("arch", h.Arch()).
		Msg("header written")
	printInfo("Wrote %d bytes (%d tags, checksum %#08x) to %s\n", h.Length(), h.TagCount(), h.Checksum(), outPath)
	return nil
}
