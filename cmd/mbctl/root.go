package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/mbkit/multiboot/printer"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	jsonOut   bool
	noColor   bool
	outFormat string
)

var rootCmd = &cobra.Command{
	Use:   "mbctl",
	Short: "Inspect and build Multiboot2 headers and boot information",
	Long: `mbctl is a tool for inspecting Multiboot2 boot information dumps and
kernel images, and for building both structures from TOML descriptions.
Every structure is validated before it is printed or written.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configureLogger(os.Stderr)
		_, err := printer.ParseFormat(outFormat)
		return err
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().
		StringVarP(&outFormat, "format", "f", string(printer.FormatText), "Output format: text, json or yaml")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, styled(failStyle, "Error: ")+format, args...)
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// selectedFormat resolves --json and --format into one printer format.
func selectedFormat() printer.Format {
	if jsonOut {
		return printer.FormatJSON
	}
	f, err := printer.ParseFormat(outFormat)
	if err != nil {
		return printer.FormatText
	}
	return f
}
