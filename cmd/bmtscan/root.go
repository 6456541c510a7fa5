// Package main provides the entry point for the bmtscan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for bmtscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bmtscan",
		Short: "Reverse-engineering toolkit for BMT thermal-camera containers",
		Long: `bmtscan analyzes and extracts undocumented BMT thermal-camera capture files.

It compares containers byte-by-byte to find stable header structure, scans
for image dimension signatures and thermal-scale values, and extracts the
raw or embedded rasters as viewable BMP images.

Format knowledge lives in profiles. Built-in profiles cover the classic
raw-pixel layout and the later embedded-raster layout; a .bmtscan.yaml
file can override them or define new ones.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("profile", "p", "classic",
		"Format profile to run under (built-in: classic, embedded)")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Profile configuration file path (default: .bmtscan.yaml in current or home directory)")

	// Add subcommands
	cmd.AddCommand(NewInspectCmd())
	cmd.AddCommand(NewStabilityCmd())
	cmd.AddCommand(NewDimsCmd())
	cmd.AddCommand(NewScaleCmd())
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
