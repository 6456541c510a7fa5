package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/bmtscan/internal/profile"
	"github.com/spf13/cobra"
)

//go:embed templates/bmtscan.yaml
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new bmtscan profile configuration file",
		Long: `Initialize creates a new .bmtscan.yaml configuration file in the current
directory.

The generated file includes:
- Commented examples for overriding the built-in profiles
- A skeleton for defining an entirely new format profile
- Documentation for every profile field

Examples:
  # Create .bmtscan.yaml in current directory
  bmtscan init

  # Create config file at a specific path
  bmtscan init -o myprofiles.yaml

  # Force overwrite existing file
  bmtscan init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", profile.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := configTemplate.ReadFile("templates/bmtscan.yaml")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write configuration file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	fmt.Printf("Created configuration file: %s\n", outputPath)
	fmt.Println("\nEdit this file to adjust format knowledge such as:")
	fmt.Println("  - Image layout tables (offsets, dimensions, render modes)")
	fmt.Println("  - Stability ranges and thermal-scale regions")
	fmt.Println("  - Plausibility windows for scale candidate scanning")

	return nil
}
