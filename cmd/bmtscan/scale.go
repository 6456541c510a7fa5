package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/bmtscan/internal/log"
	"github.com/spf13/cobra"
)

// NewScaleCmd creates the scale command.
func NewScaleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scale [file|directory]...",
		Short: "Scan containers for thermal-scale value candidates",
		Long: `Scale scans the profile's scale regions for plausible thermal-scale
encodings: (min, max) pairs of consecutive 32-bit little-endian floats
within the profile's temperature window.

Pair candidates found at the same offset in multiple containers are
ranked across the corpus; a candidate that decodes to a plausible,
distinct pair in every capture almost certainly is the scale field.
Single-value candidates are noisier and reported only with --singles.

Examples:
  # Rank scale pair candidates across a directory
  bmtscan scale captures/

  # Include single-value candidates
  bmtscan scale --singles captures/`,
		Args: cobra.ArbitraryArgs,
		RunE: runScaleCmd,
	}

	addReportFlags(cmd)
	cmd.Flags().BoolP("singles", "s", false,
		"Report single-value scale candidates in addition to pairs")

	return cmd
}

// runScaleCmd executes the scale command.
func runScaleCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildAnalysisConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	singles, err := cmd.Flags().GetBool("singles")
	if err != nil {
		return err
	}

	return runInspection(ctx, cfg, logger, analysisSteps{scale: true, singles: singles})
}
