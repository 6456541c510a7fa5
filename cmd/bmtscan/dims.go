package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/bmtscan/internal/log"
	"github.com/spf13/cobra"
)

// NewDimsCmd creates the dims command.
func NewDimsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dims [file|directory]...",
		Short: "Scan containers for image dimension signatures",
		Long: `Dims scans each container for candidate encodings of the profile's known
resolutions: width and height as consecutive 16-bit or 32-bit
little-endian integers.

Each hit is reported with its offset, encoding, and surrounding byte
context. Hits whose context contains one of the profile's marker
constants are flagged as high confidence. A header-size consistency check
reads the presumed width and height fields behind each known resolution's
pixel block and reports whether they match.

Examples:
  # Scan all captures in a directory
  bmtscan dims captures/

  # Scan one file under the embedded profile
  bmtscan dims -p embedded cap1.bmt`,
		Args: cobra.ArbitraryArgs,
		RunE: runDimsCmd,
	}

	addReportFlags(cmd)

	return cmd
}

// runDimsCmd executes the dims command.
func runDimsCmd(cmd *cobra.Command, args []string) error {
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

	return runInspection(ctx, cfg, logger, analysisSteps{dimensions: true})
}
