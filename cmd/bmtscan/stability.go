package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nao1215/bmtscan/internal/log"
	"github.com/spf13/cobra"
)

// NewStabilityCmd creates the stability command.
func NewStabilityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stability [file|directory]...",
		Aliases: []string{"analyze"},
		Short:   "Report which named byte ranges are stable across the corpus",
		Long: `Stability compares the profile's named byte ranges across every container
in the corpus and reports maximal runs of stable (identical everywhere)
and varying bytes.

Stable runs carry a preview of the shared bytes; a run of stable bytes in
a header region is a strong hint of fixed format structure, while varying
bytes mark per-capture fields such as timestamps and scale values.

Comparison stops at the shortest container. Ranges that start past the
end of every container are reported as outside corpus bounds.

Examples:
  # Compare all captures in a directory
  bmtscan stability captures/

  # JSON output for further processing
  bmtscan stability --json captures/`,
		Args: cobra.ArbitraryArgs,
		RunE: runStabilityCmd,
	}

	addReportFlags(cmd)

	return cmd
}

// runStabilityCmd executes the stability command.
func runStabilityCmd(cmd *cobra.Command, args []string) error {
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

	return runInspection(ctx, cfg, logger, analysisSteps{stability: true})
}
