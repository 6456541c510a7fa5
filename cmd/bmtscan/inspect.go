package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/nao1215/bmtscan/internal/catalog"
	"github.com/nao1215/bmtscan/internal/config"
	"github.com/nao1215/bmtscan/internal/corpus"
	"github.com/nao1215/bmtscan/internal/log"
	"github.com/nao1215/bmtscan/internal/model"
	"github.com/nao1215/bmtscan/internal/pipeline"
	"github.com/nao1215/bmtscan/internal/profile"
	"github.com/nao1215/bmtscan/internal/report"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [file|directory]...",
		Short: "Run all analyses over a corpus of containers",
		Long: `Inspect runs every analysis step over the given containers:

- Range stability: which profile-named byte ranges are identical across
  the corpus and which vary
- Dimension signatures: candidate (width, height) encodings for the known
  resolutions, with marker-constant confidence and header-size checks
- Thermal scale: plausible (min, max) float pairs in the profile's scale
  regions, ranked across the corpus

Directories contribute every *.bmt file in name order. All containers in
one invocation are assumed to share a format version; mixing versions
produces noisy stability results.

Examples:
  # Inspect every capture in a directory
  bmtscan inspect captures/

  # Inspect specific files under the embedded profile
  bmtscan inspect -p embedded cap1.bmt cap2.bmt

  # Write a Markdown report to a file
  bmtscan inspect --markdown -o report.md captures/

  # Include single-value scale candidates and save to the catalog
  bmtscan inspect --singles --save captures/`,
		Args: cobra.ArbitraryArgs,
		RunE: runInspectCmd,
	}

	addReportFlags(cmd)
	cmd.Flags().BoolP("singles", "s", false,
		"Report single-value scale candidates in addition to pairs")
	cmd.Flags().BoolP("save", "d", false,
		"Save the inspection report to the catalog database")
	cmd.Flags().String("db-dir", "",
		"Catalog database directory (default: XDG data directory)")

	return cmd
}

// runInspectCmd executes the inspect command.
func runInspectCmd(cmd *cobra.Command, args []string) error {
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

	return runInspection(ctx, cfg, logger, analysisSteps{
		stability:  true,
		dimensions: true,
		scale:      true,
		singles:    singles,
	})
}

// analysisSteps selects which analysis steps an inspection runs.
// The single-step commands (stability, dims, scale) enable one each;
// inspect enables all of them.
type analysisSteps struct {
	stability  bool
	dimensions bool
	scale      bool
	singles    bool
}

// runInspection loads the corpus, runs the selected steps, and outputs the
// report. Shared by inspect and the single-step commands.
func runInspection(ctx context.Context, cfg *config.Config, logger *slog.Logger, steps analysisSteps) error {
	p, err := resolveProfile(cfg)
	if err != nil {
		return err
	}

	c, err := corpus.Load(cfg.Inputs...)
	if err != nil {
		return err
	}
	if c.Len() == 0 {
		return fmt.Errorf("no %s containers found in %s", corpus.DefaultExtension, strings.Join(cfg.Inputs, ", "))
	}

	logger.Info("starting inspection",
		"profile", p.Name,
		"files", c.Len(),
		"minLen", c.MinLen(),
	)

	pl := buildPipeline(logger, steps)
	insp := pipeline.NewInspection(c, p, corpusLabel(cfg.Inputs))

	startTime := time.Now()
	if err := pl.Execute(ctx, insp); err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}
	logger.Info("inspection completed", "elapsed", time.Since(startTime).Round(time.Millisecond))

	if err := outputReport(cfg, insp.Report); err != nil {
		return err
	}

	return saveInspection(ctx, cfg, insp.Report, logger)
}

// buildPipeline assembles a pipeline containing the selected steps in the
// standard order.
func buildPipeline(logger *slog.Logger, steps analysisSteps) *pipeline.Pipeline {
	pl := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(true),
	)

	if steps.stability {
		pl.AddStep(pipeline.NewStabilityStep(pipeline.WithStabilityLogger(logger)))
	}
	if steps.dimensions {
		pl.AddStep(pipeline.NewDimensionStep(pipeline.WithDimensionLogger(logger)))
	}
	if steps.scale {
		pl.AddStep(pipeline.NewScaleStep(
			pipeline.WithScaleLogger(logger),
			pipeline.WithIncludeSingles(steps.singles),
		))
	}

	return pl
}

// addReportFlags registers the report output flags shared by every
// analysis command.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// buildAnalysisConfig creates a Config from the flags shared by the
// analysis commands (inspect, stability, dims, scale).
func buildAnalysisConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Inputs = args
	cfg.Verbose = getVerboseFlag(cmd)

	if v, ok := getPersistentString(cmd, "profile"); ok {
		cfg.Profile = v
	}
	if v, ok := getPersistentString(cmd, "config"); ok {
		cfg.ConfigFilePath = v
	}

	var err error

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Catalog flags are only present on commands that can save
	if cmd.Flags().Lookup("save") != nil {
		cfg.SaveToDB, err = cmd.Flags().GetBool("save")
		if err != nil {
			return nil, err
		}
		cfg.DBDir, err = cmd.Flags().GetString("db-dir")
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// getPersistentString retrieves a persistent string flag from the command
// or its parent. The second return is false when neither defines the flag,
// which happens for subcommands built standalone in tests.
func getPersistentString(cmd *cobra.Command, name string) (string, bool) {
	if v, err := cmd.Flags().GetString(name); err == nil {
		return v, true
	}
	if v, err := cmd.Root().PersistentFlags().GetString(name); err == nil {
		return v, true
	}
	return "", false
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// signalContext returns a context cancelled by SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// resolveProfile loads the profile configuration file (if any) and resolves
// the configured profile name against built-ins and file overrides.
// If the user explicitly specified a config file path, a missing file is an
// error; otherwise built-ins alone are used.
func resolveProfile(cfg *config.Config) (profile.Profile, error) {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := profile.FindFile(cfg.ConfigFilePath)

	var f *profile.File
	if configPath != "" {
		var err error
		f, err = profile.LoadFile(configPath)
		if err != nil {
			return profile.Profile{}, fmt.Errorf("failed to load profile file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return profile.Profile{}, fmt.Errorf("%w: %s", profile.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	p, err := profile.Resolve(cfg.Profile, f)
	if err != nil {
		if errors.Is(err, profile.ErrUnknownProfile) {
			return profile.Profile{}, fmt.Errorf("%w (built-in profiles: %s)",
				err, strings.Join(profile.BuiltinNames(), ", "))
		}
		return profile.Profile{}, err
	}

	return p, nil
}

// corpusLabel derives the report's corpus label from the input paths.
func corpusLabel(inputs []string) string {
	return strings.Join(inputs, ", ")
}

// outputReport writes the inspection report in the requested format.
func outputReport(cfg *config.Config, insp *model.InspectionReport) error {
	output, closeOutput, err := openReportOutput(cfg.ReportFile)
	if err != nil {
		return err
	}
	defer closeOutput()

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewTextWriter(output, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(insp); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// openReportOutput opens the report destination: the given file path, or
// stdout when empty. The returned closer is a no-op for stdout.
func openReportOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil //nolint:errcheck // Best effort close
}

// saveInspection saves the report to the catalog when enabled.
func saveInspection(ctx context.Context, cfg *config.Config, insp *model.InspectionReport, logger *slog.Logger) error {
	if !cfg.SaveToDB {
		return nil
	}

	db, err := catalog.Open(cfg.EffectiveDBDir(), catalog.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer db.Close()

	if err := db.SaveInspection(ctx, insp); err != nil {
		return fmt.Errorf("failed to save inspection: %w", err)
	}

	logger.Info("inspection saved to catalog", "dir", cfg.EffectiveDBDir())
	return nil
}
