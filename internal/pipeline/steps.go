package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/bmtscan/internal/scale"
	"github.com/nao1215/bmtscan/internal/signature"
	"github.com/nao1215/bmtscan/internal/stability"
)

// DefaultHeaderDumpLen is the number of leading bytes rendered as a hex
// dump per file.
const DefaultHeaderDumpLen = 64

// DefaultPreviewBytes is the number of reference bytes attached to each
// stable run for presentation.
const DefaultPreviewBytes = 16

// StabilityStep classifies the profile's named byte ranges as stable or
// varying across the corpus.
//
// Design decision: Stability runs first because its output tells the
// analyst which parts of the header are worth staring at before any
// field-level hypothesis is tested.
type StabilityStep struct {
	// previewBytes bounds the reference preview attached to stable runs.
	previewBytes int

	// logger for structured logging.
	logger *slog.Logger
}

// StabilityStepOption configures a StabilityStep.
type StabilityStepOption func(*StabilityStep)

// WithPreviewBytes sets the maximum preview length per stable run.
func WithPreviewBytes(n int) StabilityStepOption {
	return func(s *StabilityStep) {
		if n > 0 {
			s.previewBytes = n
		}
	}
}

// WithStabilityLogger sets a custom logger for the stability step.
func WithStabilityLogger(logger *slog.Logger) StabilityStepOption {
	return func(s *StabilityStep) {
		s.logger = logger
	}
}

// NewStabilityStep creates a new range stability step.
func NewStabilityStep(opts ...StabilityStepOption) *StabilityStep {
	s := &StabilityStep{
		previewBytes: DefaultPreviewBytes,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *StabilityStep) Name() string {
	return "stability"
}

// Do executes the stability classification step.
func (s *StabilityStep) Do(_ context.Context, insp *Inspection) error {
	ranges := insp.Profile.StabilityRanges
	if len(ranges) == 0 {
		s.logger.Debug("no stability ranges configured, skipping")
		return nil
	}

	results := stability.Analyze(insp.Corpus, ranges)
	for _, runs := range results {
		stability.AttachPreviews(insp.Corpus, runs, s.previewBytes)
	}
	insp.Report.Stability = results

	s.logger.Info("stability classification completed",
		"ranges", len(results),
	)

	return nil
}

// DimensionStep locates serialized (width, height) pairs in every corpus
// member, marks the high-confidence subset, and checks header-size
// consistency for each known resolution.
type DimensionStep struct {
	// headerDumpLen is the number of leading bytes rendered per file.
	headerDumpLen int

	// logger for structured logging.
	logger *slog.Logger
}

// DimensionStepOption configures a DimensionStep.
type DimensionStepOption func(*DimensionStep)

// WithHeaderDumpLen sets the number of leading bytes dumped per file.
func WithHeaderDumpLen(n int) DimensionStepOption {
	return func(s *DimensionStep) {
		if n > 0 {
			s.headerDumpLen = n
		}
	}
}

// WithDimensionLogger sets a custom logger for the dimension step.
func WithDimensionLogger(logger *slog.Logger) DimensionStepOption {
	return func(s *DimensionStep) {
		s.logger = logger
	}
}

// NewDimensionStep creates a new dimension signature step.
func NewDimensionStep(opts ...DimensionStepOption) *DimensionStep {
	s := &DimensionStep{
		headerDumpLen: DefaultHeaderDumpLen,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *DimensionStep) Name() string {
	return "dimensions"
}

// Do executes the dimension signature step.
func (s *DimensionStep) Do(_ context.Context, insp *Inspection) error {
	p := insp.Profile

	for i, f := range insp.Corpus.Files {
		candidates := signature.Scan(f.Data, p.KnownResolutions, p.ContextRadius)
		signature.SortByOffset(candidates)

		report := &insp.Report.Files[i]
		report.HeaderDump = signature.DumpHeader(f.Data, s.headerDumpLen)
		report.Dimensions = candidates
		report.HighConfidence = signature.HighConfidence(f.Data, candidates, p.MarkerConstants)

		for _, res := range p.KnownResolutions {
			report.Consistency = append(report.Consistency,
				signature.CheckConsistency(f.Data, p.PixelHeaderSize, res.Width, res.Height))
		}

		s.logger.Debug("dimension scan completed",
			"file", f.Name,
			"hits", len(candidates),
			"high_confidence", len(report.HighConfidence),
		)
	}

	return nil
}

// ScaleStep sweeps the profile's scan regions for thermal scale candidates
// in every corpus member, then ranks the pair candidates across the corpus.
type ScaleStep struct {
	// includeSingles records single-value candidates, not only pairs.
	// Singles are noisy; they are off unless the analyst asks.
	includeSingles bool

	// logger for structured logging.
	logger *slog.Logger
}

// ScaleStepOption configures a ScaleStep.
type ScaleStepOption func(*ScaleStep)

// WithIncludeSingles records single-value candidates in the report.
func WithIncludeSingles(include bool) ScaleStepOption {
	return func(s *ScaleStep) {
		s.includeSingles = include
	}
}

// WithScaleLogger sets a custom logger for the scale step.
func WithScaleLogger(logger *slog.Logger) ScaleStepOption {
	return func(s *ScaleStep) {
		s.logger = logger
	}
}

// NewScaleStep creates a new thermal scale recovery step.
func NewScaleStep(opts ...ScaleStepOption) *ScaleStep {
	s := &ScaleStep{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ScaleStep) Name() string {
	return "scale"
}

// Do executes the scale recovery step.
func (s *ScaleStep) Do(_ context.Context, insp *Inspection) error {
	p := insp.Profile
	if len(p.ScaleRegions) == 0 {
		s.logger.Debug("no scale regions configured, skipping")
		return nil
	}

	for i, f := range insp.Corpus.Files {
		report := &insp.Report.Files[i]

		for _, region := range p.ScaleRegions {
			if s.includeSingles {
				report.ScaleSingles = append(report.ScaleSingles,
					scale.ScanSingles(f.Data, region, p)...)
			}
			report.ScalePairs = append(report.ScalePairs,
				scale.ScanPairs(f.Data, region, p)...)
		}
	}

	insp.Report.RankedPairs = scale.Rank(insp.Corpus, p.ScaleRegions, p)

	s.logger.Info("scale recovery completed",
		"pair_candidates", insp.Report.TotalScalePairs(),
		"ranked", len(insp.Report.RankedPairs),
	)

	return nil
}

// DefaultPipeline creates a pipeline with all analysis steps in standard
// order: stability, dimensions, scale.
//
// Design decision: We provide a default pipeline because most inspections
// want every analysis, and a fixed ordering keeps reports comparable
// between runs.
func DefaultPipeline(pipelineOpts []Option, logger *slog.Logger) *Pipeline {
	p := New(pipelineOpts...)

	if logger == nil {
		logger = slog.Default()
	}

	p.AddSteps(
		NewStabilityStep(WithStabilityLogger(logger)),
		NewDimensionStep(WithDimensionLogger(logger)),
		NewScaleStep(WithScaleLogger(logger)),
	)

	return p
}
