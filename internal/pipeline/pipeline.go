package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/bmtscan/internal/corpus"
	"github.com/nao1215/bmtscan/internal/model"
	"github.com/nao1215/bmtscan/internal/profile"
)

// Inspection is the shared state of one analysis run: the loaded corpus,
// the format profile under test, and the report accumulating findings.
type Inspection struct {
	// Corpus holds the loaded container files.
	Corpus *corpus.Corpus

	// Profile is the format profile the analysis runs under.
	Profile profile.Profile

	// Report accumulates findings across steps.
	Report *model.InspectionReport
}

// NewInspection creates an inspection over the given corpus and profile.
// The report is pre-populated with one file entry per corpus member so
// steps can attach findings by index.
func NewInspection(c *corpus.Corpus, p profile.Profile, corpusLabel string) *Inspection {
	report := model.NewInspectionReport(corpusLabel, p.Name)
	for _, f := range c.Files {
		report.Files = append(report.Files, model.FileReport{
			Name:   f.Name,
			Size:   len(f.Data),
			Digest: f.Digest,
		})
	}

	return &Inspection{
		Corpus:  c,
		Profile: p,
		Report:  report,
	}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// inspection state from previous steps.
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation and the inspection to modify.
	// Returns an error if the step fails critically; non-critical findings
	// should be recorded in the report and return nil.
	Do(ctx context.Context, insp *Inspection) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger

	// continueOnError determines whether to continue executing steps
	// after one fails. If false, the pipeline stops on first error.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, the default logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError configures the pipeline to continue execution
// even when a step fails. Failed steps are logged and their errors
// are recorded in the report, but subsequent steps still execute.
//
// Design decision: This option exists because one misconfigured scan
// region shouldn't prevent the structural steps from reporting. The
// default is to stop on error because early failures usually mean the
// profile doesn't match the corpus at all.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:           make([]Step, 0),
		continueOnError: false,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps are pure in-memory computations that finish
// quickly. This keeps step code free of cancellation plumbing while
// still stopping multi-step runs promptly.
//
// Returns the first error encountered if continueOnError is false,
// or nil if all steps complete (errors are recorded in the report).
func (p *Pipeline) Execute(ctx context.Context, insp *Inspection) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			insp.Report.ErrorMessage = ctx.Err().Error()
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"corpus", insp.Report.CorpusLabel,
		)

		if err := step.Do(ctx, insp); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"corpus", insp.Report.CorpusLabel,
				"error", err,
			)

			insp.Report.ErrorMessage = err.Error()

			if !p.continueOnError {
				return err
			}
		} else {
			p.logger.Debug("step completed",
				"step", step.Name(),
				"corpus", insp.Report.CorpusLabel,
			)
		}

		insp.Report.PerformedSteps = append(insp.Report.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
