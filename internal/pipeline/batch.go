package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/bmtscan/internal/container"
	"github.com/nao1215/bmtscan/internal/corpus"
	"github.com/nao1215/bmtscan/internal/model"
	"github.com/nao1215/bmtscan/internal/profile"
	"github.com/nao1215/bmtscan/internal/sidecar"
	"golang.org/x/sync/errgroup"
)

// BatchExtractor handles concurrent extraction of multiple container files.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchExtractor rather than adding
// extraction to Pipeline because:
// 1. Extraction is per-file work, not corpus-wide analysis
// 2. It keeps the Pipeline focused on inspection steps
// 3. It allows different batch strategies (e.g., rate limiting, retries)
type BatchExtractor struct {
	// profile is the format profile extraction runs under.
	profile profile.Profile

	// outDir is the directory raster outputs are written into.
	outDir string

	// sidecarTable matches capture base names to operator metadata.
	// Nil when no sidecar was loaded.
	sidecarTable sidecar.Table

	// concurrency is the maximum number of concurrent extractions.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// records stores completed extraction records.
	// Access is synchronized via mutex.
	records []model.ExtractionRecord
	mu      sync.Mutex
}

// BatchOption configures a BatchExtractor.
type BatchOption func(*BatchExtractor)

// WithBatchLogger sets a custom logger for batch extraction.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchExtractor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent extractions.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchExtractor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithSidecar attaches a sidecar table; matched rows are recorded on each
// extraction record.
func WithSidecar(table sidecar.Table) BatchOption {
	return func(b *BatchExtractor) {
		b.sidecarTable = table
	}
}

// NewBatchExtractor creates a new BatchExtractor writing into outDir.
func NewBatchExtractor(p profile.Profile, outDir string, opts ...BatchOption) *BatchExtractor {
	b := &BatchExtractor{
		profile:     p,
		outDir:      outDir,
		concurrency: 4,
		records:     make([]model.ExtractionRecord, 0),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// ProcessBatch extracts multiple container files concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each file gets its own goroutine, but only 'concurrency' goroutines
// run simultaneously.
//
// Returns one record per input file in input order, even for files whose
// specs failed; per-spec errors live on their record. The error return
// indicates cancellation or an unusable profile layout table.
func (b *BatchExtractor) ProcessBatch(ctx context.Context, files []corpus.File) ([]model.ExtractionRecord, error) {
	specs, err := container.CompileSpecs(b.profile)
	if err != nil {
		return nil, err
	}

	b.logger.Info("starting batch extraction",
		"total_files", len(files),
		"concurrency", b.concurrency,
		"out_dir", b.outDir,
	)

	startTime := time.Now()

	// Pre-allocate records slice to maintain order
	b.records = make([]model.ExtractionRecord, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, f := range files {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			b.logger.Info("extracting container",
				"file", f.Name,
				"index", i+1,
				"total", len(files),
			)

			record := b.extractOne(f, specs)

			b.mu.Lock()
			b.records[i] = record
			b.mu.Unlock()

			if len(record.Errors) > 0 {
				b.logger.Warn("extraction completed with spec failures",
					"file", f.Name,
					"failures", len(record.Errors),
				)
			}

			return nil
		})
	}

	err = g.Wait()

	elapsed := time.Since(startTime)
	b.logger.Info("batch extraction complete",
		"total_files", len(files),
		"elapsed", elapsed,
	)

	return b.records, err
}

// ProcessBatchWithCallback extracts multiple files and calls a callback
// for each completed extraction. This is useful for streaming results.
//
// The callback receives the record and the index of the file in the
// original slice. The callback is called from the goroutine that completed
// the extraction, so it should be thread-safe if it accesses shared state.
func (b *BatchExtractor) ProcessBatchWithCallback(
	ctx context.Context,
	files []corpus.File,
	callback func(record model.ExtractionRecord, index int),
) error {
	specs, err := container.CompileSpecs(b.profile)
	if err != nil {
		return err
	}

	b.logger.Info("starting batch extraction with callback",
		"total_files", len(files),
		"concurrency", b.concurrency,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, f := range files {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			callback(b.extractOne(f, specs), i)
			return nil
		})
	}

	return g.Wait()
}

// extractOne processes a single container file into an extraction record.
func (b *BatchExtractor) extractOne(f corpus.File, specs []container.ImageSpec) model.ExtractionRecord {
	extractor := container.NewExtractor(b.profile, container.WithLogger(b.logger))
	results := extractor.Extract(f.Data, specs)
	outputs, errs := container.WriteOutputs(b.outDir, f.Base(), results)

	record := model.ExtractionRecord{
		Base:    f.Base(),
		Source:  f.Path,
		Digest:  f.Digest,
		Outputs: outputs,
		Errors:  errs,
	}

	if b.sidecarTable != nil {
		if entry, ok := b.sidecarTable.Lookup(f.Base()); ok {
			record.Sidecar = &entry
		}
	}

	return record
}
