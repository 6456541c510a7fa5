package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nao1215/bmtscan/internal/catalog"
	"github.com/nao1215/bmtscan/internal/config"
	"github.com/nao1215/bmtscan/internal/corpus"
	"github.com/nao1215/bmtscan/internal/log"
	"github.com/nao1215/bmtscan/internal/model"
	"github.com/nao1215/bmtscan/internal/pipeline"
	"github.com/nao1215/bmtscan/internal/sidecar"
	"github.com/spf13/cobra"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [file|directory]...",
		Short: "Extract container images as viewable BMP files",
		Long: `Extract decodes every image the profile describes in each container and
writes the results as BMP files.

Raw pixel blocks are decoded as 16-bit little-endian samples and rendered
either as normalized grayscale or through the thermal color ramp,
depending on the image entry. Embedded rasters are carved out verbatim.
Failures are isolated per image: one bad image spec does not stop the
remaining images or containers.

A manifest.json listing every output and failure is written into the
output directory. With --sidecar, operator-recorded metadata (focus
distance, true scale bounds) is matched by capture name and recorded in
the manifest.

Examples:
  # Extract all captures next to the input
  bmtscan extract captures/

  # Extract into a specific directory with sidecar metadata
  bmtscan extract -o out/ --sidecar captures/notes.tsv captures/

  # Extract embedded-layout captures with higher parallelism
  bmtscan extract -p embedded -n 8 captures/`,
		Args: cobra.ArbitraryArgs,
		RunE: runExtractCmd,
	}

	cmd.Flags().StringP("output-dir", "o", "",
		"Directory for extracted images (default: 'extracted' next to the first input)")
	cmd.Flags().StringP("sidecar", "s", "",
		"Tab-delimited capture metadata file matched by capture name")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of containers extracted in parallel")
	cmd.Flags().BoolP("save", "d", false,
		"Save extraction records to the catalog database")
	cmd.Flags().String("db-dir", "",
		"Catalog database directory (default: XDG data directory)")

	return cmd
}

// runExtractCmd executes the extract command.
func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildExtractConfig(cmd, args)
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

	return runExtraction(ctx, cfg, logger)
}

// buildExtractConfig creates a Config from the extract command's flags.
func buildExtractConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
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

	cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
	if err != nil {
		return nil, err
	}

	cfg.SidecarPath, err = cmd.Flags().GetString("sidecar")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.SaveToDB, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// runExtraction extracts every container and writes the manifest.
func runExtraction(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
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

	outDir := cfg.EffectiveOutputDir()
	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	batchOpts := []pipeline.BatchOption{
		pipeline.WithBatchLogger(logger),
		pipeline.WithConcurrency(cfg.Concurrency),
	}

	if cfg.SidecarPath != "" {
		table, err := sidecar.Load(cfg.SidecarPath)
		if err != nil {
			return fmt.Errorf("failed to load sidecar %s: %w", cfg.SidecarPath, err)
		}
		logger.Info("sidecar loaded", "path", cfg.SidecarPath, "entries", len(table))
		batchOpts = append(batchOpts, pipeline.WithSidecar(table))
	}

	var db *catalog.Catalog
	if cfg.SaveToDB {
		db, err = catalog.Open(cfg.EffectiveDBDir(), catalog.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}
		defer db.Close()
		logger.Info("catalog opened", "dir", cfg.EffectiveDBDir())
	}

	fmt.Printf("Extracting %d containers into %s (concurrency: %d)...\n\n",
		c.Len(), outDir, cfg.Concurrency)

	startTime := time.Now()
	be := pipeline.NewBatchExtractor(p, outDir, batchOpts...)

	manifest := model.NewManifest(p.Name)
	manifest.Records = make([]model.ExtractionRecord, c.Len())

	var mu sync.Mutex
	err = be.ProcessBatchWithCallback(ctx, c.Files, func(record model.ExtractionRecord, index int) {
		mu.Lock()
		defer mu.Unlock()

		manifest.Records[index] = record
		fmt.Printf("[%d/%d] %s: %d images", index+1, c.Len(), record.Base, len(record.Outputs))
		if len(record.Errors) > 0 {
			fmt.Printf(", %d failed", len(record.Errors))
		}
		fmt.Println()

		if db != nil {
			if saveErr := db.SaveExtraction(ctx, p.Name, record); saveErr != nil {
				logger.Error("failed to save extraction record", "base", record.Base, "error", saveErr)
			}
		}
	})
	if err != nil {
		return err
	}

	if err := writeManifest(outDir, manifest); err != nil {
		return err
	}

	fmt.Printf("\nExtraction completed in %s\n", time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("Manifest: %s\n", filepath.Join(outDir, config.ManifestFileName))

	return nil
}

// writeManifest writes the extraction manifest into the output directory.
func writeManifest(outDir string, manifest *model.Manifest) error {
	path := filepath.Join(outDir, config.ManifestFileName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // Derived from user-provided output dir
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(manifest); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
