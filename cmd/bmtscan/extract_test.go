package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/bmtscan/internal/config"
	"github.com/nao1215/bmtscan/internal/model"
)

// TestNewExtractCmd tests the extract command creation.
func TestNewExtractCmd(t *testing.T) {
	t.Parallel()

	cmd := NewExtractCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "extract [file|directory]..." {
			t.Errorf("unexpected use: %q", cmd.Use)
		}
	})

	t.Run("has output-dir flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("output-dir")
		if flag == nil {
			t.Fatal("expected output-dir flag")
		}
		if flag.Shorthand != "o" {
			t.Errorf("expected shorthand 'o', got %q", flag.Shorthand)
		}
	})

	t.Run("has sidecar flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("sidecar")
		if flag == nil {
			t.Fatal("expected sidecar flag")
		}
		if flag.Shorthand != "s" {
			t.Errorf("expected shorthand 's', got %q", flag.Shorthand)
		}
	})

	t.Run("has concurrency flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("concurrency")
		if flag == nil {
			t.Fatal("expected concurrency flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
		if flag.DefValue != "4" {
			t.Errorf("expected default '4', got %q", flag.DefValue)
		}
	})

	t.Run("has save and db-dir flags", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("save") == nil {
			t.Error("expected save flag")
		}
		if cmd.Flags().Lookup("db-dir") == nil {
			t.Error("expected db-dir flag")
		}
	})
}

// TestBuildExtractConfig tests configuration building from flags.
func TestBuildExtractConfig(t *testing.T) {
	t.Run("builds config with default values", func(t *testing.T) {
		cmd := NewExtractCmd()
		cfg, err := buildExtractConfig(cmd, []string{"captures/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Concurrency != config.DefaultConcurrency {
			t.Errorf("expected concurrency %d, got %d", config.DefaultConcurrency, cfg.Concurrency)
		}
		if cfg.SaveToDB {
			t.Error("expected SaveToDB to be false by default")
		}
	})

	t.Run("builds config with custom concurrency", func(t *testing.T) {
		cmd := NewExtractCmd()
		_ = cmd.Flags().Set("concurrency", "8")
		cfg, err := buildExtractConfig(cmd, []string{"captures/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Concurrency != 8 {
			t.Errorf("expected concurrency 8, got %d", cfg.Concurrency)
		}
	})

	t.Run("builds config with sidecar path", func(t *testing.T) {
		cmd := NewExtractCmd()
		_ = cmd.Flags().Set("sidecar", "notes.tsv")
		cfg, err := buildExtractConfig(cmd, []string{"captures/"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.SidecarPath != "notes.tsv" {
			t.Errorf("expected sidecar 'notes.tsv', got %q", cfg.SidecarPath)
		}
	})
}

// TestWriteManifest tests manifest serialization.
func TestWriteManifest(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	manifest := model.NewManifest("classic")
	manifest.Records = append(manifest.Records, model.ExtractionRecord{
		Base:    "cap1",
		Source:  "captures/cap1.bmt",
		Outputs: []string{"extracted/cap1_thermal.bmp"},
	})

	if err := writeManifest(tmpDir, manifest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(tmpDir, config.ManifestFileName))
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}

	var decoded model.Manifest
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if decoded.Profile != "classic" {
		t.Errorf("expected profile 'classic', got %q", decoded.Profile)
	}
	if len(decoded.Records) != 1 || decoded.Records[0].Base != "cap1" {
		t.Errorf("unexpected records: %+v", decoded.Records)
	}
}

// TestRunExtractCmdInvalidConcurrency tests validation of the concurrency
// flag.
func TestRunExtractCmdInvalidConcurrency(t *testing.T) {
	t.Parallel()

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"extract", "-n", "0", "captures/"})

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error for zero concurrency")
	}
	if err != nil && !strings.Contains(err.Error(), "concurrency") {
		t.Errorf("expected concurrency error, got %v", err)
	}
}

// TestRunExtractEndToEnd extracts a tiny corpus under a user-defined
// profile: one 2x2 raw thermal image at the start of the file.
func TestRunExtractEndToEnd(t *testing.T) {
	// Two containers of 4 little-endian uint16 samples each
	dir := writeTestContainers(t,
		[]byte{0x00, 0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04},
		[]byte{0xff, 0x00, 0x00, 0x10, 0x00, 0x20, 0x00, 0x30},
	)

	configPath := filepath.Join(t.TempDir(), "profiles.yaml")
	content := []byte(`profiles:
  tiny:
    description: "single 2x2 thermal image"
    images:
      - label: thermal
        kind: raw
        render: thermal
        width: 2
        height: 2
        headerOffset: 0
        dataOffset: 0
`)
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		t.Fatalf("failed to write profile config: %v", err)
	}

	outDir := filepath.Join(t.TempDir(), "out")

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"extract", "-p", "tiny", "-c", configPath, "-o", outDir, dir})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	// Both rasters should have been written
	for _, base := range []string{"cap1", "cap2"} {
		path := filepath.Join(outDir, base+"_thermal.bmp")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("expected raster %s to be written", path)
		}
	}

	// The manifest should list both containers without errors
	manifestData, err := os.ReadFile(filepath.Join(outDir, config.ManifestFileName))
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}

	var manifest model.Manifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if manifest.Profile != "tiny" {
		t.Errorf("expected profile 'tiny', got %q", manifest.Profile)
	}
	if len(manifest.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(manifest.Records))
	}
	for _, record := range manifest.Records {
		if len(record.Errors) != 0 {
			t.Errorf("record %s has errors: %v", record.Base, record.Errors)
		}
		if len(record.Outputs) != 1 {
			t.Errorf("record %s has %d outputs, want 1", record.Base, len(record.Outputs))
		}
		if record.Digest == "" {
			t.Errorf("record %s is missing its digest", record.Base)
		}
	}
}

// TestRunExtractSpecFailuresAreRecorded extracts with a profile whose image
// table points past the end of the containers.
func TestRunExtractSpecFailuresAreRecorded(t *testing.T) {
	dir := writeTestContainers(t, []byte{0x00, 0x01, 0x00, 0x02})

	configPath := filepath.Join(t.TempDir(), "profiles.yaml")
	content := []byte(`profiles:
  toobig:
    images:
      - label: thermal
        kind: raw
        render: thermal
        width: 64
        height: 64
        headerOffset: 0
        dataOffset: 0
`)
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		t.Fatalf("failed to write profile config: %v", err)
	}

	outDir := filepath.Join(t.TempDir(), "out")

	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"extract", "-p", "toobig", "-c", configPath, "-o", outDir, dir})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	manifestData, err := os.ReadFile(filepath.Join(outDir, config.ManifestFileName))
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}

	var manifest model.Manifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if len(manifest.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(manifest.Records))
	}
	if len(manifest.Records[0].Errors) == 0 {
		t.Error("expected spec failure to be recorded")
	}
	if len(manifest.Records[0].Outputs) != 0 {
		t.Errorf("expected no outputs, got %v", manifest.Records[0].Outputs)
	}
}
