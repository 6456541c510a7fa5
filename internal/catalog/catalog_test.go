package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nao1215/bmtscan/internal/model"
)

// openTestCatalog opens a fresh catalog in a temp directory.
func openTestCatalog(t *testing.T) *Catalog {
	t.Helper()

	c, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})
	return c
}

// TestOpenCreatesDatabase verifies the database file is created.
func TestOpenCreatesDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c, err := Open(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

// TestOpenReadOnlyMissing verifies read-only open fails without a database.
func TestOpenReadOnlyMissing(t *testing.T) {
	t.Parallel()

	opts := Options{CreateIfNotExists: false}
	if _, err := Open(t.TempDir(), opts); err == nil {
		t.Error("expected error opening missing catalog read-only")
	}
}

// TestSaveAndListInspections verifies the inspection round trip.
func TestSaveAndListInspections(t *testing.T) {
	t.Parallel()

	c := openTestCatalog(t)
	ctx := context.Background()

	first := model.NewInspectionReport("corpus-a", "classic")
	first.Files = append(first.Files, model.FileReport{Name: "x.bmt", Size: 10, Digest: "d"})
	if err := c.SaveInspection(ctx, first); err != nil {
		t.Fatalf("SaveInspection() error = %v", err)
	}

	second := model.NewInspectionReport("corpus-b", "embedded")
	if err := c.SaveInspection(ctx, second); err != nil {
		t.Fatalf("SaveInspection() error = %v", err)
	}

	all, err := c.ListInspections(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListInspections() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d inspections, want 2", len(all))
	}
	// Newest first.
	if all[0].CorpusLabel != "corpus-b" {
		t.Errorf("first listed = %s, want corpus-b", all[0].CorpusLabel)
	}
	if all[1].FileCount != 1 {
		t.Errorf("corpus-a FileCount = %d, want 1", all[1].FileCount)
	}

	filtered, err := c.ListInspections(ctx, "corpus-a", 0)
	if err != nil {
		t.Fatalf("ListInspections(corpus-a) error = %v", err)
	}
	if len(filtered) != 1 || filtered[0].Profile != "classic" {
		t.Errorf("filtered = %+v", filtered)
	}

	limited, err := c.ListInspections(ctx, "", 1)
	if err != nil {
		t.Fatalf("ListInspections(limit 1) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: got %d rows", len(limited))
	}
}

// TestGetInspection verifies full report retrieval by ID and latest-by-corpus.
func TestGetInspection(t *testing.T) {
	t.Parallel()

	c := openTestCatalog(t)
	ctx := context.Background()

	report := model.NewInspectionReport("corpus", "classic")
	report.RankedPairs = []model.RankedScalePair{
		{Region: "r", Offset: 7, Interpretation: model.InterpF32LE, GlobalLow: -5, GlobalHigh: 40, FileCount: 2, Distance: 11},
	}
	if err := c.SaveInspection(ctx, report); err != nil {
		t.Fatalf("SaveInspection() error = %v", err)
	}

	latest, err := c.GetLatestInspection(ctx, "corpus")
	if err != nil {
		t.Fatalf("GetLatestInspection() error = %v", err)
	}
	if latest == nil || len(latest.RankedPairs) != 1 || latest.RankedPairs[0].Offset != 7 {
		t.Errorf("latest = %+v", latest)
	}

	metas, err := c.ListInspections(ctx, "corpus", 1)
	if err != nil || len(metas) != 1 {
		t.Fatalf("ListInspections() = %v, %v", metas, err)
	}
	byID, err := c.GetInspectionByID(ctx, metas[0].ID)
	if err != nil {
		t.Fatalf("GetInspectionByID() error = %v", err)
	}
	if byID == nil || byID.CorpusLabel != "corpus" {
		t.Errorf("byID = %+v", byID)
	}

	missing, err := c.GetInspectionByID(ctx, 9999)
	if err != nil {
		t.Fatalf("GetInspectionByID(missing) error = %v", err)
	}
	if missing != nil {
		t.Error("missing ID returned a report")
	}
}

// TestSaveAndListExtractions verifies the extraction round trip.
func TestSaveAndListExtractions(t *testing.T) {
	t.Parallel()

	c := openTestCatalog(t)
	ctx := context.Background()

	rec1 := model.ExtractionRecord{
		Base:    "cap1",
		Source:  "in/cap1.bmt",
		Digest:  "d1",
		Outputs: []string{"out/cap1_thermal.bmp", "out/cap1_visual.bmp"},
	}
	rec2 := model.ExtractionRecord{
		Base:    "cap2",
		Source:  "in/cap2.bmt",
		Digest:  "d2",
		Outputs: []string{},
		Errors:  []string{"thermal: pixel block extends past buffer"},
	}

	if err := c.SaveExtraction(ctx, "classic", rec1); err != nil {
		t.Fatalf("SaveExtraction() error = %v", err)
	}
	if err := c.SaveExtraction(ctx, "classic", rec2); err != nil {
		t.Fatalf("SaveExtraction() error = %v", err)
	}

	all, err := c.ListExtractions(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListExtractions() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d rows, want 2", len(all))
	}
	if all[0].Record.Base != "cap2" {
		t.Errorf("first listed = %s, want cap2 (newest first)", all[0].Record.Base)
	}
	if len(all[0].Record.Errors) != 1 {
		t.Errorf("cap2 errors = %v", all[0].Record.Errors)
	}
	if all[0].Profile != "classic" {
		t.Errorf("Profile = %q", all[0].Profile)
	}

	filtered, err := c.ListExtractions(ctx, "cap1", 0)
	if err != nil {
		t.Fatalf("ListExtractions(cap1) error = %v", err)
	}
	if len(filtered) != 1 || len(filtered[0].Record.Outputs) != 2 {
		t.Errorf("filtered = %+v", filtered)
	}
}

// TestReopenPreservesData verifies data survives close and reopen.
func TestReopenPreservesData(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	c, err := Open(dir, DefaultOptions())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := c.SaveInspection(ctx, model.NewInspectionReport("corpus", "classic")); err != nil {
		t.Fatalf("SaveInspection() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() {
		if err := reopened.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	}()

	rows, err := reopened.ListInspections(ctx, "", 0)
	if err != nil {
		t.Fatalf("ListInspections() error = %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d inspections after reopen, want 1", len(rows))
	}
}

// TestParseTimestamp verifies the SQLite timestamp format fallbacks.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  time.Time
	}{
		{"2026-08-01 12:30:45", time.Date(2026, 8, 1, 12, 30, 45, 0, time.UTC)},
		{"2026-08-01T12:30:45Z", time.Date(2026, 8, 1, 12, 30, 45, 0, time.UTC)},
		{"not a timestamp", time.Time{}},
	}

	for _, tt := range tests {
		if got := parseTimestamp(tt.input); !got.Equal(tt.want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
