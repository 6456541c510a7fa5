package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/bmtscan/internal/model"
)

// sampleReport builds a report exercising every section.
func sampleReport() *model.InspectionReport {
	r := model.NewInspectionReport("testdata/corpus", "classic")
	r.GeneratedAt = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	r.PerformedSteps = []string{"dimensions", "scale"}

	dim := model.DimensionCandidate{
		Offset: 18, Encoding: model.EncodingU32LE, Width: 320, Height: 240,
		Context: []byte{0x40, 0x01, 0x00, 0x00},
	}
	r.Files = append(r.Files, model.FileReport{
		Name:           "capture01.bmt",
		Size:           768297,
		Digest:         "abc123",
		Dimensions:     []model.DimensionCandidate{dim},
		HighConfidence: []model.DimensionCandidate{dim},
		Consistency: []model.ConsistencyFinding{
			{Width: 320, Height: 240, HeaderSize: 54, ExpectedEnd: 153654, InBounds: true,
				Trailing: []byte{0x42, 0x4d}, TrailingUTF16: "䵂"},
		},
		ScalePairs: []model.ScalePair{
			{Region: "thermal_trailer_a", Offset: 0x2586A, Interpretation: model.InterpF32LE, Low: -5.5, High: 42.0},
		},
	})

	r.Stability["thermal_header"] = []model.StabilityRun{
		{Stable: true, Offset: 0, Length: 2, Preview: []byte{'B', 0x00}},
		{Stable: false, Offset: 2, Length: 52},
	}
	r.Stability["tail"] = nil

	r.RankedPairs = []model.RankedScalePair{
		{Region: "thermal_trailer_a", Offset: 0x2586A, Interpretation: model.InterpF32LE,
			GlobalLow: -5.5, GlobalHigh: 42.0, FileCount: 3, Distance: 8.5},
	}
	return r
}

// TestEscapeBytes verifies printable passthrough and hex escaping.
func TestEscapeBytes(t *testing.T) {
	t.Parallel()

	got := EscapeBytes([]byte{'B', 'M', 0x00, 0x1f, '~', 0xff})
	want := `BM\x00\x1f~\xff`
	if got != want {
		t.Errorf("EscapeBytes() = %q, want %q", got, want)
	}
}

// TestHexSnippet verifies formatting and truncation.
func TestHexSnippet(t *testing.T) {
	t.Parallel()

	if got := HexSnippet([]byte{0x01, 0xab}, 8); got != "01 ab" {
		t.Errorf("HexSnippet() = %q, want %q", got, "01 ab")
	}
	if got := HexSnippet([]byte{1, 2, 3, 4}, 2); got != "01 02 .." {
		t.Errorf("truncated HexSnippet() = %q, want %q", got, "01 02 ..")
	}
}

// TestTextWriter verifies all sections appear with escaped previews.
func TestTextWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewTextWriter(&buf, WithVerbose(true))

	n, err := w.Write(sampleReport())
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != buf.Len() {
		t.Errorf("Write() reported %d bytes, buffer holds %d", n, buf.Len())
	}

	out := buf.String()
	for _, want := range []string{
		"BMTSCAN REPORT",
		"testdata/corpus",
		"capture01.bmt",
		"320x240",
		"RANGE STABILITY",
		`B\x00`, // stable preview, escaped
		"outside corpus bounds",
		"RANKED SCALE CANDIDATES",
		"thermal_trailer_a",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q", want)
		}
	}
}

// TestMarkdownWriter verifies the markdown render includes the key tables.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"# BMTScan Report",
		"## capture01.bmt",
		"## Range Stability",
		"## Ranked Scale Candidates",
		"0x0002586A",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

// TestJSONWriter verifies the JSON output round-trips.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded model.InspectionReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.CorpusLabel != "testdata/corpus" {
		t.Errorf("CorpusLabel = %q, want %q", decoded.CorpusLabel, "testdata/corpus")
	}
	if len(decoded.RankedPairs) != 1 {
		t.Errorf("RankedPairs count = %d, want 1", len(decoded.RankedPairs))
	}
}

// TestVersionedJSONWriter verifies the version wrapper.
func TestVersionedJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewVersionedJSONWriter(&buf, "v1.2.3").Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	var decoded VersionedReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Version != "v1.2.3" {
		t.Errorf("Version = %q, want v1.2.3", decoded.Version)
	}
	if decoded.Report == nil || decoded.Report.Profile != "classic" {
		t.Error("wrapped report missing or wrong profile")
	}
}

// TestMultiWriter verifies fan-out to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewTextWriter(&text), NewJSONWriter(&js))

	if _, err := mw.Write(sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("MultiWriter left a destination empty")
	}
}
