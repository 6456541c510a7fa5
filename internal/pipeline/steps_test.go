package pipeline

import (
	"context"
	"encoding/binary"
	"math"
	"testing"

	"github.com/nao1215/bmtscan/internal/corpus"
	"github.com/nao1215/bmtscan/internal/model"
	"github.com/nao1215/bmtscan/internal/profile"
)

// corpusOf builds an in-memory corpus from raw buffers.
func corpusOf(bufs ...[]byte) *corpus.Corpus {
	c := &corpus.Corpus{}
	for i, b := range bufs {
		c.Files = append(c.Files, corpus.File{
			Name:   string(rune('a'+i)) + ".bmt",
			Data:   b,
			Digest: "digest",
		})
	}
	return c
}

// TestStabilityStep verifies runs land in the report keyed by range label.
func TestStabilityStep(t *testing.T) {
	t.Parallel()

	p := profile.Classic()
	p.StabilityRanges = []model.NamedRange{{Label: "hdr", Start: 0, End: 8}}

	insp := NewInspection(corpusOf(
		[]byte("AAAABBBB"),
		[]byte("AAAAXXBB"),
	), p, "test")

	step := NewStabilityStep(WithStabilityLogger(quietLogger()))
	if err := step.Do(context.Background(), insp); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	runs, ok := insp.Report.Stability["hdr"]
	if !ok {
		t.Fatal("hdr range missing from report")
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3 (stable, varying, stable)", len(runs))
	}
	if !runs[0].Stable || runs[0].Length != 4 {
		t.Errorf("runs[0] = %+v, want stable length 4", runs[0])
	}
	if runs[1].Stable || runs[1].Offset != 4 || runs[1].Length != 2 {
		t.Errorf("runs[1] = %+v, want varying [4,6)", runs[1])
	}
	if len(runs[0].Preview) == 0 {
		t.Error("stable run missing preview")
	}
	if len(runs[1].Preview) != 0 {
		t.Error("varying run carries a preview")
	}
}

// TestDimensionStep verifies signature hits, the high-confidence subset, and
// the header dump reach the per-file report.
func TestDimensionStep(t *testing.T) {
	t.Parallel()

	// Marker constants 36 and 40 immediately before a u32-LE 320x240 pair.
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:], 36)
	binary.LittleEndian.PutUint32(buf[4:], 40)
	binary.LittleEndian.PutUint32(buf[8:], 320)
	binary.LittleEndian.PutUint32(buf[12:], 240)

	insp := NewInspection(corpusOf(buf), profile.Classic(), "test")

	step := NewDimensionStep(WithDimensionLogger(quietLogger()))
	if err := step.Do(context.Background(), insp); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	f := insp.Report.Files[0]
	if len(f.Dimensions) == 0 {
		t.Fatal("no dimension hits recorded")
	}
	found := false
	for _, d := range f.Dimensions {
		if d.Offset == 8 && d.Encoding == model.EncodingU32LE {
			found = true
		}
	}
	if !found {
		t.Errorf("u32le hit at offset 8 missing: %+v", f.Dimensions)
	}

	if len(f.HighConfidence) != 1 || f.HighConfidence[0].Offset != 8 {
		t.Errorf("HighConfidence = %+v, want single hit at 8", f.HighConfidence)
	}
	if f.HeaderDump == "" {
		t.Error("header dump missing")
	}
	// One consistency finding per known resolution; all past EOF here.
	if len(f.Consistency) != len(profile.Classic().KnownResolutions) {
		t.Errorf("Consistency count = %d", len(f.Consistency))
	}
}

// putF32LE writes a little-endian float32 at off.
func putF32LE(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

// TestScaleStep verifies pair candidates and corpus ranking reach the report.
func TestScaleStep(t *testing.T) {
	t.Parallel()

	p := profile.Classic()
	p.ScaleRegions = []model.NamedRange{{Label: "r", Start: 16, End: 17}}

	mkBuf := func(low, high float32) []byte {
		buf := make([]byte, 32)
		putF32LE(buf, 16, low)
		putF32LE(buf, 20, high)
		return buf
	}

	insp := NewInspection(corpusOf(
		mkBuf(10, 30),
		mkBuf(8, 32),
	), p, "test")

	step := NewScaleStep(WithScaleLogger(quietLogger()), WithIncludeSingles(true))
	if err := step.Do(context.Background(), insp); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	f := insp.Report.Files[0]
	foundPair := false
	for _, pair := range f.ScalePairs {
		if pair.Interpretation == model.InterpF32LE && pair.Low == 10 && pair.High == 30 {
			foundPair = true
		}
	}
	if !foundPair {
		t.Errorf("f32le pair (10, 30) missing: %+v", f.ScalePairs)
	}
	if len(f.ScaleSingles) == 0 {
		t.Error("singles requested but none recorded")
	}

	if len(insp.Report.RankedPairs) == 0 {
		t.Fatal("no ranked pairs")
	}
	best := insp.Report.RankedPairs[0]
	if best.GlobalLow != 8 || best.GlobalHigh != 32 {
		t.Errorf("best global range = [%v, %v], want [8, 32]", best.GlobalLow, best.GlobalHigh)
	}
	if best.FileCount != 2 {
		t.Errorf("FileCount = %d, want 2", best.FileCount)
	}
}

// TestScaleStepNoRegions verifies the step is a no-op without regions.
func TestScaleStepNoRegions(t *testing.T) {
	t.Parallel()

	p := profile.Embedded() // no scale regions configured
	insp := NewInspection(corpusOf(make([]byte, 64)), p, "test")

	step := NewScaleStep(WithScaleLogger(quietLogger()))
	if err := step.Do(context.Background(), insp); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if len(insp.Report.RankedPairs) != 0 {
		t.Error("ranked pairs recorded without regions")
	}
}
