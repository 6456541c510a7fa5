package scale

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/nao1215/bmtscan/internal/corpus"
	"github.com/nao1215/bmtscan/internal/model"
	"github.com/nao1215/bmtscan/internal/profile"
)

// putF32LE writes a little-endian float32 at off.
func putF32LE(buf []byte, off int, v float32) {
	binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
}

// TestScanSinglesFloat verifies that an in-window float32 is reported and an
// out-of-window one is silently excluded.
func TestScanSinglesFloat(t *testing.T) {
	t.Parallel()

	p := profile.Classic()
	buf := make([]byte, 64)
	putF32LE(buf, 8, 21.5)
	putF32LE(buf, 20, 5000.0) // outside [-50, 120]

	region := model.NamedRange{Label: "r", Start: 0, End: 64}
	candidates := ScanSingles(buf, region, p)

	var found bool
	for _, c := range candidates {
		if c.Offset == 8 && c.Interpretation == model.InterpF32LE {
			found = true
			if c.Value != 21.5 {
				t.Errorf("Value = %v, want 21.5", c.Value)
			}
			if c.Region != "r" {
				t.Errorf("Region = %q, want r", c.Region)
			}
		}
		if c.Offset == 20 && c.Interpretation == model.InterpF32LE {
			t.Error("out-of-window float reported")
		}
	}
	if !found {
		t.Error("in-window float32 at offset 8 not reported")
	}
}

// TestScanSinglesIntegerBlockList verifies that raw integers on the
// block-list are rejected under integer interpretations.
func TestScanSinglesIntegerBlockList(t *testing.T) {
	t.Parallel()

	p := profile.Classic()
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint16(buf[0:], 320) // known width, blocked
	binary.LittleEndian.PutUint16(buf[4:], 42)  // plausible temperature

	region := model.NamedRange{Label: "r", Start: 0, End: 8}
	candidates := ScanSingles(buf, region, p)

	for _, c := range candidates {
		if c.Offset == 0 && c.Interpretation == model.InterpI16Degrees {
			t.Errorf("blocked raw value 320 reported as %v", c.Value)
		}
	}

	var found bool
	for _, c := range candidates {
		if c.Offset == 4 && c.Interpretation == model.InterpI16Degrees && c.Value == 42 {
			found = true
		}
	}
	if !found {
		t.Error("plausible i16 value 42 not reported")
	}
}

// TestScanSinglesNaNExcluded verifies NaN decodes never surface.
func TestScanSinglesNaNExcluded(t *testing.T) {
	t.Parallel()

	p := profile.Classic()
	buf := []byte{0x00, 0x00, 0xC0, 0x7F} // float32 quiet NaN LE
	region := model.NamedRange{Label: "r", Start: 0, End: 4}

	for _, c := range ScanSingles(buf, region, p) {
		if c.Interpretation == model.InterpF32LE && c.Offset == 0 {
			t.Errorf("NaN reported as candidate %+v", c)
		}
	}
}

// TestScanSinglesOutOfBoundsRegion verifies a region past the buffer yields
// no candidates and no panic.
func TestScanSinglesOutOfBoundsRegion(t *testing.T) {
	t.Parallel()

	p := profile.Classic()
	region := model.NamedRange{Label: "r", Start: 100, End: 200}
	if got := ScanSingles(make([]byte, 10), region, p); len(got) != 0 {
		t.Errorf("got %d candidates for out-of-bounds region, want 0", len(got))
	}
}

// TestScanPairsOrdering verifies the pair ordering rule: (-6, 50) is
// reported as a pair while the reversed (50, -6) is not.
func TestScanPairsOrdering(t *testing.T) {
	t.Parallel()

	p := profile.Classic()
	region := model.NamedRange{Label: "r", Start: 0, End: 16}

	t.Run("ascending pair reported", func(t *testing.T) {
		t.Parallel()
		buf := make([]byte, 16)
		putF32LE(buf, 0, -6.0)
		putF32LE(buf, 4, 50.0)

		pairs := ScanPairs(buf, region, p)
		var found bool
		for _, pr := range pairs {
			if pr.Offset == 0 && pr.Interpretation == model.InterpF32LE {
				found = true
				if pr.Low != -6.0 || pr.High != 50.0 {
					t.Errorf("pair = (%v, %v), want (-6, 50)", pr.Low, pr.High)
				}
			}
		}
		if !found {
			t.Error("ascending f32le pair not reported")
		}
	})

	t.Run("descending pair rejected", func(t *testing.T) {
		t.Parallel()
		buf := make([]byte, 16)
		putF32LE(buf, 0, 50.0)
		putF32LE(buf, 4, -6.0)

		for _, pr := range ScanPairs(buf, region, p) {
			if pr.Offset == 0 && pr.Interpretation == model.InterpF32LE {
				t.Errorf("descending pair reported: %+v", pr)
			}
		}
	})
}

// TestScanPairsSpread verifies the minimum spread rejects near-equal values.
func TestScanPairsSpread(t *testing.T) {
	t.Parallel()

	p := profile.Classic() // PairSpread 0.5
	region := model.NamedRange{Label: "r", Start: 0, End: 16}

	buf := make([]byte, 16)
	putF32LE(buf, 0, 20.0)
	putF32LE(buf, 4, 20.2)

	for _, pr := range ScanPairs(buf, region, p) {
		if pr.Offset == 0 && pr.Interpretation == model.InterpF32LE {
			t.Errorf("pair with spread 0.2 reported: %+v", pr)
		}
	}
}

// TestRank verifies cross-corpus grouping, windowing, and distance ordering.
func TestRank(t *testing.T) {
	t.Parallel()

	p := profile.Classic() // rank window [-10, 60], spread >= 10, target (-6, 50)
	region := model.NamedRange{Label: "r", Start: 0, End: 32}

	// Candidate A at offset 0 tracks the target closely in both files.
	// Candidate B at offset 16 is plausible but further from the target.
	mkFile := func(aLow, aHigh, bLow, bHigh float32) []byte {
		buf := make([]byte, 32)
		putF32LE(buf, 0, aLow)
		putF32LE(buf, 4, aHigh)
		putF32LE(buf, 16, bLow)
		putF32LE(buf, 20, bHigh)
		return buf
	}

	c := &corpus.Corpus{Files: []corpus.File{
		{Name: "a.bmt", Data: mkFile(-5, 48, 5, 30)},
		{Name: "b.bmt", Data: mkFile(-6, 50, 8, 25)},
	}}

	ranked := Rank(c, []model.NamedRange{region}, p)
	if len(ranked) == 0 {
		t.Fatal("expected ranked candidates")
	}

	best := ranked[0]
	if best.Offset != 0 {
		t.Errorf("best candidate offset = %d, want 0", best.Offset)
	}
	if best.GlobalLow != -6 || best.GlobalHigh != 50 {
		t.Errorf("global range = (%v, %v), want corpus-wide (-6, 50)", best.GlobalLow, best.GlobalHigh)
	}
	if best.Distance != 0 {
		t.Errorf("Distance = %v, want 0 for exact target match", best.Distance)
	}
	if best.FileCount != 2 {
		t.Errorf("FileCount = %d, want 2", best.FileCount)
	}

	for i := 1; i < len(ranked); i++ {
		if ranked[i].Distance < ranked[i-1].Distance {
			t.Errorf("ranking not ordered by distance at %d: %v < %v", i, ranked[i].Distance, ranked[i-1].Distance)
		}
	}
}

// TestRankWindowFilter verifies candidates outside the tighter rank window
// are dropped even though they passed the per-file scan.
func TestRankWindowFilter(t *testing.T) {
	t.Parallel()

	p := profile.Classic()
	region := model.NamedRange{Label: "r", Start: 0, End: 8}

	// (-40, 100) passes the per-file window [-50, 120] but not [-10, 60].
	buf := make([]byte, 8)
	putF32LE(buf, 0, -40.0)
	putF32LE(buf, 4, 100.0)

	c := &corpus.Corpus{Files: []corpus.File{{Name: "a.bmt", Data: buf}}}
	for _, r := range Rank(c, []model.NamedRange{region}, p) {
		if r.Offset == 0 && r.Interpretation == model.InterpF32LE {
			t.Errorf("candidate outside rank window survived: %+v", r)
		}
	}
}
