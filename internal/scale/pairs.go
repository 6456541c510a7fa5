package scale

import (
	"math"
	"sort"

	"github.com/nao1215/bmtscan/internal/corpus"
	"github.com/nao1215/bmtscan/internal/model"
	"github.com/nao1215/bmtscan/internal/profile"
)

// pairInterp is one adjacent-value interpretation: the reading applied to
// both halves of a candidate (min, max) pair plus the byte stride between them.
type pairInterp struct {
	interp model.Interpretation
	stride int
}

// pairInterps lists the same-width adjacent encodings a thermal scale could
// plausibly be stored under.
var pairInterps = []pairInterp{
	{interp: model.InterpF32LE, stride: 4},
	{interp: model.InterpF32BE, stride: 4},
	{interp: model.InterpF64LE, stride: 8},
	{interp: model.InterpI16Degrees, stride: 2},
	{interp: model.InterpI16Tenths, stride: 2},
}

// ScanPairs evaluates every offset of region for two adjacent values of the
// same encoding forming a plausible (min, max) scale. A pair is accepted only
// when both values lie in the plausibility window, the first is strictly less
// than the second, the two are not both zero, and the spread is at least the
// profile's minimum — encoding the physical expectation that a scale's
// minimum is colder than its maximum and that a real scale spans a
// non-trivial range.
func ScanPairs(buf []byte, region model.NamedRange, p profile.Profile) []model.ScalePair {
	end := region.EffectiveEnd(len(buf))
	if region.Start < 0 || region.Start >= end {
		return nil
	}

	pairs := make([]model.ScalePair, 0)

	for off := region.Start; off < end; off++ {
		for _, pi := range pairInterps {
			low := readSingle(buf, off, pi.interp)
			high := readSingle(buf, off+pi.stride, pi.interp)
			if !low.ok || !high.ok {
				continue
			}
			if math.IsNaN(low.value) || math.IsNaN(high.value) {
				continue
			}
			if !p.PlausibleWindow.Contains(low.value) || !p.PlausibleWindow.Contains(high.value) {
				continue
			}
			if low.value >= high.value {
				continue
			}
			if low.value == 0 && high.value == 0 {
				continue
			}
			if high.value-low.value < p.PairSpread {
				continue
			}

			pairs = append(pairs, model.ScalePair{
				Region:         region.Label,
				Offset:         off,
				Interpretation: pi.interp,
				Low:            low.value,
				High:           high.value,
			})
		}
	}

	return pairs
}

// rankKey identifies one candidate scale field across a corpus.
type rankKey struct {
	region string
	offset int
	interp model.Interpretation
}

// rankAgg accumulates per-file observations of one candidate field.
type rankAgg struct {
	globalLow  float64
	globalHigh float64
	fileCount  int
}

// Rank scans every region of every corpus member for pair candidates, groups
// them by (region, offset, interpretation), and orders the surviving groups
// by closeness to the profile's target reference range.
//
// The intuition: observed over many captures, the true scale field should
// track the instrument's real operating range most closely, while byte
// coincidences drift. Grouped candidates are filtered to the profile's
// tighter rank window with a larger minimum spread before scoring, which
// discards accidental text and counter fields that squeak past the per-file
// filter.
func Rank(c *corpus.Corpus, regions []model.NamedRange, p profile.Profile) []model.RankedScalePair {
	groups := make(map[rankKey]*rankAgg)

	for _, f := range c.Files {
		for _, region := range regions {
			for _, pair := range ScanPairs(f.Data, region, p) {
				key := rankKey{region: pair.Region, offset: pair.Offset, interp: pair.Interpretation}
				agg, ok := groups[key]
				if !ok {
					groups[key] = &rankAgg{globalLow: pair.Low, globalHigh: pair.High, fileCount: 1}
					continue
				}
				if pair.Low < agg.globalLow {
					agg.globalLow = pair.Low
				}
				if pair.High > agg.globalHigh {
					agg.globalHigh = pair.High
				}
				agg.fileCount++
			}
		}
	}

	ranked := make([]model.RankedScalePair, 0, len(groups))
	for key, agg := range groups {
		if !p.RankWindow.Contains(agg.globalLow) || !p.RankWindow.Contains(agg.globalHigh) {
			continue
		}
		if agg.globalHigh-agg.globalLow < p.RankSpread {
			continue
		}

		distance := math.Abs(agg.globalLow-p.TargetRange.Low) + math.Abs(agg.globalHigh-p.TargetRange.High)
		ranked = append(ranked, model.RankedScalePair{
			Region:         key.region,
			Offset:         key.offset,
			Interpretation: key.interp,
			GlobalLow:      agg.globalLow,
			GlobalHigh:     agg.globalHigh,
			FileCount:      agg.fileCount,
			Distance:       distance,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Distance != ranked[j].Distance {
			return ranked[i].Distance < ranked[j].Distance
		}
		if ranked[i].Region != ranked[j].Region {
			return ranked[i].Region < ranked[j].Region
		}
		return ranked[i].Offset < ranked[j].Offset
	})

	return ranked
}
