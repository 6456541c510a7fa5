package scale

import (
	"math"

	"github.com/nao1215/bmtscan/internal/decode"
	"github.com/nao1215/bmtscan/internal/model"
	"github.com/nao1215/bmtscan/internal/profile"
)

// kelvinOffset converts whole Kelvin to degrees Celsius under the u16k
// interpretation. The instrument stores some fields as unsigned Kelvin.
const kelvinOffset = 273

// singleReading is one decoded value plus the raw integer it came from for
// block-list filtering. Float interpretations carry no raw integer.
type singleReading struct {
	value   float64
	rawInt  int
	integer bool
	ok      bool
}

// readSingle decodes buf at off under one interpretation. A decode past the
// buffer bounds returns ok=false.
func readSingle(buf []byte, off int, interp model.Interpretation) singleReading {
	switch interp {
	case model.InterpF32LE:
		v, ok := decode.F32LE(buf, off)
		return singleReading{value: float64(v), ok: ok}
	case model.InterpF32BE:
		v, ok := decode.F32BE(buf, off)
		return singleReading{value: float64(v), ok: ok}
	case model.InterpF64LE:
		v, ok := decode.F64LE(buf, off)
		return singleReading{value: v, ok: ok}
	case model.InterpF64BE:
		v, ok := decode.F64BE(buf, off)
		return singleReading{value: v, ok: ok}
	case model.InterpI16Degrees:
		v, ok := decode.I16LE(buf, off)
		return singleReading{value: float64(v), rawInt: int(v), integer: true, ok: ok}
	case model.InterpI16Tenths:
		v, ok := decode.I16LE(buf, off)
		return singleReading{value: float64(v) * 0.1, rawInt: int(v), integer: true, ok: ok}
	case model.InterpU16Tenths:
		v, ok := decode.U16LE(buf, off)
		return singleReading{value: float64(v) * 0.1, rawInt: int(v), integer: true, ok: ok}
	case model.InterpU16Kelvin:
		v, ok := decode.U16LE(buf, off)
		return singleReading{value: float64(v) - kelvinOffset, rawInt: int(v), integer: true, ok: ok}
	default:
		return singleReading{}
	}
}

// singleInterps lists the interpretations attempted at every offset of a
// single-value scan.
var singleInterps = []model.Interpretation{
	model.InterpF32LE,
	model.InterpF32BE,
	model.InterpF64LE,
	model.InterpF64BE,
	model.InterpI16Degrees,
	model.InterpI16Tenths,
	model.InterpU16Tenths,
	model.InterpU16Kelvin,
}

// dedupeKey identifies a candidate for duplicate suppression: same offset,
// same interpretation, value equal to four decimals.
type dedupeKey struct {
	offset int
	interp model.Interpretation
	value  float64
}

// round4 rounds to four decimal places for dedupe comparison.
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// ScanSingles evaluates every offset of region under all single-value
// interpretations and returns the candidates whose decoded value is a valid
// number inside the profile's plausibility window. Integer interpretations
// additionally reject raw values on the profile's block-list, suppressing
// dimensions and counts masquerading as temperatures.
func ScanSingles(buf []byte, region model.NamedRange, p profile.Profile) []model.ScaleCandidate {
	end := region.EffectiveEnd(len(buf))
	if region.Start < 0 || region.Start >= end {
		return nil
	}

	seen := make(map[dedupeKey]bool)
	candidates := make([]model.ScaleCandidate, 0)

	for off := region.Start; off < end; off++ {
		for _, interp := range singleInterps {
			r := readSingle(buf, off, interp)
			if !r.ok || math.IsNaN(r.value) {
				continue
			}
			if !p.PlausibleWindow.Contains(r.value) {
				continue
			}
			if r.integer && p.ExcludesInteger(r.rawInt) {
				continue
			}

			key := dedupeKey{offset: off, interp: interp, value: round4(r.value)}
			if seen[key] {
				continue
			}
			seen[key] = true

			candidates = append(candidates, model.ScaleCandidate{
				Region:         region.Label,
				Offset:         off,
				Interpretation: interp,
				Value:          r.value,
			})
		}
	}

	return candidates
}
