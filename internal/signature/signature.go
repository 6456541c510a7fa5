package signature

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/nao1215/bmtscan/internal/model"
	"github.com/nao1215/bmtscan/internal/profile"
)

// encodings lists the byte encodings searched for each known resolution,
// widest first.
var encodings = []model.Encoding{
	model.EncodingU32LE,
	model.EncodingU32BE,
	model.EncodingU16LE,
	model.EncodingU16BE,
}

// serializePair returns the byte pattern of (w, h) under the given encoding.
func serializePair(enc model.Encoding, w, h int) []byte {
	switch enc {
	case model.EncodingU32LE:
		pattern := make([]byte, 8)
		binary.LittleEndian.PutUint32(pattern[0:], uint32(w)) //nolint:gosec // Known small resolutions
		binary.LittleEndian.PutUint32(pattern[4:], uint32(h)) //nolint:gosec // Known small resolutions
		return pattern
	case model.EncodingU32BE:
		pattern := make([]byte, 8)
		binary.BigEndian.PutUint32(pattern[0:], uint32(w)) //nolint:gosec // Known small resolutions
		binary.BigEndian.PutUint32(pattern[4:], uint32(h)) //nolint:gosec // Known small resolutions
		return pattern
	case model.EncodingU16LE:
		pattern := make([]byte, 4)
		binary.LittleEndian.PutUint16(pattern[0:], uint16(w)) //nolint:gosec // Known small resolutions
		binary.LittleEndian.PutUint16(pattern[2:], uint16(h)) //nolint:gosec // Known small resolutions
		return pattern
	case model.EncodingU16BE:
		pattern := make([]byte, 4)
		binary.BigEndian.PutUint16(pattern[0:], uint16(w)) //nolint:gosec // Known small resolutions
		binary.BigEndian.PutUint16(pattern[2:], uint16(h)) //nolint:gosec // Known small resolutions
		return pattern
	default:
		return nil
	}
}

// Scan searches buf for every encoding of every known resolution and returns
// all occurrences with their surrounding context bytes.
//
// The search restarts one byte after each match start, not after the match
// end, so occurrences overlapping an adjacent encoding's pattern are
// preserved. Results are unordered by construction; use SortByOffset when a
// stable order is needed.
func Scan(buf []byte, pairs []profile.Resolution, contextRadius int) []model.DimensionCandidate {
	candidates := make([]model.DimensionCandidate, 0)

	for _, pair := range pairs {
		for _, enc := range encodings {
			pattern := serializePair(enc, pair.Width, pair.Height)
			pos := 0
			for {
				idx := bytes.Index(buf[pos:], pattern)
				if idx < 0 {
					break
				}
				off := pos + idx
				candidates = append(candidates, model.DimensionCandidate{
					Offset:   off,
					Encoding: enc,
					Width:    pair.Width,
					Height:   pair.Height,
					Context:  contextWindow(buf, off, len(pattern), contextRadius),
				})
				pos = off + 1
			}
		}
	}

	return candidates
}

// contextWindow copies radius bytes on each side of the match, clamped to
// the buffer bounds.
func contextWindow(buf []byte, off, matchLen, radius int) []byte {
	start := off - radius
	if start < 0 {
		start = 0
	}
	end := off + matchLen + radius
	if end > len(buf) {
		end = len(buf)
	}
	window := make([]byte, end-start)
	copy(window, buf[start:end])
	return window
}

// SortByOffset orders candidates by offset, then encoding for determinism.
func SortByOffset(candidates []model.DimensionCandidate) {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Offset != candidates[j].Offset {
			return candidates[i].Offset < candidates[j].Offset
		}
		return candidates[i].Encoding < candidates[j].Encoding
	})
}

// HighConfidence filters candidates to u32-LE hits whose immediately
// preceding 8 bytes decode as the two marker constants.
//
// The markers were observed in validated sample captures; they are a
// corpus-derived heuristic and carry no structural guarantee. Callers must
// present the subset as "likely", never as authoritative.
func HighConfidence(buf []byte, candidates []model.DimensionCandidate, markers []uint32) []model.DimensionCandidate {
	if len(markers) != 2 {
		return nil
	}

	kept := make([]model.DimensionCandidate, 0)
	for _, c := range candidates {
		if c.Encoding != model.EncodingU32LE {
			continue
		}
		if c.Offset < 8 {
			continue
		}
		m0 := binary.LittleEndian.Uint32(buf[c.Offset-8:])
		m1 := binary.LittleEndian.Uint32(buf[c.Offset-4:])
		if m0 == markers[0] && m1 == markers[1] {
			kept = append(kept, c)
		}
	}
	return kept
}
