package stability

import (
	"github.com/nao1215/bmtscan/internal/corpus"
	"github.com/nao1215/bmtscan/internal/decode"
	"github.com/nao1215/bmtscan/internal/model"
)

// Analyze classifies every offset of every range across the corpus and
// groups the results into maximal stability runs keyed by range label.
//
// The effective end of each range is bounded by the shortest corpus member.
// A range with non-positive effective length maps to an empty slice so
// callers can report it as empty or out of bounds rather than fail. With
// fewer than two corpus members every in-bounds byte is trivially stable.
//
// Cost is O(files × range_length); this is the dominant cost for multi-file
// corpora and is accepted as the price of whole-range correctness.
func Analyze(c *corpus.Corpus, ranges []model.NamedRange) map[string][]model.StabilityRun {
	results := make(map[string][]model.StabilityRun, len(ranges))
	minLen := c.MinLen()

	for _, r := range ranges {
		results[r.Label] = analyzeRange(c, r, minLen)
	}

	return results
}

// analyzeRange classifies one range in a single left-to-right pass.
func analyzeRange(c *corpus.Corpus, r model.NamedRange, minLen int) []model.StabilityRun {
	length := r.EffectiveLength(minLen)
	if length <= 0 || r.Start < 0 || c.Len() == 0 {
		return []model.StabilityRun{}
	}

	// The first member is the reference; an offset is stable iff every other
	// member agrees with it there.
	ref := c.Files[0].Data
	mask := make([]bool, length)
	for i := range mask {
		off := r.Start + i
		stable := true
		for _, f := range c.Files[1:] {
			if f.Data[off] != ref[off] {
				stable = false
				break
			}
		}
		mask[i] = stable
	}

	spans := decode.Runs(mask)
	runs := make([]model.StabilityRun, len(spans))
	for i, s := range spans {
		runs[i] = model.StabilityRun{
			Stable: s.Value,
			Offset: r.Start + s.Start,
			Length: s.Length,
		}
	}

	return runs
}

// AttachPreviews copies up to maxBytes of reference bytes from the first
// corpus member onto each stable run, for presentation. Varying runs carry
// no preview: their reference bytes are capture-specific and would mislead.
func AttachPreviews(c *corpus.Corpus, runs []model.StabilityRun, maxBytes int) {
	if c.Len() == 0 || maxBytes <= 0 {
		return
	}
	ref := c.Files[0].Data

	for i, run := range runs {
		if !run.Stable {
			continue
		}
		n := run.Length
		if n > maxBytes {
			n = maxBytes
		}
		end := run.Offset + n
		if end > len(ref) {
			end = len(ref)
		}
		if run.Offset >= end {
			continue
		}
		preview := make([]byte, end-run.Offset)
		copy(preview, ref[run.Offset:end])
		runs[i].Preview = preview
	}
}
