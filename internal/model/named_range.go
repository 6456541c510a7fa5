package model

// OpenEnd marks a NamedRange that extends to the end of the shortest corpus
// member rather than to a fixed offset.
const OpenEnd = -1

// NamedRange is a labelled byte interval of interest within a container.
// End may be OpenEnd, in which case the range extends to the minimum length
// of the corpus under analysis.
type NamedRange struct {
	// Label identifies the range in reports and result maps.
	Label string `json:"label" yaml:"label"`

	// Start is the first byte offset of the range (inclusive).
	Start int `json:"start" yaml:"start"`

	// End is the byte offset one past the last byte of the range (exclusive),
	// or OpenEnd to extend the range to the end of the shortest corpus member.
	End int `json:"end" yaml:"end"`
}

// EffectiveEnd returns the exclusive end offset bounded by minLen, the length
// of the shortest corpus member. Open-ended ranges resolve to minLen.
func (r NamedRange) EffectiveEnd(minLen int) int {
	if r.End == OpenEnd || r.End > minLen {
		return minLen
	}
	return r.End
}

// EffectiveLength returns the number of bytes the range covers once bounded
// by minLen. A non-positive result means the range lies outside the corpus
// and yields no analysis output.
func (r NamedRange) EffectiveLength(minLen int) int {
	return r.EffectiveEnd(minLen) - r.Start
}
