package model

// StabilityRun is a maximal contiguous sub-range within a NamedRange whose
// bytes share one classification across a file corpus. Runs partition their
// range completely, appear in ascending offset order, and adjacent runs never
// share the Stable flag.
type StabilityRun struct {
	// Stable is true when every corpus member holds the identical byte value
	// at every offset of the run.
	Stable bool `json:"stable"`

	// Offset is the absolute byte offset of the first byte of the run.
	Offset int `json:"offset"`

	// Length is the number of bytes in the run. Always positive.
	Length int `json:"length"`

	// Preview holds up to a presentation-defined number of reference bytes
	// from the first corpus member, for stable runs only. It is attached by
	// stability.AttachPreviews and is nil otherwise.
	Preview []byte `json:"preview,omitempty"`
}

// End returns the exclusive end offset of the run.
func (r StabilityRun) End() int {
	return r.Offset + r.Length
}
